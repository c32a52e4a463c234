// Package hull derives the padded convex-hull halos drawn around clusters.
package hull

import (
	"slices"

	"semgraph/geometry"
	"semgraph/graph"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPadding is the distance each hull vertex is pushed away from the centroid.
const DefaultPadding = 30

// MinMembers is the smallest cluster that gets a halo.
const MinMembers = 3

// Positions supplies live node positions.
type Positions interface {
	Position(id string) (r2.Vec, bool)
}

// Halo is a closed polygon drawn behind a cluster's members.
type Halo struct {
	ClusterID graph.ClusterID
	Color     string
	Points    []r2.Vec
}

// Config holds halo settings.
type Config struct {
	Padding float64 `toml:"padding"`
}

// DefaultConfig returns the stock halo settings.
func DefaultConfig() Config {
	return Config{Padding: DefaultPadding}
}

// Compute returns one halo per cluster with at least MinMembers positioned members whose
// points are not degenerate. Halos are ordered by cluster id. Nodes whose cluster does
// not resolve never contribute.
func Compute(s *graph.Snapshot, pos Positions, padding float64) []Halo {
	if s == nil || pos == nil {
		return nil
	}
	members := s.Members()
	ids := lo.Keys(members)
	slices.Sort(ids)

	var halos []Halo
	for _, id := range ids {
		nodes := members[id]
		if len(nodes) < MinMembers {
			continue
		}
		points := make([]r2.Vec, 0, len(nodes))
		for _, n := range nodes {
			if p, ok := pos.Position(n); ok {
				points = append(points, p)
			}
		}
		hull := geometry.ConvexHull(points)
		if hull == nil {
			continue
		}
		c, _ := s.Cluster(id)
		halos = append(halos, Halo{
			ClusterID: id,
			Color:     c.Color,
			Points:    geometry.Expand(hull, padding),
		})
	}
	return halos
}
