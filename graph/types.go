// Package graph contains the snapshot types handed to the layout and interaction engine.
package graph

import (
	"time"

	"github.com/samber/lo"
)

// ClusterID identifies a cluster of semantically similar files.
type ClusterID int

// Node represents a file in the similarity graph.
type Node struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	ClusterID ClusterID `json:"cluster_id"`
	Keywords  []string  `json:"keywords,omitempty"`
	SizeKB    float64   `json:"size_kb"`
	Modified  time.Time `json:"modified"`

	// Optional seed position supplied by the data source.
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// HasSeed reports whether the node carries a seed position.
func (n Node) HasSeed() bool {
	return n.X != nil && n.Y != nil
}

// Edge represents a similarity link between two nodes.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Cluster groups nodes for colouring and halos.
type Cluster struct {
	ID    ClusterID `json:"id"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}

// Snapshot is the full node/edge/cluster set at one point in time.
// A snapshot is replaced wholesale, never edited in place.
type Snapshot struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Clusters []Cluster `json:"clusters"`

	nodeIndex    map[string]int
	clusterIndex map[ClusterID]int
}

// Index rebuilds the id lookups. It must be called after the slices are modified.
// When ids repeat, the first occurrence wins.
func (s *Snapshot) Index() {
	s.nodeIndex = make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if _, dup := s.nodeIndex[n.ID]; !dup {
			s.nodeIndex[n.ID] = i
		}
	}
	s.clusterIndex = make(map[ClusterID]int, len(s.Clusters))
	for i, c := range s.Clusters {
		if _, dup := s.clusterIndex[c.ID]; !dup {
			s.clusterIndex[c.ID] = i
		}
	}
}

func (s *Snapshot) ensureIndex() {
	if s.nodeIndex == nil || s.clusterIndex == nil {
		s.Index()
	}
}

// Node looks up a node by id.
func (s *Snapshot) Node(id string) (Node, bool) {
	s.ensureIndex()
	i, ok := s.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return s.Nodes[i], true
}

// HasNode reports whether a node with the given id exists.
func (s *Snapshot) HasNode(id string) bool {
	s.ensureIndex()
	_, ok := s.nodeIndex[id]
	return ok
}

// Cluster looks up a cluster by id.
func (s *Snapshot) Cluster(id ClusterID) (Cluster, bool) {
	s.ensureIndex()
	i, ok := s.clusterIndex[id]
	if !ok {
		return Cluster{}, false
	}
	return s.Clusters[i], true
}

// ClusterOf returns the cluster a node belongs to, if it resolves.
func (s *Snapshot) ClusterOf(n Node) (Cluster, bool) {
	return s.Cluster(n.ClusterID)
}

// Members groups node ids by cluster. Nodes whose cluster does not resolve are omitted.
func (s *Snapshot) Members() map[ClusterID][]string {
	s.ensureIndex()
	resolved := lo.Filter(s.Nodes, func(n Node, _ int) bool {
		_, ok := s.clusterIndex[n.ClusterID]
		return ok
	})
	grouped := lo.GroupBy(resolved, func(n Node) ClusterID { return n.ClusterID })
	return lo.MapValues(grouped, func(nodes []Node, _ ClusterID) []string {
		return lo.Map(nodes, func(n Node, _ int) string { return n.ID })
	})
}

// Empty reports whether the snapshot has no nodes.
func (s *Snapshot) Empty() bool {
	return len(s.Nodes) == 0
}
