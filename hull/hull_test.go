package hull

import (
	"math"
	"testing"

	"semgraph/geometry"
	"semgraph/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

type positions map[string]r2.Vec

func (p positions) Position(id string) (r2.Vec, bool) {
	v, ok := p[id]
	return v, ok
}

func snapshot(nodes ...graph.Node) *graph.Snapshot {
	s := &graph.Snapshot{
		Nodes: nodes,
		Clusters: []graph.Cluster{
			{ID: 0, Label: "zero", Color: "#ff0000"},
			{ID: 1, Label: "one", Color: "#00ff00"},
		},
	}
	s.Index()
	return s
}

func TestComputeSkipsSmallClusters(t *testing.T) {
	// A and C share cluster 0, B is alone in cluster 1.
	s := snapshot(
		graph.Node{ID: "A", ClusterID: 0},
		graph.Node{ID: "B", ClusterID: 1},
		graph.Node{ID: "C", ClusterID: 0},
	)
	pos := positions{"A": {X: 0, Y: 0}, "B": {X: 50, Y: 50}, "C": {X: 100, Y: 0}}
	assert.Empty(t, Compute(s, pos, DefaultPadding))
}

func TestCompute(t *testing.T) {
	s := snapshot(
		graph.Node{ID: "a", ClusterID: 1},
		graph.Node{ID: "b", ClusterID: 1},
		graph.Node{ID: "c", ClusterID: 1},
		graph.Node{ID: "d", ClusterID: 1},
		graph.Node{ID: "e", ClusterID: 0},
		graph.Node{ID: "f", ClusterID: 0},
		graph.Node{ID: "g", ClusterID: 0},
		graph.Node{ID: "orphan", ClusterID: 7},
	)
	pos := positions{
		"a": {X: -10, Y: -10}, "b": {X: 10, Y: -10}, "c": {X: 10, Y: 10}, "d": {X: 0, Y: 0},
		"e": {X: 100, Y: 0}, "f": {X: 140, Y: 0}, "g": {X: 120, Y: 40},
		"orphan": {X: 500, Y: 500},
	}

	halos := Compute(s, pos, DefaultPadding)
	require.Len(t, halos, 2)
	assert.Equal(t, graph.ClusterID(0), halos[0].ClusterID, "halos are ordered by cluster")
	assert.Equal(t, "#ff0000", halos[0].Color)
	assert.Equal(t, graph.ClusterID(1), halos[1].ClusterID)

	one := halos[1]
	require.Len(t, one.Points, 3, "interior member d is not a hull vertex")
	hull := []r2.Vec{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}}
	c := geometry.Centroid(hull)
	for _, p := range one.Points {
		matched := false
		for _, v := range hull {
			dp, dv := r2.Sub(p, c), r2.Sub(v, c)
			if math.Abs(r2.Cross(dp, dv)) < 1e-9 && math.Abs(r2.Norm(dp)-r2.Norm(dv)-DefaultPadding) < 1e-9 {
				matched = true
			}
		}
		assert.True(t, matched, "vertex %v is not a padded hull vertex", p)
	}

	for _, h := range halos {
		assert.NotContains(t, h.Points, r2.Vec{X: 500, Y: 500})
	}
}

func TestComputeDegenerate(t *testing.T) {
	s := snapshot(
		graph.Node{ID: "a", ClusterID: 0},
		graph.Node{ID: "b", ClusterID: 0},
		graph.Node{ID: "c", ClusterID: 0},
	)

	t.Run("collinear", func(t *testing.T) {
		pos := positions{"a": {X: 0}, "b": {X: 10}, "c": {X: 20}}
		assert.Empty(t, Compute(s, pos, DefaultPadding))
	})

	t.Run("missing positions", func(t *testing.T) {
		pos := positions{"a": {X: 0}, "b": {X: 10, Y: 10}}
		assert.Empty(t, Compute(s, pos, DefaultPadding))
	})

	t.Run("nil inputs", func(t *testing.T) {
		assert.Nil(t, Compute(nil, positions{}, 1))
		assert.Nil(t, Compute(s, nil, 1))
	})
}
