package layout

import (
	"fmt"
	"math"
	"testing"

	"semgraph/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r2"
)

func sampleNodes() []graph.Node {
	return []graph.Node{
		{ID: "A", Label: "alpha.md", ClusterID: 0, SizeKB: 4},
		{ID: "B", Label: "beta.md", ClusterID: 1, SizeKB: 120},
		{ID: "C", Label: "gamma.md", ClusterID: 0, SizeKB: 0.5},
	}
}

func sampleEdges() []graph.Edge {
	return []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: 0.5},
	}
}

func ring(n int) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, n)
	edges := make([]graph.Edge, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i), SizeKB: float64(i)}
		edges[i] = graph.Edge{Source: fmt.Sprintf("n%d", i), Target: fmt.Sprintf("n%d", (i+1)%n), Weight: 0.5}
	}
	return nodes, edges
}

func TestRadius(t *testing.T) {
	tests := []struct {
		size float64
		want float64
	}{
		{0, MinRadius},
		{-3, MinRadius},
		{math.NaN(), MinRadius},
		{math.Inf(1), MaxRadius},
		{1e9, MaxRadius},
		{10, math.Log(11) * 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.size), func(t *testing.T) {
			assert.InDelta(t, tt.want, Radius(tt.size), 1e-12)
		})
	}

	t.Run("monotonic", func(t *testing.T) {
		prev := Radius(0)
		for s := 0.0; s < 1000; s += 3.7 {
			r := Radius(s)
			assert.GreaterOrEqual(t, r, prev)
			assert.GreaterOrEqual(t, r, float64(MinRadius))
			assert.LessOrEqual(t, r, float64(MaxRadius))
			prev = r
		}
	})
}

func TestInitialize(t *testing.T) {
	t.Run("dangling edges are dropped", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		edges := append(sampleEdges(),
			graph.Edge{Source: "A", Target: "missing", Weight: 1},
			graph.Edge{Source: "ghost", Target: "C", Weight: 1},
			graph.Edge{Source: "C", Target: "C", Weight: 1},
		)
		e.Initialize(sampleNodes(), edges)

		assert.Equal(t, 3, e.Len())
		assert.Equal(t, sampleEdges(), e.Edges())
		for _, ed := range e.Edges() {
			_, ok := e.Position(ed.Source)
			assert.True(t, ok)
			_, ok = e.Position(ed.Target)
			assert.True(t, ok)
		}
	})

	t.Run("empty node set is a no-op", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(nil, sampleEdges())
		assert.Equal(t, 0, e.Len())
		assert.Empty(t, e.Edges())
		assert.True(t, e.AtRest())
		assert.False(t, e.Step())
		assert.False(t, e.SetPinned("A", r2.Vec{}))
	})

	t.Run("seeds are scaled", func(t *testing.T) {
		x, y := 10.0, -4.0
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize([]graph.Node{{ID: "A", X: &x, Y: &y}, {ID: "B"}}, nil)
		p, ok := e.Position("A")
		require.True(t, ok)
		assert.Equal(t, r2.Vec{X: 15, Y: -6}, p)

		p, ok = e.Position("B")
		require.True(t, ok)
		assert.Equal(t, spiral(10, 1), p)
	})

	t.Run("spiral slots are distinct", func(t *testing.T) {
		nodes, _ := ring(50)
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(nodes, nil)
		seen := map[r2.Vec]bool{}
		for _, b := range e.Bodies() {
			assert.False(t, seen[b.Position], "duplicate seed for %s", b.ID)
			seen[b.Position] = true
		}
	})

	t.Run("duplicate ids keep the first node", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize([]graph.Node{{ID: "A", SizeKB: 0}, {ID: "A", SizeKB: 1e6}}, nil)
		assert.Equal(t, 1, e.Len())
		r, ok := e.Radius("A")
		require.True(t, ok)
		assert.Equal(t, float64(MinRadius), r)
	})

	t.Run("NaN size uses the minimum radius", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize([]graph.Node{{ID: "A", SizeKB: math.NaN()}}, nil)
		r, ok := e.Radius("A")
		require.True(t, ok)
		assert.Equal(t, float64(MinRadius), r)
	})
}

func TestStepConvergence(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"small exact", 3},
		{"medium exact", 40},
		{"large approximated", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, edges := ring(tt.size)
			e := NewEngine(DefaultConfig(), nil)
			e.Initialize(nodes, edges)

			prev := e.Alpha()
			limit := e.Config().MaxTicks()
			steps := 0
			for e.Step() {
				steps++
				require.LessOrEqual(t, e.Alpha(), prev, "alpha must not increase without pins")
				prev = e.Alpha()
				require.LessOrEqual(t, steps, limit, "simulation did not come to rest")
			}

			assert.True(t, e.AtRest())
			assert.Less(t, e.Alpha(), e.Config().AlphaMin)
			assert.Equal(t, steps, e.Ticks())
			for _, b := range e.Bodies() {
				assert.False(t, math.IsNaN(b.Position.X) || math.IsNaN(b.Position.Y), "node %s", b.ID)
			}
			assert.False(t, e.Step(), "step at rest is a no-op")
		})
	}
}

func TestForces(t *testing.T) {
	t.Run("repulsion separates nodes", func(t *testing.T) {
		x, y := 0.0, 0.0
		x2 := 1.0
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize([]graph.Node{{ID: "A", X: &x, Y: &y}, {ID: "B", X: &x2, Y: &y}}, nil)
		e.Settle(e.Config().MaxTicks())

		a, _ := e.Position("A")
		b, _ := e.Position("B")
		assert.Greater(t, r2.Norm(r2.Sub(a, b)), 30.0)
	})

	t.Run("links pull distant nodes together", func(t *testing.T) {
		x1, x2, y := -500.0, 500.0, 0.0
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(
			[]graph.Node{{ID: "A", X: &x1, Y: &y}, {ID: "B", X: &x2, Y: &y}},
			[]graph.Edge{{Source: "A", Target: "B", Weight: 1}},
		)
		e.Settle(e.Config().MaxTicks())

		a, _ := e.Position("A")
		b, _ := e.Position("B")
		assert.Less(t, r2.Norm(r2.Sub(a, b)), 400.0)
	})

	t.Run("collision resolves coincident nodes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChargeStrength = 0
		zero := 0.0
		e := NewEngine(cfg, nil)
		e.Initialize([]graph.Node{{ID: "A", X: &zero, Y: &zero}, {ID: "B", X: &zero, Y: &zero}}, nil)
		e.Settle(cfg.MaxTicks())

		a, _ := e.Position("A")
		b, _ := e.Position("B")
		minSep := 2 * (MinRadius + cfg.CollidePadding)
		assert.GreaterOrEqual(t, r2.Norm(r2.Sub(a, b)), minSep-1)
	})

	t.Run("centering keeps the centroid near the origin", func(t *testing.T) {
		nodes, edges := ring(12)
		for i := range nodes {
			x, y := 1000+float64(i)*20, 1000-float64(i*i)
			nodes[i].X, nodes[i].Y = &x, &y
		}
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(nodes, edges)
		e.Settle(e.Config().MaxTicks())

		var sum r2.Vec
		for _, b := range e.Bodies() {
			sum = r2.Add(sum, b.Position)
		}
		c := r2.Scale(1/float64(e.Len()), sum)
		assert.Less(t, r2.Norm(c), 1.0)
	})

	t.Run("centroid counts pinned nodes", func(t *testing.T) {
		ax, bx, y := 300.0, -100.0, 0.0
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize([]graph.Node{{ID: "A", X: &ax, Y: &y}, {ID: "B", X: &bx, Y: &y}}, nil)
		a, _ := e.Position("A")
		b, _ := e.Position("B")
		require.True(t, e.SetPinned("A", a))

		want := r2.Scale(-e.cfg.CenterStrength/2, r2.Add(a, b))
		got := e.centering()
		assert.InDelta(t, want.X, got.X, 1e-9)
		assert.InDelta(t, want.Y, got.Y, 1e-9)

		e.Step()
		p, _ := e.Position("A")
		assert.Equal(t, a, p, "pinned node ignores the shift")
	})

	t.Run("approximation tracks the exact sum", func(t *testing.T) {
		nodes, edges := ring(80)
		exact := NewEngine(DefaultConfig(), nil)
		exact.Initialize(nodes, edges)
		exact.cfg.BarnesHutThreshold = 1000

		approx := NewEngine(DefaultConfig(), nil)
		approx.Initialize(nodes, edges)
		approx.cfg.Theta = 0.5

		exact.applyCharge(1)
		approx.applyCharge(1)
		var diff, total float64
		for i := range exact.bodies {
			fe, fa := exact.bodies[i].force, approx.bodies[i].force
			diff += r2.Norm(r2.Sub(fe, fa))
			total += r2.Norm(fe)
		}
		require.Greater(t, total, 0.0)
		assert.Less(t, diff/total, 0.1)
	})
}

func TestPinning(t *testing.T) {
	t.Run("drag B to (100, 50)", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(sampleNodes(), sampleEdges())
		e.Settle(e.Config().MaxTicks())
		require.True(t, e.AtRest())
		before := e.Alpha()

		target := r2.Vec{X: 100, Y: 50}
		require.True(t, e.SetPinned("B", target))
		assert.Greater(t, e.Alpha(), before, "pinning reheats")
		assert.False(t, e.AtRest())

		for i := 0; i < 20; i++ {
			require.True(t, e.Step())
			p, _ := e.Position("B")
			assert.Equal(t, target, p, "pinned node follows the pointer on tick %d", i)
		}

		// moving the pointer re-pins
		target = r2.Vec{X: -40, Y: 10}
		e.SetPinned("B", target)
		e.Step()
		p, _ := e.Position("B")
		assert.Equal(t, target, p)

		require.True(t, e.ReleasePinned("B"))
		assert.False(t, e.Pinned("B"))
		e.Step()
		p, _ = e.Position("B")
		assert.NotEqual(t, target, p, "released node resumes simulated motion")
	})

	t.Run("held pin keeps the simulation warm", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(sampleNodes(), sampleEdges())
		e.SetPinned("A", r2.Vec{})
		for i := 0; i < 2*e.Config().MaxTicks(); i++ {
			require.True(t, e.Step())
		}
		assert.InDelta(t, e.Config().DragAlphaTarget, e.Alpha(), 0.01)

		e.ReleasePinned("A")
		n := e.Settle(10 * e.Config().MaxTicks())
		assert.True(t, e.AtRest())
		assert.LessOrEqual(t, n, e.Config().MaxTicks())
	})

	t.Run("unknown ids", func(t *testing.T) {
		e := NewEngine(DefaultConfig(), nil)
		e.Initialize(sampleNodes(), sampleEdges())
		assert.False(t, e.SetPinned("Z", r2.Vec{}))
		assert.False(t, e.ReleasePinned("Z"))
		assert.False(t, e.ReleasePinned("A"), "not pinned")
	})
}

func TestReheatAndStop(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)
	e.Initialize(sampleNodes(), sampleEdges())
	e.Settle(e.Config().MaxTicks())
	require.False(t, e.Step())

	e.Reheat(0.5)
	assert.Equal(t, 0.5, e.Alpha())
	assert.True(t, e.Step())

	e.Reheat(0.1)
	assert.Greater(t, e.Alpha(), 0.1, "reheat never lowers alpha")

	e.Stop()
	assert.True(t, e.Stopped())
	assert.False(t, e.Step())
	assert.Equal(t, 0, e.Len())
	assert.False(t, e.SetPinned("A", r2.Vec{}))
	e.Reheat(1)
	assert.False(t, e.Step())
	e.Stop()
}

func TestInitializeFromReusesPositions(t *testing.T) {
	prev := NewEngine(DefaultConfig(), nil)
	prev.Initialize(sampleNodes(), sampleEdges())
	prev.Settle(50)
	pa, _ := prev.Position("A")

	next := NewEngine(DefaultConfig(), nil)
	nodes := append(sampleNodes()[:1], graph.Node{ID: "D"})
	next.InitializeFrom(nodes, nil, prev)

	p, ok := next.Position("A")
	require.True(t, ok)
	assert.Equal(t, pa, p)
	_, ok = next.Position("B")
	assert.False(t, ok, "removed nodes are discarded")
	assert.Equal(t, 1.0, next.Alpha())
}

func TestEngineLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(DefaultConfig(), zap.New(core))
	e.Initialize(sampleNodes(), append(sampleEdges(), graph.Edge{Source: "A", Target: "nope", Weight: 1}))
	e.Settle(e.Config().MaxTicks())

	init := logs.FilterMessage("simulation initialized").All()
	require.Len(t, init, 1)
	assert.Equal(t, int64(1), init[0].ContextMap()["dropped_links"])
	assert.Equal(t, 1, logs.FilterMessage("simulation at rest").Len())
}

func TestMaxTicks(t *testing.T) {
	cfg := DefaultConfig()
	n := cfg.MaxTicks()
	assert.GreaterOrEqual(t, n, 300)
	assert.LessOrEqual(t, n, 302)

	// zero values fall back to defaults
	assert.Equal(t, n, Config{}.MaxTicks())
}
