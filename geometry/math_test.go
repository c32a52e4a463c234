package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"below", -1, 0, 10, 0},
		{"inside", 5, 0, 10, 5},
		{"above", 11, 0, 10, 10},
		{"on bound", 10, 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
	assert.True(t, math.IsNaN(Clamp(math.NaN(), 0, 1)))
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, r2.Vec{}, Centroid(nil))
	c := Centroid([]r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}})
	assert.InDelta(t, 2, c.X, 1e-12)
	assert.InDelta(t, 2, c.Y, 1e-12)
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	assert.True(t, b.IsEmpty())

	b = b.Extend(r2.Vec{X: 0, Y: 0}, 1).Extend(r2.Vec{X: 10, Y: 5}, 2)
	assert.False(t, b.IsEmpty())
	assert.Equal(t, r2.Vec{X: -1, Y: -1}, b.Min)
	assert.Equal(t, r2.Vec{X: 12, Y: 7}, b.Max)
	assert.Equal(t, 13.0, b.Width())
	assert.Equal(t, 8.0, b.Height())
	assert.True(t, b.Contains(r2.Vec{X: 12, Y: 7}))
	assert.False(t, b.Contains(r2.Vec{X: 12.1, Y: 0}))
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           [][2]int
	}{
		{"point", 3, 3, 3, 3, [][2]int{{3, 3}}},
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical reversed", 0, 2, 0, 0, [][2]int{{0, 2}, {0, 1}, {0, 0}}},
		{"diagonal", 0, 0, 2, 2, [][2]int{{0, 0}, {1, 1}, {2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.x1, tt.y1, tt.x2, tt.y2))
		})
	}
}

func TestConvexHull(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		assert.Nil(t, ConvexHull([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}))
	})

	t.Run("collinear points", func(t *testing.T) {
		assert.Nil(t, ConvexHull([]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}))
	})

	t.Run("coincident points", func(t *testing.T) {
		p := r2.Vec{X: 5, Y: 5}
		assert.Nil(t, ConvexHull([]r2.Vec{p, p, p, p}))
	})

	t.Run("square with interior point", func(t *testing.T) {
		hull := ConvexHull([]r2.Vec{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 2, Y: 2}, {X: 2, Y: 0},
		})
		require.Len(t, hull, 4)
		assert.NotContains(t, hull, r2.Vec{X: 2, Y: 2})
		assert.NotContains(t, hull, r2.Vec{X: 2, Y: 0})
		assert.Greater(t, PolygonArea(hull), 0.0, "hull must be counter-clockwise")
		assert.InDelta(t, 16, PolygonArea(hull), 1e-9)
	})

	t.Run("non-finite points are ignored", func(t *testing.T) {
		hull := ConvexHull([]r2.Vec{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: math.NaN(), Y: 3},
		})
		assert.Len(t, hull, 3)
	})
}

func TestExpand(t *testing.T) {
	square := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	out := Expand(square, 30)
	require.Len(t, out, 4)
	for i, v := range out {
		assert.InDelta(t, math.Sqrt2+30, r2.Norm(v), 1e-9)
		// same direction from the centroid
		assert.InDelta(t, 0, r2.Cross(square[i], v), 1e-9)
	}
	assert.Nil(t, Expand(nil, 30))
}
