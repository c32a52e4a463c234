// Package geometry holds the small planar helpers shared by layout, hulls and drawing.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits v to [lo, hi]. NaN is returned unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FiniteVec reports whether both coordinates are finite.
func FiniteVec(p r2.Vec) bool {
	return Finite(p.X) && Finite(p.Y)
}

// Centroid returns the mean of the points, or the zero vector for no points.
func Centroid(points []r2.Vec) r2.Vec {
	if len(points) == 0 {
		return r2.Vec{}
	}
	var sum r2.Vec
	for _, p := range points {
		sum = r2.Add(sum, p)
	}
	return r2.Scale(1/float64(len(points)), sum)
}

// Bounds represents an axis-aligned rectangle.
type Bounds struct {
	Min, Max r2.Vec
}

// Width returns the width of the bounds.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Center returns the middle of the bounds.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Contains checks if a point is within the bounds (edges inclusive).
func (b Bounds) Contains(p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Extend grows the bounds so that it includes a disc of radius r around p.
func (b Bounds) Extend(p r2.Vec, r float64) Bounds {
	return Bounds{
		Min: r2.Vec{X: math.Min(b.Min.X, p.X-r), Y: math.Min(b.Min.Y, p.Y-r)},
		Max: r2.Vec{X: math.Max(b.Max.X, p.X+r), Y: math.Max(b.Max.Y, p.Y+r)},
	}
}

// EmptyBounds returns bounds that any Extend call replaces.
func EmptyBounds() Bounds {
	return Bounds{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether nothing has been added to the bounds.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Line returns the cells on the segment from (x1,y1) to (x2,y2) using Bresenham's algorithm.
// Both end points are included.
func Line(x1, y1, x2, y2 int) [][2]int {
	dx := Abs(x2 - x1)
	dy := Abs(y2 - y1)

	x, y := x1, y1

	xInc := 1
	if x1 > x2 {
		xInc = -1
	}
	yInc := 1
	if y1 > y2 {
		yInc = -1
	}

	cells := make([][2]int, 0, max(dx, dy)+1)
	if dx > dy {
		err := dx / 2
		for x != x2 {
			cells = append(cells, [2]int{x, y})
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != y2 {
			cells = append(cells, [2]int{x, y})
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	return append(cells, [2]int{x2, y2})
}
