package geometry

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// ConvexHull returns the convex hull of points in counter-clockwise order
// (Andrew's monotone chain). Duplicate and collinear points are discarded, so a
// result with fewer than 3 vertices means the input is degenerate.
func ConvexHull(points []r2.Vec) []r2.Vec {
	pts := make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if FiniteVec(p) {
			pts = append(pts, p)
		}
	}
	if len(pts) < 3 {
		return nil
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	hull := make([]r2.Vec, 0, 2*len(pts))
	// lower
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// upper
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	if len(hull) < 3 {
		return nil
	}
	return hull
}

// cross is the z component of (a->b) x (a->c).
func cross(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// Expand pushes every vertex outward along the ray from the polygon's vertex centroid
// through that vertex by padding. A vertex sitting on the centroid is left in place.
func Expand(polygon []r2.Vec, padding float64) []r2.Vec {
	if len(polygon) == 0 {
		return nil
	}
	c := Centroid(polygon)
	out := make([]r2.Vec, len(polygon))
	for i, v := range polygon {
		d := r2.Sub(v, c)
		dist := r2.Norm(d)
		if dist == 0 {
			out[i] = v
			continue
		}
		out[i] = r2.Add(c, r2.Scale((dist+padding)/dist, d))
	}
	return out
}

// PolygonArea returns the signed area; positive for counter-clockwise order.
func PolygonArea(polygon []r2.Vec) float64 {
	var a float64
	for i := range polygon {
		j := (i + 1) % len(polygon)
		a += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return a / 2
}
