// Package viewport holds the pan/zoom transform between world and screen space.
package viewport

import (
	"math"

	"semgraph/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// Config bounds the zoom range.
type Config struct {
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	InitialScale float64 `toml:"initial_scale"`
	ZoomStep     float64 `toml:"zoom_step"` // factor applied per wheel notch or key press
	PanStep      float64 `toml:"pan_step"`  // screen pixels per key press
}

// DefaultConfig returns the stock zoom range.
func DefaultConfig() Config {
	return Config{
		MinScale:     0.3,
		MaxScale:     4,
		InitialScale: 1.2,
		ZoomStep:     1.1,
		PanStep:      40,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MinScale <= 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = math.Max(d.MaxScale, c.MinScale)
	}
	if c.InitialScale <= 0 {
		c.InitialScale = d.InitialScale
	}
	c.InitialScale = geometry.Clamp(c.InitialScale, c.MinScale, c.MaxScale)
	if c.ZoomStep <= 1 {
		c.ZoomStep = d.ZoomStep
	}
	if c.PanStep <= 0 {
		c.PanStep = d.PanStep
	}
	return c
}

// Transform maps world coordinates to screen coordinates: screen = world*K + (X, Y).
type Transform struct {
	X, Y float64
	K    float64
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to world space.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	return r2.Vec{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Viewport owns a Transform and keeps its scale within the configured range.
// It never touches simulated coordinates.
type Viewport struct {
	cfg Config
	t   Transform
}

// New returns a viewport at the identity translation and the initial scale.
func New(cfg Config) *Viewport {
	cfg = cfg.normalized()
	return &Viewport{cfg: cfg, t: Transform{K: cfg.InitialScale}}
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// Config returns the normalized configuration.
func (v *Viewport) Config() Config { return v.cfg }

// Scale returns the current zoom factor.
func (v *Viewport) Scale() float64 { return v.t.K }

// Apply maps a world point to the screen.
func (v *Viewport) Apply(p r2.Vec) r2.Vec { return v.t.Apply(p) }

// Invert maps a screen point to world space.
func (v *Viewport) Invert(p r2.Vec) r2.Vec { return v.t.Invert(p) }

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	if !geometry.Finite(dx) || !geometry.Finite(dy) {
		return
	}
	v.t.X += dx
	v.t.Y += dy
}

// ZoomBy multiplies the scale by factor, keeping the world point under the screen
// point anchor fixed.
func (v *Viewport) ZoomBy(factor float64, anchor r2.Vec) {
	if factor <= 0 || !geometry.Finite(factor) {
		return
	}
	v.zoomTo(v.t.K*factor, anchor)
}

// SetScale sets the scale directly, anchored at the screen point anchor.
func (v *Viewport) SetScale(k float64, anchor r2.Vec) {
	if !geometry.Finite(k) {
		return
	}
	v.zoomTo(k, anchor)
}

func (v *Viewport) zoomTo(k float64, anchor r2.Vec) {
	k = geometry.Clamp(k, v.cfg.MinScale, v.cfg.MaxScale)
	w := v.t.Invert(anchor)
	v.t = Transform{
		X: anchor.X - w.X*k,
		Y: anchor.Y - w.Y*k,
		K: k,
	}
}

// ZoomIn zooms one step about anchor.
func (v *Viewport) ZoomIn(anchor r2.Vec) { v.ZoomBy(v.cfg.ZoomStep, anchor) }

// ZoomOut zooms out one step about anchor.
func (v *Viewport) ZoomOut(anchor r2.Vec) { v.ZoomBy(1/v.cfg.ZoomStep, anchor) }

// Center places the world origin in the middle of a w×h screen at the initial scale.
func (v *Viewport) Center(w, h float64) {
	v.t = Transform{X: w / 2, Y: h / 2, K: v.cfg.InitialScale}
}

// Fit scales and translates so that b fills a w×h screen less padding on every side.
// Empty bounds fall back to Center.
func (v *Viewport) Fit(b geometry.Bounds, w, h, padding float64) {
	if b.IsEmpty() || w <= 0 || h <= 0 {
		v.Center(w, h)
		return
	}
	aw := math.Max(w-2*padding, 1)
	ah := math.Max(h-2*padding, 1)
	k := v.cfg.MaxScale
	if b.Width() > 0 {
		k = math.Min(k, aw/b.Width())
	}
	if b.Height() > 0 {
		k = math.Min(k, ah/b.Height())
	}
	k = geometry.Clamp(k, v.cfg.MinScale, v.cfg.MaxScale)
	c := b.Center()
	v.t = Transform{X: w/2 - c.X*k, Y: h/2 - c.Y*k, K: k}
}
