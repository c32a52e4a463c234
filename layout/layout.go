// Package layout provides the force simulation that positions graph nodes in 2D space.
package layout

import (
	"math"

	"semgraph/geometry"
)

// Radius bounds in layout units.
const (
	MinRadius = 8
	MaxRadius = 20
)

// Radius derives a node's draw and collision radius from its file size.
// It grows logarithmically and always lies in [MinRadius, MaxRadius].
func Radius(sizeKB float64) float64 {
	if math.IsNaN(sizeKB) || sizeKB < 0 {
		return MinRadius
	}
	return geometry.Clamp(math.Log(sizeKB+1)*5, MinRadius, MaxRadius)
}

// Config holds the simulation tuning parameters.
type Config struct {
	LinkDistance       float64 `toml:"link_distance"`
	LinkStrength       float64 `toml:"link_strength"`
	ChargeStrength     float64 `toml:"charge_strength"`
	ChargeDistanceMin  float64 `toml:"charge_distance_min"`
	BarnesHutThreshold int     `toml:"barnes_hut_threshold"` // node count at which repulsion is approximated
	Theta              float64 `toml:"theta"`
	CenterStrength     float64 `toml:"center_strength"`
	CollidePadding     float64 `toml:"collide_padding"`
	CollideStrength    float64 `toml:"collide_strength"`
	VelocityDecay      float64 `toml:"velocity_decay"`
	AlphaMin           float64 `toml:"alpha_min"`
	AlphaDecay         float64 `toml:"alpha_decay"`
	ReheatAlpha        float64 `toml:"reheat_alpha"`
	DragAlphaTarget    float64 `toml:"drag_alpha_target"`
	InitialSpread      float64 `toml:"initial_spread"` // scale applied to seed positions
	InitialRadius      float64 `toml:"initial_radius"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		LinkDistance:       80,
		LinkStrength:       0.3,
		ChargeStrength:     -250,
		ChargeDistanceMin:  1,
		BarnesHutThreshold: 64,
		Theta:              0.9,
		CenterStrength:     1,
		CollidePadding:     6,
		CollideStrength:    1,
		VelocityDecay:      0.4,
		AlphaMin:           0.001,
		AlphaDecay:         1 - math.Pow(0.001, 1.0/300),
		ReheatAlpha:        0.3,
		DragAlphaTarget:    0.3,
		InitialSpread:      1.5,
		InitialRadius:      10,
	}
}

// normalized fills zero or out-of-range values from the defaults so a partially
// written config file cannot stall the simulation.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.LinkDistance <= 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.LinkStrength < 0 {
		c.LinkStrength = d.LinkStrength
	}
	if c.ChargeDistanceMin <= 0 {
		c.ChargeDistanceMin = d.ChargeDistanceMin
	}
	if c.Theta <= 0 {
		c.Theta = d.Theta
	}
	if c.VelocityDecay <= 0 || c.VelocityDecay >= 1 {
		c.VelocityDecay = d.VelocityDecay
	}
	if c.AlphaMin <= 0 || c.AlphaMin >= 1 {
		c.AlphaMin = d.AlphaMin
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.ReheatAlpha <= 0 {
		c.ReheatAlpha = d.ReheatAlpha
	}
	if c.DragAlphaTarget < 0 {
		c.DragAlphaTarget = d.DragAlphaTarget
	}
	if c.InitialSpread <= 0 {
		c.InitialSpread = d.InitialSpread
	}
	if c.InitialRadius <= 0 {
		c.InitialRadius = d.InitialRadius
	}
	return c
}

// MaxTicks bounds the number of steps from alpha 1 to rest when nothing reheats the engine.
func (c Config) MaxTicks() int {
	c = c.normalized()
	return int(math.Ceil(math.Log(c.AlphaMin)/math.Log(1-c.AlphaDecay))) + 1
}
