// Package render turns simulation state into per-frame draw records.
//
// Sync is pure: it reads the snapshot, the layout and the highlight state and never
// mutates any of them, so hosts may call it once per frame or more often.
package render

import (
	"semgraph/geometry"
	"semgraph/graph"
	"semgraph/highlight"
	"semgraph/hull"
	"semgraph/layout"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layout is the read side of the simulation that a frame is built from.
type Layout interface {
	Body(id string) (layout.Body, bool)
	Position(id string) (r2.Vec, bool)
	Edges() []graph.Edge
}

// Config holds drawing constants.
type Config struct {
	LabelMax      int     `toml:"label_max"`
	HoverScale    float64 `toml:"hover_scale"`
	RingPadding   float64 `toml:"ring_padding"`
	EdgeWidth     float64 `toml:"edge_width"`   // stroke width per unit of weight
	EdgeOpacity   float64 `toml:"edge_opacity"` // stroke opacity per unit of weight
	NodeOpacity   float64 `toml:"node_opacity"` // fill opacity applied by hosts
	FallbackColor string  `toml:"fallback_color"`
}

// DefaultConfig returns the stock drawing constants.
func DefaultConfig() Config {
	return Config{
		LabelMax:      18,
		HoverScale:    1.3,
		RingPadding:   6,
		EdgeWidth:     2.5,
		EdgeOpacity:   0.35,
		NodeOpacity:   0.85,
		FallbackColor: FallbackColor,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.LabelMax <= 0 {
		c.LabelMax = d.LabelMax
	}
	if c.HoverScale <= 0 {
		c.HoverScale = d.HoverScale
	}
	if c.RingPadding <= 0 {
		c.RingPadding = d.RingPadding
	}
	if c.EdgeWidth <= 0 {
		c.EdgeWidth = d.EdgeWidth
	}
	if c.EdgeOpacity <= 0 {
		c.EdgeOpacity = d.EdgeOpacity
	}
	if c.NodeOpacity <= 0 || c.NodeOpacity > 1 {
		c.NodeOpacity = d.NodeOpacity
	}
	if _, ok := ParseColor(c.FallbackColor); !ok {
		c.FallbackColor = d.FallbackColor
	}
	return c
}

// Input is everything a frame is derived from.
type Input struct {
	Snapshot  *graph.Snapshot
	Layout    Layout
	Highlight *highlight.State
	Hovered   string
	Config    Config
	Hull      hull.Config
}

// NodeDraw describes how to draw one node.
type NodeDraw struct {
	ID           string
	X, Y         float64
	Radius       float64
	Color        colorful.Color
	Opacity      float64
	Label        string
	FullLabel    string
	ClusterLabel string
	Hovered      bool
	SearchHit    bool
	Pinned       bool
	Ring         float64 // search ring radius, 0 when the node is not a search hit
}

// Position returns the node centre.
func (n NodeDraw) Position() r2.Vec {
	return r2.Vec{X: n.X, Y: n.Y}
}

// Contains reports whether p lies on the node's disc.
func (n NodeDraw) Contains(p r2.Vec) bool {
	d := r2.Sub(p, n.Position())
	return d.X*d.X+d.Y*d.Y <= n.Radius*n.Radius
}

// EdgeDraw describes how to draw one edge.
type EdgeDraw struct {
	Source, Target string
	X1, Y1, X2, Y2 float64
	Weight         float64
	Width          float64
	Opacity        float64
}

// HaloDraw is a cluster halo with its parsed colour.
type HaloDraw struct {
	hull.Halo
	Fill colorful.Color
}

// Frame is the complete set of draw records for one tick.
type Frame struct {
	Nodes []NodeDraw
	Edges []EdgeDraw
	Halos []HaloDraw

	// NodeOpacity is the fill opacity hosts apply on top of NodeDraw.Opacity.
	NodeOpacity float64
}

// Empty reports whether the frame has nothing to draw.
func (f Frame) Empty() bool {
	return len(f.Nodes) == 0
}

// Node returns the draw record for id.
func (f Frame) Node(id string) (NodeDraw, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeDraw{}, false
}

// Pick returns the topmost node whose disc contains p. Later nodes draw over earlier ones.
func (f Frame) Pick(p r2.Vec) (NodeDraw, bool) {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		if f.Nodes[i].Contains(p) {
			return f.Nodes[i], true
		}
	}
	return NodeDraw{}, false
}

// Bounds returns the world-space extent of nodes and halos.
func (f Frame) Bounds() geometry.Bounds {
	b := geometry.EmptyBounds()
	for _, n := range f.Nodes {
		b = b.Extend(n.Position(), n.Radius)
	}
	for _, h := range f.Halos {
		for _, p := range h.Points {
			b = b.Extend(p, 0)
		}
	}
	return b
}

// Sync builds the frame for the current state.
func Sync(in Input) Frame {
	cfg := in.Config.normalized()
	frame := Frame{NodeOpacity: cfg.NodeOpacity}
	if in.Snapshot == nil || in.Layout == nil {
		return frame
	}
	hl := in.Highlight
	if hl == nil {
		hl = &highlight.State{}
	}
	fallback, _ := ParseColor(cfg.FallbackColor)

	frame.Nodes = make([]NodeDraw, 0, len(in.Snapshot.Nodes))
	for _, n := range in.Snapshot.Nodes {
		b, ok := in.Layout.Body(n.ID)
		if !ok {
			continue
		}
		d := NodeDraw{
			ID:        n.ID,
			X:         b.Position.X,
			Y:         b.Position.Y,
			Radius:    b.Radius,
			Color:     fallback,
			Opacity:   hl.Opacity(n),
			Label:     Truncate(n.Label, cfg.LabelMax),
			FullLabel: n.Label,
			Hovered:   n.ID == in.Hovered && in.Hovered != "",
			SearchHit: hl.InSearch(n.ID),
			Pinned:    b.Pinned,
		}
		if c, ok := in.Snapshot.ClusterOf(n); ok {
			d.ClusterLabel = c.Label
			d.Color = ResolveColor(c.Color, fallback)
		}
		if d.Hovered {
			d.Radius *= cfg.HoverScale
		}
		if d.SearchHit {
			d.Ring = d.Radius + cfg.RingPadding
		}
		frame.Nodes = append(frame.Nodes, d)
	}

	for _, e := range in.Layout.Edges() {
		s, okS := in.Layout.Position(e.Source)
		t, okT := in.Layout.Position(e.Target)
		if !okS || !okT {
			continue
		}
		frame.Edges = append(frame.Edges, EdgeDraw{
			Source:  e.Source,
			Target:  e.Target,
			X1:      s.X,
			Y1:      s.Y,
			X2:      t.X,
			Y2:      t.Y,
			Weight:  e.Weight,
			Width:   e.Weight * cfg.EdgeWidth,
			Opacity: e.Weight * cfg.EdgeOpacity,
		})
	}

	padding := in.Hull.Padding
	if padding <= 0 {
		padding = hull.DefaultPadding
	}
	for _, h := range hull.Compute(in.Snapshot, in.Layout, padding) {
		frame.Halos = append(frame.Halos, HaloDraw{Halo: h, Fill: ResolveColor(h.Color, fallback)})
	}
	return frame
}
