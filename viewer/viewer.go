// Package viewer coordinates the layout engine, highlight state, interaction controller
// and viewport behind a single frame-driven API.
//
// A Viewer is driven from one goroutine: the frame callback and every pointer and state
// call must come from the same event loop.
package viewer

import (
	"math"
	"strings"

	"semgraph/graph"
	"semgraph/highlight"
	"semgraph/hull"
	"semgraph/interaction"
	"semgraph/layout"
	"semgraph/render"
	"semgraph/validation"
	"semgraph/viewport"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Config groups the settings of every component the viewer owns.
type Config struct {
	Layout      layout.Config      `toml:"layout"`
	Render      render.Config      `toml:"render"`
	Hull        hull.Config        `toml:"hull"`
	Highlight   highlight.Config   `toml:"highlight"`
	Viewport    viewport.Config    `toml:"viewport"`
	Interaction interaction.Config `toml:"interaction"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Layout:      layout.DefaultConfig(),
		Render:      render.DefaultConfig(),
		Hull:        hull.DefaultConfig(),
		Highlight:   highlight.DefaultConfig(),
		Viewport:    viewport.DefaultConfig(),
		Interaction: interaction.DefaultConfig(),
	}
}

// Events are the callbacks a host can observe. Any of them may be nil.
type Events struct {
	OnNodeSelected            func(n graph.Node)
	OnTooltip                 func(t *interaction.Tooltip) // nil hides the tooltip
	OnHighlightClusterToggled func(id graph.ClusterID, active bool)
	OnFrame                   func(f render.Frame)
}

// press tracks a pointer button held down, either on a node (drag) or on empty space (pan).
type press struct {
	node  string
	start r2.Vec
	last  r2.Vec
	moved bool
}

// Viewer is the view-level coordinator.
type Viewer struct {
	cfg       Config
	logger    *zap.Logger
	events    Events
	validator *validation.Validator

	snap   *graph.Snapshot
	engine *layout.Engine
	hl     *highlight.State
	vp     *viewport.Viewport
	ctl    *interaction.Controller
	frame  render.Frame
	issues []validation.Issue

	width, height float64
	press         *press
	pointer       r2.Vec
	cancel        func()
	stopped       bool
}

// New creates a viewer with an empty graph.
func New(cfg Config, events Events, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Viewer{
		cfg:       cfg,
		logger:    logger,
		events:    events,
		validator: validation.New(logger.Named("validation")),
		snap:      &graph.Snapshot{},
		engine:    layout.NewEngine(cfg.Layout, logger.Named("layout")),
		hl:        highlight.New(cfg.Highlight),
		vp:        viewport.New(cfg.Viewport),
	}
	v.ctl = interaction.NewController(cfg.Interaction, v.snap, v.engine, sink{v}, logger.Named("interaction"))
	v.rebuild()
	return v
}

// sink forwards controller events to the host callbacks.
type sink struct{ v *Viewer }

func (s sink) Tooltip(t *interaction.Tooltip) {
	if s.v.events.OnTooltip != nil {
		s.v.events.OnTooltip(t)
	}
}

func (s sink) Selected(n graph.Node) {
	if s.v.events.OnNodeSelected != nil {
		s.v.events.OnNodeSelected(n)
	}
}

// LoadGraph replaces the current snapshot. The snapshot is sanitized first; nodes that
// persist keep their positions. Highlight state and the viewport are preserved.
func (v *Viewer) LoadGraph(s graph.Snapshot) []validation.Issue {
	clean, issues := v.validator.Sanitize(s)

	prev := v.engine
	next := layout.NewEngine(v.cfg.Layout, v.logger.Named("layout"))
	next.InitializeFrom(clean.Nodes, clean.Edges, prev)
	prev.Stop()

	v.snap = &clean
	v.engine = next
	v.issues = issues
	v.ctl.Rebind(v.snap, v.engine)
	if v.press != nil && v.press.node != "" && !v.snap.HasNode(v.press.node) {
		v.press = nil
	}
	v.rebuild()

	v.logger.Info("graph loaded",
		zap.Int("nodes", len(clean.Nodes)),
		zap.Int("edges", len(clean.Edges)),
		zap.Int("clusters", len(clean.Clusters)),
		zap.Int("issues", len(issues)))
	return issues
}

// Frame runs one simulation step and rebuilds the draw records. It is the clock callback.
func (v *Viewer) Frame() {
	if v.stopped {
		return
	}
	v.engine.Step()
	v.rebuild()
	if v.events.OnFrame != nil {
		v.events.OnFrame(v.frame)
	}
}

// Settle steps the engine until it comes to rest or maxTicks steps were taken, then
// rebuilds the frame once. A maxTicks of zero or less uses the engine's decay bound.
// It returns the number of steps taken.
func (v *Viewer) Settle(maxTicks int) int {
	if v.stopped {
		return 0
	}
	if maxTicks <= 0 {
		maxTicks = v.engine.Config().MaxTicks()
	}
	n := v.engine.Settle(maxTicks)
	v.rebuild()
	return n
}

func (v *Viewer) rebuild() {
	v.frame = render.Sync(render.Input{
		Snapshot:  v.snap,
		Layout:    v.engine,
		Highlight: v.hl,
		Hovered:   v.ctl.Hovered(),
		Config:    v.cfg.Render,
		Hull:      v.cfg.Hull,
	})
}

// Current returns the most recent frame.
func (v *Viewer) Current() render.Frame { return v.frame }

// Start subscribes the frame callback to clock. Calling Start twice is a no-op.
// Starting a stopped viewer lays out the current snapshot again from its seeds.
func (v *Viewer) Start(clock Clock) {
	if v.cancel != nil {
		return
	}
	if v.stopped {
		v.engine = layout.NewEngine(v.cfg.Layout, v.logger.Named("layout"))
		v.engine.Initialize(v.snap.Nodes, v.snap.Edges)
		v.ctl.Rebind(v.snap, v.engine)
		v.rebuild()
	}
	v.stopped = false
	v.cancel = clock.Subscribe(v.Frame)
}

// Stop cancels the clock subscription, releases any drag and halts the engine.
// It is safe to call at any time and more than once.
func (v *Viewer) Stop() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.stopped = true
	v.press = nil
	v.ctl.Reset()
	v.engine.Stop()
}

// Running reports whether a clock subscription is active.
func (v *Viewer) Running() bool { return v.cancel != nil }

// SetSearchResults replaces the search highlight set.
func (v *Viewer) SetSearchResults(ids []string) {
	v.hl.SetSearchResults(ids)
	v.rebuild()
}

// ClearSearch removes the search highlight.
func (v *Viewer) ClearSearch() {
	v.hl.ClearSearch()
	v.rebuild()
}

// ToggleHighlightCluster highlights id, or clears the highlight when id is already set.
func (v *Viewer) ToggleHighlightCluster(id graph.ClusterID) (graph.ClusterID, bool) {
	cid, active := v.hl.ToggleCluster(id)
	v.logger.Debug("highlight cluster toggled", zap.Int("cluster", int(id)), zap.Bool("active", active))
	if v.events.OnHighlightClusterToggled != nil {
		v.events.OnHighlightClusterToggled(id, active)
	}
	v.rebuild()
	return cid, active
}

// Reheat restarts the simulation at the configured reheat energy.
func (v *Viewer) Reheat() {
	v.engine.Reheat(v.engine.Config().ReheatAlpha)
}

// Resize records the screen size in pixels. The first resize centres the view; later
// ones keep the screen centre over the same world point.
func (v *Viewer) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if v.width == 0 && v.height == 0 {
		v.vp.Center(w, h)
	} else {
		v.vp.Pan((w-v.width)/2, (h-v.height)/2)
	}
	v.width, v.height = w, h
}

// Size returns the screen size recorded by Resize.
func (v *Viewer) Size() (w, h float64) { return v.width, v.height }

// Recenter resets the viewport to the screen centre at the initial scale.
func (v *Viewer) Recenter() { v.vp.Center(v.width, v.height) }

// Fit zooms the viewport so the whole frame is visible.
func (v *Viewer) Fit(padding float64) {
	v.vp.Fit(v.frame.Bounds(), v.width, v.height, padding)
}

func (v *Viewer) at(x, y float64) interaction.Pointer {
	s := r2.Vec{X: x, Y: y}
	return interaction.Pointer{Screen: s, World: v.vp.Invert(s)}
}

// PointerMove handles pointer motion in screen coordinates.
func (v *Viewer) PointerMove(x, y float64) {
	p := v.at(x, y)
	v.pointer = p.Screen
	if v.press != nil {
		if r2.Norm(r2.Sub(p.Screen, v.press.start)) > v.cfg.Interaction.ClickSlop {
			v.press.moved = true
		}
		if v.press.node != "" {
			v.ctl.PointerMove(p)
		} else {
			d := r2.Sub(p.Screen, v.press.last)
			v.vp.Pan(d.X, d.Y)
		}
		v.press.last = p.Screen
		v.rebuild()
		return
	}
	v.hover(p)
}

func (v *Viewer) hover(p interaction.Pointer) {
	hovered := v.ctl.Hovered()
	n, ok := v.frame.Pick(p.World)
	switch {
	case ok && n.ID == hovered:
		v.ctl.PointerMove(p)
		return
	case ok:
		if hovered != "" {
			v.ctl.PointerLeave()
		}
		v.ctl.PointerEnter(n.ID, p)
	case hovered != "":
		v.ctl.PointerLeave()
	default:
		return
	}
	v.rebuild()
}

// PointerPress starts a drag on the node under the pointer, or a pan on empty space.
func (v *Viewer) PointerPress(x, y float64) {
	if v.press != nil {
		return
	}
	p := v.at(x, y)
	v.pointer = p.Screen
	v.press = &press{start: p.Screen, last: p.Screen}
	if n, ok := v.frame.Pick(p.World); ok {
		v.press.node = n.ID
		v.ctl.PointerDown(n.ID, p)
		v.rebuild()
	}
}

// PointerRelease ends the current press. A press that did not travel beyond the click
// slop over a node is also a click on that node.
func (v *Viewer) PointerRelease(x, y float64) {
	pr := v.press
	if pr == nil {
		return
	}
	v.press = nil
	p := v.at(x, y)
	v.pointer = p.Screen
	if pr.node != "" {
		v.ctl.PointerUp()
		if !pr.moved {
			v.ctl.Click(pr.node)
		}
	}
	v.hover(p)
	v.rebuild()
}

// Wheel zooms about the pointer by one zoom step per notch; positive notches zoom in.
func (v *Viewer) Wheel(x, y float64, notches int) {
	if notches == 0 {
		return
	}
	f := math.Pow(v.vp.Config().ZoomStep, float64(notches))
	v.vp.ZoomBy(f, r2.Vec{X: x, Y: y})
}

// Pointer returns the last pointer position in screen coordinates.
func (v *Viewer) Pointer() r2.Vec { return v.pointer }

// Viewport returns the pan/zoom controller.
func (v *Viewer) Viewport() *viewport.Viewport { return v.vp }

// Snapshot returns the sanitized snapshot currently shown.
func (v *Viewer) Snapshot() *graph.Snapshot { return v.snap }

// Engine returns the current layout engine. It is replaced by LoadGraph.
func (v *Viewer) Engine() *layout.Engine { return v.engine }

// Highlight returns the highlight state.
func (v *Viewer) Highlight() *highlight.State { return v.hl }

// Interaction returns the interaction controller.
func (v *Viewer) Interaction() *interaction.Controller { return v.ctl }

// Issues returns the problems found while sanitizing the last snapshot.
func (v *Viewer) Issues() []validation.Issue { return v.issues }

// ClusterAt returns the cluster at position i (0-based) in snapshot order.
func (v *Viewer) ClusterAt(i int) (graph.Cluster, bool) {
	if i < 0 || i >= len(v.snap.Clusters) {
		return graph.Cluster{}, false
	}
	return v.snap.Clusters[i], true
}

// Search returns the ids of nodes whose label or any keyword contains query,
// ignoring case. An empty query matches nothing.
func Search(s *graph.Snapshot, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || s == nil {
		return nil
	}
	hits := lo.Filter(s.Nodes, func(n graph.Node, _ int) bool {
		if strings.Contains(strings.ToLower(n.Label), q) {
			return true
		}
		return lo.ContainsBy(n.Keywords, func(k string) bool {
			return strings.Contains(strings.ToLower(k), q)
		})
	})
	return lo.Map(hits, func(n graph.Node, _ int) string { return n.ID })
}
