// Package interaction implements the hover, drag and click state machine for graph nodes.
//
// The controller has exactly one of three states: Idle, Hovering(node) or
// Dragging(node). Events that are not legal in the current state are ignored, so two
// nodes can never be dragged at once.
package interaction

import (
	"time"

	"semgraph/graph"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Hovering
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Pointer is a pointer location in both coordinate spaces.
type Pointer struct {
	Screen r2.Vec
	World  r2.Vec
}

// Tooltip describes the hover card for a node. Position is in screen space.
type Tooltip struct {
	NodeID       string
	Label        string
	ClusterLabel string
	ClusterColor string
	Keywords     []string
	SizeKB       float64
	Modified     time.Time
	Position     r2.Vec
}

// Pinner fixes and releases node positions in the simulation.
type Pinner interface {
	SetPinned(id string, p r2.Vec) bool
	ReleasePinned(id string) bool
}

// Sink receives the controller's outward events.
type Sink interface {
	// Tooltip shows t, or hides the tooltip when t is nil.
	Tooltip(t *Tooltip)
	Selected(n graph.Node)
}

// Config holds interaction settings.
type Config struct {
	TooltipOffsetX float64 `toml:"tooltip_offset_x"`
	TooltipOffsetY float64 `toml:"tooltip_offset_y"`
	ClickSlop      float64 `toml:"click_slop"` // screen pixels a press may travel and still count as a click
}

// DefaultConfig returns the stock interaction settings.
func DefaultConfig() Config {
	return Config{TooltipOffsetX: 12, TooltipOffsetY: -12, ClickSlop: 3}
}

// Controller is the interaction state machine.
type Controller struct {
	cfg    Config
	logger *zap.Logger

	snap   *graph.Snapshot
	pinner Pinner
	sink   Sink

	state   State
	node    string
	last    Pointer
	tooltip bool
}

// NewController creates a controller in the Idle state. Nil sink and logger are allowed.
func NewController(cfg Config, snap *graph.Snapshot, pinner Pinner, sink Sink, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snap == nil {
		snap = &graph.Snapshot{}
	}
	return &Controller{cfg: cfg, logger: logger, snap: snap, pinner: pinner, sink: sink}
}

// State returns the current state and the node it refers to ("" when Idle).
func (c *Controller) State() (State, string) {
	return c.state, c.node
}

// Hovered returns the hovered node id, or "".
func (c *Controller) Hovered() string {
	if c.state == Hovering {
		return c.node
	}
	return ""
}

// Dragged returns the dragged node id, or "".
func (c *Controller) Dragged() string {
	if c.state == Dragging {
		return c.node
	}
	return ""
}

// Config returns the controller settings.
func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) transition(to State, node string) {
	c.logger.Debug("interaction transition",
		zap.Stringer("from", c.state),
		zap.Stringer("to", to),
		zap.String("node", node))
	c.state = to
	c.node = node
}

func (c *Controller) ignore(event string) bool {
	c.logger.Debug("interaction event ignored", zap.String("event", event), zap.Stringer("state", c.state))
	return false
}

// PointerEnter starts hovering id. Legal only in Idle.
func (c *Controller) PointerEnter(id string, p Pointer) bool {
	if c.state != Idle {
		return c.ignore("enter")
	}
	n, ok := c.snap.Node(id)
	if !ok {
		return c.ignore("enter")
	}
	c.transition(Hovering, id)
	c.last = p
	c.showTooltip(n, p)
	return true
}

// PointerLeave stops hovering. Legal only in Hovering.
func (c *Controller) PointerLeave() bool {
	if c.state != Hovering {
		return c.ignore("leave")
	}
	c.transition(Idle, "")
	c.hideTooltip()
	return true
}

// PointerDown pins id at the pointer and starts dragging it. Legal in Idle and Hovering.
func (c *Controller) PointerDown(id string, p Pointer) bool {
	if c.state == Dragging || !c.snap.HasNode(id) {
		return c.ignore("down")
	}
	c.transition(Dragging, id)
	c.last = p
	c.hideTooltip()
	if c.pinner != nil {
		c.pinner.SetPinned(id, p.World)
	}
	return true
}

// PointerMove re-pins the dragged node, or moves the tooltip of the hovered one.
func (c *Controller) PointerMove(p Pointer) bool {
	switch c.state {
	case Dragging:
		c.last = p
		if c.pinner != nil {
			c.pinner.SetPinned(c.node, p.World)
		}
		return true
	case Hovering:
		c.last = p
		if n, ok := c.snap.Node(c.node); ok {
			c.showTooltip(n, p)
		}
		return true
	}
	return false
}

// PointerUp releases the dragged node. Legal only in Dragging.
func (c *Controller) PointerUp() bool {
	if c.state != Dragging {
		return c.ignore("up")
	}
	id := c.node
	c.transition(Idle, "")
	if c.pinner != nil {
		c.pinner.ReleasePinned(id)
	}
	return true
}

// Click emits a selection for id. Legal in Idle and Hovering; the simulation is untouched.
func (c *Controller) Click(id string) bool {
	if c.state == Dragging {
		return c.ignore("click")
	}
	n, ok := c.snap.Node(id)
	if !ok {
		return c.ignore("click")
	}
	c.logger.Debug("node selected", zap.String("node", id))
	if c.sink != nil {
		c.sink.Selected(n)
	}
	return true
}

// Reset returns to Idle, releasing any pin and hiding the tooltip.
func (c *Controller) Reset() {
	if c.state == Dragging && c.pinner != nil {
		c.pinner.ReleasePinned(c.node)
	}
	if c.state != Idle {
		c.transition(Idle, "")
	}
	c.hideTooltip()
}

// Rebind points the controller at a replacement snapshot and simulation. A dragged node
// that survives is pinned again in the new simulation; a hovered or dragged node that
// no longer exists returns the controller to Idle.
func (c *Controller) Rebind(snap *graph.Snapshot, pinner Pinner) {
	if snap == nil {
		snap = &graph.Snapshot{}
	}
	c.snap = snap
	c.pinner = pinner

	if c.state == Idle {
		return
	}
	n, ok := snap.Node(c.node)
	if !ok {
		c.transition(Idle, "")
		c.hideTooltip()
		return
	}
	switch c.state {
	case Dragging:
		if pinner != nil {
			pinner.SetPinned(c.node, c.last.World)
		}
	case Hovering:
		if c.tooltip {
			c.showTooltip(n, c.last)
		}
	}
}

func (c *Controller) showTooltip(n graph.Node, p Pointer) {
	t := &Tooltip{
		NodeID:   n.ID,
		Label:    n.Label,
		Keywords: n.Keywords,
		SizeKB:   n.SizeKB,
		Modified: n.Modified,
		Position: r2.Vec{X: p.Screen.X + c.cfg.TooltipOffsetX, Y: p.Screen.Y + c.cfg.TooltipOffsetY},
	}
	if cl, ok := c.snap.ClusterOf(n); ok {
		t.ClusterLabel = cl.Label
		t.ClusterColor = cl.Color
	}
	c.tooltip = true
	if c.sink != nil {
		c.sink.Tooltip(t)
	}
}

func (c *Controller) hideTooltip() {
	if !c.tooltip {
		return
	}
	c.tooltip = false
	if c.sink != nil {
		c.sink.Tooltip(nil)
	}
}
