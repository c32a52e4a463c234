package layout

import (
	"math"

	"semgraph/geometry"
	"semgraph/graph"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a read-only view of one simulated node.
type Body struct {
	ID       string
	Position r2.Vec
	Velocity r2.Vec
	Radius   float64
	Pinned   bool
}

// body is the mutable simulation record for one node.
type body struct {
	id     string
	pos    r2.Vec
	vel    r2.Vec
	force  r2.Vec // velocity delta accumulated during the current tick
	radius float64
	pinned bool
	pin    r2.Vec
}

// link references its endpoints by id; they are resolved against the node table on use.
type link struct {
	source string
	target string
	weight float64
}

// Engine owns the position and velocity of every node and advances the force
// simulation one tick per Step call. It never schedules itself; an external clock
// decides when to call Step.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	bodies []body
	index  map[string]int
	links  []link
	degree map[string]int

	alpha       float64
	alphaTarget float64
	atRest      bool
	stopped     bool
	pins        int
	ticks       int
}

// NewEngine creates an engine with the given tuning. A nil logger discards output.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg.normalized(),
		logger: logger,
		index:  make(map[string]int),
		degree: make(map[string]int),
		atRest: true,
	}
}

// Initialize builds the node table and the link list, dropping links whose endpoints
// do not resolve. Previous state is discarded.
func (e *Engine) Initialize(nodes []graph.Node, edges []graph.Edge) {
	e.InitializeFrom(nodes, edges, nil)
}

// InitializeFrom is like Initialize but starts any node whose id also exists in prev
// at prev's position and velocity.
func (e *Engine) InitializeFrom(nodes []graph.Node, edges []graph.Edge, prev *Engine) {
	e.bodies = make([]body, 0, len(nodes))
	e.index = make(map[string]int, len(nodes))
	e.links = e.links[:0]
	e.degree = make(map[string]int)
	e.pins = 0
	e.ticks = 0
	e.stopped = false
	e.alphaTarget = 0

	reused := 0
	for _, n := range nodes {
		if _, dup := e.index[n.ID]; dup {
			continue
		}
		b := body{
			id:     n.ID,
			radius: Radius(n.SizeKB),
			pos:    e.seed(n, len(e.bodies)),
		}
		if prev != nil {
			if old, ok := prev.lookup(n.ID); ok {
				b.pos, b.vel = old.pos, old.vel
				reused++
			}
		}
		e.index[n.ID] = len(e.bodies)
		e.bodies = append(e.bodies, b)
	}

	dropped := 0
	for _, ed := range edges {
		_, okS := e.index[ed.Source]
		_, okT := e.index[ed.Target]
		if !okS || !okT || ed.Source == ed.Target {
			dropped++
			continue
		}
		e.links = append(e.links, link{source: ed.Source, target: ed.Target, weight: ed.Weight})
		e.degree[ed.Source]++
		e.degree[ed.Target]++
	}

	e.alpha = 1
	e.atRest = len(e.bodies) == 0

	e.logger.Debug("simulation initialized",
		zap.Int("nodes", len(e.bodies)),
		zap.Int("links", len(e.links)),
		zap.Int("dropped_links", dropped),
		zap.Int("reused_positions", reused))
}

// seed returns the starting position of the i-th node: its seed scaled by the
// initial spread, or a slot on a phyllotaxis spiral.
func (e *Engine) seed(n graph.Node, i int) r2.Vec {
	if n.HasSeed() {
		p := r2.Vec{X: *n.X, Y: *n.Y}
		if geometry.FiniteVec(p) {
			return r2.Scale(e.cfg.InitialSpread, p)
		}
	}
	return spiral(e.cfg.InitialRadius, i)
}

var goldenAngle = math.Pi * (3 - math.Sqrt(5))

func spiral(radius float64, i int) r2.Vec {
	r := radius * math.Sqrt(0.5+float64(i))
	a := float64(i) * goldenAngle
	return r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
}

// Step advances the simulation one tick. It returns false without doing anything when
// the engine is at rest, stopped or empty.
func (e *Engine) Step() bool {
	if e.stopped || e.atRest || len(e.bodies) == 0 {
		return false
	}

	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay

	for i := range e.bodies {
		e.bodies[i].force = r2.Vec{}
	}
	e.applyLinks(e.alpha)
	e.applyCharge(e.alpha)
	e.applyCollide()
	shift := e.centering()

	keep := 1 - e.cfg.VelocityDecay
	for i := range e.bodies {
		b := &e.bodies[i]
		if b.pinned {
			b.pos = b.pin
			b.vel = r2.Vec{}
			continue
		}
		b.vel = r2.Scale(keep, r2.Add(b.vel, b.force))
		b.pos = r2.Add(r2.Add(b.pos, b.vel), shift)
		if !geometry.FiniteVec(b.pos) || !geometry.FiniteVec(b.vel) {
			b.pos = spiral(e.cfg.InitialRadius, i)
			b.vel = r2.Vec{}
		}
	}
	e.ticks++

	if e.alpha < e.cfg.AlphaMin {
		e.atRest = true
		e.logger.Debug("simulation at rest", zap.Int("ticks", e.ticks), zap.Float64("alpha", e.alpha))
	}
	return true
}

// SetPinned fixes a node at p, overriding simulated motion until ReleasePinned.
// Pinning reheats the simulation so neighbours react. It reports whether the node exists.
func (e *Engine) SetPinned(id string, p r2.Vec) bool {
	if e.stopped {
		return false
	}
	i, ok := e.index[id]
	if !ok {
		return false
	}
	b := &e.bodies[i]
	if !b.pinned {
		e.pins++
	}
	b.pinned = true
	b.pin = p
	b.pos = p
	b.vel = r2.Vec{}

	e.alphaTarget = e.cfg.DragAlphaTarget
	if e.alpha < e.cfg.ReheatAlpha {
		e.alpha = e.cfg.ReheatAlpha
	}
	e.atRest = false
	return true
}

// ReleasePinned clears a node's pin. Alpha is left to decay naturally once no pins remain.
func (e *Engine) ReleasePinned(id string) bool {
	i, ok := e.index[id]
	if !ok || !e.bodies[i].pinned {
		return false
	}
	e.bodies[i].pinned = false
	e.pins--
	if e.pins == 0 {
		e.alphaTarget = 0
	}
	return true
}

// Reheat raises alpha so the simulation resumes active motion.
func (e *Engine) Reheat(alpha float64) {
	if e.stopped || len(e.bodies) == 0 {
		return
	}
	alpha = geometry.Clamp(alpha, 0, 1)
	if alpha > e.alpha {
		e.alpha = alpha
	}
	e.atRest = e.alpha < e.cfg.AlphaMin
}

// Stop releases all simulation state. Further calls to Step are no-ops.
func (e *Engine) Stop() {
	e.stopped = true
	e.atRest = true
	e.bodies = nil
	e.index = make(map[string]int)
	e.links = nil
	e.degree = make(map[string]int)
	e.pins = 0
}

// Alpha returns the current simulation energy.
func (e *Engine) Alpha() float64 { return e.alpha }

// AtRest reports whether alpha has fallen below the rest threshold.
func (e *Engine) AtRest() bool { return e.atRest }

// Stopped reports whether Stop has been called since the last Initialize.
func (e *Engine) Stopped() bool { return e.stopped }

// Ticks returns the number of steps taken since Initialize.
func (e *Engine) Ticks() int { return e.ticks }

// Len returns the number of simulated nodes.
func (e *Engine) Len() int { return len(e.bodies) }

// Config returns the normalized tuning in use.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) lookup(id string) (*body, bool) {
	if e == nil {
		return nil, false
	}
	i, ok := e.index[id]
	if !ok {
		return nil, false
	}
	return &e.bodies[i], true
}

// Position returns a node's current position.
func (e *Engine) Position(id string) (r2.Vec, bool) {
	b, ok := e.lookup(id)
	if !ok {
		return r2.Vec{}, false
	}
	return b.pos, true
}

// Radius returns a node's collision and draw radius.
func (e *Engine) Radius(id string) (float64, bool) {
	b, ok := e.lookup(id)
	if !ok {
		return 0, false
	}
	return b.radius, true
}

// Pinned reports whether a node is currently pinned.
func (e *Engine) Pinned(id string) bool {
	b, ok := e.lookup(id)
	return ok && b.pinned
}

// Body returns a snapshot of a node's simulation record.
func (e *Engine) Body(id string) (Body, bool) {
	b, ok := e.lookup(id)
	if !ok {
		return Body{}, false
	}
	return b.view(), true
}

// Bodies returns snapshots of all simulated nodes in initialization order.
func (e *Engine) Bodies() []Body {
	out := make([]Body, len(e.bodies))
	for i := range e.bodies {
		out[i] = e.bodies[i].view()
	}
	return out
}

func (b *body) view() Body {
	return Body{ID: b.id, Position: b.pos, Velocity: b.vel, Radius: b.radius, Pinned: b.pinned}
}

// Edges returns the retained links as edges.
func (e *Engine) Edges() []graph.Edge {
	out := make([]graph.Edge, len(e.links))
	for i, l := range e.links {
		out[i] = graph.Edge{Source: l.source, Target: l.target, Weight: l.weight}
	}
	return out
}

// Settle steps until the engine comes to rest or maxTicks steps were taken.
// It returns the number of steps taken.
func (e *Engine) Settle(maxTicks int) int {
	n := 0
	for n < maxTicks && e.Step() {
		n++
	}
	return n
}
