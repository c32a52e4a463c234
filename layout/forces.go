package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// jiggle separates coincident points along a fixed axis so every force has a direction.
const jiggle = 1e-6

// applyLinks pulls linked nodes toward the rest distance. Each endpoint takes a share
// of the correction inversely proportional to its degree.
func (e *Engine) applyLinks(alpha float64) {
	for _, l := range e.links {
		si, okS := e.index[l.source]
		ti, okT := e.index[l.target]
		if !okS || !okT {
			continue
		}
		s, t := &e.bodies[si], &e.bodies[ti]

		d := r2.Sub(r2.Add(t.pos, t.vel), r2.Add(s.pos, s.vel))
		if d.X == 0 && d.Y == 0 {
			d.X = jiggle
		}
		dist := r2.Norm(d)
		k := (dist - e.cfg.LinkDistance) / dist * alpha * e.cfg.LinkStrength
		d = r2.Scale(k, d)

		ds, dt := float64(e.degree[l.source]), float64(e.degree[l.target])
		bias := ds / (ds + dt)
		t.force = r2.Sub(t.force, r2.Scale(bias, d))
		s.force = r2.Add(s.force, r2.Scale(1-bias, d))
	}
}

// applyCharge repels every pair of nodes. Small graphs are summed exactly; larger ones
// use a Barnes-Hut quadtree.
func (e *Engine) applyCharge(alpha float64) {
	if e.cfg.ChargeStrength == 0 || len(e.bodies) < 2 {
		return
	}
	if len(e.bodies) >= e.cfg.BarnesHutThreshold && e.cfg.BarnesHutThreshold > 0 {
		if e.chargeApprox(alpha) {
			return
		}
	}
	e.chargeExact(alpha)
}

// repulsion returns the velocity delta for a node displaced by v from a source of the
// given mass.
func (e *Engine) repulsion(v r2.Vec, mass, alpha float64) r2.Vec {
	l := v.X*v.X + v.Y*v.Y
	if l == 0 {
		return r2.Vec{}
	}
	min2 := e.cfg.ChargeDistanceMin * e.cfg.ChargeDistanceMin
	if l < min2 {
		l = math.Sqrt(min2 * l)
	}
	return r2.Scale(e.cfg.ChargeStrength*mass*alpha/l, v)
}

func (e *Engine) chargeExact(alpha float64) {
	for i := range e.bodies {
		a := &e.bodies[i]
		for j := i + 1; j < len(e.bodies); j++ {
			b := &e.bodies[j]
			v := r2.Sub(b.pos, a.pos)
			if v.X == 0 && v.Y == 0 {
				v.X = jiggle
			}
			f := e.repulsion(v, 1, alpha)
			a.force = r2.Add(a.force, f)
			b.force = r2.Sub(b.force, f)
		}
	}
}

// particle adapts a body to the barneshut package. Each node has unit mass.
type particle struct {
	pos r2.Vec
}

func (p *particle) Coord2() r2.Vec { return p.pos }
func (p *particle) Mass() float64  { return 1 }

// chargeApprox reports false if the quadtree could not be built.
func (e *Engine) chargeApprox(alpha float64) bool {
	particles := make([]barneshut.Particle2, len(e.bodies))
	seen := make(map[r2.Vec]int, len(e.bodies))
	for i := range e.bodies {
		p := e.bodies[i].pos
		if n := seen[p]; n > 0 {
			p.X += jiggle * float64(n)
		}
		seen[e.bodies[i].pos]++
		particles[i] = &particle{pos: p}
	}

	plane, err := barneshut.NewPlane(particles)
	if err != nil {
		e.logger.Debug("barnes-hut unavailable, using exact repulsion")
		return false
	}
	force := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p1 == p2 {
			return r2.Vec{}
		}
		return e.repulsion(v, m2, alpha)
	}
	for i := range e.bodies {
		f := plane.ForceOn(particles[i], e.cfg.Theta, force)
		e.bodies[i].force = r2.Add(e.bodies[i].force, f)
	}
	return true
}

// centering returns the translation that moves the centroid of all nodes, pinned ones
// included, to the origin. Pinned nodes ignore the shift.
func (e *Engine) centering() r2.Vec {
	if e.cfg.CenterStrength == 0 {
		return r2.Vec{}
	}
	if len(e.bodies) == 0 {
		return r2.Vec{}
	}
	var sum r2.Vec
	for i := range e.bodies {
		sum = r2.Add(sum, e.bodies[i].pos)
	}
	return r2.Scale(-e.cfg.CenterStrength/float64(len(e.bodies)), sum)
}

type cell struct{ x, y int }

// applyCollide pushes apart nodes whose padded discs overlap at their predicted next
// positions. Pairs are found through a uniform grid whose cells are as wide as the
// largest possible contact distance.
func (e *Engine) applyCollide() {
	if e.cfg.CollideStrength == 0 || len(e.bodies) < 2 {
		return
	}
	size := 2 * (MaxRadius + e.cfg.CollidePadding)
	next := make([]r2.Vec, len(e.bodies))
	grid := make(map[cell][]int)
	for i := range e.bodies {
		b := &e.bodies[i]
		next[i] = r2.Add(b.pos, r2.Add(b.vel, b.force))
		c := cell{int(math.Floor(next[i].X / size)), int(math.Floor(next[i].Y / size))}
		grid[c] = append(grid[c], i)
	}

	delta := make([]r2.Vec, len(e.bodies))
	for i := range e.bodies {
		ri := e.bodies[i].radius + e.cfg.CollidePadding
		c := cell{int(math.Floor(next[i].X / size)), int(math.Floor(next[i].Y / size))}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[cell{c.x + dx, c.y + dy}] {
					if j <= i {
						continue
					}
					rj := e.bodies[j].radius + e.cfg.CollidePadding
					r := ri + rj
					v := r2.Sub(next[i], next[j])
					l := v.X*v.X + v.Y*v.Y
					if l >= r*r {
						continue
					}
					if l == 0 {
						v.X = jiggle
						l = jiggle * jiggle
					}
					dist := math.Sqrt(l)
					v = r2.Scale((r-dist)/dist*e.cfg.CollideStrength, v)
					share := rj * rj / (ri*ri + rj*rj)
					delta[i] = r2.Add(delta[i], r2.Scale(share, v))
					delta[j] = r2.Sub(delta[j], r2.Scale(1-share, v))
				}
			}
		}
	}
	for i := range e.bodies {
		e.bodies[i].force = r2.Add(e.bodies[i].force, delta[i])
	}
}
