package layout

import "math"

// applyCharge is pairwise many-body repulsion. Graphs are capped at a few
// hundred nodes, so the O(n²) sum stays within one tick's budget.
func (s *Simulation) applyCharge() {
	for i := range s.bodies {
		bi := &s.bodies[i]
		for j := range s.bodies {
			if i == j {
				continue
			}
			bj := &s.bodies[j]
			dx := bj.pos.X - bi.pos.X
			dy := bj.pos.Y - bi.pos.Y
			if dx == 0 {
				dx = s.rand.jiggle()
			}
			if dy == 0 {
				dy = s.rand.jiggle()
			}
			l := dx*dx + dy*dy
			if l < s.params.DistanceMin2 {
				l = math.Sqrt(s.params.DistanceMin2 * l)
			}
			w := bj.charge * s.alpha / l
			bi.vel.X += dx * w
			bi.vel.Y += dy * w
		}
	}
}

// applyCenter shifts every node so the mean position sits on the viewport
// center. It moves positions directly and does not add velocity.
func (s *Simulation) applyCenter() {
	if len(s.bodies) == 0 {
		return
	}
	var sum Vec
	for _, b := range s.bodies {
		sum = sum.Add(b.pos)
	}
	shift := sum.Scale(1 / float64(len(s.bodies))).Sub(s.viewport.Center())
	for i := range s.bodies {
		s.bodies[i].pos = s.bodies[i].pos.Sub(shift)
	}
}

// applyLinks pulls each subject-predicate and predicate-object pair toward
// the rest length, moving the less connected end more.
func (s *Simulation) applyLinks() {
	for _, sp := range s.springs {
		src := &s.bodies[sp.source]
		tgt := &s.bodies[sp.target]
		x := tgt.pos.X + tgt.vel.X - src.pos.X - src.vel.X
		y := tgt.pos.Y + tgt.vel.Y - src.pos.Y - src.vel.Y
		if x == 0 {
			x = s.rand.jiggle()
		}
		if y == 0 {
			y = s.rand.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - s.params.LinkDistance) / l * s.alpha * sp.strength
		x *= l
		y *= l
		tgt.vel.X -= x * sp.bias
		tgt.vel.Y -= y * sp.bias
		src.vel.X += x * (1 - sp.bias)
		src.vel.Y += y * (1 - sp.bias)
	}
}

// applyCollide separates overlapping circles, splitting the correction by
// relative area.
func (s *Simulation) applyCollide() {
	pad := s.params.CollidePadding
	for i := range s.bodies {
		bi := &s.bodies[i]
		ri := bi.radius + pad
		ri2 := ri * ri
		xi := bi.pos.X + bi.vel.X
		yi := bi.pos.Y + bi.vel.Y
		for j := i + 1; j < len(s.bodies); j++ {
			bj := &s.bodies[j]
			rj := bj.radius + pad
			r := ri + rj
			x := xi - bj.pos.X - bj.vel.X
			y := yi - bj.pos.Y - bj.vel.Y
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.rand.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.rand.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * s.params.CollideStrength
			x *= l
			y *= l
			rj2 := rj * rj
			w := rj2 / (ri2 + rj2)
			bi.vel.X += x * w
			bi.vel.Y += y * w
			bj.vel.X -= x * (1 - w)
			bj.vel.Y -= y * (1 - w)
		}
	}
}
