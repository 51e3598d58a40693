package main

import "math"

// movePlayer applies one tick of p's held input. Each axis is attempted
// separately so diagonal movement slides along walls.
func (w *World) movePlayer(p *Player) {
	if p.InDuct {
		return
	}
	dx, dy := p.Input.Movement.Axis()
	moving := dx != 0 || dy != 0
	if moving {
		p.cancelCamouflage()
	}

	var step Vec
	switch {
	case !moving:
	case p.HasSkateboard:
		sin, cos := math.Sincos(p.Rotation)
		step = Vec{cos, sin}.Scale(w.rules.SkateboardSpeed)
	default:
		step = Vec{dx * p.Speed, dy * p.Speed}
	}

	w.moveAxes(p, step)
	w.pushBodies(p, Vec{dx, dy}.Normalize())
}

// tryMoveAxis moves p by (dx, dy) and rolls the move back if it leaves the
// world or drives the hitbox into a wall or the chest. A player already
// stuck in an obstacle may only make moves that get it less stuck.
func (w *World) tryMoveAxis(p *Player, dx, dy float64) {
	before := w.staticPenetration(p.Hitbox(w.rules.HitboxInset))
	oldX, oldY := p.X, p.Y
	p.X += dx
	p.Y += dy
	if !w.playerInWorld(p) {
		p.X, p.Y = oldX, oldY
		return
	}
	after := w.staticPenetration(p.Hitbox(w.rules.HitboxInset))
	if after > 0 && (before == 0 || after >= before) {
		p.X, p.Y = oldX, oldY
	}
}

// staticPenetration sums how deep r sits in the walls and the chest.
func (w *World) staticPenetration(r Rect) float64 {
	depth := 0.0
	for _, s := range w.statics {
		if mtv, ok := SAT(r, s); ok {
			depth += mtv.Len()
		}
	}
	return depth
}

// moveAxes moves p by d one axis at a time through tryMoveAxis.
func (w *World) moveAxes(p *Player, d Vec) {
	if d.X != 0 {
		w.tryMoveAxis(p, d.X, 0)
	}
	if d.Y != 0 {
		w.tryMoveAxis(p, 0, d.Y)
	}
}

func (w *World) playerInWorld(p *Player) bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.X+p.W <= w.rules.WorldWidth &&
		p.Y+p.H <= w.rules.WorldHeight
}

// hitsStatic reports whether r overlaps a wall or the chest.
func (w *World) hitsStatic(r Rect) bool {
	for _, s := range w.statics {
		if r.Rotation == 0 {
			if Overlaps(r, s) {
				return true
			}
			continue
		}
		if _, ok := SAT(r, s); ok {
			return true
		}
	}
	return false
}

func (w *World) rectInWorld(r Rect) bool {
	minX, minY, maxX, maxY := r.Bounds()
	return minX >= 0 && minY >= 0 && maxX <= w.rules.WorldWidth && maxY <= w.rules.WorldHeight
}

// pushBodies resolves p's hitbox against every movable body. dir is the
// normalized movement input.
//
// A body that would end up inside a wall acts as immovable and p is pushed
// back instead; a skateboard rider is always pushed back and never moves
// the body.
func (w *World) pushBodies(p *Player, dir Vec) {
	r := &w.rules
	for _, b := range w.bodies {
		mtv, ok := SAT(p.Hitbox(r.HitboxInset), b.Rect())
		if !ok {
			continue
		}
		if p.HasSkateboard || dir.IsZero() {
			w.moveAxes(p, mtv.Scale(-1))
			continue
		}

		moved := b.Rect().Translate(mtv)
		if w.hitsStatic(moved) || !w.rectInWorld(moved) {
			w.moveAxes(p, mtv.Scale(-1))
			continue
		}

		b.X += mtv.X
		b.Y += mtv.Y
		force := dir.Scale(r.BoxPushForce)
		b.VX += force.X
		b.VY += force.Y
		arm := p.Hitbox(r.HitboxInset).Center().Sub(b.Rect().Center())
		b.AngularVelocity += arm.Cross(force) * r.TorqueFactor
	}
}
