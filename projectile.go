package main

import "math"

// Arrow is an archer projectile travelling in a straight line
type Arrow struct {
	ID      int
	OwnerID string
	X, Y    float64
	Size    float64
	Angle   float64
	Alive   bool
}

// NewArrow spawns an arrow at the shooter's center along its facing
func NewArrow(id int, owner *Player, size float64) *Arrow {
	c := owner.Center()
	return &Arrow{
		ID:      id,
		OwnerID: owner.ID,
		X:       c.X,
		Y:       c.Y,
		Size:    size,
		Angle:   owner.Rotation,
		Alive:   true,
	}
}

// Rect returns the arrow's hit box
func (a *Arrow) Rect() Rect {
	return Rect{X: a.X, Y: a.Y, W: a.Size, H: a.Size}
}

// Heading returns the unit direction of travel
func (a *Arrow) Heading() Vec {
	sin, cos := math.Sincos(a.Angle)
	return Vec{cos, sin}
}

// Update moves the arrow one tick and kills it once it leaves the world
func (a *Arrow) Update(speed, worldW, worldH float64) {
	if !a.Alive {
		return
	}
	h := a.Heading()
	a.X += h.X * speed
	a.Y += h.Y * speed
	if a.X+a.Size < 0 || a.X > worldW || a.Y+a.Size < 0 || a.Y > worldH {
		a.Alive = false
	}
}

// ToState converts to protocol state
func (a *Arrow) ToState() ArrowState {
	return ArrowState{
		ID:      a.ID,
		X:       round1(a.X),
		Y:       round1(a.Y),
		Width:   a.Size,
		Height:  a.Size,
		Angle:   a.Angle,
		OwnerID: a.OwnerID,
	}
}

// shoot spends one arrow if p is an archer with ammo.
func (w *World) shoot(p *Player) {
	if p.Role != RoleHuman || p.InDuct || p.Ability.Kind != AbilityArcher || p.Ability.Ammo <= 0 {
		return
	}
	p.Ability.Ammo--
	w.nextArrowID++
	w.arrows = append(w.arrows, NewArrow(w.nextArrowID, p, w.rules.ArrowSize))
}

// stepArrows advances arrows, applies knockback on the first non-owner
// hitbox each one touches, and drops dead arrows.
func (w *World) stepArrows() {
	r := &w.rules
	alive := w.arrows[:0]
	for _, a := range w.arrows {
		a.Update(r.ArrowSpeed, r.WorldWidth, r.WorldHeight)
		if a.Alive {
			if target := w.arrowTarget(a); target != nil {
				h := a.Heading()
				w.moveAxes(target, h.Scale(r.ArrowKnockback))
				a.Alive = false
			}
		}
		if a.Alive {
			alive = append(alive, a)
		}
	}
	for i := len(alive); i < len(w.arrows); i++ {
		w.arrows[i] = nil
	}
	w.arrows = alive
}

func (w *World) arrowTarget(a *Arrow) *Player {
	box := a.Rect()
	w.gridBuf = w.grid.QueryBuf(box, w.gridBuf[:0])
	var hit *Player
	for _, ref := range w.gridBuf {
		p := w.order[ref.Idx]
		if p.ID == a.OwnerID || p.InDuct {
			continue
		}
		if !Overlaps(box, p.Hitbox(w.rules.HitboxInset)) {
			continue
		}
		// lowest id wins so results do not depend on cell order
		if hit == nil || p.ID < hit.ID {
			hit = p
		}
	}
	return hit
}
