package main

// Zone is a static axis-aligned area: a wall, the chest, a duct or a sunshade
type Zone struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the zone as an unrotated rectangle
func (z Zone) Rect() Rect {
	return Rect{X: z.X, Y: z.Y, W: z.Width, H: z.Height}
}

// Center returns the middle of the zone
func (z Zone) Center() Vec {
	return Vec{z.X + z.Width/2, z.Y + z.Height/2}
}

// updateStealth marks players in a duct or under a sunshade as hidden.
func (w *World) updateStealth(p *Player) {
	if p.InDuct {
		p.IsHidden = true
		return
	}
	hb := p.Hitbox(w.rules.HitboxInset)
	p.IsHidden = false
	for _, s := range w.sunshades {
		if Overlaps(hb, s.Rect()) {
			p.IsHidden = true
			return
		}
	}
}

// enterDuct starts the engineer's one trip if p stands on a duct. The exit
// is the next duct in layout order.
func (w *World) enterDuct(p *Player) bool {
	if p.Ability.Kind != AbilityEngineer || p.Ability.UsesLeft <= 0 || p.InDuct {
		return false
	}
	hb := p.Hitbox(w.rules.HitboxInset)
	for i, d := range w.ducts {
		if !Overlaps(hb, d.Rect()) {
			continue
		}
		p.Ability.UsesLeft--
		p.InDuct = true
		p.ductTimer = w.rules.DuctTravelTime
		p.ductExit = (i + 1) % len(w.ducts)
		p.cancelCamouflage()
		return true
	}
	return false
}

// exitDuct places p centered on its exit duct.
func (w *World) exitDuct(p *Player) {
	p.InDuct = false
	p.ductTimer = 0
	if p.ductExit < 0 || p.ductExit >= len(w.ducts) {
		return
	}
	c := w.ducts[p.ductExit].Center()
	p.X = c.X - p.W/2
	p.Y = c.Y - p.H/2
}
