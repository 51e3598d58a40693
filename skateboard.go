package main

// Skateboard is the single shared ride. Exactly one of Spawned (lying in
// the world) or OwnerID != "" (carried) holds outside of a reset.
type Skateboard struct {
	X, Y    float64
	W, H    float64
	Spawned bool
	OwnerID string
}

// Rect returns the board's footprint
func (s *Skateboard) Rect() Rect {
	return Rect{X: s.X, Y: s.Y, W: s.W, H: s.H}
}

// ToState converts to protocol state
func (s *Skateboard) ToState() SkateboardState {
	return SkateboardState{
		X:       round1(s.X),
		Y:       round1(s.Y),
		Width:   s.W,
		Height:  s.H,
		Spawned: s.Spawned,
		OwnerID: s.OwnerID,
	}
}

// spawnSkateboard drops the board at a random spot in the street.
func (w *World) spawnSkateboard() {
	s := &w.skateboard
	s.W = w.rules.SkateboardWidth
	s.H = w.rules.SkateboardHeight
	s.X = streetArea.X + w.rng.Float64()*(streetArea.Width-s.W)
	s.Y = streetArea.Y + w.rng.Float64()*(streetArea.Height-s.H)
	s.Spawned = true
	s.OwnerID = ""
}

// pickUpSkateboard gives the board to p when it lies within reach.
func (w *World) pickUpSkateboard(p *Player) bool {
	s := &w.skateboard
	if p.HasSkateboard || !s.Spawned || s.OwnerID != "" || p.Role != RoleHuman {
		return false
	}
	if Distance(p.Center(), s.Rect().Center()) >= w.rules.SkateboardReach {
		return false
	}
	p.HasSkateboard = true
	s.OwnerID = p.ID
	s.Spawned = false
	return true
}

// dropSkateboard puts p's board back into the world at (x, y).
func (w *World) dropSkateboard(p *Player, x, y float64) {
	if !p.HasSkateboard {
		return
	}
	p.HasSkateboard = false
	s := &w.skateboard
	s.X = x
	s.Y = y
	s.Spawned = true
	s.OwnerID = ""
}
