package main

// rebuildGrid indexes every player outside a duct by hitbox.
func (w *World) rebuildGrid() {
	w.grid.Clear()
	for i, p := range w.order {
		if p.InDuct {
			continue
		}
		w.grid.InsertRect(p.Hitbox(w.rules.HitboxInset), EntityRef{Kind: 'p', Idx: i})
	}
}

// spreadInfection converts every human whose hitbox touches a zombie's.
// Conversions take effect after the whole pass, so a newly infected
// player does not infect others in the same tick.
func (w *World) spreadInfection() {
	var victims []*Player
	seen := make(map[string]bool)
	for _, z := range w.order {
		if z.Role != RoleZombie || z.InDuct {
			continue
		}
		zh := z.Hitbox(w.rules.HitboxInset)
		w.gridBuf = w.grid.QueryBuf(zh, w.gridBuf[:0])
		for _, ref := range w.gridBuf {
			h := w.order[ref.Idx]
			if h.Role != RoleHuman || seen[h.ID] {
				continue
			}
			if Overlaps(zh, h.Hitbox(w.rules.HitboxInset)) {
				seen[h.ID] = true
				victims = append(victims, h)
			}
		}
	}
	for _, h := range victims {
		w.Infect(h)
	}
}

// Infect turns a human into a zombie and announces it.
func (w *World) Infect(p *Player) {
	if p.Role == RoleZombie {
		return
	}
	w.turnZombie(p)
	w.emit(WorldEvent{Type: EvtInfection, PlayerID: p.ID, Name: p.Name})
}

// turnZombie converts p: a carried board is dropped, any running ability
// effect ends, and speed is recomputed for the zombie role.
func (w *World) turnZombie(p *Player) {
	if p.HasSkateboard {
		w.dropSkateboard(p, p.X, p.Y+p.H)
	}
	p.Role = RoleZombie
	p.endEffects()
	p.Speed = w.rules.SizeSpeed(p.W, RoleZombie)
}
