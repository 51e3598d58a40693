package main

import "sort"

// Phase is the round lifecycle state
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseRunning Phase = "running"
)

// Round holds the per-round clock. StartTime counts down while waiting,
// TimeLeft while running.
type Round struct {
	Phase         Phase
	StartTime     int
	TimeLeft      int
	humansAtStart int
}

// SecondTick advances the round clock by one second. With nobody
// connected the clock is frozen.
func (w *World) SecondTick() {
	if len(w.players) == 0 {
		return
	}
	switch w.round.Phase {
	case PhaseWaiting:
		if w.round.StartTime > 0 {
			w.round.StartTime--
		}
		if w.round.StartTime <= 0 {
			w.startRound()
		}
	case PhaseRunning:
		w.round.TimeLeft--
		for _, p := range w.order {
			p.Coins += w.rules.CoinsPerSecond
			p.secondTick(w.rules)
		}
		if w.round.TimeLeft <= 0 {
			w.endRound(RoleHuman)
		}
	}
}

// startRound picks patient zero and starts the clock.
func (w *World) startRound() {
	ids := make([]string, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	p := w.players[ids[w.rng.Intn(len(ids))]]

	w.turnZombie(p)

	w.round.Phase = PhaseRunning
	w.round.StartTime = 0
	w.round.TimeLeft = w.rules.RoundDuration
	w.round.humansAtStart = len(w.players)
	w.emit(WorldEvent{Type: EvtRoundStart, PlayerID: p.ID, Name: p.Name, Players: len(w.players)})
}

// checkZombieWin ends the round once no undisguised human is left. Rounds
// started with fewer than MinPlayersZombieWin players only end on time.
func (w *World) checkZombieWin() {
	if w.round.Phase != PhaseRunning || w.round.humansAtStart < w.rules.MinPlayersZombieWin {
		return
	}
	for _, p := range w.order {
		if p.Role == RoleHuman && !p.IsSpying() {
			return
		}
	}
	w.endRound(RoleZombie)
}

// endRound announces the winner and rebuilds the match. Players stay
// connected and keep their coins; everything else starts over.
func (w *World) endRound(winner Role) {
	w.emit(WorldEvent{
		Type:     EvtRoundEnd,
		Winner:   winner,
		Players:  len(w.players),
		Duration: w.rules.RoundDuration - w.round.TimeLeft,
	})

	board := w.skateboard
	w.resetLayout()
	for _, p := range w.order {
		hadBoard := p.HasSkateboard
		p.resetForRound(w.rules)
		p.HasSkateboard = hadBoard
	}
	if board.Spawned || board.OwnerID == "" || w.players[board.OwnerID] == nil {
		for _, p := range w.order {
			p.HasSkateboard = false
		}
		w.spawnSkateboard()
	}
}

// Phase returns the current round phase
func (w *World) Phase() Phase {
	return w.round.Phase
}

// Round returns a copy of the round clock
func (w *World) Round() Round {
	return w.round
}
