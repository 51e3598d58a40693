package main

import (
	"math/rand"
	"sort"
)

// Player actions carried by playerAction
const (
	ActionPrimary        = "primary_action"
	ActionInteract       = "interact"
	ActionAbility        = "ability"
	ActionDropSkateboard = "drop_skateboard"
)

// WorldEvent is something the loop should announce or record after a step
type WorldEvent struct {
	Type     string // one of the Evt* analytics types
	PlayerID string
	Name     string
	Winner   Role
	Ability  AbilityKind
	Players  int
	Duration int // seconds played, round_end only
}

// World is the whole simulation context for one match. It is not safe
// for concurrent use; the game loop owns it.
type World struct {
	rules Rules
	rng   *rand.Rand

	players map[string]*Player
	order   []*Player // players sorted by id, refreshed on join and leave

	bodies    []*Body // boxes then furniture
	boxCount  int
	house     Structure
	garage    Structure
	chest     Zone
	ducts     []Zone
	sunshades []Zone
	statics   []Rect // walls and chest

	skateboard  Skateboard
	arrows      []*Arrow
	nextArrowID int

	taken map[AbilityKind]string // ability -> holder id
	round Round

	grid    *SpatialGrid
	gridBuf []EntityRef
	events  []WorldEvent
	tick    uint64
}

// NewWorld builds a fresh match with an empty player set
func NewWorld(rules Rules, rng *rand.Rand) *World {
	w := &World{
		rules:   rules,
		rng:     rng,
		players: make(map[string]*Player),
		grid:    NewSpatialGrid(rules.WorldWidth, rules.WorldHeight),
	}
	w.resetLayout()
	w.spawnSkateboard()
	return w
}

// resetLayout rebuilds everything round-scoped except players and the
// skateboard.
func (w *World) resetLayout() {
	boxes := seedBoxes()
	w.bodies = append(boxes, seedFurniture()...)
	w.boxCount = len(boxes)
	w.house = buildHouse()
	w.garage = buildGarage()
	w.chest = chestLayout
	w.ducts = append([]Zone(nil), ductLayout...)
	w.sunshades = append([]Zone(nil), sunshadeLayout...)

	w.statics = w.statics[:0]
	for _, s := range []Structure{w.house, w.garage} {
		for _, wall := range s.Walls {
			w.statics = append(w.statics, wall.Rect())
		}
	}
	w.statics = append(w.statics, w.chest.Rect())

	w.arrows = nil
	w.taken = make(map[AbilityKind]string)
	w.round = Round{
		Phase:     PhaseWaiting,
		StartTime: w.rules.WaitingTime,
		TimeLeft:  w.rules.RoundDuration,
	}
}

func (w *World) emit(e WorldEvent) {
	w.events = append(w.events, e)
}

// DrainEvents returns and clears the events produced since the last call
func (w *World) DrainEvents() []WorldEvent {
	ev := w.events
	w.events = nil
	return ev
}

// AddPlayer creates a fresh human
func (w *World) AddPlayer(id, name, identity string) *Player {
	p := NewPlayer(id, name, identity, w.rules)
	w.players[id] = p
	w.sortPlayers()
	return p
}

// RemovePlayer frees the player's ability and respawns a carried board.
// The last player leaving resets the match to a fresh waiting period.
func (w *World) RemovePlayer(id string) {
	p, ok := w.players[id]
	if !ok {
		return
	}
	if p.Ability.Kind != AbilityNone {
		delete(w.taken, p.Ability.Kind)
	}
	if p.HasSkateboard || w.skateboard.OwnerID == id {
		p.HasSkateboard = false
		w.spawnSkateboard()
	}
	delete(w.players, id)
	w.sortPlayers()

	if len(w.players) == 0 && w.round.Phase != PhaseWaiting {
		w.resetLayout()
	}
}

// Player returns the player with the given id, or nil
func (w *World) Player(id string) *Player {
	return w.players[id]
}

// PlayerByName returns the first player (by id order) with that exact name
func (w *World) PlayerByName(name string) *Player {
	for _, p := range w.order {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PlayerCount returns the number of connected players
func (w *World) PlayerCount() int {
	return len(w.players)
}

func (w *World) sortPlayers() {
	w.order = w.order[:0]
	for _, p := range w.players {
		w.order = append(w.order, p)
	}
	sort.Slice(w.order, func(i, j int) bool { return w.order[i].ID < w.order[j].ID })
}

// SetInput replaces the player's stored intent
func (w *World) SetInput(id string, in PlayerInput) {
	p, ok := w.players[id]
	if !ok {
		return
	}
	p.Input = in
	p.Rotation = in.Rotation
}

// HandleAction dispatches one playerAction
func (w *World) HandleAction(id, action string) {
	p, ok := w.players[id]
	if !ok {
		return
	}
	switch action {
	case ActionPrimary:
		w.shoot(p)
	case ActionAbility:
		w.ActivateAbility(p)
	case ActionInteract:
		if w.pickUpSkateboard(p) {
			return
		}
		if p.Role == RoleHuman {
			w.enterDuct(p)
		}
	case ActionDropSkateboard:
		w.dropSkateboard(p, p.X, p.Y)
	}
}

// Teleport moves p onto target's position
func (w *World) Teleport(id, targetID string) bool {
	p, ok := w.players[id]
	t, ok2 := w.players[targetID]
	if !ok || !ok2 || p.InDuct {
		return false
	}
	p.X, p.Y = t.X, t.Y
	return true
}

// Step runs one physics tick of dt seconds
func (w *World) Step(dt float64) {
	w.tick++
	for _, p := range w.order {
		w.updateAbility(p, dt)
	}
	for _, p := range w.order {
		w.movePlayer(p)
	}
	for _, p := range w.order {
		w.updateStealth(p)
	}
	w.rebuildGrid()
	w.spreadInfection()
	w.stepBodies()
	w.stepArrows()
	w.checkZombieWin()
}

// Snapshot builds the gameStateUpdate payload
func (w *World) Snapshot() GameState {
	gs := GameState{
		Players:        make(map[string]PlayerState, len(w.players)),
		Arrows:         make([]ArrowState, 0, len(w.arrows)),
		Box:            make([]BodyState, 0, w.boxCount),
		Furniture:      make([]BodyState, 0, len(w.bodies)-w.boxCount),
		Skateboard:     w.skateboard.ToState(),
		Ducts:          w.ducts,
		Sunshades:      w.sunshades,
		Chest:          w.chest,
		House:          w.house,
		Garage:         w.garage,
		TimeLeft:       w.round.TimeLeft,
		StartTime:      w.round.StartTime,
		GamePhase:      w.round.Phase,
		TakenAbilities: w.TakenAbilities(),
		AbilityCosts:   w.AbilityCosts(),
		Tick:           w.tick,
	}
	for id, p := range w.players {
		gs.Players[id] = p.ToState()
	}
	for _, a := range w.arrows {
		gs.Arrows = append(gs.Arrows, a.ToState())
	}
	for i, b := range w.bodies {
		if i < w.boxCount {
			gs.Box = append(gs.Box, b.ToState())
		} else {
			gs.Furniture = append(gs.Furniture, b.ToState())
		}
	}
	return gs
}
