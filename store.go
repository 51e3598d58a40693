package main

import "sort"

// AbilityInfo describes a purchasable ability for the schema and UI
type AbilityInfo struct {
	Kind        AbilityKind `json:"kind"`
	Name        string      `json:"name"`
	Cost        int         `json:"cost"`
	Description string      `json:"description"`
}

var abilityDescriptions = map[AbilityKind]struct{ name, text string }{
	AbilityChameleon: {"Chameleon", "Blend into the scenery until you move"},
	AbilityAthlete:   {"Athlete", "Sprint at double speed for a short time"},
	AbilityArcher:    {"Archer", "Shoot arrows that knock players back"},
	AbilityEngineer:  {"Engineer", "Travel through the ducts once per round"},
	AbilityAnt:       {"Ant", "Shrink down and slip through small gaps"},
	AbilitySpy:       {"Spy", "Disguise yourself as a zombie"},
}

// AbilityCatalog returns the purchasable abilities in display order
func (r Rules) AbilityCatalog() []AbilityInfo {
	out := make([]AbilityInfo, 0, len(AllAbilities))
	for _, k := range AllAbilities {
		d := abilityDescriptions[k]
		out = append(out, AbilityInfo{
			Kind:        k,
			Name:        d.name,
			Cost:        r.Abilities[k].Cost,
			Description: d.text,
		})
	}
	return out
}

// AbilityCosts returns kind -> coin cost
func (w *World) AbilityCosts() map[AbilityKind]int {
	costs := make(map[AbilityKind]int, len(AllAbilities))
	for _, k := range AllAbilities {
		costs[k] = w.rules.Abilities[k].Cost
	}
	return costs
}

// TakenAbilities returns the kinds claimed this round, sorted
func (w *World) TakenAbilities() []AbilityKind {
	out := make([]AbilityKind, 0, len(w.taken))
	for k := range w.taken {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ChooseAbility assigns kind to the player if it is unclaimed, the slot is
// empty and the player can pay for it. Returns false on any failed check;
// nothing is charged in that case.
func (w *World) ChooseAbility(id string, kind AbilityKind) bool {
	p, ok := w.players[id]
	if !ok || p.Role != RoleHuman || p.Ability.Kind != AbilityNone {
		return false
	}
	if !kind.Valid() {
		return false
	}
	if _, taken := w.taken[kind]; taken {
		return false
	}
	spec := w.rules.Abilities[kind]
	if p.Coins < spec.Cost {
		return false
	}

	p.Coins -= spec.Cost
	p.Ability = NewAbilitySlot(kind, spec)
	w.taken[kind] = p.ID
	w.emit(WorldEvent{Type: EvtAbilityChosen, PlayerID: p.ID, Name: p.Name, Ability: kind})
	return true
}
