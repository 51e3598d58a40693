package main

// AbilityKind identifies the ability held in a player's slot
type AbilityKind string

const (
	AbilityNone      AbilityKind = "none"
	AbilityChameleon AbilityKind = "chameleon" // camouflage until timer or movement
	AbilityAthlete   AbilityKind = "athlete"   // sprint: speed x2
	AbilityArcher    AbilityKind = "archer"    // knockback arrows, ammo-limited
	AbilityEngineer  AbilityKind = "engineer"  // one duct trip per round
	AbilityAnt       AbilityKind = "ant"       // shrink size and speed
	AbilitySpy       AbilityKind = "spy"       // look like a zombie, limited uses
)

// AllAbilities lists the purchasable kinds in display order
var AllAbilities = []AbilityKind{
	AbilityChameleon,
	AbilityAthlete,
	AbilityArcher,
	AbilityEngineer,
	AbilityAnt,
	AbilitySpy,
}

// Valid reports whether k names a purchasable ability
func (k AbilityKind) Valid() bool {
	for _, a := range AllAbilities {
		if a == k {
			return true
		}
	}
	return false
}

// AbilitySpec holds the per-kind timer and economy constants.
type AbilitySpec struct {
	Cost     int     `mapstructure:"cost" json:"cost"`
	Duration float64 `mapstructure:"duration" json:"duration"` // seconds active per activation
	Cooldown float64 `mapstructure:"cooldown" json:"cooldown"` // seconds from activation until ready
	Uses     int     `mapstructure:"uses" json:"uses"`         // activations per round, 0 = unlimited
	Ammo     int     `mapstructure:"ammo" json:"ammo"`         // shots granted on purchase
}

// DefaultAbilitySpecs returns the canonical ability table
func DefaultAbilitySpecs() map[AbilityKind]AbilitySpec {
	return map[AbilityKind]AbilitySpec{
		AbilityChameleon: {Cost: 20, Duration: 15, Cooldown: 45},
		AbilityAthlete:   {Cost: 10, Duration: 10, Cooldown: 45},
		AbilityArcher:    {Cost: 10, Ammo: 100},
		AbilityEngineer:  {Cost: 20, Uses: 1},
		AbilityAnt:       {Cost: 20, Duration: 20, Cooldown: 45},
		AbilitySpy:       {Cost: 50, Duration: 20, Cooldown: 45, Uses: 2},
	}
}

// AbilitySlot is the per-player ability state. Kind tags which of the
// remaining fields are meaningful; timers count down in simulation seconds.
type AbilitySlot struct {
	Kind     AbilityKind
	Active   bool
	Timer    float64 // remaining active duration
	Cooldown float64 // remaining cooldown
	UsesLeft int     // spy activations, engineer trips
	Ammo     int     // archer

	// ant: dimensions to restore when the shrink ends
	savedW, savedH float64
}

// NewAbilitySlot returns a freshly purchased slot of the given kind
func NewAbilitySlot(kind AbilityKind, spec AbilitySpec) AbilitySlot {
	return AbilitySlot{
		Kind:     kind,
		UsesLeft: spec.Uses,
		Ammo:     spec.Ammo,
	}
}

// Ready returns true if a timed ability can be activated now
func (a *AbilitySlot) Ready() bool {
	if a.Active || a.Cooldown > 0 {
		return false
	}
	if a.Kind == AbilitySpy && a.UsesLeft <= 0 {
		return false
	}
	return true
}

// start begins a timed activation. Returns false when not ready.
func (a *AbilitySlot) start(spec AbilitySpec) bool {
	if !a.Ready() {
		return false
	}
	a.Active = true
	a.Timer = spec.Duration
	a.Cooldown = spec.Cooldown
	if a.Kind == AbilitySpy {
		a.UsesLeft--
	}
	return true
}

// tick advances the countdowns and reports whether the active effect
// expired during this step.
func (a *AbilitySlot) tick(dt float64) (expired bool) {
	if a.Cooldown > 0 {
		a.Cooldown -= dt
		if a.Cooldown < 0 {
			a.Cooldown = 0
		}
	}
	if a.Active {
		a.Timer -= dt
		if a.Timer <= 0 {
			a.Active = false
			a.Timer = 0
			return true
		}
	}
	return false
}

// ActivateAbility runs the "ability" action for p. Every failed
// precondition is a silent no-op.
func (w *World) ActivateAbility(p *Player) {
	if p.Role != RoleHuman || p.InDuct {
		return
	}
	slot := &p.Ability
	spec := w.rules.Abilities[slot.Kind]

	switch slot.Kind {
	case AbilityChameleon, AbilitySpy:
		slot.start(spec)
	case AbilityAthlete:
		if slot.start(spec) {
			p.Speed *= w.rules.SprintMultiplier
		}
	case AbilityAnt:
		if slot.start(spec) {
			slot.savedW, slot.savedH = p.W, p.H
			p.W *= w.rules.AntSizeFactor
			p.H *= w.rules.AntSizeFactor
			p.Speed *= w.rules.AntSpeedFactor
		}
	case AbilityEngineer:
		w.enterDuct(p)
	}
}

// updateAbility advances p's ability and duct timers by dt.
func (w *World) updateAbility(p *Player, dt float64) {
	if p.Ability.tick(dt) {
		switch p.Ability.Kind {
		case AbilityAthlete:
			p.Speed = w.rules.SizeSpeed(p.W, p.Role)
		case AbilityAnt:
			p.W, p.H = p.Ability.savedW, p.Ability.savedH
			p.Speed = w.rules.SizeSpeed(p.W, p.Role)
		}
	}
	if p.InDuct {
		p.ductTimer -= dt
		if p.ductTimer <= 0 {
			w.exitDuct(p)
		}
	}
}

// cancelCamouflage ends an active chameleon effect; the cooldown keeps running.
func (p *Player) cancelCamouflage() {
	if p.Ability.Kind == AbilityChameleon && p.Ability.Active {
		p.Ability.Active = false
		p.Ability.Timer = 0
	}
}

// endEffects stops any running effect and gives an ant its size back.
// Speed is left to the caller.
func (p *Player) endEffects() {
	a := &p.Ability
	if !a.Active {
		return
	}
	if a.Kind == AbilityAnt {
		p.W, p.H = a.savedW, a.savedH
	}
	a.Active = false
	a.Timer = 0
}

// Flag accessors mirror the wire snapshot.

func (p *Player) IsCamouflaged() bool { return p.Ability.Kind == AbilityChameleon && p.Ability.Active }
func (p *Player) IsSprinting() bool { return p.Ability.Kind == AbilityAthlete && p.Ability.Active }
func (p *Player) IsAnt() bool { return p.Ability.Kind == AbilityAnt && p.Ability.Active }
func (p *Player) IsSpying() bool { return p.Ability.Kind == AbilitySpy && p.Ability.Active }

// EngineerUsed reports whether this round's duct trip is spent
func (p *Player) EngineerUsed() bool {
	return p.Ability.Kind == AbilityEngineer && p.Ability.UsesLeft <= 0
}
