package main

// Role is a player's side in the current round
type Role string

const (
	RoleHuman  Role = "human"
	RoleZombie Role = "zombie"
)

// Movement is the held direction keys
type Movement struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Axis returns the held direction as -1/0/1 per axis
func (m Movement) Axis() (dx, dy float64) {
	if m.Left {
		dx--
	}
	if m.Right {
		dx++
	}
	if m.Up {
		dy--
	}
	if m.Down {
		dy++
	}
	return
}

// Player represents a player in the game
type Player struct {
	ID       string
	Name     string
	Identity string // token email, "" for guests
	X, Y     float64
	W, H     float64
	Speed    float64
	Rotation float64
	Role     Role
	Coins    int
	Ability  AbilitySlot
	Input    PlayerInput

	InDuct        bool
	ductTimer     float64
	ductExit      int
	HasSkateboard bool
	IsHidden      bool
}

// NewPlayer creates a human at the spawn point with round-start defaults
func NewPlayer(id, name, identity string, r Rules) *Player {
	p := &Player{
		ID:       id,
		Name:     name,
		Identity: identity,
	}
	p.resetForRound(r)
	return p
}

// resetForRound restores every per-round field. Coins, identity and the
// skateboard are handled by the caller.
func (p *Player) resetForRound(r Rules) {
	p.X = r.SpawnX
	p.Y = r.SpawnY
	p.W = r.InitialSize
	p.H = r.InitialSize * r.HeightRatio
	p.Speed = r.BaseSpeed
	p.Role = RoleHuman
	p.Ability = AbilitySlot{Kind: AbilityNone}
	p.InDuct = false
	p.ductTimer = 0
	p.IsHidden = false
	p.Input = PlayerInput{}
}

// Bounds returns the visual bounding box
func (p *Player) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Hitbox returns the inset rectangle used for gameplay collisions
func (p *Player) Hitbox(inset float64) Rect {
	return Rect{
		X: p.X + p.W*inset,
		Y: p.Y + p.H*inset,
		W: p.W * (1 - 2*inset),
		H: p.H * (1 - 2*inset),
	}
}

// Center returns the middle of the bounding box
func (p *Player) Center() Vec {
	return Vec{p.X + p.W/2, p.Y + p.H/2}
}

// SizeSpeed maps a width to movement speed for the given role, clamped to
// [ZombieMinSpeed, MaxSpeed] for zombies and [BaseSpeed, MaxSpeed] for humans.
func (r Rules) SizeSpeed(width float64, role Role) float64 {
	s := r.BaseSpeed + (width-r.InitialSize)*r.SpeedPerPixel
	if role == RoleZombie {
		return Clamp(s*r.ZombieSpeedBoost, r.ZombieMinSpeed, r.MaxSpeed)
	}
	return Clamp(s, r.BaseSpeed, r.MaxSpeed)
}

// secondTick applies the once-per-second growth, decay and speed update.
func (p *Player) secondTick(r Rules) {
	if !p.IsAnt() {
		if p.Role == RoleZombie {
			if p.W > r.InitialSize {
				d := r.ZombieDecay
				if p.W-d < r.InitialSize {
					d = p.W - r.InitialSize
				}
				p.W -= d
				p.H -= d
			}
		} else {
			p.W += r.GrowthAmount
			p.H += r.GrowthAmount
		}
	}
	if !p.IsSprinting() && !p.IsAnt() {
		p.Speed = r.SizeSpeed(p.W, p.Role)
	}
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	a := &p.Ability
	return PlayerState{
		ID:       p.ID,
		Name:     p.Name,
		X:        round1(p.X),
		Y:        round1(p.Y),
		Width:    round1(p.W),
		Height:   round1(p.H),
		Speed:    round2(p.Speed),
		Rotation: p.Rotation,
		Role:     p.Role,
		Coins:    p.Coins,
		Ability:  a.Kind,

		IsCamouflaged:       p.IsCamouflaged(),
		CamouflageAvailable: a.Kind == AbilityChameleon && a.Ready(),
		IsSprinting:         p.IsSprinting(),
		SprintAvailable:     a.Kind == AbilityAthlete && a.Ready(),
		IsAnt:               p.IsAnt(),
		AntAvailable:        a.Kind == AbilityAnt && a.Ready(),
		IsSpying:            p.IsSpying(),
		SpyUsesLeft:         spyUses(a),
		SpyCooldown:         a.Kind == AbilitySpy && a.Cooldown > 0,
		AbilityCooldown:     round1(a.Cooldown),
		ArrowAmmo:           a.Ammo,
		EngineerAbilityUsed: p.EngineerUsed(),
		IsInDuct:            p.InDuct,
		HasSkateboard:       p.HasSkateboard,
		IsHidden:            p.IsHidden,
	}
}

func spyUses(a *AbilitySlot) int {
	if a.Kind != AbilitySpy {
		return 0
	}
	return a.UsesLeft
}
