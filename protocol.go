package main

import "encoding/json"

// Client -> Server message types
const (
	MsgPlayerInput   = "playerInput"
	MsgPlayerAction  = "playerAction"
	MsgChooseAbility = "chooseAbility"
	MsgSendMessage   = "sendMessage"
)

// Server -> Client message types
const (
	MsgGameState  = "gameStateUpdate"
	MsgNewMessage = "newMessage"
	MsgBan        = "banMessage"
	MsgWelcome    = "welcome"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t" msgpack:"t"`
	Data interface{} `json:"d,omitempty" msgpack:"d,omitempty"`
}

// InEnvelope is used for incoming messages; the payload is decoded per type
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// Mouse is the cursor position in world coordinates
type Mouse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerInput is the client's held intent, replaced wholesale on each message
type PlayerInput struct {
	Movement Movement `json:"movement"`
	Mouse    Mouse    `json:"mouse"`
	Rotation float64  `json:"rotation"`
}

// PlayerActionMsg is a discrete action request
type PlayerActionMsg struct {
	Type string `json:"type" jsonschema:"enum=primary_action,enum=interact,enum=ability,enum=drop_skateboard"`
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Speed    float64     `json:"speed"`
	Rotation float64     `json:"rotation"`
	Role     Role        `json:"role"`
	Coins    int         `json:"coins"`
	Ability  AbilityKind `json:"ability"`

	IsCamouflaged       bool    `json:"isCamouflaged"`
	CamouflageAvailable bool    `json:"camouflageAvailable"`
	IsSprinting         bool    `json:"isSprinting"`
	SprintAvailable     bool    `json:"sprintAvailable"`
	IsAnt               bool    `json:"isAnt"`
	AntAvailable        bool    `json:"antAvailable"`
	IsSpying            bool    `json:"isSpying"`
	SpyUsesLeft         int     `json:"spyUsesLeft"`
	SpyCooldown         bool    `json:"spyCooldown"`
	AbilityCooldown     float64 `json:"abilityCooldown"`
	ArrowAmmo           int     `json:"arrowAmmo"`
	EngineerAbilityUsed bool    `json:"engineerAbilityUsed"`
	IsInDuct            bool    `json:"isInDuct"`
	HasSkateboard       bool    `json:"hasSkateboard"`
	IsHidden            bool    `json:"isHidden"`
}

// BodyState is broadcast per box or furniture piece
type BodyState struct {
	ID              string  `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	Rotation        float64 `json:"rotation"`
	VX              float64 `json:"vx"`
	VY              float64 `json:"vy"`
	AngularVelocity float64 `json:"angularVelocity"`
}

// ArrowState is broadcast per arrow
type ArrowState struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Angle   float64 `json:"angle"`
	OwnerID string  `json:"ownerId"`
}

// SkateboardState is the shared board
type SkateboardState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Spawned bool    `json:"spawned"`
	OwnerID string  `json:"ownerId"`
}

// GameState is the full state broadcast
type GameState struct {
	Players        map[string]PlayerState `json:"players"`
	Arrows         []ArrowState           `json:"arrows"`
	Box            []BodyState            `json:"box"`
	Furniture      []BodyState            `json:"furniture"`
	Skateboard     SkateboardState        `json:"skateboard"`
	Ducts          []Zone                 `json:"ducts"`
	Sunshades      []Zone                 `json:"sunshades"`
	Chest          Zone                   `json:"chest"`
	House          Structure              `json:"house"`
	Garage         Structure              `json:"garage"`
	TimeLeft       int                    `json:"timeLeft"`
	StartTime      int                    `json:"startTime"`
	GamePhase      Phase                  `json:"gamePhase"`
	TakenAbilities []AbilityKind          `json:"takenAbilities"`
	AbilityCosts   map[AbilityKind]int    `json:"abilityCosts"`
	Tick           uint64                 `json:"tick"`
}

// ChatMsg is a broadcast chat line
type ChatMsg struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// BanMsg is sent right before a banned connection is closed
type BanMsg struct {
	Reason string `json:"reason"`
	Color  string `json:"color"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID string `json:"id"`
}
