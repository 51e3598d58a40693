package main

import "github.com/invopop/jsonschema"

// WireMessages documents every payload by its envelope type. It exists
// only to be reflected into /api/schema.
type WireMessages struct {
	PlayerInput   PlayerInput     `json:"playerInput"`
	PlayerAction  PlayerActionMsg `json:"playerAction"`
	ChooseAbility AbilityKind     `json:"chooseAbility" jsonschema:"enum=chameleon,enum=athlete,enum=archer,enum=engineer,enum=ant,enum=spy"`
	SendMessage   string          `json:"sendMessage" jsonschema:"maxLength=150"`

	GameStateUpdate GameState  `json:"gameStateUpdate"`
	NewMessage      ChatMsg    `json:"newMessage"`
	BanMessage      BanMsg     `json:"banMessage"`
	Welcome         WelcomeMsg `json:"welcome"`
}

// BuildWireSchema reflects the websocket payloads into a JSON Schema
func BuildWireSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(WireMessages))
	schema.Title = "Infestation wire protocol"
	schema.Description = `Payloads carried in the "d" field of {"t": type, "d": payload} envelopes, keyed by type`
	return schema
}
