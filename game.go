package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	serverName = "Server"
	banColor   = "red"
	inboxSize  = 1024
)

// Broadcaster is the game's view of one connection
type Broadcaster interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
	SendBinary(data []byte)
	WantsBinary() bool
	Kick(msg BanMsg)
}

// Game runs the single simulation goroutine. Every World access happens
// on that goroutine; other goroutines hand it closures through the inbox.
type Game struct {
	world      *World
	rules      Rules
	clients    map[string]Broadcaster // playerID -> connection
	bans       *BanList
	analytics  *Analytics
	moderators map[string]bool

	inbox  chan func()
	done   chan struct{}
	online atomic.Int32
}

// NewGame creates a Game. analytics may be nil.
func NewGame(rules Rules, bans *BanList, analytics *Analytics, moderators []string, rng *rand.Rand) *Game {
	mods := make(map[string]bool, len(moderators))
	for _, m := range moderators {
		if m != "" {
			mods[strings.ToLower(m)] = true
		}
	}
	return &Game{
		world:      NewWorld(rules, rng),
		rules:      rules,
		clients:    make(map[string]Broadcaster),
		bans:       bans,
		analytics:  analytics,
		moderators: mods,
		inbox:      make(chan func(), inboxSize),
		done:       make(chan struct{}),
	}
}

// Run drives the physics and round clocks until ctx is cancelled
func (g *Game) Run(ctx context.Context) error {
	defer close(g.done)

	ticker := time.NewTicker(g.rules.TickDuration())
	defer ticker.Stop()
	seconds := time.NewTicker(time.Second)
	defer seconds.Stop()

	dt := 1.0 / float64(g.rules.TickRate)
	zap.L().Info("game loop started", zap.Int("tick_rate", g.rules.TickRate))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("game loop stopped")
			return nil
		case fn := <-g.inbox:
			fn()
		case <-ticker.C:
			g.step(dt)
		case <-seconds.C:
			g.secondTick()
		}
	}
}

// submit queues fn for the loop goroutine; dropped once the loop is gone
func (g *Game) submit(fn func()) {
	select {
	case g.inbox <- fn:
	case <-g.done:
	}
}

// Join adds a connection's player
func (g *Game) Join(id, name, identity string, b Broadcaster) {
	g.submit(func() { g.join(id, name, identity, b) })
}

// Leave removes a player; unknown ids are ignored
func (g *Game) Leave(id string) {
	g.submit(func() { g.leave(id) })
}

// Input replaces a player's held intent
func (g *Game) Input(id string, in PlayerInput) {
	g.submit(func() { g.world.SetInput(id, in) })
}

// Action handles a playerAction
func (g *Game) Action(id, action string) {
	g.submit(func() { g.world.HandleAction(id, action) })
}

// Choose handles chooseAbility
func (g *Game) Choose(id string, kind AbilityKind) {
	g.submit(func() { g.world.ChooseAbility(id, kind) })
}

// Chat handles sendMessage
func (g *Game) Chat(id, text string) {
	g.submit(func() { g.handleChat(id, text) })
}

// PlayerCount returns the number of joined players; safe from any goroutine
func (g *Game) PlayerCount() int {
	return int(g.online.Load())
}

func (g *Game) join(id, name, identity string, b Broadcaster) {
	if g.bans != nil && g.bans.IsBanned(id, identity) {
		b.Kick(BanMsg{Reason: "You have been banned from the server.", Color: banColor})
		return
	}
	if _, ok := g.clients[id]; ok {
		return
	}
	g.world.AddPlayer(id, name, identity)
	g.clients[id] = b
	g.online.Store(int32(len(g.clients)))
	b.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: id}})

	zap.L().Info("player joined", zap.String("id", id), zap.String("name", name), zap.Int("online", len(g.clients)))
	g.track(EvtPlayerJoin, id, map[string]interface{}{"name": name})
}

func (g *Game) leave(id string) {
	if _, ok := g.clients[id]; !ok {
		return
	}
	delete(g.clients, id)
	g.world.RemovePlayer(id)
	g.online.Store(int32(len(g.clients)))

	zap.L().Info("player left", zap.String("id", id), zap.Int("online", len(g.clients)))
	g.track(EvtPlayerLeave, id, nil)
}

func (g *Game) isModerator(identity string) bool {
	return identity != "" && g.moderators[strings.ToLower(identity)]
}

// handleChat runs a moderator command or broadcasts a chat line
func (g *Game) handleChat(id, text string) {
	p := g.world.Player(id)
	if p == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if g.isModerator(p.Identity) {
		if cmd, ok := ParseCommand(text); ok {
			g.runCommand(p, cmd)
			return
		}
	}
	g.broadcastMsg(Envelope{T: MsgNewMessage, Data: ChatMsg{
		Name: p.Name,
		Text: truncateRunes(text, g.rules.ChatMaxLen),
	}})
}

func (g *Game) runCommand(mod *Player, cmd Command) {
	target := g.world.PlayerByName(cmd.Target)
	if target == nil {
		g.whisper(mod.ID, fmt.Sprintf("Player %s not found.", cmd.Target))
		return
	}

	switch cmd.Kind {
	case CmdTeleport:
		if g.world.Teleport(mod.ID, target.ID) {
			g.serverMessage(fmt.Sprintf("%s teleported to %s!", mod.Name, target.Name))
		}
	case CmdBan:
		g.ban(mod, target, 0,
			"You have been banned from the server.",
			fmt.Sprintf("%s was permanently banned!", target.Name))
	case CmdBanTemp:
		span := fmt.Sprintf("%d %s", cmd.Amount, pluralUnit(cmd.Unit, cmd.Amount))
		g.ban(mod, target, cmd.Duration,
			fmt.Sprintf("You have been temporarily banned (%s)!", span),
			fmt.Sprintf("%s was temporarily banned for %s!", target.Name, span))
	}
}

func pluralUnit(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// ban records the ban, kicks the target and removes its player at once
func (g *Game) ban(mod, target *Player, d time.Duration, reason, announce string) {
	if g.bans != nil {
		g.bans.Ban(target.ID, target.Identity, reason, mod.Identity, d)
	}
	if b, ok := g.clients[target.ID]; ok {
		b.Kick(BanMsg{Reason: reason, Color: banColor})
	}
	targetID := target.ID
	g.leave(targetID)
	g.serverMessage(announce)

	zap.L().Info("player banned",
		zap.String("target", targetID),
		zap.String("by", mod.Identity),
		zap.Duration("duration", d))
	g.track(EvtBan, targetID, map[string]interface{}{"by": mod.Identity, "seconds": int64(d / time.Second)})
}

func (g *Game) step(dt float64) {
	g.world.Step(dt)
	g.flushEvents()
	g.broadcastState()
}

func (g *Game) secondTick() {
	g.world.SecondTick()
	g.flushEvents()
}

// flushEvents turns world events into chat announcements and analytics
func (g *Game) flushEvents() {
	for _, e := range g.world.DrainEvents() {
		if g.analytics != nil {
			g.analytics.TrackWorldEvent(e)
		}
		switch e.Type {
		case EvtRoundStart:
			zap.L().Info("round started", zap.String("zombie", e.Name), zap.Int("players", e.Players))
			g.serverMessage(fmt.Sprintf("The infection has begun! %s is the zombie!", e.Name))
		case EvtRoundEnd:
			zap.L().Info("round ended", zap.String("winner", string(e.Winner)), zap.Int("duration", e.Duration))
			if e.Winner == RoleZombie {
				g.serverMessage("Everyone has been infected! The Zombies win!")
			} else {
				g.serverMessage("Time's up! The Humans survived!")
			}
		case EvtInfection:
			zap.L().Debug("player infected", zap.String("id", e.PlayerID))
		}
	}
}

func (g *Game) track(evtType, playerID string, data interface{}) {
	if g.analytics == nil {
		return
	}
	g.analytics.Track(evtType, playerID, data)
	g.analytics.SetOnline(len(g.clients))
}

func (g *Game) serverMessage(text string) {
	g.broadcastMsg(Envelope{T: MsgNewMessage, Data: ChatMsg{Name: serverName, Text: text}})
}

func (g *Game) whisper(id, text string) {
	if b, ok := g.clients[id]; ok {
		b.SendJSON(Envelope{T: MsgNewMessage, Data: ChatMsg{Name: serverName, Text: text}})
	}
}

// broadcastState sends the current snapshot to every client. JSON is
// marshalled once; msgpack only when some client asked for it.
func (g *Game) broadcastState() {
	if len(g.clients) == 0 {
		return
	}
	env := Envelope{T: MsgGameState, Data: g.world.Snapshot()}

	var text, bin []byte
	for _, c := range g.clients {
		if c.WantsBinary() {
			if bin == nil {
				b, err := encodeMsgpack(env)
				if err != nil {
					zap.L().Error("msgpack state", zap.Error(err))
					return
				}
				bin = b
			}
			c.SendBinary(bin)
			continue
		}
		if text == nil {
			b, err := json.Marshal(env)
			if err != nil {
				zap.L().Error("marshal state", zap.Error(err))
				return
			}
			text = b
		}
		c.SendRaw(text)
	}
}

// broadcastMsg sends a message to every client
func (g *Game) broadcastMsg(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("marshal broadcast", zap.String("t", msg.T), zap.Error(err))
		return
	}
	for _, c := range g.clients {
		c.SendRaw(data)
	}
}

// encodeMsgpack encodes v with the JSON field names
func encodeMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
