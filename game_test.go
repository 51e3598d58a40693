package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu     sync.Mutex
	text   [][]byte
	binary [][]byte
	wants  bool
	kicked *BanMsg
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	m.SendRaw(data)
}

func (m *mockBroadcaster) SendRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = append(m.text, data)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockBroadcaster) WantsBinary() bool { return m.wants }

func (m *mockBroadcaster) Kick(msg BanMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kicked = &msg
}

// ofType decodes every text message with envelope type t
func (m *mockBroadcaster) ofType(t *testing.T, typ string) []json.RawMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []json.RawMessage
	for _, raw := range m.text {
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad frame %s: %v", raw, err)
		}
		if env.T == typ {
			out = append(out, env.D)
		}
	}
	return out
}

// chats returns every newMessage payload received
func (m *mockBroadcaster) chats(t *testing.T) []ChatMsg {
	t.Helper()
	var out []ChatMsg
	for _, raw := range m.ofType(t, MsgNewMessage) {
		var c ChatMsg
		if err := json.Unmarshal(raw, &c); err != nil {
			t.Fatal(err)
		}
		out = append(out, c)
	}
	return out
}

func (m *mockBroadcaster) lastChat(t *testing.T) ChatMsg {
	t.Helper()
	c := m.chats(t)
	if len(c) == 0 {
		t.Fatal("no chat received")
	}
	return c[len(c)-1]
}

func newTestGame(t *testing.T, moderators ...string) *Game {
	t.Helper()
	bans, err := NewBanList(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewGame(DefaultRules(), bans, nil, moderators, rand.New(rand.NewSource(1)))
}

func TestGameJoinSendsWelcome(t *testing.T) {
	g := newTestGame(t)
	m := &mockBroadcaster{}
	g.join("p1", "Alice", "", m)

	w := m.ofType(t, MsgWelcome)
	if len(w) != 1 {
		t.Fatalf("expected one welcome, got %d", len(w))
	}
	var msg WelcomeMsg
	json.Unmarshal(w[0], &msg)
	if msg.ID != "p1" {
		t.Errorf("expected id p1, got %s", msg.ID)
	}
	if g.PlayerCount() != 1 || g.world.Player("p1") == nil {
		t.Error("player should be in the world")
	}

	dup := &mockBroadcaster{}
	g.join("p1", "Again", "", dup)
	if g.PlayerCount() != 1 || len(dup.text) != 0 {
		t.Error("duplicate id should be ignored")
	}
}

func TestGameJoinBannedIdentity(t *testing.T) {
	g := newTestGame(t)
	g.bans.Ban("old", "eve@example.com", "", "mod@example.com", 0)

	m := &mockBroadcaster{}
	g.join("p2", "Eve", "eve@example.com", m)
	if m.kicked == nil || m.kicked.Color != "red" || m.kicked.Reason != "You have been banned from the server." {
		t.Fatalf("banned identity should be kicked, got %+v", m.kicked)
	}
	if g.world.PlayerCount() != 0 || g.PlayerCount() != 0 {
		t.Error("no player should be created")
	}
}

func TestGameLeave(t *testing.T) {
	g := newTestGame(t)
	g.join("p1", "Alice", "", &mockBroadcaster{})
	g.leave("p1")
	g.leave("p1")
	g.leave("ghost")
	if g.PlayerCount() != 0 || g.world.Player("p1") != nil {
		t.Error("player should be removed")
	}
}

func TestChatBroadcast(t *testing.T) {
	g := newTestGame(t)
	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	g.join("p1", "Alice", "", a)
	g.join("p2", "Bob", "", b)

	g.handleChat("p1", "  hello  ")
	for _, m := range []*mockBroadcaster{a, b} {
		if c := m.lastChat(t); c.Name != "Alice" || c.Text != "hello" {
			t.Errorf("unexpected chat %+v", c)
		}
	}

	g.handleChat("p1", "   ")
	g.handleChat("ghost", "boo")
	if n := len(b.chats(t)); n != 1 {
		t.Errorf("blank text and unknown senders are dropped, got %d chats", n)
	}

	g.handleChat("p1", strings.Repeat("é", 200))
	if c := b.lastChat(t); len([]rune(c.Text)) != g.rules.ChatMaxLen {
		t.Errorf("expected %d runes, got %d", g.rules.ChatMaxLen, len([]rune(c.Text)))
	}
}

func TestCommandFromNonModeratorIsChat(t *testing.T) {
	g := newTestGame(t, "mod@example.com")
	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	g.join("p1", "Alice", "alice@example.com", a)
	g.join("p2", "Bob", "", b)

	g.handleChat("p1", "/ban Bob")
	if b.kicked != nil || g.world.Player("p2") == nil {
		t.Fatal("non-moderators cannot ban")
	}
	if c := b.lastChat(t); c.Text != "/ban Bob" || c.Name != "Alice" {
		t.Errorf("command text should be chatted, got %+v", c)
	}
}

func TestModeratorTeleport(t *testing.T) {
	g := newTestGame(t, "MOD@Example.com")
	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	g.join("p1", "Alice", "mod@example.com", a)
	g.join("p2", "Bob", "", b)
	placeOpen(g.world.Player("p2"), 300, 300)

	g.handleChat("p1", "/tp Bob")
	alice, bob := g.world.Player("p1"), g.world.Player("p2")
	if alice.X != bob.X || alice.Y != bob.Y {
		t.Error("moderator should be moved onto Bob")
	}
	if c := b.lastChat(t); c.Name != "Server" || c.Text != "Alice teleported to Bob!" {
		t.Errorf("unexpected announcement %+v", c)
	}
}

func TestModeratorUnknownTarget(t *testing.T) {
	g := newTestGame(t, "mod@example.com")
	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	g.join("p1", "Alice", "mod@example.com", a)
	g.join("p2", "Bob", "", b)

	g.handleChat("p1", "/ban Zed")
	if c := a.lastChat(t); c.Name != "Server" || c.Text != "Player Zed not found." {
		t.Errorf("unexpected reply %+v", c)
	}
	if len(b.chats(t)) != 0 {
		t.Error("the reply is private to the moderator")
	}
}

func TestModeratorPermanentBan(t *testing.T) {
	g := newTestGame(t, "mod@example.com")
	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	g.join("p1", "Alice", "mod@example.com", a)
	g.join("p2", "Bob", "bob@example.com", b)

	g.handleChat("p1", `/ban "Bob"`)
	if b.kicked == nil || b.kicked.Reason != "You have been banned from the server." || b.kicked.Color != "red" {
		t.Fatalf("target should be kicked, got %+v", b.kicked)
	}
	if g.world.Player("p2") != nil || g.PlayerCount() != 1 {
		t.Error("banned player should be removed at once")
	}
	if !g.bans.IsBanned("p2", "") || !g.bans.IsBanned("fresh", "bob@example.com") {
		t.Error("both the id and the identity should be banned")
	}
	if c := a.lastChat(t); c.Text != "Bob was permanently banned!" {
		t.Errorf("unexpected announcement %+v", c)
	}
}

func TestModeratorTempBan(t *testing.T) {
	cases := []struct {
		cmd, reason, announce string
		d                     time.Duration
	}{
		{"/ban temp Bob 1 minute", "You have been temporarily banned (1 minute)!", "Bob was temporarily banned for 1 minute!", time.Minute},
		{"/ban temp Bob 2 hours", "You have been temporarily banned (2 hours)!", "Bob was temporarily banned for 2 hours!", 2 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.cmd, func(t *testing.T) {
			g := newTestGame(t, "mod@example.com")
			now := time.Unix(1_700_000_000, 0)
			g.bans.now = func() time.Time { return now }
			a, b := &mockBroadcaster{}, &mockBroadcaster{}
			g.join("p1", "Alice", "mod@example.com", a)
			g.join("p2", "Bob", "bob@example.com", b)

			g.handleChat("p1", tc.cmd)
			if b.kicked == nil || b.kicked.Reason != tc.reason {
				t.Fatalf("unexpected kick %+v", b.kicked)
			}
			if c := a.lastChat(t); c.Text != tc.announce {
				t.Errorf("unexpected announcement %q", c.Text)
			}
			now = now.Add(tc.d)
			if g.bans.IsBanned("fresh", "bob@example.com") {
				t.Error("temporary ban should lapse")
			}
		})
	}
}

func TestRoundAnnouncementsAndHistory(t *testing.T) {
	g := newTestGame(t)
	db := openTestDB(t)
	g.analytics = NewAnalytics(db)
	m := &mockBroadcaster{}
	g.join("p1", "Alice", "", m)

	g.world.round.StartTime = 1
	g.secondTick()
	if c := m.lastChat(t); c.Text != "The infection has begun! Alice is the zombie!" {
		t.Errorf("unexpected start announcement %q", c.Text)
	}

	g.world.round.TimeLeft = 1
	g.secondTick()
	if c := m.lastChat(t); c.Text != "Time's up! The Humans survived!" {
		t.Errorf("unexpected end announcement %q", c.Text)
	}
	g.analytics.Stop()
	rounds, err := db.RecentRounds(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 1 || rounds[0].Winner != "human" || rounds[0].Duration != g.rules.RoundDuration {
		t.Errorf("unexpected history %+v", rounds)
	}
}

func TestZombieWinAnnouncement(t *testing.T) {
	g := newTestGame(t)
	m := &mockBroadcaster{}
	g.join("p1", "Alice", "", m)
	g.join("p2", "Bob", "", &mockBroadcaster{})
	g.world.round.StartTime = 1
	g.secondTick()

	for _, p := range g.world.order {
		g.world.Infect(p)
	}
	g.step(1.0 / 60)
	if c := m.lastChat(t); c.Text != "Everyone has been infected! The Zombies win!" {
		t.Errorf("unexpected announcement %q", c.Text)
	}
}

func TestBroadcastStateEncodings(t *testing.T) {
	g := newTestGame(t)
	text, bin := &mockBroadcaster{}, &mockBroadcaster{wants: true}
	g.join("p1", "Alice", "", text)
	g.join("p2", "Bob", "", bin)

	g.broadcastState()

	states := text.ofType(t, MsgGameState)
	if len(states) != 1 {
		t.Fatalf("expected one JSON state, got %d", len(states))
	}
	var gs GameState
	if err := json.Unmarshal(states[0], &gs); err != nil {
		t.Fatal(err)
	}
	if len(gs.Players) != 2 || gs.Players["p1"].Name != "Alice" {
		t.Errorf("unexpected players %+v", gs.Players)
	}

	if len(bin.ofType(t, MsgGameState)) != 0 || len(bin.binary) != 1 {
		t.Fatal("binary client should get one msgpack frame and no JSON state")
	}
	var env map[string]interface{}
	if err := msgpack.Unmarshal(bin.binary[0], &env); err != nil {
		t.Fatal(err)
	}
	if env["t"] != MsgGameState {
		t.Errorf("expected type %s, got %v", MsgGameState, env["t"])
	}
	d, ok := env["d"].(map[string]interface{})
	if !ok || d["gamePhase"] != "waiting" {
		t.Errorf("msgpack payload should use the JSON field names, got %v", env["d"])
	}
}

func TestGameRunProcessesInbox(t *testing.T) {
	g := newTestGame(t)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		g.Run(ctx)
		close(stopped)
	}()

	m := &mockBroadcaster{}
	g.Join("p1", "Alice", "", m)
	g.Input("p1", PlayerInput{Movement: Movement{Right: true}})

	deadline := time.Now().Add(2 * time.Second)
	for g.PlayerCount() != 1 || len(m.ofType(t, MsgGameState)) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("game loop did not process the join")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-stopped
	// the loop is gone; submissions must not block
	g.Leave("p1")
}
