package main

import "testing"

func TestMoveBlockedByWallSlides(t *testing.T) {
	w := newTestWorld(t)
	w.statics = []Rect{{X: 5100, Y: 400, W: 50, H: 200}}
	p := w.AddPlayer("a", "Alice", "")
	// hitbox right edge sits at 5099
	p.X, p.Y = 5051, 400

	p.Input.Movement = Movement{Right: true, Down: true}
	w.movePlayer(p)
	if p.X != 5051 {
		t.Errorf("move into the wall should be rolled back, got x=%f", p.X)
	}
	if p.Y != 402 {
		t.Errorf("free axis should still move, got y=%f", p.Y)
	}
}

func TestMoveStuckPlayerCanLeave(t *testing.T) {
	w := newTestWorld(t)
	w.statics = []Rect{{X: 5100, Y: 400, W: 50, H: 200}}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5080, 400

	p.Input.Movement = Movement{Left: true}
	w.movePlayer(p)
	if p.X != 5078 {
		t.Errorf("a player inside a wall should be able to move, got x=%f", p.X)
	}
}

func TestMoveStuckPlayerCannotGoDeeper(t *testing.T) {
	w := newTestWorld(t)
	w.statics = []Rect{{X: 5100, Y: 400, W: 50, H: 200}}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5080, 400

	p.Input.Movement = Movement{Right: true}
	w.movePlayer(p)
	if p.X != 5080 {
		t.Errorf("a stuck player must not sink further into the wall, got x=%f", p.X)
	}
}

func TestBodyPushBackRespectsWalls(t *testing.T) {
	w := newTestWorld(t)
	wall := Rect{X: 5100, Y: 400, W: 50, H: 200}
	w.statics = []Rect{wall}
	// overlaps the left side of the hitbox, so resolving it shoves the player right
	b := &Body{Kind: "box", X: 5020, Y: 400, W: 50, H: 50}
	w.bodies = []*Body{b}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5051, 400

	w.movePlayer(p)
	if w.staticPenetration(p.Hitbox(w.rules.HitboxInset)) != 0 {
		t.Fatalf("push-back drove the player into the wall, x=%f", p.X)
	}

	p.Input.Movement = Movement{Right: true}
	for i := 0; i < 60; i++ {
		w.movePlayer(p)
		if hb := p.Hitbox(w.rules.HitboxInset); hb.X+hb.W > wall.X {
			t.Fatalf("tick %d: hitbox reached x=%f past the wall face", i, hb.X+hb.W)
		}
	}
}

func TestBodyPushBackStaysInWorld(t *testing.T) {
	w := newTestWorld(t)
	w.statics = nil
	b := &Body{Kind: "box", X: 40, Y: 400, W: 50, H: 50}
	w.bodies = []*Body{b}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 0, 400

	w.movePlayer(p)
	if p.X < 0 {
		t.Errorf("push-back must not leave the world, got x=%f", p.X)
	}
}

func TestMoveStaysInWorld(t *testing.T) {
	w := newTestWorld(t)
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = w.rules.WorldWidth-p.W-1, 400

	p.Input.Movement = Movement{Right: true}
	w.movePlayer(p)
	if p.X != w.rules.WorldWidth-p.W-1 {
		t.Errorf("move past the world edge should be rolled back, got x=%f", p.X)
	}
}

func TestMovePushesBody(t *testing.T) {
	w := newTestWorld(t)
	b := &Body{Kind: "box", X: 5100, Y: 400, W: 50, H: 50}
	w.bodies = []*Body{b}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5051, 400

	p.Input.Movement = Movement{Right: true}
	w.movePlayer(p)
	if p.X != 5053 {
		t.Errorf("pusher should keep its position, got x=%f", p.X)
	}
	if b.X <= 5100 {
		t.Errorf("body should be shoved forward, got x=%f", b.X)
	}
	if !approx(b.VX, w.rules.BoxPushForce) || b.VY != 0 {
		t.Errorf("expected push velocity (%f,0), got (%f,%f)", w.rules.BoxPushForce, b.VX, b.VY)
	}
	if b.AngularVelocity == 0 {
		t.Error("off-center push should add spin")
	}
}

func TestMoveBodyAgainstWallBlocksPlayer(t *testing.T) {
	w := newTestWorld(t)
	b := &Body{Kind: "box", X: 5100, Y: 400, W: 50, H: 50}
	w.bodies = []*Body{b}
	w.statics = []Rect{{X: 5150, Y: 380, W: 50, H: 100}}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5051, 400

	p.Input.Movement = Movement{Right: true}
	w.movePlayer(p)
	if b.X != 5100 || b.VX != 0 {
		t.Errorf("wedged body must not move, got x=%f vx=%f", b.X, b.VX)
	}
	if _, ok := SAT(p.Hitbox(w.rules.HitboxInset), b.Rect()); ok {
		t.Error("player should be pushed back out of the body")
	}
}

func TestSkateboardRiderDoesNotPush(t *testing.T) {
	w := newTestWorld(t)
	b := &Body{Kind: "box", X: 5100, Y: 400, W: 50, H: 50}
	w.bodies = []*Body{b}
	p := w.AddPlayer("a", "Alice", "")
	p.X, p.Y = 5051, 400
	p.HasSkateboard = true
	p.Rotation = 0

	p.Input.Movement = Movement{Right: true}
	w.movePlayer(p)
	if b.X != 5100 || b.VX != 0 {
		t.Errorf("rider must not move the body, got x=%f vx=%f", b.X, b.VX)
	}
	if p.X >= 5058 {
		t.Errorf("rider should be pushed back, got x=%f", p.X)
	}
}

func TestIdlePlayerDoesNotMove(t *testing.T) {
	w := newTestWorld(t)
	p := w.AddPlayer("a", "Alice", "")
	placeOpen(p, 0, 0)
	x, y := p.X, p.Y
	w.movePlayer(p)
	if p.X != x || p.Y != y {
		t.Error("no input means no movement")
	}
}
