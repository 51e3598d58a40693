package main

import (
	"math"
	"testing"
)

func TestShootSpendsAmmo(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityArcher)

	w.HandleAction("a", ActionPrimary)
	if len(w.arrows) != 1 || p.Ability.Ammo != 99 {
		t.Fatalf("expected one arrow and 99 ammo, got %d / %d", len(w.arrows), p.Ability.Ammo)
	}
	a := w.arrows[0]
	if a.OwnerID != "a" || a.X != p.Center().X || a.Y != p.Center().Y {
		t.Errorf("arrow should start at the shooter's center, got %+v", a)
	}

	p.Ability.Ammo = 0
	w.HandleAction("a", ActionPrimary)
	if len(w.arrows) != 1 {
		t.Error("no ammo means no arrow")
	}
}

func TestShootRequiresArcher(t *testing.T) {
	w := newTestWorld(t)
	giveAbility(t, w, "a", AbilityAthlete)
	w.HandleAction("a", ActionPrimary)
	if len(w.arrows) != 0 {
		t.Error("only archers shoot")
	}
}

func TestArrowUpdate(t *testing.T) {
	a := &Arrow{X: 100, Y: 100, Size: 10, Angle: math.Pi / 2, Alive: true}
	a.Update(20, 6000, 2000)
	if math.Abs(a.X-100) > 1e-9 || !approx(a.Y, 120) {
		t.Errorf("expected (100,120), got (%f,%f)", a.X, a.Y)
	}

	edge := &Arrow{X: 5995, Y: 100, Size: 10, Alive: true}
	edge.Update(20, 6000, 2000)
	if edge.Alive {
		t.Error("arrow leaving the world should die")
	}
}

func TestArrowKnockback(t *testing.T) {
	w := newTestWorld(t)
	shooter := giveAbility(t, w, "a", AbilityArcher)
	target := w.AddPlayer("b", "Bob", "")
	placeOpen(target, 100, 0)
	startX := target.X

	w.HandleAction("a", ActionPrimary)
	for i := 0; i < 4; i++ {
		w.rebuildGrid()
		w.stepArrows()
	}
	if len(w.arrows) != 0 {
		t.Fatal("arrow should be consumed by the hit")
	}
	if target.X != startX+w.rules.ArrowKnockback {
		t.Errorf("expected knockback to %f, got %f", startX+w.rules.ArrowKnockback, target.X)
	}
	if shooter.X != 5000 {
		t.Error("shooter should not move")
	}
}

func TestArrowIgnoresOwner(t *testing.T) {
	w := newTestWorld(t)
	w.rules.ArrowSpeed = 0
	p := giveAbility(t, w, "a", AbilityArcher)
	w.HandleAction("a", ActionPrimary)

	w.rebuildGrid()
	w.stepArrows()
	if len(w.arrows) != 1 || p.X != 5000 {
		t.Error("an arrow never hits its shooter")
	}
}

func TestArrowPassesDuctPlayer(t *testing.T) {
	w := newTestWorld(t)
	giveAbility(t, w, "a", AbilityArcher)
	target := w.AddPlayer("b", "Bob", "")
	placeOpen(target, 100, 0)
	target.InDuct = true
	startX := target.X

	w.HandleAction("a", ActionPrimary)
	for i := 0; i < 6; i++ {
		w.rebuildGrid()
		w.stepArrows()
	}
	if target.X != startX || len(w.arrows) != 1 {
		t.Error("players in a duct cannot be hit")
	}
}

func TestArrowOutOfBoundsRemoved(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityArcher)
	p.Rotation = math.Pi
	w.HandleAction("a", ActionPrimary)

	for i := 0; i < 300 && len(w.arrows) > 0; i++ {
		w.rebuildGrid()
		w.stepArrows()
	}
	if len(w.arrows) != 0 {
		t.Error("arrow should be removed after leaving the world")
	}
}
