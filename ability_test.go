package main

import "testing"

// giveAbility assigns kind to a fresh player in the open part of the map
func giveAbility(t *testing.T, w *World, id string, kind AbilityKind) *Player {
	t.Helper()
	p := w.AddPlayer(id, id, "")
	placeOpen(p, 0, 0)
	p.Coins = 1000
	if !w.ChooseAbility(id, kind) {
		t.Fatalf("choose %s failed", kind)
	}
	return p
}

func TestChameleonCamouflageAndMovementCancel(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityChameleon)

	w.ActivateAbility(p)
	if !p.IsCamouflaged() {
		t.Fatal("expected camouflage")
	}
	w.ActivateAbility(p)
	if p.Ability.Cooldown != 45 {
		t.Errorf("re-activation while active must not restart the cooldown, got %f", p.Ability.Cooldown)
	}

	p.Input.Movement.Right = true
	w.movePlayer(p)
	if p.IsCamouflaged() {
		t.Error("movement should cancel camouflage")
	}
	if p.Ability.Cooldown <= 0 {
		t.Error("cooldown keeps running after cancel")
	}
	w.ActivateAbility(p)
	if p.IsCamouflaged() {
		t.Error("camouflage should not re-activate during cooldown")
	}
}

func TestChameleonExpires(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityChameleon)
	w.ActivateAbility(p)

	w.updateAbility(p, 14)
	if !p.IsCamouflaged() {
		t.Fatal("camouflage should still be active after 14s")
	}
	w.updateAbility(p, 1)
	if p.IsCamouflaged() {
		t.Error("camouflage should end after 15s")
	}
	w.updateAbility(p, 30)
	if !p.Ability.Ready() {
		t.Error("ability should be ready after the 45s cooldown")
	}
}

func TestAthleteSprint(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityAthlete)
	base := p.Speed

	w.ActivateAbility(p)
	if !p.IsSprinting() || p.Speed != base*2 {
		t.Fatalf("expected sprint at %f, got %f", base*2, p.Speed)
	}
	w.updateAbility(p, 10)
	if p.IsSprinting() {
		t.Fatal("sprint should end after 10s")
	}
	if want := w.rules.SizeSpeed(p.W, p.Role); p.Speed != want {
		t.Errorf("expected size speed %f after sprint, got %f", want, p.Speed)
	}
}

func TestAntShrinkRestores(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityAnt)
	w0, h0, s0 := p.W, p.H, p.Speed

	w.ActivateAbility(p)
	if !p.IsAnt() || !approx(p.W, w0*0.1) || !approx(p.H, h0*0.1) || !approx(p.Speed, s0*0.7) {
		t.Fatalf("unexpected ant dimensions %fx%f @%f", p.W, p.H, p.Speed)
	}
	w.updateAbility(p, 20)
	if p.IsAnt() || p.W != w0 || p.H != h0 || p.Speed != s0 {
		t.Errorf("ant should restore %fx%f @%f, got %fx%f @%f", w0, h0, s0, p.W, p.H, p.Speed)
	}
}

func TestSpyUsesAndCooldown(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilitySpy)

	for use := 1; use <= 2; use++ {
		w.ActivateAbility(p)
		if !p.IsSpying() {
			t.Fatalf("use %d: expected disguise", use)
		}
		if p.Ability.UsesLeft != 2-use {
			t.Errorf("use %d: expected %d uses left, got %d", use, 2-use, p.Ability.UsesLeft)
		}
		w.updateAbility(p, 45)
		if p.IsSpying() {
			t.Fatalf("use %d: disguise should have ended", use)
		}
	}
	w.ActivateAbility(p)
	if p.IsSpying() {
		t.Error("spy with no uses left must not activate")
	}
}

func TestInfectionEndsDisguise(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilitySpy)
	w.ActivateAbility(p)

	w.Infect(p)
	if p.IsSpying() {
		t.Error("infection should end the disguise")
	}
	w.ActivateAbility(p)
	if p.IsSpying() {
		t.Error("zombies cannot activate abilities")
	}
}

func TestEngineerDuctTrip(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityEngineer)
	d := w.ducts[0]
	p.X = d.X + d.Width/2 - p.W/2
	p.Y = d.Y + d.Height/2 - p.H/2

	w.ActivateAbility(p)
	if !p.InDuct || !p.EngineerUsed() {
		t.Fatal("engineer should enter the duct and spend its trip")
	}
	w.updateStealth(p)
	if !p.IsHidden {
		t.Error("players in a duct are hidden")
	}

	x, y := p.X, p.Y
	p.Input.Movement.Down = true
	w.movePlayer(p)
	if p.X != x || p.Y != y {
		t.Error("players in a duct are frozen")
	}

	w.updateAbility(p, w.rules.DuctTravelTime)
	if p.InDuct {
		t.Fatal("trip should be over")
	}
	exit := w.ducts[1].Center()
	if c := p.Center(); !approx(c.X, exit.X) || !approx(c.Y, exit.Y) {
		t.Errorf("expected exit at %v, got %v", exit, c)
	}

	p.X = d.X
	p.Y = d.Y
	w.HandleAction(p.ID, ActionInteract)
	if p.InDuct {
		t.Error("only one duct trip per round")
	}
}

func TestEngineerOffDuctIsNoop(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityEngineer)
	w.ActivateAbility(p)
	if p.InDuct || p.EngineerUsed() {
		t.Error("engineer away from a duct should not spend the trip")
	}
}
