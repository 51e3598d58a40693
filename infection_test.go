package main

import "testing"

func TestInfectionOnOverlap(t *testing.T) {
	w := newTestWorld(t)
	z := w.AddPlayer("z", "Zed", "")
	h := w.AddPlayer("h", "Hana", "")
	placeOpen(z, 0, 0)
	placeOpen(h, 10, 0)
	z.Role = RoleZombie

	w.rebuildGrid()
	w.spreadInfection()
	if h.Role != RoleZombie {
		t.Fatal("overlapping human should be infected")
	}
	if !approx(h.Speed, w.rules.BaseSpeed*w.rules.ZombieSpeedBoost) {
		t.Errorf("expected boosted speed, got %f", h.Speed)
	}
	ev := w.DrainEvents()
	if len(ev) != 1 || ev[0].Type != EvtInfection || ev[0].PlayerID != "h" {
		t.Errorf("expected one infection event for h, got %+v", ev)
	}
}

func TestInfectionNeedsHitboxOverlap(t *testing.T) {
	w := newTestWorld(t)
	z := w.AddPlayer("z", "Zed", "")
	h := w.AddPlayer("h", "Hana", "")
	placeOpen(z, 0, 0)
	// bounding boxes overlap, inset hitboxes do not
	placeOpen(h, 40, 0)
	z.Role = RoleZombie

	w.rebuildGrid()
	w.spreadInfection()
	if h.Role != RoleHuman {
		t.Error("visual overlap alone must not infect")
	}
}

func TestInfectionSkipsDuct(t *testing.T) {
	w := newTestWorld(t)
	z := w.AddPlayer("z", "Zed", "")
	h := w.AddPlayer("h", "Hana", "")
	placeOpen(z, 0, 0)
	placeOpen(h, 0, 0)
	z.Role = RoleZombie
	h.InDuct = true

	w.rebuildGrid()
	w.spreadInfection()
	if h.Role != RoleHuman {
		t.Error("players in a duct cannot be infected")
	}
}

func TestInfectionDoesNotChainInOneTick(t *testing.T) {
	w := newTestWorld(t)
	z := w.AddPlayer("z", "Zed", "")
	h1 := w.AddPlayer("h1", "One", "")
	h2 := w.AddPlayer("h2", "Two", "")
	placeOpen(z, 0, 0)
	placeOpen(h1, 30, 0)
	placeOpen(h2, 60, 0)
	z.Role = RoleZombie

	w.rebuildGrid()
	w.spreadInfection()
	if h1.Role != RoleZombie {
		t.Fatal("h1 touches the zombie and should be infected")
	}
	if h2.Role != RoleHuman {
		t.Error("h2 only touches a freshly infected player and must survive this tick")
	}

	w.rebuildGrid()
	w.spreadInfection()
	if h2.Role != RoleZombie {
		t.Error("h2 should be infected on the next tick")
	}
}

func TestInfectionRevealsSpyAndDropsBoard(t *testing.T) {
	w := newTestWorld(t)
	h := giveAbility(t, w, "h", AbilitySpy)
	w.ActivateAbility(h)
	w.skateboard.X, w.skateboard.Y = h.X, h.Y
	if !w.pickUpSkateboard(h) {
		t.Fatal("pickup should succeed")
	}

	w.Infect(h)
	if h.IsSpying() {
		t.Error("disguise should end on infection")
	}
	if h.HasSkateboard || !w.skateboard.Spawned || w.skateboard.OwnerID != "" {
		t.Error("infected player should drop the board")
	}

	speed := h.Speed
	w.Infect(h)
	if h.Speed != speed {
		t.Error("infecting a zombie again must not boost twice")
	}
}

func TestInfectionEndsAntShrink(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityAnt)
	w.ActivateAbility(p)
	w.Infect(p)

	if p.IsAnt() || p.W != w.rules.InitialSize {
		t.Fatalf("infection should end the shrink, got ant=%v width=%f", p.IsAnt(), p.W)
	}
	want := w.rules.BaseSpeed * w.rules.ZombieSpeedBoost
	if !approx(p.Speed, want) {
		t.Errorf("expected zombie speed %f, got %f", want, p.Speed)
	}
	w.updateAbility(p, 20)
	if !approx(p.Speed, want) || p.W != w.rules.InitialSize {
		t.Errorf("expired timer must not restore human stats, got speed %f width %f", p.Speed, p.W)
	}
}

func TestInfectionEndsSprint(t *testing.T) {
	w := newTestWorld(t)
	p := giveAbility(t, w, "a", AbilityAthlete)
	w.ActivateAbility(p)
	w.Infect(p)

	if p.IsSprinting() {
		t.Error("infection should end the sprint")
	}
	if want := w.rules.SizeSpeed(p.W, RoleZombie); !approx(p.Speed, want) {
		t.Errorf("expected zombie speed %f, got %f", want, p.Speed)
	}
}
