package main

import "math"

// Body is a movable physics object (box or furniture). X/Y is the
// unrotated top-left corner; Rotation is about the center.
type Body struct {
	Kind            string
	X, Y            float64
	W, H            float64
	VX, VY          float64
	Rotation        float64
	AngularVelocity float64
}

// Rect returns the body's collision shape
func (b *Body) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H, Rotation: b.Rotation}
}

// Integrate advances position and rotation by one tick of velocity
func (b *Body) Integrate() {
	b.X += b.VX
	b.Y += b.VY
	b.Rotation += b.AngularVelocity
}

// ApplyFriction decays linear and angular velocity
func (b *Body) ApplyFriction(linear, angular float64) {
	b.VX *= linear
	b.VY *= linear
	b.AngularVelocity *= angular
	if math.Abs(b.VX) < 1e-4 {
		b.VX = 0
	}
	if math.Abs(b.VY) < 1e-4 {
		b.VY = 0
	}
	if math.Abs(b.AngularVelocity) < 1e-6 {
		b.AngularVelocity = 0
	}
}

// ToState converts to protocol state
func (b *Body) ToState() BodyState {
	return BodyState{
		ID:              b.Kind,
		X:               round1(b.X),
		Y:               round1(b.Y),
		Width:           b.W,
		Height:          b.H,
		Rotation:        b.Rotation,
		VX:              round2(b.VX),
		VY:              round2(b.VY),
		AngularVelocity: b.AngularVelocity,
	}
}

// resolveBodyPair pushes two overlapping bodies apart symmetrically, swaps
// their damped velocities and spins them in opposite directions.
func resolveBodyPair(a, b *Body, damping, impactTorque float64) bool {
	mtv, ok := SAT(a.Rect(), b.Rect())
	if !ok {
		return false
	}
	half := mtv.Scale(0.5)
	a.X -= half.X
	a.Y -= half.Y
	b.X += half.X
	b.Y += half.Y

	a.VX, b.VX = b.VX*damping, a.VX*damping
	a.VY, b.VY = b.VY*damping, a.VY*damping

	spin := mtv.Len() * impactTorque
	a.AngularVelocity += spin
	b.AngularVelocity -= spin
	return true
}

// resolveBodyStatic pushes a body fully out of an immovable rectangle and
// reflects its velocity about the contact normal.
func resolveBodyStatic(b *Body, s Rect, damping float64) bool {
	mtv, ok := SAT(b.Rect(), s)
	if !ok {
		return false
	}
	b.X -= mtv.X
	b.Y -= mtv.Y

	// mtv points from the body into the obstacle
	n := mtv.Normalize()
	v := Vec{b.VX, b.VY}
	if vn := v.Dot(n); vn > 0 {
		v = v.Sub(n.Scale(2 * vn))
	}
	v = v.Scale(damping)
	b.VX, b.VY = v.X, v.Y
	b.AngularVelocity = -b.AngularVelocity * damping
	return true
}

// resolveBodyBounds keeps a body's rotated footprint inside the world.
func resolveBodyBounds(b *Body, worldW, worldH, damping float64) {
	minX, minY, maxX, maxY := b.Rect().Bounds()
	if minX < 0 {
		b.X -= minX
		if b.VX < 0 {
			b.VX = -b.VX * damping
		}
	} else if maxX > worldW {
		b.X -= maxX - worldW
		if b.VX > 0 {
			b.VX = -b.VX * damping
		}
	}
	if minY < 0 {
		b.Y -= minY
		if b.VY < 0 {
			b.VY = -b.VY * damping
		}
	} else if maxY > worldH {
		b.Y -= maxY - worldH
		if b.VY > 0 {
			b.VY = -b.VY * damping
		}
	}
}

// stepBodies runs one physics tick for every box and piece of furniture.
func (w *World) stepBodies() {
	r := &w.rules
	bodies := w.bodies
	for _, b := range bodies {
		b.Integrate()
	}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			resolveBodyPair(bodies[i], bodies[j], r.CollisionDamping, r.ImpactTorque)
		}
	}
	for _, b := range bodies {
		for _, s := range w.statics {
			resolveBodyStatic(b, s, r.CollisionDamping)
		}
		resolveBodyBounds(b, r.WorldWidth, r.WorldHeight, r.CollisionDamping)
		b.ApplyFriction(r.BoxFriction, r.AngularFriction)
	}
}
