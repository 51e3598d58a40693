package main

import "math"

// Vec is a 2D vector in world units.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Rect is a rectangle given by its unrotated top-left corner and size,
// rotated by Rotation radians about its center.
type Rect struct {
	X, Y, W, H float64
	Rotation   float64
}

// Center returns the rotation pivot.
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Vertices returns the four world-space corners in winding order.
func (r Rect) Vertices() [4]Vec {
	c := r.Center()
	hw, hh := r.W/2, r.H/2
	sin, cos := math.Sincos(r.Rotation)
	local := [4]Vec{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	var out [4]Vec
	for i, p := range local {
		out[i] = Vec{
			X: c.X + p.X*cos - p.Y*sin,
			Y: c.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// Bounds returns the axis-aligned box enclosing the rotated rectangle.
func (r Rect) Bounds() (minX, minY, maxX, maxY float64) {
	if r.Rotation == 0 {
		return r.X, r.Y, r.X + r.W, r.Y + r.H
	}
	vs := r.Vertices()
	minX, minY = vs[0].X, vs[0].Y
	maxX, maxY = minX, minY
	for _, v := range vs[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vec) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Overlaps is the axis-aligned intersection test used for hitboxes.
// Rotation is ignored; touching edges do not count.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// edgeNormals appends the two unique unit normals of a rectangle's edges.
// Degenerate edges yield no normal.
func edgeNormals(vs [4]Vec, axes []Vec) []Vec {
	for i := 0; i < 2; i++ {
		edge := vs[i].Sub(vs[i+1])
		n := Vec{-edge.Y, edge.X}
		if n.Len() == 0 {
			continue
		}
		axes = append(axes, n.Normalize())
	}
	return axes
}

func project(vs [4]Vec, axis Vec) (min, max float64) {
	min = vs[0].Dot(axis)
	max = min
	for _, v := range vs[1:] {
		d := v.Dot(axis)
		if d < min {
			min = d
		} else if d > max {
			max = d
		}
	}
	return
}

// SAT tests two rotated rectangles with the separating axis theorem. When
// they overlap it returns the minimum translation vector, oriented from a's
// center toward b's center: moving b by it (or a by its negation) separates
// them.
func SAT(a, b Rect) (Vec, bool) {
	va, vb := a.Vertices(), b.Vertices()
	var buf [4]Vec
	axes := edgeNormals(vb, edgeNormals(va, buf[:0]))
	if len(axes) == 0 {
		return Vec{}, false
	}

	minOverlap := math.Inf(1)
	var best Vec
	for _, axis := range axes {
		minA, maxA := project(va, axis)
		minB, maxB := project(vb, axis)
		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return Vec{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			best = axis
		}
	}

	mtv := best.Scale(minOverlap)
	if b.Center().Sub(a.Center()).Dot(mtv) < 0 {
		mtv = mtv.Scale(-1)
	}
	return mtv, true
}
