package components

import (
	"math"
	"math/rand"
)

// Vec2 is a point or direction in tank space.
// The origin is the top-left corner; y grows downwards.
type Vec2 struct {
	X, Y float64
}

// Up is the unit vector pointing towards the water surface.
var Up = Vec2{X: 0, Y: -1}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rotate returns v rotated by theta radians.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateDeg returns v rotated by deg degrees.
func (v Vec2) RotateDeg(deg float64) Vec2 {
	return v.Rotate(deg * math.Pi / 180)
}

// Limit clamps the length of v to max, keeping its direction.
func (v Vec2) Limit(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Angle returns the signed angle in radians from v to o, in [-pi, pi].
func (v Vec2) Angle(o Vec2) float64 {
	return math.Atan2(v.X*o.Y-v.Y*o.X, v.X*o.X+v.Y*o.Y)
}

// Lerp moves v towards o by fraction t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// RandomUnit returns a unit vector with a uniformly random direction.
func RandomUnit(rng *rand.Rand) Vec2 {
	theta := rng.Float64() * 2 * math.Pi
	return Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
}
