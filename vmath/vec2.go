package vmath

import (
	"math"
)

// Vec2 is a float64 2D vector in field (pixel) space
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns the unit vector, zero-safe
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	inv := 1.0 / l
	return Vec2{v.X * inv, v.Y * inv}
}

// Perp returns the vector rotated by +90°
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Angle returns the heading of v in radians
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns a vector of length l pointing at angle a
func FromAngle(a, l float64) Vec2 {
	return Vec2{math.Cos(a) * l, math.Sin(a) * l}
}

// Dist returns the euclidean distance between two points
func Dist(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

// DistSq returns the squared distance, avoids sqrt for comparisons
func DistSq(ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	return dx*dx + dy*dy
}

// SegmentDist returns the distance from p to the segment a-b
func SegmentDist(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return p.Sub(a).Len()
	}
	t := Clamp01((p.Sub(a).X*ab.X + p.Sub(a).Y*ab.Y) / lenSq)
	return p.Sub(a.Add(ab.Scale(t))).Len()
}
