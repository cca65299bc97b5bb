package vmath

import (
	"math"
)

// Tau is one full turn in radians
const Tau = 2 * math.Pi

// --- Scalars ---

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapAngle maps an angle in radians to (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, Tau)
	if a <= 0 {
		a += Tau
	}
	return a - math.Pi
}

// --- Randomness ---

// FastRand is a xorshift64 generator, deterministic for a given seed
// Not safe for concurrent use; each owner keeps its own instance
type FastRand struct {
	state uint64
}

// NewFastRand creates a generator, zero seed is remapped since xorshift sticks at 0
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// Next advances the state and returns 64 random bits
func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns a value in [0, n), 0 for n <= 0
func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) using the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}
