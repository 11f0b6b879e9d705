// Package rng defines the random source injected into every generator and
// a handful of range helpers built on top of it.
package rng

import (
	"math"
	"math/rand"
	"time"
)

// Source is the randomness a generator consumes. *rand.Rand satisfies it.
type Source interface {
	Float64() float64 // uniform in [0,1)
	Intn(n int) int   // uniform in [0,n)
	Int63() int64
}

// New returns a seeded source. A zero seed picks one from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Derive returns an independent source seeded from src, so that
// generators sharing a parent stream never share state.
func Derive(src Source) *rand.Rand {
	seed := src.Int63()
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Range returns a uniform float in [lo, hi). Bounds may be given in either order.
func Range(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// IntBetween returns a uniform int in [lo, hi], swapping inverted bounds
func IntBetween(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns a uniform index in [0, n). n must be positive.
func Pick(src Source, n int) int {
	return src.Intn(n)
}

// UnitVector returns a uniformly oriented vector of length 1
func UnitVector(src Source) (x, y float64) {
	angle := 2 * math.Pi * src.Float64()
	return math.Cos(angle), math.Sin(angle)
}
