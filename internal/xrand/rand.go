// Package xrand provides the seedable pseudo-random source used for skip
// list leveling and treap priorities.
package xrand

import (
	"math/bits"
	"math/rand/v2"
	"time"
)

const defaultSeed = uint64(0xdeadbeefcafebabe)

func newRandomSeed() uint64 {
	seed := uint64(time.Now().UnixNano())
	if seed == 0 {
		seed = defaultSeed
	}
	return seed
}

// Xorshift is an xorshift64* generator. Its state is never zero.
type Xorshift struct {
	state uint64
}

var _ rand.Source = (*Xorshift)(nil)

// New returns a generator seeded from the clock.
func New() *Xorshift {
	return NewSeeded(newRandomSeed())
}

// NewSeeded returns a generator whose sequence is fully determined by seed.
func NewSeeded(seed uint64) *Xorshift {
	if seed == 0 {
		seed = defaultSeed
	}
	return &Xorshift{state: seed}
}

// Uint64 implements rand.Source.
func (r *Xorshift) Uint64() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	if x == 0 {
		x = defaultSeed
	}
	r.state = x
	return x * 2685821657736338717
}

// Level draws a zero-based level from a geometric distribution with success
// probability 1/2, capped at maxLevel-1. Each trailing zero bit of one draw
// is one successful coin flip.
func Level(src rand.Source, maxLevel int) int {
	if maxLevel <= 1 {
		return 0
	}
	level := bits.TrailingZeros64(src.Uint64())
	if level > maxLevel-1 {
		return maxLevel - 1
	}
	return level
}
