package skiplist

import (
	"math/rand/v2"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/xrand"
)

const (
	// MaxLevel is the largest supported number of levels.
	MaxLevel = 32

	// P is the probability of promoting a node to the next level.
	P = 1.0 / 2.0
)

// Config holds configuration for the SkipList.
type Config struct {
	// maxLevel is maximum height of the skip list
	maxLevel int

	// rng drives level promotion; nil means a clock-seeded generator
	rng rand.Source

	alloc ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		maxLevel: MaxLevel,
		alloc:    ordered.Heap(),
	}
}

// WithMaxLevel sets the maximum height of the skip list. It must lie in
// [1, MaxLevel].
func WithMaxLevel(maxLevel int) Option {
	return func(c *Config) { c.maxLevel = maxLevel }
}

// WithRandSource sets the source of the level coin flips.
func WithRandSource(src rand.Source) Option {
	return func(c *Config) { c.rng = src }
}

// WithSeed makes leveling deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.rng = xrand.NewSeeded(seed) }
}

// WithAllocator bounds the memory the list may reserve.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
