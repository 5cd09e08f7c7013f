package treap

import (
	"math/rand/v2"

	"github.com/metailurini/ordered"
	"github.com/metailurini/ordered/internal/xrand"
)

// Config holds configuration for a Treap.
type Config struct {
	// rng draws priorities for Insert; nil means a clock-seeded generator
	rng rand.Source

	alloc ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{alloc: ordered.Heap()}
}

// WithRandSource sets the source of node priorities.
func WithRandSource(src rand.Source) Option {
	return func(c *Config) { c.rng = src }
}

// WithSeed makes priorities, and so the treap's shape, deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.rng = xrand.NewSeeded(seed) }
}

// WithAllocator bounds the memory the treap may reserve.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
