package btree

import "github.com/metailurini/ordered"

// DefaultDegree is the branching factor used when none is configured.
const DefaultDegree = 32

// Config holds configuration for a Map.
type Config struct {
	// degree is the maximum number of children per node (B).
	degree int
	alloc  ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		degree: DefaultDegree,
		alloc:  ordered.Heap(),
	}
}

// WithDegree sets the branching factor B. Nodes hold at most B-1 keys and,
// except for the root, at least ceil(B/2)-1. B must be at least 3.
func WithDegree(degree int) Option {
	return func(c *Config) { c.degree = degree }
}

// WithAllocator bounds the memory the tree may reserve.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
