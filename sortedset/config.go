package sortedset

import "github.com/metailurini/ordered"

// Config holds configuration for a Set.
type Config struct {
	capacity int
	alloc    ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{alloc: ordered.Heap()}
}

// WithInitialCapacity reserves room for n elements up front. The reservation
// is taken from the allocator by New; a refusal there leaves the set empty
// with no capacity.
func WithInitialCapacity(n int) Option {
	return func(c *Config) { c.capacity = n }
}

// WithAllocator bounds the memory the set may reserve.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
