package rbtree

import "github.com/metailurini/ordered"

// Config holds configuration for a Tree.
type Config struct {
	alloc ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{alloc: ordered.Heap()}
}

// WithAllocator bounds the memory the tree may reserve.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
