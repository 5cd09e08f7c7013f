package trie

import "github.com/metailurini/ordered"

// Config holds configuration for a Trie.
type Config struct {
	alloc ordered.Allocator
}

// Option mutates a Config.
type Option func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{alloc: ordered.Heap()}
}

// WithAllocator bounds the memory the trie may reserve for nodes below the
// root.
func WithAllocator(a ordered.Allocator) Option {
	return func(c *Config) { c.alloc = a }
}
