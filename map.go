package ordered

import "iter"

// Map is the key/value surface shared by the ordered map containers.
type Map[K, V any] interface {
	// Put inserts a new key-value pair. If the key already exists, the value
	// is updated. The only possible error is an allocation refusal.
	Put(key K, value V) error

	// Get returns the value for a key.
	// The boolean is true if the key exists, false otherwise.
	Get(key K) (V, bool)

	// Contains returns true if the key exists.
	Contains(key K) bool

	// Delete removes a key and returns the value it held.
	Delete(key K) (V, bool)

	// Len returns the number of entries.
	Len() int

	// All yields every entry in ascending key order. Each call starts a
	// fresh traversal.
	All() iter.Seq2[K, V]
}

// Entry is a key/value pair produced by snapshots.
type Entry[K, V any] struct {
	Key   K
	Value V
}
