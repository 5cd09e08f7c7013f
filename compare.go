package ordered

import "cmp"

// CompareResult represents the outcome of a comparison between two values.
// It follows the semantics of cmp.Compare.
type CompareResult = int

const (
	// CmpLess if x is less than y,
	CmpLess CompareResult = -1
	// CmpEqual if x equals y,
	CmpEqual CompareResult = 0
	// CmpGreater if x is greater than y.
	CmpGreater CompareResult = 1
)

// CompareFunc is a total order over K. It returns a negative number when a
// sorts before b, zero when they are equal and a positive number otherwise.
type CompareFunc[K any] func(a, b K) int

// LessFunc reports whether a sorts strictly before b.
type LessFunc[T any] func(a, b T) bool

// Natural returns the comparator for the builtin ordering of K.
func Natural[K cmp.Ordered]() CompareFunc[K] {
	return cmp.Compare[K]
}

// Reverse returns a comparator that inverts c.
func Reverse[K any](c CompareFunc[K]) CompareFunc[K] {
	return func(a, b K) int { return c(b, a) }
}

// FromLess builds a three-way comparator out of a strict weak ordering.
func FromLess[K any](less LessFunc[K]) CompareFunc[K] {
	return func(a, b K) int {
		switch {
		case less(a, b):
			return CmpLess
		case less(b, a):
			return CmpGreater
		default:
			return CmpEqual
		}
	}
}

// Less adapts c into a boolean less-than context.
func (c CompareFunc[K]) Less() LessFunc[K] {
	return func(a, b K) bool { return c(a, b) < 0 }
}
