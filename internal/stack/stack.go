// Package stack implements the parent stack used for iterative tree walks.
package stack

// staticDepth is the size of the static array used before spilling to the
// heap. Balanced trees essentially never exceed it; the overflow slice covers
// pathological shapes such as an unlucky treap.
const staticDepth = 128

// Stack is a LIFO of T backed by a static array plus a dynamic overflow.
// The zero value is ready for use.
type Stack[T any] struct {
	index    int
	items    [staticDepth]T
	overflow []T
}

// Len returns the current number of items in the stack.
func (s *Stack[T]) Len() int {
	return s.index
}

// At returns the item n positions from the top of the stack, where 0 is the
// topmost item, without removing it. The zero value is returned when n
// exceeds the number of items.
func (s *Stack[T]) At(n int) T {
	index := s.index - n - 1
	if index < 0 {
		var zero T
		return zero
	}
	if index < staticDepth {
		return s.items[index]
	}
	return s.overflow[index-staticDepth]
}

// Pop removes and returns the top item. It returns the zero value when the
// stack is empty.
func (s *Stack[T]) Pop() T {
	var zero T
	if s.index == 0 {
		return zero
	}

	s.index--
	if s.index < staticDepth {
		item := s.items[s.index]
		s.items[s.index] = zero
		return item
	}

	item := s.overflow[s.index-staticDepth]
	s.overflow[s.index-staticDepth] = zero
	return item
}

// Push pushes item onto the top of the stack.
func (s *Stack[T]) Push(item T) {
	if s.index < staticDepth {
		s.items[s.index] = item
		s.index++
		return
	}

	// Tree depth grows logarithmically with the item count, so the overflow
	// grows one slot at a time instead of doubling.
	index := s.index - staticDepth
	if index+1 > cap(s.overflow) {
		overflow := make([]T, index+1)
		copy(overflow, s.overflow)
		s.overflow = overflow
	}
	s.overflow = s.overflow[:index+1]
	s.overflow[index] = item
	s.index++
}
