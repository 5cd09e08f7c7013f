package skiplist

// Iterator provides a forward-only view over the skip list. Mutating the list
// while an iterator is positioned on it invalidates the iterator.
type Iterator[K, V any] struct {
	l       *List[K, V]
	current *node[K, V]
}

// Iterator returns a new iterator positioned before the first element.
func (l *List[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{l: l}
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator[K, V]) Valid() bool {
	return it != nil && it.current != nil
}

// Key returns the key at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[K, V]) Key() K {
	var zero K
	if !it.Valid() {
		return zero
	}
	return it.current.key
}

// Value returns the value at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[K, V]) Value() V {
	var zero V
	if !it.Valid() {
		return zero
	}
	return it.current.value
}

// SeekGE positions the iterator at the first element whose key is
// greater than or equal to the provided key. It returns true if such an
// element exists.
func (it *Iterator[K, V]) SeekGE(key K) bool {
	if it == nil || it.l == nil {
		return false
	}
	it.current = it.l.descend(key, nil).next()
	return it.current != nil
}

// Next advances the iterator to the next element and reports whether it
// successfully moved forward. If the iterator was not valid prior to the
// call, it advances to the first element.
func (it *Iterator[K, V]) Next() bool {
	if it == nil || it.l == nil {
		return false
	}
	if it.current == nil {
		it.current = it.l.head.next()
	} else {
		it.current = it.current.next()
	}
	return it.current != nil
}
