package ordered

import (
	"github.com/pkg/errors"
)

// ErrOutOfMemory is returned when an Allocator refuses a reservation. The
// container that asked for the memory is left exactly as it was before the
// call.
var ErrOutOfMemory = errors.New("out of memory")

// Allocator accounts for the memory a container holds. The Go runtime still
// owns the bytes; an Allocator only decides whether a container may grow.
//
// Allocate must either reserve the full size or reserve nothing and return
// an error wrapping ErrOutOfMemory. Free returns a reservation previously
// granted by Allocate.
type Allocator interface {
	Allocate(size uintptr) error
	Free(size uintptr)
}

type heap struct{}

func (heap) Allocate(uintptr) error { return nil }
func (heap) Free(uintptr)           {}

// Heap returns the unbounded allocator used when none is configured.
func Heap() Allocator {
	return heap{}
}

// Budget is an Allocator with a fixed ceiling. It is not safe for concurrent
// use, matching the containers it is handed to.
type Budget struct {
	limit uintptr
	inUse uintptr
	peak  uintptr
}

// NewBudget returns an allocator that refuses to hand out more than limit
// bytes at any one time.
func NewBudget(limit uintptr) *Budget {
	return &Budget{limit: limit}
}

// Allocate implements Allocator.
func (b *Budget) Allocate(size uintptr) error {
	if size > b.limit-b.inUse {
		return errors.Wrapf(ErrOutOfMemory, "requested %d bytes with %d of %d in use",
			size, b.inUse, b.limit)
	}
	b.inUse += size
	if b.inUse > b.peak {
		b.peak = b.inUse
	}
	return nil
}

// Free implements Allocator.
func (b *Budget) Free(size uintptr) {
	if size > b.inUse {
		panic(errors.Errorf("budget: freeing %d bytes with only %d in use", size, b.inUse))
	}
	b.inUse -= size
}

// InUse returns the number of bytes currently reserved.
func (b *Budget) InUse() uintptr { return b.inUse }

// Limit returns the ceiling the budget was created with.
func (b *Budget) Limit() uintptr { return b.limit }

// Peak returns the highest reservation observed.
func (b *Budget) Peak() uintptr { return b.peak }
