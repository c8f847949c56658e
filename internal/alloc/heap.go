package alloc

import (
	"fmt"

	"github.com/hupe1980/packet/internal/conv"
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/mem"
)

// Heap allocates blocks from the Go heap.
//
// The garbage collector reclaims the memory once the last reference is gone;
// Free only validates the layout contract. Exhausting the Go heap is fatal to
// the process and cannot be reported as an error.
type Heap struct{}

var _ Allocator = Heap{}

// Alloc implements Allocator.
func (Heap) Alloc(l layout.Layout) ([]byte, error) {
	size, err := conv.UintptrToInt(l.Size)
	if err != nil {
		return nil, err
	}
	align, err := conv.UintptrToInt(l.Align)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	return mem.AllocAligned(size, align), nil
}

// Free implements Allocator.
func (Heap) Free(block []byte, l layout.Layout) error {
	if uintptr(len(block)) != l.Size {
		return fmt.Errorf("%w: block of %d bytes freed as %s", ErrLayoutMismatch, len(block), l)
	}
	if !mem.IsAligned(block, int(l.Align)) {
		return fmt.Errorf("%w: block not aligned to %d", ErrLayoutMismatch, l.Align)
	}
	return nil
}
