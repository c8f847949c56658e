package alloc

import (
	"fmt"
	"os"
	"sync"

	"github.com/hupe1980/packet/internal/conv"
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/mmap"
)

// Anon allocates each block as its own anonymous memory mapping.
//
// Blocks live outside the Go heap, so they have stable addresses and can be
// handed to native code. They must be released with Free. Sizes are rounded
// up to whole pages by the operating system.
type Anon struct {
	mu       sync.Mutex
	mappings map[uintptr]*mmap.Mapping
}

var _ Allocator = (*Anon)(nil)

// NewAnon creates an off-heap allocator.
func NewAnon() *Anon {
	return &Anon{mappings: make(map[uintptr]*mmap.Mapping)}
}

// Alloc implements Allocator.
func (a *Anon) Alloc(l layout.Layout) ([]byte, error) {
	if l.Align > uintptr(os.Getpagesize()) {
		return nil, fmt.Errorf("%w: %d exceeds page size", ErrUnsupportedAlign, l.Align)
	}
	size, err := conv.UintptrToInt(l.Size)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("alloc: map %d bytes: %w", size, err)
	}
	block := m.Bytes()

	a.mu.Lock()
	a.mappings[blockAddr(block)] = m
	a.mu.Unlock()

	return block, nil
}

// Free implements Allocator.
func (a *Anon) Free(block []byte, l layout.Layout) error {
	if l.Size == 0 && len(block) == 0 {
		return nil
	}

	addr := blockAddr(block)

	a.mu.Lock()
	m, ok := a.mappings[addr]
	if !ok {
		a.mu.Unlock()
		return fmt.Errorf("%w: %#x", ErrUnknownBlock, addr)
	}
	if uintptr(m.Size()) != l.Size {
		a.mu.Unlock()
		return fmt.Errorf("%w: mapping of %d bytes freed as %s", ErrLayoutMismatch, m.Size(), l)
	}
	delete(a.mappings, addr)
	a.mu.Unlock()

	return m.Close()
}

// Live returns the number of mappings not yet freed.
func (a *Anon) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}
