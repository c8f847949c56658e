package alloc

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/packet/internal/layout"
)

// Stats summarises the blocks a Tracking allocator has seen.
type Stats struct {
	Allocs    uint64 // Historical: successful Alloc calls
	Frees     uint64 // Historical: successful Free calls
	Rejected  uint64 // Historical: Free calls refused (unknown block or layout mismatch)
	Live      uint64 // Current: blocks allocated and not yet freed
	LiveBytes uint64 // Current: bytes held by live blocks
}

type trackedBlock struct {
	id     uint32
	layout layout.Layout
}

// Tracking wraps an Allocator and audits the Alloc/Free contract.
//
// Each block gets a sequential ID; the IDs of live blocks are kept in a
// roaring bitmap. Freeing an unknown block or freeing with a different layout
// is refused without touching the inner allocator.
type Tracking struct {
	inner Allocator

	mu     sync.Mutex
	nextID uint32
	live   *roaring.Bitmap
	blocks map[uintptr]trackedBlock
	zero   []uint32 // IDs of live zero-sized blocks, which carry no address
	freed  *roaring.Bitmap
	stats  Stats
}

var _ Allocator = (*Tracking)(nil)

// NewTracking wraps inner. A nil inner defaults to Heap.
func NewTracking(inner Allocator) *Tracking {
	if inner == nil {
		inner = Heap{}
	}
	return &Tracking{
		inner:  inner,
		live:   roaring.New(),
		freed:  roaring.New(),
		blocks: make(map[uintptr]trackedBlock),
	}
}

// Alloc implements Allocator.
func (t *Tracking) Alloc(l layout.Layout) ([]byte, error) {
	block, err := t.inner.Alloc(l)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.live.Add(id)
	if cap(block) > 0 {
		t.blocks[blockAddr(block)] = trackedBlock{id: id, layout: l}
	} else {
		t.zero = append(t.zero, id)
	}
	t.stats.Allocs++
	t.stats.LiveBytes += uint64(l.Size)

	return block, nil
}

// Free implements Allocator.
func (t *Tracking) Free(block []byte, l layout.Layout) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cap(block) == 0 {
		return t.freeZero(block, l)
	}

	addr := blockAddr(block)
	tb, ok := t.blocks[addr]
	if !ok {
		t.stats.Rejected++
		return fmt.Errorf("%w: %#x", ErrUnknownBlock, addr)
	}
	if tb.layout != l {
		t.stats.Rejected++
		return fmt.Errorf("%w: block %d allocated as %s, freed as %s", ErrLayoutMismatch, tb.id, tb.layout, l)
	}

	if err := t.inner.Free(block, l); err != nil {
		t.stats.Rejected++
		return err
	}

	delete(t.blocks, addr)
	t.live.Remove(tb.id)
	t.freed.Add(tb.id)
	t.stats.Frees++
	t.stats.LiveBytes -= uint64(l.Size)
	return nil
}

func (t *Tracking) freeZero(block []byte, l layout.Layout) error {
	if len(t.zero) == 0 || l.Size != 0 {
		t.stats.Rejected++
		return fmt.Errorf("%w: zero-sized block freed as %s", ErrUnknownBlock, l)
	}
	if err := t.inner.Free(block, l); err != nil {
		t.stats.Rejected++
		return err
	}
	id := t.zero[len(t.zero)-1]
	t.zero = t.zero[:len(t.zero)-1]
	t.live.Remove(id)
	t.freed.Add(id)
	t.stats.Frees++
	return nil
}

// Stats returns a snapshot of the allocation counters.
func (t *Tracking) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	s.Live = t.live.GetCardinality()
	return s
}

// LiveIDs returns the IDs of blocks that were allocated and not yet freed, in
// allocation order.
func (t *Tracking) LiveIDs() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.ToArray()
}

// Freed reports whether the block with the given ID has been released.
func (t *Tracking) Freed(id uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freed.Contains(id)
}
