package pool

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/packet/internal/alloc"
	"github.com/hupe1980/packet/internal/layout"
)

// DefaultMaxBlockSize is the largest block kept for reuse. Larger blocks are
// allocated and dropped as usual.
const DefaultMaxBlockSize = 64 << 10

// block wraps a pooled byte slice so Put does not allocate.
type block struct {
	b []byte
}

// Blocks is an allocator that reuses freed blocks per layout.
//
// Reused blocks are cleared before they are handed out again.
type Blocks struct {
	pools   sync.Map // layout.Layout -> *sync.Pool
	heap    alloc.Heap
	maxSize uintptr

	hits   atomic.Uint64
	misses atomic.Uint64
	puts   atomic.Uint64
}

var _ alloc.Allocator = (*Blocks)(nil)

// NewBlocks returns a block pool that keeps blocks of at most maxSize bytes.
// A maxSize <= 0 selects DefaultMaxBlockSize.
func NewBlocks(maxSize int) *Blocks {
	if maxSize <= 0 {
		maxSize = DefaultMaxBlockSize
	}
	return &Blocks{maxSize: uintptr(maxSize)}
}

func (p *Blocks) pool(l layout.Layout) *sync.Pool {
	if v, ok := p.pools.Load(l); ok {
		return v.(*sync.Pool)
	}
	v, _ := p.pools.LoadOrStore(l, &sync.Pool{})
	return v.(*sync.Pool)
}

// Alloc implements alloc.Allocator.
func (p *Blocks) Alloc(l layout.Layout) ([]byte, error) {
	if l.Size == 0 || l.Size > p.maxSize {
		return p.heap.Alloc(l)
	}
	if v := p.pool(l).Get(); v != nil {
		p.hits.Add(1)
		b := v.(*block).b
		clear(b)
		return b, nil
	}
	p.misses.Add(1)
	return p.heap.Alloc(l)
}

// Free implements alloc.Allocator.
func (p *Blocks) Free(b []byte, l layout.Layout) error {
	if err := p.heap.Free(b, l); err != nil {
		return err
	}
	if l.Size == 0 || l.Size > p.maxSize {
		return nil
	}
	p.puts.Add(1)
	p.pool(l).Put(&block{b: b})
	return nil
}

// Stats describes pool usage.
type Stats struct {
	Hits   uint64 // allocations served from a pool
	Misses uint64 // pooled-size allocations that reached the heap
	Puts   uint64 // blocks returned for reuse
}

// Stats returns a snapshot of the pool counters.
func (p *Blocks) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Puts:   p.puts.Load(),
	}
}
