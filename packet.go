package packet

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/packet/internal/alloc"
	"github.com/hupe1980/packet/internal/conv"
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/mem"
)

// Packet owns one block laid out as a 16-bit length header followed by a run
// of int32 elements. The block is sized once at construction and never
// resized.
//
// Every accessor derives the element count from the configured LengthOracle
// and clamps to it. A nil or closed Packet is absent: it reports zero length,
// empty views and no elements.
//
// A packet must be closed. One that becomes unreachable without Close is
// reported as leaked through the configured Logger and MetricsCollector; its
// block is never handed back to the allocator, because views obtained from
// Data, DataMut or Refs may still point into it.
//
// A Packet is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access, e.g. with a sync.Mutex.
type Packet struct {
	ptr      unsafe.Pointer // header of the block; nil when absent
	capacity uint16         // length written into the header at construction
	own      *owner
	cleanup  runtime.Cleanup
	cfg      options
}

// owner releases the block. It is kept apart from Packet so the runtime
// cleanup can report a packet that was dropped without Close.
type owner struct {
	block    []byte
	layout   layout.Layout
	alloc    Allocator
	logger   *Logger
	metrics  MetricsCollector
	released atomic.Bool
}

// release frees the block at most once. A failed Free is not retried; with the
// recorded layout the wrapped allocators only fail on a foreign block, and
// Budgeted keeps such a block's reservation.
func (o *owner) release() error {
	if o.released.Swap(true) {
		return nil
	}
	err := o.alloc.Free(o.block, o.layout)
	o.block = nil
	o.logger.LogFree(o.layout, err)
	o.metrics.RecordFree(int(o.layout.Size), err) //nolint:gosec // layout sizes never exceed math.MaxInt
	return err
}

// leak records a block whose packet was dropped without Close. The block stays
// with the caller's views and the garbage collector; pooled or mapped memory is
// not reused.
func (o *owner) leak() {
	if o.released.Load() {
		return
	}
	o.logger.LogLeak(o.layout)
	o.metrics.RecordLeak(int(o.layout.Size)) //nolint:gosec // layout sizes never exceed math.MaxInt
}

// New allocates a packet with room for length elements and writes length into
// its header.
//
// The element contents are unspecified until written; initialize them through
// DataMut or use FromSlice or Repeat. On failure New returns nil and an error
// matching ErrAllocationFailed.
func New(length uint16, opts ...Option) (*Packet, error) {
	return newPacket(length, applyOptions(defaultOptions(), opts))
}

func newPacket(length uint16, cfg options) (*Packet, error) {
	l, err := layout.ForPacket(length)
	if err != nil {
		cfg.logger.LogAlloc(length, l, err)
		cfg.metricsCollector.RecordAlloc(0, 0, err)
		return nil, allocationError(length, err)
	}

	a := cfg.resolveAllocator()

	start := time.Now()
	block, err := a.Alloc(l)
	if err == nil && uintptr(len(block)) != l.Size {
		_ = a.Free(block, l)
		err = alloc.ErrLayoutMismatch
	}
	size, _ := conv.UintptrToInt(l.Size) // bounded by layout.ForPacket
	cfg.metricsCollector.RecordAlloc(size, time.Since(start), err)
	cfg.logger.LogAlloc(length, l, err)
	if err != nil {
		return nil, allocationError(length, err)
	}

	ptr := unsafe.Pointer(unsafe.SliceData(block)) //nolint:gosec // block is at least layout.HeaderSize bytes
	(*layout.Header)(ptr).Length = length

	p := &Packet{
		ptr:      ptr,
		capacity: length,
		own: &owner{
			block:   block,
			layout:  l,
			alloc:   a,
			logger:  cfg.logger,
			metrics: cfg.metricsCollector,
		},
		cfg: cfg,
	}
	p.cleanup = runtime.AddCleanup(p, (*owner).leak, p.own)

	return p, nil
}

// FromSlice allocates a packet holding a copy of src.
//
// It returns a *CapacityError (matching ErrCapacityOverflow) without
// allocating if src has more than MaxLength elements, and an error matching
// ErrAllocationFailed if the block cannot be allocated.
func FromSlice(src []int32, opts ...Option) (*Packet, error) {
	cfg := applyOptions(defaultOptions(), opts)

	length, err := conv.IntToUint16(len(src))
	if err != nil {
		cfg.logger.LogCapacityOverflow(len(src))
		return nil, &CapacityError{Len: len(src)}
	}

	p, err := newPacket(length, cfg)
	if err != nil {
		return nil, err
	}
	copy(p.elements(), src)
	return p, nil
}

// Close releases the packet's block with the layout recorded at construction.
// The packet is absent afterwards. Closing a nil or already closed packet is a
// no-op.
func (p *Packet) Close() error {
	if p == nil || p.ptr == nil {
		return nil
	}
	p.cleanup.Stop()
	p.ptr = nil
	return p.own.release()
}

// Len returns the number of valid elements as reported by the length oracle,
// never more than the allocated capacity.
func (p *Packet) Len() uint16 {
	if p == nil || p.ptr == nil {
		return 0
	}
	return min(p.cfg.oracle.PacketLen(p.ptr), p.capacity)
}

// IsEmpty reports whether Len is zero.
func (p *Packet) IsEmpty() bool {
	return p.Len() == 0
}

// Data returns a view of the Len() valid elements.
//
// The view aliases the packet's block: it must be treated as read-only and is
// valid only until Close. Use DataMut to modify elements. The view is empty
// for an absent packet.
func (p *Packet) Data() []int32 {
	n := int(p.Len())
	if n == 0 {
		return []int32{}
	}
	return mem.Int32s(p.own.block, layout.DataOffset, n)
}

// DataMut returns a writable view of the Len() valid elements. It is the only
// way to modify a packet's elements. It returns nil for an absent packet.
//
// The view is valid only until Close.
func (p *Packet) DataMut() []int32 {
	if p == nil || p.ptr == nil {
		return nil
	}
	n := int(p.Len())
	if n == 0 {
		return []int32{}
	}
	return mem.Int32s(p.own.block, layout.DataOffset, n)
}

// elements returns a view over the full allocated capacity, for initialization.
func (p *Packet) elements() []int32 {
	if p.capacity == 0 {
		return []int32{}
	}
	return mem.Int32s(p.own.block, layout.DataOffset, int(p.capacity))
}

// Get returns the element at index i and true, or zero and false if i is
// outside [0, Len()). It never panics.
func (p *Packet) Get(i int) (int32, bool) {
	if i < 0 || i >= int(p.Len()) {
		return 0, false
	}
	return p.Data()[i], true
}

// At returns the element at index i.
//
// Unlike Get, At panics with an *IndexError if i is outside [0, Len()),
// including on an absent packet. Use Get when the index is not known to be in
// range.
func (p *Packet) At(i int) int32 {
	if v, ok := p.Get(i); ok {
		return v
	}
	panic(&IndexError{Index: i, Len: int(p.Len())})
}

// Capacity returns the number of elements the block was sized for.
func (p *Packet) Capacity() int {
	if p == nil || p.ptr == nil {
		return 0
	}
	return layout.PacketCapacity(p.own.layout)
}

// Layout returns the layout recorded at construction, or the zero Layout for
// an absent packet.
func (p *Packet) Layout() Layout {
	if p == nil || p.ptr == nil {
		return Layout{}
	}
	return p.own.layout
}

// Pointer returns the address of the packet header for handing the block to
// native code, or nil for an absent packet. The pointer is valid only until
// Close.
func (p *Packet) Pointer() unsafe.Pointer {
	if p == nil {
		return nil
	}
	return p.ptr
}

// Clone copies the valid elements into a new packet. It uses the receiver's
// configuration with opts applied on top.
func (p *Packet) Clone(opts ...Option) (*Packet, error) {
	base := defaultOptions()
	if p != nil {
		base = p.cfg
	}
	cfg := applyOptions(base, opts)

	src := p.Data()
	q, err := newPacket(uint16(len(src)), cfg) //nolint:gosec // len(src) <= MaxLength
	if err != nil {
		return nil, err
	}
	copy(q.elements(), src)
	return q, nil
}
