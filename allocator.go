package packet

import (
	"github.com/hupe1980/packet/internal/alloc"
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/pool"
	"github.com/hupe1980/packet/internal/resource"
)

type (
	// Layout is the (size, alignment) pair of a packet's block.
	Layout = layout.Layout

	// Allocator allocates and frees packet blocks. Free always receives the
	// layout the block was allocated with.
	Allocator = alloc.Allocator

	// TrackingAllocator audits Alloc/Free pairs of another allocator.
	TrackingAllocator = alloc.Tracking

	// AllocStats is a snapshot of TrackingAllocator counters.
	AllocStats = alloc.Stats

	// PoolAllocator reuses freed blocks for packets of the same length.
	PoolAllocator = pool.Blocks

	// PoolStats is a snapshot of PoolAllocator counters.
	PoolStats = pool.Stats

	// Controller enforces memory and allocation-rate limits.
	Controller = resource.Controller

	// ControllerConfig configures a Controller.
	ControllerConfig = resource.Config
)

// HeapAllocator returns the default allocator, backed by the Go heap.
func HeapAllocator() Allocator { return alloc.Heap{} }

// NewAnonAllocator returns an allocator that places every packet in its own
// anonymous memory mapping, outside the Go heap.
func NewAnonAllocator() Allocator { return alloc.NewAnon() }

// NewTrackingAllocator wraps inner (nil means HeapAllocator) with an auditor.
func NewTrackingAllocator(inner Allocator) *TrackingAllocator {
	return alloc.NewTracking(inner)
}

// NewPoolAllocator returns an allocator that recycles blocks of at most
// maxBlockSize bytes (64 KiB when maxBlockSize <= 0).
func NewPoolAllocator(maxBlockSize int) *PoolAllocator {
	return pool.NewBlocks(maxBlockSize)
}

// NewController creates a resource controller for use with WithController.
func NewController(cfg ControllerConfig) *Controller {
	return resource.NewController(cfg)
}

// PacketLayout returns the layout of a packet holding length elements.
func PacketLayout(length uint16) (Layout, error) {
	return layout.ForPacket(length)
}
