// Package alloc provides the block allocators that back packets.
//
// Every allocator hands out one contiguous block per Alloc call and expects the
// exact same Layout back when the block is freed:
//
//   - Heap: aligned Go-heap memory (default)
//   - Anon: one anonymous mapping per block, outside the garbage collector
//   - Tracking: wraps another allocator and audits every Alloc/Free pair
//   - Budgeted: wraps another allocator with resource.Controller limits
//
// Allocators are safe for concurrent use. The blocks they return are not.
package alloc
