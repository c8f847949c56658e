// Package layout computes memory layouts (size, alignment) for blocks made of a
// fixed header followed by a run of fixed-width elements.
//
// A Layout is computed once, when a block is allocated, and must be handed back
// unchanged when the block is released:
//
//	l, err := layout.ForPacket(16) // 4-byte header + 16 int32 elements
//	if err != nil { ... }
//	block, err := allocator.Alloc(l)
//	...
//	allocator.Free(block, l)
package layout
