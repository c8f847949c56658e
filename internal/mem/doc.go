// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// AllocAligned returns Go-heap byte blocks whose first byte sits on a requested
// power-of-two boundary, so native structs with stricter alignment than byte
// slices can be laid over them.
//
// # Typed Views
//
// Int32s reinterprets a bounded, aligned sub-region of a block as []int32
// without copying. The view aliases the block and is only valid while the
// block is.
package mem
