package alloc

import (
	"errors"
	"unsafe"

	"github.com/hupe1980/packet/internal/layout"
)

var (
	// ErrLayoutMismatch is returned when a block is freed with a layout that
	// differs from the one it was allocated with.
	ErrLayoutMismatch = errors.New("alloc: layout mismatch")
	// ErrUnknownBlock is returned when freeing a block the allocator does not
	// own, including a block that was already freed.
	ErrUnknownBlock = errors.New("alloc: unknown block")
	// ErrUnsupportedAlign is returned when an allocator cannot honour an alignment.
	ErrUnsupportedAlign = errors.New("alloc: unsupported alignment")
)

// Allocator allocates and frees single blocks described by a layout.Layout.
type Allocator interface {
	// Alloc returns a block of exactly l.Size bytes aligned to l.Align.
	Alloc(l layout.Layout) ([]byte, error)
	// Free releases a block previously returned by Alloc with the same layout.
	Free(block []byte, l layout.Layout) error
}

// blockAddr returns the address identifying block. Zero-sized blocks share
// address 0.
func blockAddr(block []byte) uintptr {
	if cap(block) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(block))) //nolint:gosec // address used as identity only
}
