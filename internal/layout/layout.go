package layout

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"unsafe"
)

var (
	// ErrInvalidAlign is returned when an alignment is zero or not a power of two.
	ErrInvalidAlign = errors.New("layout: alignment must be a non-zero power of two")
	// ErrSizeOverflow is returned when a size cannot be represented in the address space.
	ErrSizeOverflow = errors.New("layout: size overflows address space")
)

// maxSize is the largest block size that can be indexed with a Go int.
const maxSize = uint64(math.MaxInt)

// Layout describes the size and alignment of a single allocation.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// FromSizeAlign validates size and align and returns the corresponding Layout.
// The size rounded up to align must not exceed math.MaxInt.
func FromSizeAlign(size, align uintptr) (Layout, error) {
	if align == 0 || align&(align-1) != 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidAlign, align)
	}
	padded, carry := bits.Add64(uint64(size), uint64(align-1), 0)
	if carry != 0 || padded > maxSize {
		return Layout{}, fmt.Errorf("%w: size %d align %d", ErrSizeOverflow, size, align)
	}
	return Layout{Size: size, Align: align}, nil
}

// Of returns the layout of a value of type T.
func Of[T any]() Layout {
	var v T
	return Layout{Size: unsafe.Sizeof(v), Align: unsafe.Alignof(v)}
}

// Array returns the layout of n contiguous values of type T.
func Array[T any](n int) (Layout, error) {
	if n < 0 {
		return Layout{}, fmt.Errorf("%w: negative element count %d", ErrSizeOverflow, n)
	}
	elem := Of[T]()
	hi, lo := bits.Mul64(uint64(elem.Size), uint64(n))
	if hi != 0 || lo > maxSize {
		return Layout{}, fmt.Errorf("%w: %d elements of %d bytes", ErrSizeOverflow, n, elem.Size)
	}
	return FromSizeAlign(uintptr(lo), elem.Align)
}

// Extend returns the layout of l followed by next, together with the byte
// offset at which next starts. The resulting alignment is the larger of the two.
func (l Layout) Extend(next Layout) (Layout, uintptr, error) {
	align := max(l.Align, next.Align)

	mask := uint64(next.Align - 1)
	offset, carry := bits.Add64(uint64(l.Size), mask, 0)
	if carry != 0 {
		return Layout{}, 0, fmt.Errorf("%w: extend %d by %d", ErrSizeOverflow, l.Size, next.Size)
	}
	offset &^= mask

	size, carry := bits.Add64(offset, uint64(next.Size), 0)
	if carry != 0 || size > maxSize {
		return Layout{}, 0, fmt.Errorf("%w: extend %d by %d", ErrSizeOverflow, l.Size, next.Size)
	}

	out, err := FromSizeAlign(uintptr(size), align)
	if err != nil {
		return Layout{}, 0, err
	}
	return out, uintptr(offset), nil
}

func (l Layout) String() string {
	return fmt.Sprintf("Layout{size: %d, align: %d}", l.Size, l.Align)
}
