package mem

import (
	"unsafe"
)

// DefaultAlignment is the alignment used when callers pass a non-positive value.
const DefaultAlignment = 8

// AllocAligned allocates a zeroed byte slice of the given size whose first byte
// is aligned to align (a power of two).
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = DefaultAlignment
	}

	// We need enough space to shift the start pointer up to align-1 bytes
	buf := make([]byte, size+align-1)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether the first byte of b sits on an align boundary.
// Empty slices are considered aligned.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))&uintptr(align-1) == 0 //nolint:gosec // alignment check only
}

// Int32s returns n int32 values starting offset bytes into b.
// It panics if the region does not fit in b or is not 4-byte aligned, which
// would indicate a layout bug in the caller.
func Int32s(b []byte, offset uintptr, n int) []int32 {
	if n == 0 {
		return []int32{}
	}
	const width = int(unsafe.Sizeof(int32(0)))
	region := b[offset : int(offset)+n*width]
	if !IsAligned(region, width) {
		panic("mem: misaligned int32 region")
	}
	ptr := unsafe.Pointer(&region[0])           //nolint:gosec // region is bounds checked above
	return unsafe.Slice((*int32)(ptr), n)[:n:n] //nolint:gosec // region is bounds checked above
}
