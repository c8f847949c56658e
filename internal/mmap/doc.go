// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// MapAnon obtains read-write memory directly from the operating system. The
// Go garbage collector neither scans nor moves it, so the block has a stable
// address for its whole lifetime and must be released explicitly.
//
// # Usage
//
//	m, err := mmap.MapAnon(4096)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. However, callers must
// ensure no goroutines access Bytes() after Close() returns.
package mmap
