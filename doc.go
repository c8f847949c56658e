// Package packet provides an owned, bounds-checked handle over a native
// variable-length record: a 16-bit length header immediately followed by a run
// of int32 elements, sized once at construction.
//
// # Quick Start
//
//	p, err := packet.FromSlice([]int32{1, 2, 3})
//	if err != nil { ... }
//	defer p.Close()
//
//	p.Len()           // 3
//	p.Data()          // [1 2 3]
//	v, ok := p.Get(5) // 0, false
//	p.At(5)           // panics with *packet.IndexError
//
// Convenience constructors mirror literal forms:
//
//	packet.Of()            // zero-length packet
//	packet.Of(1, 2, 3)     // explicit elements
//	packet.Repeat(42, 5)   // five copies of 42
//
// # Memory Layout
//
// A packet block matches the native struct
//
//	typedef struct {
//	    uint16_t length;
//	    int data[0];
//	} Packet;
//
// and occupies 4 + 4*length bytes aligned to 4 bytes. The Layout is computed
// once by New and handed back unchanged to the Allocator when the packet is
// closed. Blocks come from the Go heap by default; NewAnonAllocator places
// each packet in its own anonymous mapping outside the garbage collector.
//
// # Length Authority
//
// Every accessor asks the LengthOracle how many elements are valid instead of
// reading the header directly. The default NativeOracle calls the native
// get_packet_len primitive (through cgo when built with the packet_cgo tag).
// Whatever the oracle reports is clamped to the allocated capacity.
//
// # Bounds Checking
//
// Get and the range accessors never read past Len(). Get reports a missing
// element with a false result; At is the only accessor that panics on an
// out-of-range index. Slice, SliceFrom, SliceTo and their inclusive variants
// follow Go slice expression rules and panic on malformed ranges.
//
// # Release
//
// Close frees the block exactly once. Further calls are no-ops and the packet
// becomes absent: zero length, empty views. A packet dropped without Close is
// leaked: a runtime cleanup reports it through the Logger and
// MetricsCollector, but its block never returns to the allocator, since views
// taken from it may still be in use.
//
// # Concurrency
//
// A Packet has no internal synchronization. Serialize access externally when
// sharing it between goroutines. Allocators and Controllers are safe for
// concurrent use.
package packet
