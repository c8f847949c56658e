//go:build !(cgo && packet_cgo)

package native

import (
	"unsafe"

	"github.com/hupe1980/packet/internal/layout"
)

// Implementation names the primitive backing PacketLen.
const Implementation = "purego"

// PacketLen returns the element count stored in the block at p.
func PacketLen(p unsafe.Pointer) uint16 {
	if p == nil {
		return 0
	}
	return (*layout.Header)(p).Length
}
