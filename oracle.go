package packet

import (
	"unsafe"

	"github.com/hupe1980/packet/internal/native"
)

// LengthOracle reports how many trailing elements of a packet block are valid.
//
// It is the single source of truth for Len and every accessor built on it.
// The block pointer refers to the packet header; implementations must not
// retain it.
type LengthOracle interface {
	PacketLen(block unsafe.Pointer) uint16
}

// LengthOracleFunc adapts a function to LengthOracle.
type LengthOracleFunc func(block unsafe.Pointer) uint16

// PacketLen implements LengthOracle.
func (f LengthOracleFunc) PacketLen(block unsafe.Pointer) uint16 { return f(block) }

// NativeOracle queries the native get_packet_len primitive. It is the default.
var NativeOracle LengthOracle = LengthOracleFunc(native.PacketLen)
