package layout

import "unsafe"

// Header mirrors the fixed part of a native packet:
//
//	typedef struct {
//	    uint16_t length;
//	    int data[0];
//	} Packet;
//
// The leading zero-width array gives Header the int32 alignment of the flexible
// member and the explicit padding keeps the Go and C sizes in agreement (4
// bytes, 4-byte aligned), so the trailing int32 run starts at HeaderSize. A
// trailing zero-width field would make the compiler pad Header to 8 bytes.
type Header struct {
	_      [0]int32
	Length uint16
	_      uint16
}

const (
	// HeaderSize is the byte size of Header.
	HeaderSize = unsafe.Sizeof(Header{})
	// HeaderAlign is the alignment of Header and of the whole packet block.
	HeaderAlign = unsafe.Alignof(Header{})
	// ElemSize is the byte width of one trailing element.
	ElemSize = unsafe.Sizeof(int32(0))
	// DataOffset is the byte offset of the first trailing element.
	DataOffset = HeaderSize
)

// ForPacket returns the layout of a packet holding length trailing elements:
// HeaderSize + length*ElemSize bytes aligned to HeaderAlign.
func ForPacket(length uint16) (Layout, error) {
	data, err := Array[int32](int(length))
	if err != nil {
		return Layout{}, err
	}
	l, offset, err := Of[Header]().Extend(data)
	if err != nil {
		return Layout{}, err
	}
	if offset != DataOffset {
		// Unreachable while Header keeps int32 alignment.
		panic("layout: packet data offset diverged from header definition")
	}
	return l, nil
}

// PacketCapacity returns the number of trailing elements a block described by
// l can hold.
func PacketCapacity(l Layout) int {
	if l.Size < HeaderSize {
		return 0
	}
	return int((l.Size - HeaderSize) / ElemSize)
}
