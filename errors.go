package packet

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrAllocationFailed is returned when a packet's layout is invalid or its
	// block could not be allocated. No packet is produced.
	ErrAllocationFailed = errors.New("packet: allocation failed")

	// ErrCapacityOverflow is returned when a source sequence has more elements
	// than the 16-bit length field can represent. No allocation takes place.
	ErrCapacityOverflow = errors.New("packet: capacity overflow")
)

// MaxLength is the largest number of elements a packet can hold.
const MaxLength = math.MaxUint16

// CapacityError reports a source sequence that does not fit in a packet.
//
// It matches ErrCapacityOverflow with errors.Is.
type CapacityError struct {
	Len int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("packet: %d elements exceed maximum length %d", e.Len, MaxLength)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityOverflow }

// IndexError is the panic value raised by At for an index outside [0, Len()).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("packet: index out of range [%d] with length %d", e.Index, e.Len)
}

func allocationError(length uint16, err error) error {
	return fmt.Errorf("%w: length %d: %w", ErrAllocationFailed, length, err)
}
