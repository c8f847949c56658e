package packet

import "iter"

// All returns an iterator over index/value pairs of the valid elements.
//
// The element count is fixed when iteration starts; each call to the returned
// sequence starts over. Packets never change length after construction, so the
// only way to invalidate a running iteration is closing the packet, which is
// not allowed while iterating.
func (p *Packet) All() iter.Seq2[int, int32] {
	return func(yield func(int, int32) bool) {
		for i, v := range p.Data() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns an iterator over the valid elements.
func (p *Packet) Values() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		for _, v := range p.Data() {
			if !yield(v) {
				return
			}
		}
	}
}

// Refs returns an iterator over index/pointer pairs of the valid elements for
// in-place updates:
//
//	for _, v := range p.Refs() {
//	    *v *= 2
//	}
//
// The pointers are valid only until Close.
func (p *Packet) Refs() iter.Seq2[int, *int32] {
	return func(yield func(int, *int32) bool) {
		data := p.DataMut()
		for i := range data {
			if !yield(i, &data[i]) {
				return
			}
		}
	}
}
