package packet

// Range accessors return read-only sub-views of Data. They follow Go slice
// expression rules: a range with lo > hi or hi > Len() panics with a runtime
// bounds error, and lo == hi yields an empty view. Each result has its capacity
// clipped to its length so appending never writes into the packet.

// Slice returns elements [lo, hi).
func (p *Packet) Slice(lo, hi int) []int32 {
	return p.Data()[lo:hi:hi]
}

// SliceFrom returns elements [lo, Len()).
func (p *Packet) SliceFrom(lo int) []int32 {
	return p.Data()[lo:]
}

// SliceTo returns elements [0, hi).
func (p *Packet) SliceTo(hi int) []int32 {
	return p.Data()[:hi:hi]
}

// SliceInclusive returns elements [lo, hi].
func (p *Packet) SliceInclusive(lo, hi int) []int32 {
	return p.Slice(lo, hi+1)
}

// SliceToInclusive returns elements [0, hi].
func (p *Packet) SliceToInclusive(hi int) []int32 {
	return p.SliceTo(hi + 1)
}
