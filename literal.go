package packet

// Of returns a packet holding values in order. With no arguments it returns a
// zero-length packet. Use FromSlice to pass options.
//
//	p, err := packet.Of(1, 2, 3)
func Of(values ...int32) (*Packet, error) {
	return FromSlice(values)
}

// Repeat returns a packet of count elements, each equal to value.
func Repeat(value int32, count uint16, opts ...Option) (*Packet, error) {
	p, err := New(count, opts...)
	if err != nil {
		return nil, err
	}
	data := p.elements()
	for i := range data {
		data[i] = value
	}
	return p, nil
}

// Must returns p or panics if err is non-nil. It is intended for packet
// literals in tests and examples:
//
//	p := packet.Must(packet.Of(1, 2, 3))
func Must(p *Packet, err error) *Packet {
	if err != nil {
		panic(err)
	}
	return p
}
