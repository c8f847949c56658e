package packet

import (
	"log/slog"
	"strconv"
	"strings"
)

// maxLoggedElements bounds how many elements LogValue includes.
const maxLoggedElements = 32

// String returns a human-readable form, e.g. "Packet(length: 3, data: [1, 2, 3])".
func (p *Packet) String() string {
	var sb strings.Builder
	sb.WriteString("Packet(length: ")
	sb.WriteString(strconv.Itoa(int(p.Len())))
	sb.WriteString(", data: ")
	writeElements(&sb, p.Data())
	sb.WriteByte(')')
	return sb.String()
}

// GoString returns the structured form used by the %#v verb, e.g.
// "packet.Packet{length: 3, data: [1, 2, 3]}".
func (p *Packet) GoString() string {
	var sb strings.Builder
	sb.WriteString("packet.Packet{length: ")
	sb.WriteString(strconv.Itoa(int(p.Len())))
	sb.WriteString(", data: ")
	writeElements(&sb, p.Data())
	sb.WriteByte('}')
	return sb.String()
}

// LogValue implements slog.LogValuer. Long packets are truncated to their
// first elements.
func (p *Packet) LogValue() slog.Value {
	data := p.Data()
	attrs := []slog.Attr{
		slog.Int("length", len(data)),
	}
	if len(data) > maxLoggedElements {
		attrs = append(attrs,
			slog.String("data", formatElements(data[:maxLoggedElements])),
			slog.Bool("truncated", true),
		)
	} else {
		attrs = append(attrs, slog.String("data", formatElements(data)))
	}
	return slog.GroupValue(attrs...)
}

func formatElements(data []int32) string {
	var sb strings.Builder
	writeElements(&sb, data)
	return sb.String()
}

func writeElements(sb *strings.Builder, data []int32) {
	var buf [16]byte
	sb.WriteByte('[')
	for i, v := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.Write(strconv.AppendInt(buf[:0], int64(v), 10))
	}
	sb.WriteByte(']')
}
