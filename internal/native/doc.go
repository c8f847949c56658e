// Package native holds the length-query primitive for native packet blocks.
//
// A packet block starts with a 16-bit length followed by int32 elements:
//
//	typedef struct {
//	    uint16_t length;
//	    int data[0];
//	} Packet;
//
//	uint16_t get_packet_len(void *packet_ptr);
//
// PacketLen is the Go entry point to get_packet_len. Building with cgo and the
// packet_cgo tag calls the C implementation; otherwise an equivalent pure-Go
// rendition is used. Both report 0 for a nil block.
package native
