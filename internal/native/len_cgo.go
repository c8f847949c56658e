//go:build cgo && packet_cgo

package native

/*
#include <stddef.h>
#include <stdint.h>

typedef struct
{
    uint16_t length;
    int data[0];
} Packet;

static uint16_t get_packet_len(void *packet_ptr) {
    if (packet_ptr == NULL) {
        return 0;
    }
    Packet *packet = (Packet *)packet_ptr;
    return packet->length;
}
*/
import "C"

import "unsafe"

// Implementation names the primitive backing PacketLen.
const Implementation = "cgo"

// PacketLen returns the element count stored in the block at p.
func PacketLen(p unsafe.Pointer) uint16 {
	return uint16(C.get_packet_len(p))
}
