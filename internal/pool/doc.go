// Package pool recycles packet blocks through sync.Pool.
//
// Packets of the same length share one layout, so a block freed by one packet
// can back the next packet of that length without going through the
// allocator again. Pooled blocks are plain Go heap memory; the garbage
// collector reclaims whatever the pools drop.
package pool
