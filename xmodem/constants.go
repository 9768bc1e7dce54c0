// Package xmodem implements the packet decoder and block receiver: an
// XMODEM-CRC variant state machine that drives the handshake/NAK/ACK
// dance over a timeout-capable serial link and emits a lazy, finite
// sequence of 128-byte payload blocks.
//
// The wire format is SOH/EOT/ACK/NAK/ETB control bytes framing a
// 128-byte payload with a CRC16 trailer.
package xmodem

import "time"

// Control byte codes.
const (
	SOH byte = 0x01
	EOT byte = 0x04
	ACK byte = 0x06
	NAK byte = 0x15
	ETB byte = 0x17
)

// PayloadSize is the size of one numbered data block.
const PayloadSize = 128

// MaxPacketSize is the largest possible framed packet: 1 header + 1 block
// number + 1 complement + 128 payload bytes + 2 CRC bytes.
const MaxPacketSize = 1 + 1 + 1 + PayloadSize + 2

// DefaultTimeout is the per-byte read timeout the block receiver uses
// between serial reads; it is the sole mechanism driving retry counts —
// there is no wall clock and no external cancellation.
const DefaultTimeout = 1 * time.Second
