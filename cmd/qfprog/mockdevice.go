package main

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tinkerator/loadstone/xmodem"
)

// mockPeerDevice simulates a serial peer that sends a fixed image over
// XMODEM-CRC, for exercising --write without real hardware. It is
// grounded on other_examples' moffa90-go-cyacd RealisticMockDevice: a
// canned byte stream with simulated per-operation latency and structured
// logging of what the "device" is doing, rather than a silent test
// double. Unlike xmodem.FakeDevice (the silent test double used by the
// xmodem package's own tests), this type exists purely for qfprog's
// interactive --mock mode and is not imported by any test.
type mockPeerDevice struct {
	wire    []byte
	pos     int
	latency time.Duration
}

// newMockPeerDevice builds the wire-format byte stream for body: one
// EncodeChunk frame per 128-byte block (the last one padded with 0xFF),
// followed by EOT
// then ETB, mirroring what a real XMODEM sender emits.
func newMockPeerDevice(body []byte, latency time.Duration) *mockPeerDevice {
	var wire []byte
	blockNumber := uint8(1)
	for offset := 0; offset < len(body); offset += xmodem.PayloadSize {
		var payload [xmodem.PayloadSize]byte
		n := copy(payload[:], body[offset:])
		for i := n; i < xmodem.PayloadSize; i++ {
			payload[i] = 0xFF
		}
		wire = append(wire, xmodem.EncodeChunk(blockNumber, payload)...)
		blockNumber++
	}
	wire = append(wire, xmodem.EOT, xmodem.ETB)

	log.Debug("mock peer device armed", "blocks", blockNumber-1, "bytes", len(body))
	return &mockPeerDevice{wire: wire, latency: latency}
}

func (d *mockPeerDevice) WriteChar(b byte) error {
	switch b {
	case xmodem.ACK:
		log.Debug("mock peer: received ACK")
	case xmodem.NAK:
		log.Debug("mock peer: received NAK")
	}
	return nil
}

func (d *mockPeerDevice) ReadByte(timeout time.Duration) (byte, error) {
	if d.latency > 0 {
		time.Sleep(d.latency)
	}
	if d.pos >= len(d.wire) {
		return 0, xmodem.ErrReadTimeout
	}
	b := d.wire[d.pos]
	d.pos++
	return b, nil
}
