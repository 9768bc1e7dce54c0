package xmodem

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Packet is the tagged union C4 produces: either a numbered Chunk or an
// EndOfTransmission sentinel.
type Packet interface {
	isPacket()
}

// Chunk is one numbered data block.
type Chunk struct {
	BlockNumber uint8
	Payload     [PayloadSize]byte
}

func (Chunk) isPacket() {}

// EndOfTransmission signals the sender is done.
type EndOfTransmission struct{}

func (EndOfTransmission) isPacket() {}

// ErrInvalidPacket means buf, at its current (full) length, could not be
// parsed as either packet shape.
var ErrInvalidPacket = errors.New("xmodem: invalid packet")

// errIncomplete is an internal signal meaning "not decidable yet" — used
// only for the single-byte header peek the block receiver performs right
// after reading a packet's first byte. It is never returned once buf has
// accumulated a full MaxPacketSize bytes.
var errIncomplete = errors.New("xmodem: incomplete")

// Parse examines buf — either a single header byte (len(buf) == 1, the
// "just read the header" peek) or a complete MaxPacketSize-byte frame
// (len(buf) == MaxPacketSize) — and decodes one Packet. It is purely
// functional: it never touches the serial device.
//
// At len(buf) == 1, only EndOfTransmission can be conclusively recognised
// (its entire "frame" is the header byte); anything else returns
// errIncomplete, signalling "keep reading, this isn't resolved yet" rather
// than an outright parse failure — end-of-transmission is a single-byte
// packet while a data block fills the full frame, hence the two distinct
// check points C5 uses.
func Parse(buf []byte) (Packet, error) {
	if len(buf) == 0 {
		return nil, errIncomplete
	}
	if buf[0] == EOT {
		return EndOfTransmission{}, nil
	}
	if len(buf) < MaxPacketSize {
		return nil, errIncomplete
	}

	if buf[0] != SOH {
		return nil, fmt.Errorf("%w: unrecognised header byte 0x%02x", ErrInvalidPacket, buf[0])
	}
	blockNumber := buf[1]
	complement := buf[2]
	if complement != ^blockNumber {
		return nil, fmt.Errorf("%w: block number complement mismatch", ErrInvalidPacket)
	}

	var payload [PayloadSize]byte
	copy(payload[:], buf[3:3+PayloadSize])

	wantCRC := binary.BigEndian.Uint16(buf[3+PayloadSize : 3+PayloadSize+2])
	gotCRC := crc16XModem(payload[:])
	if gotCRC != wantCRC {
		return nil, fmt.Errorf("%w: CRC mismatch", ErrInvalidPacket)
	}

	return Chunk{BlockNumber: blockNumber, Payload: payload}, nil
}
