package xmodem

import "encoding/binary"

// CRC16 computes the CRC-16/XMODEM checksum of data, the same variant the
// packet trailer uses. Exported for callers that need to act as the
// sending peer (cmd/qfprog's mock device) rather than the receiver this
// package otherwise implements.
func CRC16(data []byte) uint16 {
	return crc16XModem(data)
}

// EncodeChunk builds the on-wire frame for one numbered data block, the
// inverse of Parse's Chunk branch.
func EncodeChunk(blockNumber uint8, payload [PayloadSize]byte) []byte {
	frame := make([]byte, 0, MaxPacketSize)
	frame = append(frame, SOH, blockNumber, ^blockNumber)
	frame = append(frame, payload[:]...)
	var crcBytes [2]byte
	binary.BigEndian.PutUint16(crcBytes[:], crc16XModem(payload[:]))
	return append(frame, crcBytes[:]...)
}
