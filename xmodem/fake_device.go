package xmodem

import "time"

// FakeDevice is an in-memory SerialDevice double, grounded on the shape of
// other_examples' moffa90-go-cyacd mock bootloader device: a queue of
// bytes the "peer" sends, and a log of what the receiver wrote back, used
// by this package's tests. cmd/qfprog's --mock mode uses its own
// mockPeerDevice instead.
type FakeDevice struct {
	Inbound    []byte
	Outbound   []byte
	ReadErrAt  map[int]error
	WriteErrAt map[int]error

	pos        int
	readCalls  int
	writeCalls int
}

// NewFakeDevice returns a FakeDevice that will hand out inbound's bytes
// one at a time, then time out.
func NewFakeDevice(inbound []byte) *FakeDevice {
	return &FakeDevice{Inbound: inbound}
}

func (d *FakeDevice) WriteChar(b byte) error {
	if err, ok := d.WriteErrAt[d.writeCalls]; ok {
		d.writeCalls++
		return err
	}
	d.writeCalls++
	d.Outbound = append(d.Outbound, b)
	return nil
}

func (d *FakeDevice) ReadByte(timeout time.Duration) (byte, error) {
	if err, ok := d.ReadErrAt[d.readCalls]; ok {
		d.readCalls++
		return 0, err
	}
	d.readCalls++
	if d.pos >= len(d.Inbound) {
		return 0, ErrReadTimeout
	}
	b := d.Inbound[d.pos]
	d.pos++
	return b, nil
}
