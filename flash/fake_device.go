package flash

// FakeDevice is an in-memory Device double for tests, modelled on the
// original's blue_hal FakeFlash test double: a flat erased (0xFF) buffer
// that Write punches real bytes into.
type FakeDevice struct {
	mem []byte
}

// NewFakeDevice returns a FakeDevice of the given size, fully erased.
func NewFakeDevice(size uint32) *FakeDevice {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &FakeDevice{mem: mem}
}

func (d *FakeDevice) Read(address Address, buf []byte) error {
	start := uint32(address)
	if start+uint32(len(buf)) > uint32(len(d.mem)) {
		return ErrNotReady
	}
	copy(buf, d.mem[start:start+uint32(len(buf))])
	return nil
}

func (d *FakeDevice) Write(address Address, data []byte) error {
	start := uint32(address)
	if start+uint32(len(data)) > uint32(len(d.mem)) {
		return ErrNotReady
	}
	copy(d.mem[start:], data)
	return nil
}

func (d *FakeDevice) Bytes(address Address) ByteSource {
	return &fakeByteSource{dev: d, next: uint32(address)}
}

type fakeByteSource struct {
	dev  *FakeDevice
	next uint32
}

func (s *fakeByteSource) Next() (byte, bool) {
	if s.next >= uint32(len(s.dev.mem)) {
		return 0, false
	}
	b := s.dev.mem[s.next]
	s.next++
	return b, true
}
