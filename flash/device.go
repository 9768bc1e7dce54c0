package flash

import "errors"

// ErrNotReady is the flash error for a device that keeps reporting "not
// ready". FakeDevice also returns it for a Read or Write that reaches past
// the end of its memory. Core callers treat it like any other flash error.
var ErrNotReady = errors.New("flash: device not ready")

// Device is the contract the core requires of flash memory: bounded
// read/write and a restartable lazy byte sequence. Both Read and Write
// fail with a flash-specific error the core treats opaquely.
type Device interface {
	// Read fills buf with consecutive bytes starting at address. Some
	// hardware may require several busy-wait attempts internally;
	// implementations handle that, the caller only sees the final
	// outcome.
	Read(address Address, buf []byte) error

	// Write commits bytes to flash starting at address.
	Write(address Address, data []byte) error

	// Bytes returns a lazy byte sequence starting at address and running
	// to the end of the device. It is restartable: calling Bytes again
	// with a fresh address starts a new, independent sequence.
	Bytes(address Address) ByteSource
}

// ByteSource is a lazy, forward-only sequence of bytes. It is the Go
// analogue of the original Rust iterator chain (flash.bytes(addr).take(n)
// .until_sequence(...)): small, composable adapters that never buffer more
// than their own state.
type ByteSource interface {
	// Next returns the next byte and true, or ok=false once the source is
	// exhausted. Once ok is false, all subsequent calls must also return
	// ok=false.
	Next() (b byte, ok bool)
}

// take caps a ByteSource to at most n further bytes.
type take struct {
	src       ByteSource
	remaining int
}

// Take returns a ByteSource that yields at most n bytes from src, then
// stops regardless of whether src has more to give.
func Take(src ByteSource, n int) ByteSource {
	return &take{src: src, remaining: n}
}

func (t *take) Next() (byte, bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	b, ok := t.src.Next()
	if !ok {
		t.remaining = 0
		return 0, false
	}
	t.remaining--
	return b, true
}
