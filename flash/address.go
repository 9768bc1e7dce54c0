// Package flash presents banked flash memory as a restartable byte
// stream with bounded read/write, the foundation the image verifier and
// block receiver build on.
package flash

import "fmt"

// Address is an opaque flash byte position. Two addresses are only
// meaningful to compare or add against each other when they are rooted in
// the same Device; the type itself does not enforce this (Go has no
// generic region-branding cheap enough for an MCU-class target), so
// callers must not mix addresses taken from different devices.
type Address uint32

// Add returns the address offset by n bytes.
func (a Address) Add(n uint32) Address {
	return a + Address(n)
}

func (a Address) String() string {
	return fmt.Sprintf("0x%08x", uint32(a))
}
