// Package image implements the image verifier: it streams a bank's
// body through a cryptographic digest until the magic sentinel, reads the
// trailing signature, verifies it, and returns a validated Image
// descriptor.
package image

import (
	"fmt"
	"hash"

	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/streamfind"
)

// Image is a validated firmware artifact resident in a bank. Size
// excludes the trailing magic sentinel, signature, and any golden marker.
// An Image value only exists if its Signature verified successfully over
// the digest of [Location, Location+Size), the golden marker when Golden
// is true, and the inverted MagicString.
type Image struct {
	Location  flash.Address
	Size      uint32
	Bootable  bool
	Golden    bool
	Signature []byte
}

// Verifier produces a validated Image from a bank, or a terminal error.
// ImageAt never retries internally; bank selection and fallback are the
// caller's concern (see the boot package).
type Verifier interface {
	ImageAt(dev flash.Device, bank flash.Bank) (Image, error)
}

// digestBody streams bank's body (capped to bank.Size) through h via the
// sentinel-terminated adapter, stopping at the first occurrence of the
// inverted magic string. It returns the number of body bytes digested
// (excluding the sentinel), and also feeds the inverted magic string into
// h afterwards so the sentinel itself is bound into the signed digest.
//
// developmentShortcut, when true, rejects a bank whose first byte is 0xFF
// (an erased bank) without reading any further. This is a development
// speed-up, not a security property, and callers MUST pass false in
// release configuration — see Verifier implementations'
// DevelopmentShortcut field, which is the only place this argument is
// set to true.
func digestBody(dev flash.Device, bank flash.Bank, h hash.Hash, developmentShortcut bool) (imageSize uint32, err error) {
	if developmentShortcut {
		first := make([]byte, 1)
		if err := dev.Read(bank.Location, first); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBankInvalid, err)
		}
		if first[0] == 0xFF {
			return 0, ErrBankEmpty
		}
	}

	source := flash.Take(dev.Bytes(bank.Location), int(bank.Size))
	sentinel := streamfind.UntilSequence(source, invertedMagic())

	var count uint32
	for {
		b, ok := sentinel.Next()
		if !ok {
			break
		}
		h.Write([]byte{b})
		count++
	}

	if count == bank.Size {
		// The fold consumed the entire bank without the sentinel firing:
		// an uninitialised (or corrupted-magic) bank contains no magic.
		return 0, ErrBankEmpty
	}

	h.Write(invertedMagic())
	return count, nil
}

// readGoldenMarker reads the len(GoldenString) bytes ending at
// bank.Location+imageSize and reports whether they equal GoldenString. If
// they do, the returned size has len(GoldenString) subtracted using
// saturating arithmetic (a body shorter than the marker yields size 0
// rather than underflowing).
func readGoldenMarker(dev flash.Device, bank flash.Bank, imageSize uint32) (golden bool, adjustedSize uint32, err error) {
	markerLen := uint32(len(GoldenString))
	var start uint32
	if imageSize >= markerLen {
		start = imageSize - markerLen
	}
	buf := make([]byte, markerLen)
	if err := dev.Read(bank.Location.Add(start), buf); err != nil {
		return false, imageSize, fmt.Errorf("%w: %v", ErrFlash, err)
	}
	if !bytesEqual(buf, GoldenString) {
		return false, imageSize, nil
	}
	if imageSize >= markerLen {
		return true, imageSize - markerLen, nil
	}
	return true, 0, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
