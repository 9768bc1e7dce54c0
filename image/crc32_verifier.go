package image

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/tinkerator/loadstone/flash"
)

// CRC32Verifier implements Verifier for the CRC-only security mode: when
// ECDSA verification is absent from a build, the image reader operates
// with an equivalent CRC-based check instead. The streaming shape is
// identical to ECDSAVerifier; only the final digest/verify step differs,
// using a 4-byte IEEE CRC-32 instead of a 64-byte signature.
//
// hash/crc32 is used here rather than zappem.net/pub/debug/xcrc32 because
// that library's NewCRC32 takes a complete byte slice, not a streaming
// hash.Hash, and this verifier's no-buffering design needs a Write-based
// accumulator. xcrc32 is still put to use, unchanged, in cmd/qfprog's
// --check path, which reads a verified image body into memory whole and
// logs its CRC32 (see cmd/qfprog/check.go).
type CRC32Verifier struct {
	DevelopmentShortcut bool
}

func (v *CRC32Verifier) ImageAt(dev flash.Device, bank flash.Bank) (Image, error) {
	if bank.Size == 0 {
		return Image{}, ErrBankInvalid
	}

	digest := crc32.NewIEEE()
	imageSize, err := digestBody(dev, bank, digest, v.DevelopmentShortcut)
	if err != nil {
		return Image{}, err
	}

	sigPos := bank.Location.Add(imageSize).Add(uint32(len(MagicString)))
	sigBytes := make([]byte, SignatureSizeCRC32)
	if err := dev.Read(sigPos, sigBytes); err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrFlash, err)
	}

	want := binary.BigEndian.Uint32(sigBytes)
	got := digest.Sum32()
	if got != want {
		return Image{}, ErrSignatureInvalid
	}

	golden, adjustedSize, err := readGoldenMarker(dev, bank, imageSize)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Location:  bank.Location,
		Size:      adjustedSize,
		Bootable:  bank.Bootable,
		Golden:    golden,
		Signature: sigBytes,
	}, nil
}

// SignCRC32 is the test/tooling counterpart to SignECDSA for the CRC-only
// security mode.
func SignCRC32(body []byte) []byte {
	digest := crc32.NewIEEE()
	digest.Write(body)
	digest.Write(invertedMagic())
	out := make([]byte, SignatureSizeCRC32)
	binary.BigEndian.PutUint32(out, digest.Sum32())
	return out
}
