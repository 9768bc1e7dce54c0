package image

// MagicString terminates the image body on flash. It is stored
// bit-inverted (see invertedMagic below) so an erased flash region (all 0xFF)
// can never be mistaken for it: inverting guarantees at least one zero
// bit inside the sentinel region of any legitimately flashed image.
var MagicString = []byte("LOADSTONE-MAGIC!")

// GoldenString is placed immediately before the magic sentinel in golden
// (fallback) images.
var GoldenString = []byte("GOLDENIMG!")

// SignatureSizeECDSA is the raw r||s encoding size of a P-256 ECDSA
// signature (32 bytes per component).
const SignatureSizeECDSA = 64

// SignatureSizeCRC32 is the encoded size of the CRC-only security mode's
// "signature" (a big-endian uint32).
const SignatureSizeCRC32 = 4

// invertedMagic returns MagicString with every byte bit-inverted, matching
// how the sentinel is physically stored on flash.
func invertedMagic() []byte {
	out := make([]byte, len(MagicString))
	for i, b := range MagicString {
		out[i] = ^b
	}
	return out
}
