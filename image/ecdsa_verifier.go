package image

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/tinkerator/loadstone/flash"
)

// ECDSAVerifier implements Verifier using SHA-256 + P-256 ECDSA, the
// production security mode.
type ECDSAVerifier struct {
	PublicKey *ecdsa.PublicKey

	// DevelopmentShortcut enables the fast-path rejection of banks
	// starting with 0xFF. This must be false in release builds: an
	// attacker who can arrange a first byte of 0xFF would otherwise get a
	// cheap denial-of-service fast path (never code execution, since it
	// only ever rejects).
	DevelopmentShortcut bool
}

// ImageAt implements Verifier.
func (v *ECDSAVerifier) ImageAt(dev flash.Device, bank flash.Bank) (Image, error) {
	if bank.Size == 0 {
		return Image{}, ErrBankInvalid
	}

	digest := sha256.New()
	imageSize, err := digestBody(dev, bank, digest, v.DevelopmentShortcut)
	if err != nil {
		return Image{}, err
	}

	sigPos := bank.Location.Add(imageSize).Add(uint32(len(MagicString)))
	sigBytes := make([]byte, SignatureSizeECDSA)
	if err := dev.Read(sigPos, sigBytes); err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrFlash, err)
	}

	r := new(big.Int).SetBytes(sigBytes[:32])
	s := new(big.Int).SetBytes(sigBytes[32:])

	sum := digest.Sum(nil)
	if !ecdsa.Verify(v.PublicKey, sum, r, s) {
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

// SignECDSA is a test/tooling helper producing the raw r||s signature
// format this package expects, over SHA-256(body ++ invertedMagic). It has
// no role in the embedded core (signing never happens on-device) and is
// used by the tests.
func SignECDSA(priv *ecdsa.PrivateKey, body []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(body)
	h.Write(invertedMagic())
	r, s, err := ecdsa.Sign(rand.Reader, priv, h.Sum(nil))
	if err != nil {
		return nil, err
	}
	out := make([]byte, SignatureSizeECDSA)
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	copy(out[32-len(rBytes):32], rBytes)
	copy(out[64-len(sBytes):64], sBytes)
	return out, nil
}
