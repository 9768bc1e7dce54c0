package image

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// MustDecodeSEC1PublicKey decodes a SEC1 encoded point (the format a
// build-time code generator embeds in the release binary) into a P-256
// verifying key. Any decode failure here is a programmer/build-time
// error, not a runtime Error — it panics rather than returning an error,
// matching a release build's `.expect("Invalid public key supplied on
// compilation")`-style treatment of an unrecoverable configuration bug.
func MustDecodeSEC1PublicKey(data []byte) *ecdsa.PublicKey {
	curve := elliptic.P256()
	x, y := elliptic.Unmarshal(curve, data)
	if x == nil {
		panic("image: invalid SEC1-encoded public key supplied at compilation")
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
}

// MustDecodePEMPublicKey decodes a PEM-encoded P-256 public key, the form
// used in test builds in place of the compiled-in SEC1 point.
func MustDecodePEMPublicKey(pemString string) *ecdsa.PublicKey {
	block, _ := pem.Decode([]byte(pemString))
	if block == nil {
		panic("image: invalid PEM public key supplied for test build")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		panic(fmt.Sprintf("image: invalid PEM public key supplied for test build: %v", err))
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		panic("image: PEM public key is not an ECDSA key")
	}
	return ecdsaPub
}
