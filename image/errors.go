package image

import "errors"

// Error taxonomy for the image verifier, matching the core's error
// propagation policy: every error is terminal for a single ImageAt call,
// and callers (bank selection / recovery) decide what to do next.
var (
	// ErrBankEmpty means the bank begins with 0xFF (erased flash) or
	// contains no magic sentinel within its declared size.
	ErrBankEmpty = errors.New("image: bank empty")

	// ErrBankInvalid means the bank descriptor itself is inconsistent, or
	// flash refused the very first read.
	ErrBankInvalid = errors.New("image: bank invalid")

	// ErrSignatureInvalid means the signature bytes were malformed, or
	// verification against the digest failed.
	ErrSignatureInvalid = errors.New("image: signature invalid")

	// ErrFlash wraps an opaque underlying flash I/O failure.
	ErrFlash = errors.New("image: flash error")
)
