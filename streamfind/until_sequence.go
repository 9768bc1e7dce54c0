// Package streamfind implements the sentinel-terminated iterator adapter:
// given a byte sequence and a non-empty sentinel, it yields every input
// byte up to but not including the first occurrence of the sentinel, then
// terminates, consuming the sentinel bytes without emitting them.
//
// The point of keeping this as a streaming adapter rather than a
// buffer-and-search is that the image verifier folds its output straight
// into a SHA-256 digest one byte at a time, so the whole pipeline never
// holds more than a few sentinel-length bytes in memory regardless of
// image size.
package streamfind

import (
	"bytes"

	"github.com/tinkerator/loadstone/flash"
)

// UntilSequence wraps src so it yields bytes until the first occurrence
// of sentinel, which is itself consumed but never emitted. sentinel must
// be non-empty. If src ends before sentinel is found, every byte of src is
// yielded and the sequence simply ends (no error — the caller, C3,
// interprets "consumed everything without a match" as BankEmpty).
func UntilSequence(src flash.ByteSource, sentinel []byte) flash.ByteSource {
	if len(sentinel) == 0 {
		panic("streamfind: sentinel must be non-empty")
	}
	return &adapter{src: src, sentinel: sentinel}
}

type adapter struct {
	src      flash.ByteSource
	sentinel []byte

	// pending holds bytes that matched the sentinel so far but turned out
	// not to be part of a real occurrence; they must still reach the
	// caller, one Next() call at a time.
	pending []byte
	k       int // length of the sentinel prefix currently matched

	done               bool
	finishAfterPending bool
}

func (a *adapter) Next() (byte, bool) {
	for {
		if len(a.pending) > 0 {
			b := a.pending[0]
			a.pending = a.pending[1:]
			if len(a.pending) == 0 && a.finishAfterPending {
				a.done = true
			}
			return b, true
		}
		if a.done {
			return 0, false
		}

		b, ok := a.src.Next()
		if !ok {
			// A partial match at the end of src was not an occurrence:
			// its bytes still reach the caller before the sequence ends.
			a.pending = append(a.pending, a.sentinel[:a.k]...)
			a.k = 0
			a.done = true
			continue
		}

		if b == a.sentinel[a.k] {
			a.k++
			if a.k == len(a.sentinel) {
				// Full occurrence found; sentinel consumed, never emitted.
				a.done = true
				return 0, false
			}
			continue
		}

		// Mismatch: flush matched bytes from the front until what remains
		// is again a prefix of the sentinel that b extends (or nothing
		// remains), then re-examine b against that shorter match — this is
		// what makes overlapping prefixes (e.g. sentinel "AAB" seen against
		// "AAAB") resolve correctly.
		window := a.sentinel[:a.k]
		for len(window) > 0 {
			a.pending = append(a.pending, window[0])
			window = window[1:]
			if bytes.HasPrefix(a.sentinel, window) && a.sentinel[len(window)] == b {
				break
			}
		}
		a.k = len(window)
		if b == a.sentinel[a.k] {
			a.k++
			if a.k == len(a.sentinel) {
				a.finishAfterPending = true
				if len(a.pending) == 0 {
					a.done = true
					return 0, false
				}
			}
			continue
		}
		a.pending = append(a.pending, b)
	}
}
