package xmodem

import (
	"fmt"
	"time"

	"github.com/pkg/term"
)

// TermDevice wraps github.com/pkg/term the same way tinkerator/qftool's QF
// type does (term.Open with a fixed baud rate and raw mode), implementing
// SerialDevice against a real tty for cmd/qfprog and for integration
// tests run with a physical or pty-backed serial link.
type TermDevice struct {
	t *term.Term
}

// OpenTermDevice opens tty at the given baud rate in raw mode.
func OpenTermDevice(tty string, baud int) (*TermDevice, error) {
	t, err := term.Open(tty, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("xmodem: open %s: %w", tty, err)
	}
	return &TermDevice{t: t}, nil
}

func (d *TermDevice) Close() error {
	return d.t.Close()
}

func (d *TermDevice) WriteChar(b byte) error {
	_, err := d.t.Write([]byte{b})
	return err
}

func (d *TermDevice) ReadByte(timeout time.Duration) (byte, error) {
	if err := d.t.SetReadTimeout(timeout); err != nil {
		return 0, fmt.Errorf("xmodem: set read timeout: %w", err)
	}
	var buf [1]byte
	n, err := d.t.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("xmodem: read: %w", err)
	}
	if n == 0 {
		return 0, ErrReadTimeout
	}
	return buf[0], nil
}
