package flash

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// FileDevice implements Device over a regular file, standing in for a
// fixed-size SPI/NOR part on a development workstation. It never grows
// the backing file past the configured size: writes beyond that size
// fail, and reads past the current file length come back as 0xFF, matching erased NOR
// flash rather than returning an I/O error — the same convention
// tinkerator/qftool's SPI reader relies on for its "present/empty" byte.
type FileDevice struct {
	f    *os.File
	size uint32
}

// OpenFileDevice opens (or creates) path as a flash-backed file of the
// given size. The file is advisory-locked for the lifetime of the
// returned Device via unix.Flock, modelling the "exclusively borrowed for
// the duration of a verification or transfer" language of the concurrency
// model for the case where two host tool invocations might race against
// the same backing file; this has no equivalent on the single-threaded
// embedded target.
func OpenFileDevice(path string, size uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flash: open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("flash: %s is locked by another process: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("flash: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("flash: truncate %s: %w", path, err)
		}
	}
	return &FileDevice{f: f, size: size}, nil
}

// Close releases the advisory lock and closes the backing file.
func (d *FileDevice) Close() error {
	return d.f.Close()
}

func (d *FileDevice) Read(address Address, buf []byte) error {
	if uint32(address)+uint32(len(buf)) > d.size {
		return fmt.Errorf("flash: read [0x%x,0x%x) out of bounds (size=0x%x)", address, uint32(address)+uint32(len(buf)), d.size)
	}
	n, err := d.f.ReadAt(buf, int64(address))
	if err != nil && err != io.EOF {
		return fmt.Errorf("flash: read at %s: %w", address, err)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return nil
}

func (d *FileDevice) Write(address Address, data []byte) error {
	if uint32(address)+uint32(len(data)) > d.size {
		return fmt.Errorf("flash: write [0x%x,0x%x) out of bounds (size=0x%x)", address, uint32(address)+uint32(len(data)), d.size)
	}
	if _, err := d.f.WriteAt(data, int64(address)); err != nil {
		return fmt.Errorf("flash: write at %s: %w", address, err)
	}
	return nil
}

func (d *FileDevice) Bytes(address Address) ByteSource {
	return &fileByteSource{dev: d, next: address}
}

type fileByteSource struct {
	dev  *FileDevice
	next Address
}

func (s *fileByteSource) Next() (byte, bool) {
	if uint32(s.next) >= s.dev.size {
		return 0, false
	}
	var buf [1]byte
	if err := s.dev.Read(s.next, buf[:]); err != nil {
		return 0, false
	}
	s.next = s.next.Add(1)
	return buf[0], true
}
