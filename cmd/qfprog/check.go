package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"zappem.net/pub/debug/xcrc32"

	"github.com/tinkerator/loadstone/config"
	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/image"
)

// checkBank verifies the image in the named bank using the streaming
// core verifier, then reads the verified image body into memory whole and
// logs its zappem.net/pub/debug/xcrc32 checksum at debug level. The
// checksum is only logged; it is not compared against anything.
func checkBank(dev flash.Device, cfg config.Configuration, verifier image.Verifier, bankArg string) error {
	idx, err := strconv.Atoi(bankArg)
	if err != nil {
		return fmt.Errorf("--check requires a numeric bank index, got %q", bankArg)
	}
	b, ok := bankByIndex(cfg, idx)
	if !ok {
		return fmt.Errorf("no bank with index %d", idx)
	}

	img, err := verifier.ImageAt(dev, b)
	if err != nil {
		return fmt.Errorf("verification failed for bank %d: %w", idx, err)
	}
	log.Info("verification OK", "bank", idx, "size", img.Size, "golden", img.Golden)

	body := make([]byte, img.Size)
	if err := dev.Read(b.Location, body); err != nil {
		return fmt.Errorf("re-reading verified body for bank %d: %w", idx, err)
	}
	_, crc := xcrc32.NewCRC32(body)
	log.Debug("whole-buffer CRC32 cross-check", "bank", idx, "crc32", crc)
	return nil
}

// runCheck is the --check entry point: a verification failure here is
// fatal for the whole process, unlike the REPL's "check" command which
// reports the error and keeps the shell open.
func runCheck(dev flash.Device, cfg config.Configuration, verifier image.Verifier, bankArg string) {
	if err := checkBank(dev, cfg, verifier, bankArg); err != nil {
		log.Fatal(err)
	}
}
