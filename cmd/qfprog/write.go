package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tinkerator/loadstone/config"
	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/xmodem"
)

// runWrite receives an image over XMODEM-CRC into the named bank. In
// --mock mode sourcePath names a local file played into an in-process
// simulated peer (see mockdevice.go); otherwise bytes come from --tty, a
// real board or bench fixture running the sending side of the protocol.
func runWrite(dev flash.Device, cfg config.Configuration, bankIdx int, sourcePath string) {
	if bankIdx < 0 {
		log.Fatal("--write requires an explicit --bank")
	}
	b, ok := bankByIndex(cfg, bankIdx)
	if !ok {
		log.Fatal("no bank with that index", "index", bankIdx)
	}

	var serial xmodem.SerialDevice
	switch {
	case *mock:
		body, err := os.ReadFile(sourcePath)
		if err != nil {
			log.Fatal("reading mock source file", "path", sourcePath, "err", err)
		}
		serial = newMockPeerDevice(body, 5*time.Millisecond)
	case *tty != "":
		term, err := xmodem.OpenTermDevice(*tty, *baud)
		if err != nil {
			log.Fatal("opening serial device", "tty", *tty, "err", err)
		}
		defer term.Close()
		serial = term
	default:
		log.Fatal("--write requires --mock or --tty")
	}

	recv := xmodem.NewBlockReceiver(serial, nil)
	defer recv.Close()

	var offset uint32
	var blocks int
	for {
		block, ok := recv.Next()
		if !ok {
			break
		}
		if offset+xmodem.PayloadSize > b.Size {
			log.Fatal("incoming transfer exceeds bank size", "bank", bankIdx, "size", b.Size)
		}
		if err := dev.Write(b.Location.Add(offset), block[:]); err != nil {
			log.Fatal("writing block to flash", "bank", bankIdx, "offset", offset, "err", err)
		}
		offset += xmodem.PayloadSize
		blocks++
		if *progress {
			log.Debug("block written", "bank", bankIdx, "block", blocks, "offset", offset)
		}
	}
	if blocks == 0 {
		log.Fatal("transfer produced no blocks")
	}
	log.Info("write complete", "bank", bankIdx, "blocks", blocks, "bytes", offset)
}
