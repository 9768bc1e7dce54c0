package main

import (
	"bytes"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"
	"zappem.net/pub/debug/xxd"

	"github.com/tinkerator/loadstone/boot"
	"github.com/tinkerator/loadstone/config"
	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/image"
)

// runRead verifies an image and writes its body out. With no explicit
// --bank it runs the same bootable-then-golden selection the bootloader
// itself would perform (boot.SelectImage), so "read whatever the device
// would actually boot" is the default, not "read bank 0 blindly".
func runRead(dev flash.Device, cfg config.Configuration, verifier image.Verifier, bankIdx int, target string) {
	var img image.Image
	var b flash.Bank
	var err error

	if bankIdx >= 0 {
		var ok bool
		b, ok = bankByIndex(cfg, bankIdx)
		if !ok {
			log.Fatal("no bank with that index", "index", bankIdx)
		}
		img, err = verifier.ImageAt(dev, b)
	} else {
		img, b, err = boot.SelectImage(dev, cfg.FlashBanks(), verifier)
	}
	if err != nil {
		log.Fatal("no verified image to read", "err", err)
	}

	body := make([]byte, img.Size)
	if err := dev.Read(b.Location, body); err != nil {
		log.Fatal("reading image body", "err", err)
	}

	if target == "-" {
		xxd.Print(int(b.Location), body)
		return
	}
	if err := atomic.WriteFile(target, bytes.NewReader(body)); err != nil {
		log.Fatal("writing image body", "path", target, "err", err)
	}
	log.Info("wrote image", "bank", b.Index, "size", len(body), "path", target)
}
