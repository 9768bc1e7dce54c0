package main

import (
	"github.com/charmbracelet/log"

	"github.com/tinkerator/loadstone/config"
	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/image"
)

// displayLayout logs one line per configured bank, the loadstone
// equivalent of tinkerator/qftool's displayLayout: instead of a fixed SPI
// section table, it walks the banks the loaded Configuration describes
// and reports whether each currently holds a verifiable image.
func displayLayout(dev flash.Device, cfg config.Configuration, verifier image.Verifier) {
	for _, b := range cfg.FlashBanks() {
		img, err := verifier.ImageAt(dev, b)
		switch {
		case err == nil:
			log.Info("bank", "index", b.Index, "location", b.Location, "size", b.Size,
				"bootable", b.Bootable, "golden", b.IsGolden, "image_size", img.Size, "status", "valid")
		default:
			log.Info("bank", "index", b.Index, "location", b.Location, "size", b.Size,
				"bootable", b.Bootable, "golden", b.IsGolden, "status", err.Error())
		}
	}
}
