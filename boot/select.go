// Package boot implements the minimal "try each bootable bank, then the
// golden bank" selection policy: every verification error is terminal for
// a single bank, and it is up to this policy to decide whether to try the
// next bank or fall back to the golden one. It adds no new verification
// logic, only sequencing, and deliberately stops at "primary banks plus
// one golden fallback" rather than broader A/B orchestration.
package boot

import (
	"errors"
	"fmt"

	"github.com/tinkerator/loadstone/flash"
	"github.com/tinkerator/loadstone/image"
)

// ErrNoValidImage is returned when every bootable bank, and the golden
// bank if any, failed verification.
var ErrNoValidImage = errors.New("boot: no valid image found in any bank")

// SelectImage iterates the non-golden bootable banks in the order given,
// returning the first Image that verifies successfully. If none succeed,
// it falls back to the golden bank (if configured). Banks with
// Bootable == false are skipped entirely — they don't hold code the
// bootloader can jump to.
func SelectImage(dev flash.Device, banks []flash.Bank, verifier image.Verifier) (image.Image, flash.Bank, error) {
	var golden *flash.Bank
	var lastErr error

	for i := range banks {
		b := banks[i]
		if !b.Bootable {
			continue
		}
		if b.IsGolden {
			golden = &banks[i]
			continue
		}
		img, err := verifier.ImageAt(dev, b)
		if err == nil {
			return img, b, nil
		}
		lastErr = err
	}

	if golden != nil {
		img, err := verifier.ImageAt(dev, *golden)
		if err == nil {
			return img, *golden, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrNoValidImage
	}
	return image.Image{}, flash.Bank{}, fmt.Errorf("%w: %v", ErrNoValidImage, lastErr)
}
