// Package config loads the frozen build-time project configuration: the
// security mode, the bank layout, and the feature flags a board image was
// built with. Rather than baking these values in at compile time via a
// build-script side effect, this package loads them explicitly from a
// human-editable JWCC file, so the same binary can target different
// boards without a rebuild.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/tinkerator/loadstone/flash"
)

// SecurityMode selects which image.Verifier a Configuration implies.
type SecurityMode int

const (
	SecurityCRC32 SecurityMode = iota
	SecurityP256ECDSA
)

func (m SecurityMode) String() string {
	switch m {
	case SecurityCRC32:
		return "crc32"
	case SecurityP256ECDSA:
		return "p256-ecdsa"
	default:
		return fmt.Sprintf("SecurityMode(%d)", int(m))
	}
}

// BankConfig is the on-disk shape of one flash.Bank.
type BankConfig struct {
	Index    uint8  `json:"index"`
	Location uint32 `json:"location"`
	Size     uint32 `json:"size"`
	Bootable bool   `json:"bootable"`
	Golden   bool   `json:"golden"`
}

// Configuration is the frozen project configuration a board image was
// built against. Values are read once at startup and treated as
// immutable for the remainder of the process's life.
type Configuration struct {
	Port                 string       `json:"port"`
	SecurityMode         SecurityMode `json:"security_mode"`
	RequiredFeatureFlags []string     `json:"required_feature_flags"`
	Banks                []BankConfig `json:"banks"`
	GoldenBankIndex      *int         `json:"golden_bank_index,omitempty"`
}

// recognisedFeatureFlags mirrors validate_feature_flags_against_configuration
// in the original build.rs: an unrecognised flag is a load-time error, not a
// silently ignored one.
var recognisedFeatureFlags = map[string]bool{
	"ecdsa-verify": true,
	"crc-verify":   true,
	"xmodem":       true,
	"recovery":     true,
}

// Load reads, decomments (via hujson.Standardize) and parses the project
// configuration file at path, then validates it. A Configuration is only
// ever returned once it satisfies every invariant below; there is no
// partially-valid result.
func Load(path string) (Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("%w: reading %s: %v", ErrInvalidLayout, path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Configuration{}, fmt.Errorf("%w: %s is not valid JWCC: %v", ErrInvalidLayout, path, err)
	}

	var cfg Configuration
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("%w: %s: %v", ErrInvalidLayout, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Validate checks the bank-layout invariants shared with flash.Bank and
// the recognised-feature-flag set. Load always calls this; it is exported
// so a caller that builds a Configuration in memory can validate it before
// passing it to Generate.
func (c Configuration) Validate() error {
	banks := c.FlashBanks()
	if err := flash.ValidateBanks(banks); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	goldenCount := 0
	for _, b := range c.Banks {
		if b.Golden {
			goldenCount++
		}
	}
	if goldenCount > 1 {
		return fmt.Errorf("%w: at most one bank may be golden, found %d", ErrInvalidLayout, goldenCount)
	}

	for _, flag := range c.RequiredFeatureFlags {
		if !recognisedFeatureFlags[flag] {
			return fmt.Errorf("%w: unrecognised feature flag %q", ErrInvalidLayout, flag)
		}
	}
	return nil
}

// FlashBanks converts the on-disk BankConfig slice into flash.Bank values
// ready for boot.SelectImage and the image verifiers.
func (c Configuration) FlashBanks() []flash.Bank {
	banks := make([]flash.Bank, len(c.Banks))
	for i, b := range c.Banks {
		banks[i] = flash.Bank{
			Index:    b.Index,
			Location: flash.Address(b.Location),
			Size:     b.Size,
			Bootable: b.Bootable,
			IsGolden: b.Golden,
		}
	}
	return banks
}

// RequiresFlag reports whether name is one of the configuration's required
// feature flags. cmd/qfprog picks its verifier from SecurityMode, not from
// these flags.
func (c Configuration) RequiresFlag(name string) bool {
	for _, f := range c.RequiredFeatureFlags {
		if f == name {
			return true
		}
	}
	return false
}
