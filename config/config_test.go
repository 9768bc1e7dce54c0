package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigJWCC = `{
  // project configuration, comments allowed (JWCC)
  "port": "/dev/ttyUSB0",
  "security_mode": 1,
  "required_feature_flags": ["ecdsa-verify", "xmodem"],
  "banks": [
    {"index": 0, "location": 0, "size": 1024, "bootable": true, "golden": false},
    {"index": 1, "location": 1024, "size": 1024, "bootable": true, "golden": true},
  ],
}
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "loadstone.hujson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadValidConfiguration(t *testing.T) {
	path := writeTemp(t, validConfigJWCC)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" {
		t.Fatalf("got port %q", cfg.Port)
	}
	if cfg.SecurityMode != SecurityP256ECDSA {
		t.Fatalf("got security mode %v", cfg.SecurityMode)
	}
	if len(cfg.Banks) != 2 {
		t.Fatalf("got %d banks", len(cfg.Banks))
	}
	if !cfg.RequiresFlag("ecdsa-verify") || cfg.RequiresFlag("crc-verify") {
		t.Fatalf("flag lookup mismatch: %v", cfg.RequiredFeatureFlags)
	}
}

func TestLoadRejectsUnrecognisedFlag(t *testing.T) {
	content := strings.Replace(validConfigJWCC, `"ecdsa-verify"`, `"made-up-flag"`, 1)
	path := writeTemp(t, content)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestLoadRejectsOverlappingBanks(t *testing.T) {
	content := strings.Replace(validConfigJWCC, `"location": 1024`, `"location": 512`, 1)
	path := writeTemp(t, content)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestLoadRejectsTwoGoldenBanks(t *testing.T) {
	content := strings.Replace(validConfigJWCC, `"golden": false`, `"golden": true`, 1)
	path := writeTemp(t, content)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hujson"))
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestGenerateProducesParseableSource(t *testing.T) {
	path := writeTemp(t, validConfigJWCC)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	var buf bytes.Buffer
	key := []byte{0x04, 0x01, 0x02, 0x03}
	if err := Generate(&buf, "boardcfg", cfg, key); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"package boardcfg", "PublicKeyBytes", "0x04", "flash.Bank{"} {
		if !strings.Contains(out, want) {
			t.Fatalf("generated source missing %q:\n%s", want, out)
		}
	}
}
