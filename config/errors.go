package config

import "errors"

// ErrInvalidLayout is returned by Load and Validate when the configuration
// file cannot be read/parsed, or parses into a layout that violates a
// bank or feature-flag invariant. It is a host/tooling error, not part of
// the core's own error taxonomy (see image.Err* and xmodem.Err*).
var ErrInvalidLayout = errors.New("config: invalid layout")
