// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"encoding/binary"
	"fmt"
	"strings"

	"code.hybscloud.com/lineframer/internal/bo"
)

// Preset helpers and mapping.
//
// Device kind to Flags:
//   - CR       → IgnoreLF                  // CR or CRLF terminated lines
//   - Console  → IgnoreLF | SkipWhitespace // operator typing on a terminal
//   - Nextion  → SentinelRun               // display replies ending in FF FF FF
//
// Byte-order policy for re-encoded frames:
//   - Network frames use BigEndian.
//   - Local frames use native byte order (multi-arch friendly).

type presetKind uint8

const (
	presetCR presetKind = iota
	presetConsole
	presetNextion
)

func flagsFor(kind presetKind) Flags {
	switch kind {
	case presetConsole:
		return IgnoreLF | SkipWhitespace
	case presetNextion:
		// Reply headers such as 0x71 carry binary payloads that may contain 0xFF,
		// which the sentinel-run minimum length accounts for.
		return SentinelRun
	default:
		return IgnoreLF
	}
}

// WithCR configures CR-terminated lines, discarding line feeds.
func WithCR() Option {
	return func(o *Options) { o.Flags = flagsFor(presetCR) }
}

// WithConsole configures CR-terminated lines without line feeds or leading blanks.
func WithConsole() Option {
	return func(o *Options) { o.Flags = flagsFor(presetConsole) }
}

// WithNextion configures triple-0xFF terminated messages.
func WithNextion() Option {
	return func(o *Options) { o.Flags = flagsFor(presetNextion) }
}

// WithNetworkFrames makes FrameWriter encode extended lengths in BigEndian.
func WithNetworkFrames() Option {
	return func(o *Options) { o.ByteOrder = binary.BigEndian }
}

// WithLocalFrames makes FrameWriter encode extended lengths in native byte order.
func WithLocalFrames() Option {
	return func(o *Options) { o.ByteOrder = bo.Native() }
}

// LookupPreset returns the flag preset named "cr", "console" or "nextion".
// The empty name selects "cr".
func LookupPreset(name string) (Option, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cr", "line":
		return WithCR(), nil
	case "console":
		return WithConsole(), nil
	case "nextion":
		return WithNextion(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidArgument, name)
	}
}
