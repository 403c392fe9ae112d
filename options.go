// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

// Flags selects the behavioral variants of the framing state machine.
//
// The bits are independent and combinable. Bits meaningful to only one delimiter
// mode are inert in the other one; no combination is rejected.
type Flags uint8

const (
	// IgnoreLF discards line-feed bytes unconditionally.
	IgnoreLF Flags = 0x40
	// SkipWhitespace discards space and tab bytes while the message is still empty.
	SkipWhitespace Flags = 0x20
	// AllowEmpty delivers zero-length messages on a delimiter.
	AllowEmpty Flags = 0x10
	// SentinelRun switches from CR-terminated framing to a run of three 0xFF bytes.
	SentinelRun Flags = 0x08
	// KeepDelimiter includes the terminating byte(s) in the delivered message.
	KeepDelimiter Flags = 0x04
	// Trace writes every input byte in hex to the trace sink.
	Trace Flags = 0x02
	// TraceDetail adds the cursor and a line break per byte. Inert without Trace.
	TraceDetail Flags = 0x01

	// DefaultFlags is applied when no flags are configured.
	DefaultFlags = IgnoreLF
)

var flagNames = [...]struct {
	f    Flags
	name string
}{
	{IgnoreLF, "ignore-lf"},
	{SkipWhitespace, "skip-ws"},
	{AllowEmpty, "allow-empty"},
	{SentinelRun, "sentinel-run"},
	{KeepDelimiter, "keep-delimiter"},
	{Trace, "trace"},
	{TraceDetail, "trace-detail"},
}

// Has reports whether every bit of x is set in f.
func (f Flags) Has(x Flags) bool { return f&x == x }

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var sb strings.Builder
	for _, fn := range flagNames {
		if f&fn.f == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(fn.name)
	}
	return sb.String()
}

// ParseFlags combines flag names into a Flags value. Each argument may itself hold
// a list separated by '|' or ','. Empty names are skipped; "none" contributes nothing.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
	for _, arg := range names {
		for _, name := range strings.FieldsFunc(arg, func(r rune) bool { return r == '|' || r == ',' }) {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || name == "none" {
				continue
			}
			bit, ok := lookupFlag(name)
			if !ok {
				return 0, fmt.Errorf("%w: unknown flag %q", ErrInvalidArgument, name)
			}
			f |= bit
		}
	}
	return f, nil
}

func lookupFlag(name string) (Flags, bool) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.f, true
		}
	}
	return 0, false
}

const (
	// DefaultMaxCapacity is the hard capacity limit of the single-byte length domain.
	DefaultMaxCapacity = 255

	// DefaultIdleDelay is how long Run sleeps when a poll cycle found no input.
	DefaultIdleDelay = time.Millisecond
)

// Options configures a Framer and the helpers built around it.
type Options struct {
	Flags Flags

	// Trace receives diagnostic output when Flags has Trace set. Nil means os.Stderr.
	Trace io.Writer

	// MaxCapacity bounds the capacity accepted by Configure. Larger requests
	// degrade to a zero-capacity framer.
	MaxCapacity int

	// IdleDelay controls what Run does after a poll cycle without input:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and poll again
	//   - positive: sleep for the duration and poll again
	IdleDelay time.Duration

	// ByteOrder is used by FrameWriter for extended length fields.
	ByteOrder binary.ByteOrder
}

var defaultOptions = Options{
	Flags:       DefaultFlags,
	MaxCapacity: DefaultMaxCapacity,
	IdleDelay:   DefaultIdleDelay,
	ByteOrder:   binary.BigEndian,
}

// Option mutates Options; later options override earlier ones.
type Option func(*Options)

func buildOptions(opts []Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithFlags replaces the flag set.
func WithFlags(f Flags) Option {
	return func(o *Options) { o.Flags = f }
}

// WithAddFlags sets additional flags on top of the current set.
func WithAddFlags(f Flags) Option {
	return func(o *Options) { o.Flags |= f }
}

// WithTrace sets the sink for trace output.
func WithTrace(w io.Writer) Option {
	return func(o *Options) { o.Trace = w }
}

// WithMaxCapacity sets the largest capacity Configure accepts.
func WithMaxCapacity(n int) Option {
	return func(o *Options) { o.MaxCapacity = n }
}

// WithIdleDelay sets the wait policy Run applies between idle poll cycles.
func WithIdleDelay(d time.Duration) Option {
	return func(o *Options) { o.IdleDelay = d }
}

// WithBlock makes Run yield and poll again when idle.
func WithBlock() Option {
	return func(o *Options) { o.IdleDelay = 0 }
}

// WithNonblock makes Run return ErrWouldBlock as soon as the source is idle.
func WithNonblock() Option {
	return func(o *Options) { o.IdleDelay = -1 }
}

// WithByteOrder sets the byte order of FrameWriter extended lengths.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *Options) { o.ByteOrder = order }
}
