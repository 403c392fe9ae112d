// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lineframer provides a non-blocking line framer for slow byte streams.
//
// Semantics and design:
//   - Cooperative polling: Poll drains whatever the Source has buffered and returns
//     without waiting. Partial messages survive across calls in a fixed buffer.
//   - Delimiters: in line mode a carriage return ends a message; in sentinel-run mode
//     three consecutive 0xFF bytes end it. A full buffer always ends a message.
//   - Delivery: every completed message is handed to the Handler synchronously. The
//     slice aliases the framer's buffer and is only valid during the call.
//
// Sentinel-run mode (Flags SentinelRun):
//   - The run is recognized when the current byte and the two stored before it are 0xFF
//     and at least 2 bytes are stored, or at least 7 when the message starts with 0x71.
//   - Without KeepDelimiter the two stored sentinel bytes are rolled back, so the
//     delivered message carries no trace of the delimiter.
package lineframer

import (
	"io"
	"os"
	"time"
)

const (
	cr        = '\r'
	lf        = '\n'
	sentinel  = 0xFF
	runMarker = 0x71

	minRunLen       = 2
	minMarkedRunLen = 7
)

// Handler receives completed messages.
//
// msg aliases the framer's buffer. It must not be retained or modified after
// HandleMessage returns, and the handler must not poll the same Framer.
type Handler interface {
	HandleMessage(msg []byte)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(msg []byte)

func (fn HandlerFunc) HandleMessage(msg []byte) { fn(msg) }

// Framer accumulates bytes from one Source into messages.
//
// A Framer is not safe for concurrent use; one goroutine owns it and calls Poll or Run.
type Framer struct {
	src Source
	h   Handler

	flags Flags
	trace io.Writer

	idleDelay time.Duration

	// buf holds capacity+1 bytes: the message and its NUL terminator.
	buf        []byte
	capacity   int
	cursor     int
	lastLen    int
	configured bool

	hex [8]byte
}

// New binds a Framer to a source and a handler. It must be configured before polling.
func New(src Source, h Handler) *Framer {
	return &Framer{src: src, h: h}
}

// Configure allocates the message buffer and applies options.
//
// A capacity outside 1..MaxCapacity is unavailable and yields a zero-capacity
// framer, in which every ordinary byte completes an empty message; check Cap
// after configuring. Any partial message is discarded.
func (f *Framer) Configure(capacity int, opts ...Option) {
	o := buildOptions(opts)
	f.flags = o.Flags
	f.trace = o.Trace
	if f.trace == nil {
		f.trace = os.Stderr
	}
	f.idleDelay = o.IdleDelay

	if capacity < 1 || capacity > o.MaxCapacity {
		capacity = 0
	}
	if cap(f.buf) >= capacity+1 {
		f.buf = f.buf[:capacity+1]
	} else {
		f.buf = make([]byte, capacity+1)
	}
	f.capacity = capacity
	f.cursor = 0
	f.lastLen = 0
	f.configured = true
}

// Close releases the buffer. The Framer must be configured again before polling.
func (f *Framer) Close() {
	f.buf = nil
	f.capacity = 0
	f.cursor = 0
	f.configured = false
}

// Reset discards the in-progress message.
func (f *Framer) Reset() { f.cursor = 0 }

// Buffer returns the bytes of the in-progress message. The slice is read-only
// and valid until the next Poll.
func (f *Framer) Buffer() []byte { return f.buf[:f.cursor:f.cursor] }

// Cursor is the write offset, which equals the length of the in-progress message.
func (f *Framer) Cursor() int { return f.cursor }

// Cap is the effective capacity after Configure.
func (f *Framer) Cap() int { return f.capacity }

// LastLen is the length of the most recently delivered message.
func (f *Framer) LastLen() int { return f.lastLen }

// Flags is the flag set applied by the last Configure.
func (f *Framer) Flags() Flags { return f.flags }

// Poll drains every byte the source has buffered and returns the number of
// messages delivered. It never waits for input.
//
// A ReadByte error other than ErrWouldBlock ends the cycle and is returned
// together with the messages delivered so far.
func (f *Framer) Poll() (n int, err error) {
	if f.src == nil || f.h == nil {
		return 0, ErrInvalidArgument
	}
	if !f.configured {
		return 0, ErrNotConfigured
	}
	for f.configured && f.src.Buffered() > 0 {
		b, re := f.src.ReadByte()
		if re != nil {
			if re == ErrWouldBlock {
				return n, nil
			}
			return n, re
		}
		if f.step(b) {
			n++
		}
	}
	return n, nil
}

// step runs the per-byte state machine and reports whether a message was delivered.
func (f *Framer) step(b byte) bool {
	if f.flags.Has(Trace) {
		f.traceByte(b)
	}

	var complete bool
	switch {
	case b == lf && f.flags.Has(IgnoreLF):
		return false
	case b == cr && !f.flags.Has(SentinelRun):
		if f.flags.Has(KeepDelimiter) {
			f.store(b)
		}
		complete = f.cursor > 0 || f.flags.Has(AllowEmpty)
	case f.flags.Has(SentinelRun) && b == sentinel && f.runBefore():
		if f.flags.Has(KeepDelimiter) {
			f.store(b)
		} else {
			f.cursor -= 2
		}
		complete = f.cursor > 0 || f.flags.Has(AllowEmpty)
	default:
		if f.cursor == 0 && isWhitespace(b) && f.flags.Has(SkipWhitespace) {
			return false
		}
		f.store(b)
		// A full buffer completes regardless of AllowEmpty.
		complete = f.cursor == f.capacity
	}
	if !complete {
		return false
	}
	f.complete()
	return true
}

// runBefore reports whether the two stored bytes before the cursor are sentinels
// and the message is long enough to end in a run.
func (f *Framer) runBefore() bool {
	need := minRunLen
	if f.cursor > 0 && f.buf[0] == runMarker {
		need = minMarkedRunLen
	}
	if f.cursor < need {
		return false
	}
	return f.buf[f.cursor-1] == sentinel && f.buf[f.cursor-2] == sentinel
}

func (f *Framer) store(b byte) {
	if f.cursor < f.capacity {
		f.buf[f.cursor] = b
		f.cursor++
	}
}

func (f *Framer) complete() {
	n := f.cursor
	f.buf[n] = 0
	if f.flags.Has(Trace) && !f.flags.Has(TraceDetail) {
		_, _ = f.trace.Write([]byte{lf})
	}
	f.lastLen = n
	f.h.HandleMessage(f.buf[:n:n])
	f.cursor = 0
}

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' }
