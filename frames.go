// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"encoding/binary"
	"io"
)

const (
	frameHeaderLen          = 1
	framePayloadMaxLen8Bits = 1<<8 - 3
	framePayloadMaxLen16    = 1<<16 - 1
	framePayloadMaxLen56    = 1<<56 - 1
)

// FrameWriter is a Handler that re-emits every delivered message as a
// length-prefixed frame, turning a delimiter-framed stream into one that a
// boundary-aware reader can consume without scanning.
//
// Wire format: a 1-byte header followed by optional extended length bytes and
// then the payload. Let L be payload length in bytes:
//   - 0 <= L <= 253: header[0] = L (no extended length)
//   - 254 <= L <= 65535: header[0] = 0xFE; next 2 bytes encode L (configured byte order)
//   - 65536 <= L <= 2^56-1: header[0] = 0xFF; next 7 bytes encode lower 56 bits of L
//     in the configured byte order
//
// Non-blocking semantics: when the destination returns ErrWouldBlock or ErrMore,
// the unwritten bytes stay pending and HandleMessage returns. Pending bytes are
// written first by the next HandleMessage or by Flush. Any other error is
// sticky: it is reported by Err and later messages are dropped.
type FrameWriter struct {
	w   io.Writer
	bo  binary.ByteOrder
	err error

	header  [8]byte
	pending []byte
	off     int
}

// NewFrameWriter returns a FrameWriter writing to w. Only the ByteOrder option
// is used.
func NewFrameWriter(w io.Writer, opts ...Option) *FrameWriter {
	o := buildOptions(opts)
	return &FrameWriter{w: w, bo: o.ByteOrder}
}

func (fw *FrameWriter) HandleMessage(msg []byte) {
	if fw.err != nil {
		return
	}
	if fw.w == nil {
		fw.err = ErrInvalidArgument
		return
	}
	hdr := fw.encodeHeader(len(msg))
	// The message aliases the framer's buffer, so it is copied before any write
	// that might leave it pending.
	fw.pending = append(fw.pending, hdr...)
	fw.pending = append(fw.pending, msg...)
	_ = fw.Flush()
}

func (fw *FrameWriter) encodeHeader(length int) []byte {
	l := uint64(length)
	switch {
	case l <= framePayloadMaxLen8Bits:
		fw.header[0] = byte(l)
		return fw.header[:frameHeaderLen]
	case l <= framePayloadMaxLen16:
		fw.header[0] = framePayloadMaxLen8Bits + 1
		fw.bo.PutUint16(fw.header[frameHeaderLen:frameHeaderLen+2], uint16(l))
		return fw.header[:frameHeaderLen+2]
	default:
		if fw.bo == binary.LittleEndian {
			fw.bo.PutUint64(fw.header[:], l<<8)
		} else {
			fw.bo.PutUint64(fw.header[:], l&framePayloadMaxLen56)
		}
		fw.header[0] = framePayloadMaxLen8Bits + 2
		return fw.header[:]
	}
}

// Flush writes pending bytes. It returns nil once nothing is pending,
// ErrWouldBlock or ErrMore when the destination stopped accepting bytes, or
// the sticky error.
func (fw *FrameWriter) Flush() error {
	if fw.err != nil {
		return fw.err
	}
	for fw.off < len(fw.pending) {
		n, err := fw.w.Write(fw.pending[fw.off:])
		// Guard against broken Writers that violate the io.Writer contract by
		// returning (0, nil) on a non-empty buffer.
		if n == 0 && err == nil {
			err = io.ErrShortWrite
		}
		if n > 0 {
			fw.off += n
		}
		if err != nil {
			if err == ErrWouldBlock || err == ErrMore {
				return err
			}
			fw.err = err
			return err
		}
	}
	fw.pending = fw.pending[:0]
	fw.off = 0
	return nil
}

// Pending is the number of bytes waiting for the destination.
func (fw *FrameWriter) Pending() int { return len(fw.pending) - fw.off }

// Err returns the first hard write error.
func (fw *FrameWriter) Err() error { return fw.err }
