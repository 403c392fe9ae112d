// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"context"
	"io"
	"runtime"
)

// Source is a pollable byte stream. Both methods must return without waiting.
//
// Buffered reports how many bytes ReadByte can return right now. *bufio.Reader
// satisfies Source for data it has already buffered.
type Source interface {
	Buffered() int
	ReadByte() (byte, error)
}

const (
	defaultChunkSize = 512
	defaultPumpDepth = 16
)

// ReaderSource adapts a non-blocking io.Reader, one that returns ErrWouldBlock
// instead of waiting, to Source.
//
// Buffered performs at most one Read, and only after the previous chunk has
// been consumed. ErrWouldBlock, ErrMore and (0, nil) all mean “nothing now”.
// Any other error is terminal and reported by Err once the chunk is drained.
type ReaderSource struct {
	r   io.Reader
	buf []byte
	off int
	n   int
	err error
}

// NewReaderSource returns a Source reading chunks of up to size bytes from r.
func NewReaderSource(r io.Reader, size int) *ReaderSource {
	if size <= 0 {
		size = defaultChunkSize
	}
	return &ReaderSource{r: r, buf: make([]byte, size)}
}

func (s *ReaderSource) Buffered() int {
	if s.off < s.n {
		return s.n - s.off
	}
	if s.err != nil || s.r == nil {
		return 0
	}
	n, err := s.r.Read(s.buf)
	if n < 0 || n > len(s.buf) {
		n, err = 0, io.ErrNoProgress
	}
	s.off, s.n = 0, n
	if err != nil && err != ErrWouldBlock && err != ErrMore {
		s.err = err
	}
	return n
}

func (s *ReaderSource) ReadByte() (byte, error) {
	if s.Buffered() == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, ErrWouldBlock
	}
	b := s.buf[s.off]
	s.off++
	return b, nil
}

// Err returns the terminal read error once every byte before it was consumed.
func (s *ReaderSource) Err() error {
	if s.off < s.n {
		return nil
	}
	return s.err
}

// PumpSource adapts a blocking io.Reader, such as a net.Conn or os.Stdin, to
// Source. A goroutine reads chunks into a bounded queue of depth chunks; when
// the queue is full the goroutine waits, which applies backpressure to the peer.
//
// The goroutine ends when the reader fails or ctx is done. Closing the reader
// is the caller's job and unblocks a pending Read.
type PumpSource struct {
	ch     chan []byte
	cur    []byte
	err    error
	closed bool
}

// NewPumpSource starts pumping r and returns the polling side.
func NewPumpSource(ctx context.Context, r io.Reader, depth int) *PumpSource {
	if depth <= 0 {
		depth = defaultPumpDepth
	}
	s := &PumpSource{ch: make(chan []byte, depth)}
	go s.pump(ctx, r)
	return s
}

func (s *PumpSource) pump(ctx context.Context, r io.Reader) {
	defer close(s.ch)
	for {
		buf := make([]byte, defaultChunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case s.ch <- buf[:n]:
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
		if err == ErrWouldBlock || err == ErrMore || (err == nil && n == 0) {
			if ctx.Err() != nil {
				s.err = ctx.Err()
				return
			}
			runtime.Gosched()
			continue
		}
		if err != nil {
			s.err = err
			return
		}
	}
}

func (s *PumpSource) Buffered() int {
	if len(s.cur) > 0 {
		return len(s.cur)
	}
	if s.closed {
		return 0
	}
	select {
	case b, ok := <-s.ch:
		if !ok {
			s.closed = true
			return 0
		}
		s.cur = b
		return len(b)
	default:
		return 0
	}
}

func (s *PumpSource) ReadByte() (byte, error) {
	if s.Buffered() == 0 {
		if s.closed {
			return 0, s.err
		}
		return 0, ErrWouldBlock
	}
	b := s.cur[0]
	s.cur = s.cur[1:]
	return b, nil
}

// Err returns the reader's terminal error after every pumped chunk was consumed.
func (s *PumpSource) Err() error {
	if !s.closed {
		return nil
	}
	return s.err
}
