// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	lf "code.hybscloud.com/lineframer"
)

func TestRun_StopsCleanlyAtEOF(t *testing.T) {
	for _, idle := range []lf.Option{lf.WithBlock(), lf.WithIdleDelay(time.Millisecond)} {
		r := &scriptedReader{steps: []readResult{
			{"fir", nil},
			{"", lf.ErrWouldBlock},
			{"st\rsecond\r", nil},
			{"", lf.ErrWouldBlock},
			{"", io.EOF},
		}}
		c := &collector{}
		f := lf.New(lf.NewReaderSource(r, 16), c)
		f.Configure(16, idle)
		if err := f.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		expectMessages(t, c, []byte("first"), []byte("second"))
	}
}

func TestRun_NonblockReturnsWouldBlockWhenIdle(t *testing.T) {
	r := &scriptedReader{steps: []readResult{{"a\rb", nil}, {"", lf.ErrWouldBlock}, {"", lf.ErrWouldBlock}}}
	c := &collector{}
	f := lf.New(lf.NewReaderSource(r, 8), c)
	f.Configure(16, lf.WithNonblock())
	if err := f.Run(context.Background()); !errors.Is(err, lf.ErrWouldBlock) {
		t.Fatalf("Run err=%v want ErrWouldBlock", err)
	}
	expectMessages(t, c, []byte("a"))
	if string(f.Buffer()) != "b" {
		t.Fatalf("partial message lost: %q", f.Buffer())
	}
}

func TestRun_PropagatesTerminalError(t *testing.T) {
	boom := errors.New("boom")
	r := &scriptedReader{steps: []readResult{{"x\r", boom}}}
	c := &collector{}
	f := lf.New(lf.NewReaderSource(r, 8), c)
	f.Configure(16)
	if err := f.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run err=%v want boom", err)
	}
	expectMessages(t, c, []byte("x"))
}

func TestRun_CancelledContext(t *testing.T) {
	br := &blockingReader{done: make(chan struct{})}
	defer close(br.done)
	ctx, cancel := context.WithCancel(context.Background())
	f := lf.New(lf.NewPumpSource(ctx, br, 1), &collector{})
	f.Configure(16, lf.WithIdleDelay(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run err=%v want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestRun_InvalidArgument(t *testing.T) {
	f := lf.New(nil, &collector{})
	f.Configure(4)
	if err := f.Run(context.Background()); !errors.Is(err, lf.ErrInvalidArgument) {
		t.Fatalf("Run err=%v want ErrInvalidArgument", err)
	}
}
