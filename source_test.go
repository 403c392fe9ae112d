// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	lf "code.hybscloud.com/lineframer"
)

type readResult struct {
	data string
	err  error
}

// scriptedReader replays read results, one per Read call.
type scriptedReader struct {
	steps []readResult
	calls int
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	r.calls++
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	s := r.steps[0]
	r.steps = r.steps[1:]
	n := copy(p, s.data)
	return n, s.err
}

func TestReaderSource_WouldBlockIsIdle(t *testing.T) {
	r := &scriptedReader{steps: []readResult{
		{"ab", nil},
		{"", lf.ErrWouldBlock},
		{"c\r", lf.ErrMore},
		{"", nil},
		{"d\r", io.EOF},
	}}
	src := lf.NewReaderSource(r, 8)
	c := &collector{}
	f := lf.New(src, c)
	f.Configure(8)

	// ab, then would-block.
	if n := pollAll(t, f); n != 0 {
		t.Fatalf("poll 0 delivered %d", n)
	}
	if string(f.Buffer()) != "ab" || src.Err() != nil {
		t.Fatalf("poll 0: buffer=%q err=%v", f.Buffer(), src.Err())
	}
	// c\r with ErrMore, then an empty read.
	if n := pollAll(t, f); n != 1 {
		t.Fatalf("poll 1 delivered %d", n)
	}
	if src.Err() != nil {
		t.Fatalf("poll 1: Err=%v", src.Err())
	}
	expectMessages(t, c, []byte("abc"))
	// d\r together with EOF.
	pollAll(t, f)
	expectMessages(t, c, []byte("abc"), []byte("d"))
	if !errors.Is(src.Err(), io.EOF) {
		t.Fatalf("Err=%v want EOF", src.Err())
	}
	calls := r.calls
	pollAll(t, f)
	if r.calls != calls {
		t.Fatalf("read after terminal error")
	}
	if _, err := src.ReadByte(); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadByte after EOF: %v", err)
	}
}

func TestReaderSource_ReadsOnlyWhenDrained(t *testing.T) {
	r := &scriptedReader{steps: []readResult{{"abcd", nil}, {"ef", nil}}}
	src := lf.NewReaderSource(r, 0)
	if n := src.Buffered(); n != 4 {
		t.Fatalf("Buffered=%d want 4", n)
	}
	if n := src.Buffered(); n != 4 || r.calls != 1 {
		t.Fatalf("Buffered=%d calls=%d, want 4 and 1", n, r.calls)
	}
	for i := 0; i < 4; i++ {
		if _, err := src.ReadByte(); err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
	}
	if n := src.Buffered(); n != 2 || r.calls != 2 {
		t.Fatalf("Buffered=%d calls=%d, want 2 and 2", n, r.calls)
	}
}

func TestReaderSource_EmptyReadIsWouldBlock(t *testing.T) {
	src := lf.NewReaderSource(&scriptedReader{steps: []readResult{{"", nil}}}, 4)
	if _, err := src.ReadByte(); !errors.Is(err, lf.ErrWouldBlock) {
		t.Fatalf("err=%v want ErrWouldBlock", err)
	}
}

func TestBufioReader_IsSource(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("one\rtwo\r"))
	// Prime the buffer; Buffered reports only what is already held.
	if _, err := br.Peek(1); err != nil {
		t.Fatalf("peek: %v", err)
	}
	c := &collector{}
	f := lf.New(br, c)
	f.Configure(8)
	pollAll(t, f)
	expectMessages(t, c, []byte("one"), []byte("two"))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPumpSource_NetPipe(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := lf.NewPumpSource(ctx, c2, 4)
	c := &collector{}
	f := lf.New(src, c)
	f.Configure(32, lf.WithConsole())

	if n := pollAll(t, f); n != 0 {
		t.Fatalf("idle poll delivered %d", n)
	}

	go func() {
		_, _ = c1.Write([]byte("  hello\r\n"))
		_, _ = c1.Write([]byte("wor"))
		_, _ = c1.Write([]byte("ld\r\n"))
		_ = c1.Close()
	}()

	waitFor(t, func() bool {
		pollAll(t, f)
		return src.Err() != nil
	})
	expectMessages(t, c, []byte("hello"), []byte("world"))
	if !errors.Is(src.Err(), io.EOF) {
		t.Fatalf("Err=%v want EOF", src.Err())
	}
	if _, err := src.ReadByte(); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadByte after EOF: %v", err)
	}
}

func TestPumpSource_ErrReportedAfterData(t *testing.T) {
	boom := errors.New("boom")
	r := &scriptedReader{steps: []readResult{{"abc", boom}}}
	src := lf.NewPumpSource(context.Background(), r, 1)
	waitFor(t, func() bool { return src.Buffered() > 0 })
	if src.Err() != nil {
		t.Fatalf("Err before data consumed: %v", src.Err())
	}
	for i := 0; i < 3; i++ {
		if _, err := src.ReadByte(); err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
	}
	waitFor(t, func() bool { return src.Buffered() == 0 && src.Err() != nil })
	if !errors.Is(src.Err(), boom) {
		t.Fatalf("Err=%v want boom", src.Err())
	}
}

// blockingReader never returns until closed.
type blockingReader struct{ done chan struct{} }

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func TestPumpSource_BufferedNeverBlocks(t *testing.T) {
	r := &blockingReader{done: make(chan struct{})}
	defer close(r.done)
	src := lf.NewPumpSource(context.Background(), r, 1)
	start := time.Now()
	if n := src.Buffered(); n != 0 {
		t.Fatalf("Buffered=%d want 0", n)
	}
	if _, err := src.ReadByte(); !errors.Is(err, lf.ErrWouldBlock) {
		t.Fatalf("ReadByte err=%v want ErrWouldBlock", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("Buffered blocked")
	}
}
