// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"context"
	"io"
	"runtime"
	"time"
)

// terminal is implemented by sources that can report the end of their stream.
type terminal interface {
	Err() error
}

// Run polls until the context is done or the source ends.
//
// Between poll cycles that found no input, Run applies the IdleDelay policy of
// the options given to Configure. It returns nil once the source reports io.EOF
// through an Err method and ctx.Err() on cancellation. With a negative IdleDelay
// it returns ErrWouldBlock as soon as the source is idle.
func (f *Framer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := f.Poll()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if t, ok := f.src.(terminal); ok {
			if err := t.Err(); err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
		if f.src.Buffered() > 0 {
			continue
		}
		if !f.waitOnIdle(ctx) {
			return ErrWouldBlock
		}
	}
}

// waitOnIdle reports whether Run should poll again.
func (f *Framer) waitOnIdle(ctx context.Context) bool {
	if f.idleDelay < 0 {
		return false
	}
	if f.idleDelay == 0 {
		// Cooperative yield to avoid burning a full core on an idle source.
		runtime.Gosched()
		return true
	}
	t := time.NewTimer(f.idleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return true
}
