// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidArgument reports an invalid configuration value or a nil source/handler.
	ErrInvalidArgument = errors.New("lineframer: invalid argument")

	// ErrNotConfigured reports a poll on a Framer whose buffer has not been set up by
	// Configure, or has been released by Close.
	ErrNotConfigured = errors.New("lineframer: framer not configured")
)

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// Sources return it from ReadByte when nothing is buffered. Run returns it when
	// the source is idle and the idle policy is non-blocking.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will follow”.
	//
	// Readers wrapped by ReaderSource may return it together with data; the data is
	// kept and the source is polled again on the next cycle.
	ErrMore = iox.ErrMore
)
