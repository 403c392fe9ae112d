// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tty opens serial devices and FIFOs for non-blocking reads.
//
// Read never waits: an empty device yields iox.ErrWouldBlock, so a Port can be
// wrapped by lineframer.NewReaderSource and polled from a cooperative loop.
// Raw mode and line speed are applied on Linux when a baud rate is given.
package tty
