// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !unix

package tty

import (
	"errors"
	"os"
)

// Port is unavailable on this platform.
type Port struct{}

func Open(path string, baud int) (*Port, error) {
	return nil, &os.PathError{Op: "open", Path: path, Err: errors.ErrUnsupported}
}

func (p *Port) Read([]byte) (int, error) { return 0, errors.ErrUnsupported }

func (p *Port) Name() string { return "" }

func (p *Port) Close() error { return errors.ErrUnsupported }
