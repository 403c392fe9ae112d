// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package tty

import (
	"io"
	"os"

	"code.hybscloud.com/iox"
	"golang.org/x/sys/unix"
)

// Port is a device opened with O_NONBLOCK.
type Port struct {
	fd   int
	name string
}

// Open opens path for non-blocking reads. A positive baud switches a terminal
// device to raw 8N1 at that speed; zero leaves the line settings alone.
func Open(path string, baud int) (*Port, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	if baud > 0 {
		if err := makeRaw(fd, baud); err != nil {
			_ = unix.Close(fd)
			return nil, &os.PathError{Op: "configure", Path: path, Err: err}
		}
	}
	return &Port{fd: fd, name: path}, nil
}

// Read returns iox.ErrWouldBlock when no byte is ready and io.EOF once the
// writer side of a FIFO or pty has gone.
func (p *Port) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	n, err := unix.Read(p.fd, b)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return 0, iox.ErrWouldBlock
		}
		return 0, &os.PathError{Op: "read", Path: p.name, Err: err}
	}
	if n <= 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (p *Port) Name() string { return p.name }

func (p *Port) Close() error {
	if p.fd < 0 {
		return os.ErrClosed
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}
