// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package endpoint opens the byte streams linetap frames.
//
// Accepted forms:
//   - "-" or "stdin": standard input
//   - "tcp://host:port", "unix:///path/to.sock": a dialed stream connection
//   - "tty:///dev/ttyUSB0?baud=9600": a serial device read without blocking
//   - "file:///path" or a bare path: a file, FIFO or device read through a pump
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"code.hybscloud.com/lineframer"
	"code.hybscloud.com/lineframer/internal/tty"
)

type Kind uint8

const (
	Stdin Kind = iota
	File
	TCP
	Unix
	TTY
)

func (k Kind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case File:
		return "file"
	case TCP:
		return "tcp"
	case Unix:
		return "unix"
	case TTY:
		return "tty"
	default:
		return "unknown"
	}
}

// Endpoint is a parsed source specification.
type Endpoint struct {
	Kind    Kind
	Address string
	Baud    int
}

// Parse interprets a source specification.
func Parse(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return Endpoint{}, errors.New("empty source")
	case "-", "stdin":
		return Endpoint{Kind: Stdin}, nil
	}
	if !strings.Contains(raw, "://") {
		return Endpoint{Kind: File, Address: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse source %q: %w", raw, err)
	}
	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return Endpoint{}, fmt.Errorf("source %q: missing host:port", raw)
		}
		return Endpoint{Kind: TCP, Address: u.Host}, nil
	case "unix":
		if u.Path == "" {
			return Endpoint{}, fmt.Errorf("source %q: missing socket path", raw)
		}
		return Endpoint{Kind: Unix, Address: u.Path}, nil
	case "file":
		if u.Path == "" {
			return Endpoint{}, fmt.Errorf("source %q: missing path", raw)
		}
		return Endpoint{Kind: File, Address: u.Path}, nil
	case "tty":
		if u.Path == "" {
			return Endpoint{}, fmt.Errorf("source %q: missing device path", raw)
		}
		ep := Endpoint{Kind: TTY, Address: u.Path}
		if b := u.Query().Get("baud"); b != "" {
			ep.Baud, err = strconv.Atoi(b)
			if err != nil || ep.Baud <= 0 {
				return Endpoint{}, fmt.Errorf("source %q: invalid baud %q", raw, b)
			}
		}
		return ep, nil
	default:
		return Endpoint{}, fmt.Errorf("source %q: unsupported scheme %q", raw, u.Scheme)
	}
}

func (e Endpoint) String() string {
	switch e.Kind {
	case Stdin:
		return "stdin"
	case TTY:
		if e.Baud > 0 {
			return fmt.Sprintf("tty://%s?baud=%d", e.Address, e.Baud)
		}
		return "tty://" + e.Address
	default:
		return e.Kind.String() + "://" + e.Address
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open connects to the endpoint and returns a pollable source and the closer
// that releases it. Blocking transports are pumped by a goroutine bound to ctx;
// closing the returned closer also ends that goroutine.
func (e Endpoint) Open(ctx context.Context, log *slog.Logger) (lineframer.Source, io.Closer, error) {
	if log == nil {
		log = slog.Default()
	}
	var (
		r io.Reader
		c io.Closer
	)
	switch e.Kind {
	case Stdin:
		r, c = os.Stdin, nopCloser{}
	case File:
		f, err := os.Open(e.Address)
		if err != nil {
			return nil, nil, err
		}
		r, c = f, f
	case TCP, Unix:
		var d net.Dialer
		conn, err := d.DialContext(ctx, e.Kind.String(), e.Address)
		if err != nil {
			return nil, nil, err
		}
		r, c = conn, conn
	case TTY:
		p, err := tty.Open(e.Address, e.Baud)
		if err != nil {
			return nil, nil, err
		}
		log.Info("source opened", "source", e.String(), "mode", "nonblocking")
		return lineframer.NewReaderSource(p, 0), p, nil
	default:
		return nil, nil, fmt.Errorf("%w: endpoint kind %d", lineframer.ErrInvalidArgument, e.Kind)
	}
	log.Info("source opened", "source", e.String(), "mode", "pump")
	return lineframer.NewPumpSource(ctx, r, 0), c, nil
}
