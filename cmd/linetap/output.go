// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"sync"

	"code.hybscloud.com/lineframer"
	"code.hybscloud.com/lineframer/internal/config"
)

// syncWriter serializes writes from concurrent streams. Each Write is one
// complete record, so records never interleave.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// linePrinter renders each message as one text or hex line.
type linePrinter struct {
	out   io.Writer
	label string
	hex   bool
	log   *slog.Logger
	line  []byte
	err   error
}

func (p *linePrinter) HandleMessage(msg []byte) {
	p.log.Debug("message", "len", len(msg))
	p.line = append(p.line[:0], p.label...)
	if p.hex {
		for _, b := range msg {
			p.line = lineframer.AppendHex(p.line, b)
		}
	} else {
		p.line = append(p.line, msg...)
	}
	p.line = append(p.line, '\n')
	if _, err := p.out.Write(p.line); err != nil && p.err == nil {
		p.err = err
		p.log.Error("write failed", "err", err)
	}
}

// newHandler builds the handler for the stream's output format and a flush
// function that reports its final write error.
func newHandler(s config.Stream, out io.Writer, labeled bool, opts []lineframer.Option, log *slog.Logger) (lineframer.Handler, func() error) {
	if s.Output == "frames" {
		fw := lineframer.NewFrameWriter(out, opts...)
		h := lineframer.HandlerFunc(func(msg []byte) {
			log.Debug("message", "len", len(msg))
			fw.HandleMessage(msg)
		})
		return h, fw.Flush
	}
	p := &linePrinter{out: out, hex: s.Output == "hex", log: log}
	if labeled {
		p.label = "[" + s.Name + "]"
		if !p.hex {
			p.label += " "
		}
	}
	return p, func() error { return p.err }
}
