// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/lineframer"
	"code.hybscloud.com/lineframer/internal/config"
	"code.hybscloud.com/lineframer/internal/endpoint"
)

// serve frames every stream on its own goroutine, one Framer per stream, and
// returns when all sources have ended or the first one failed.
func serve(ctx context.Context, streams []config.Stream, stdout io.Writer, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	out := &syncWriter{w: stdout}
	labeled := len(streams) > 1
	for _, s := range streams {
		g.Go(func() error {
			return serveStream(ctx, s, out, labeled, log.With("stream", s.Name))
		})
	}
	return g.Wait()
}

func serveStream(ctx context.Context, s config.Stream, out io.Writer, labeled bool, log *slog.Logger) error {
	opts, err := s.FramerOptions()
	if err != nil {
		return fmt.Errorf("stream %s: %w", s.Name, err)
	}
	ep, err := endpoint.Parse(s.Source)
	if err != nil {
		return fmt.Errorf("stream %s: %w", s.Name, err)
	}

	// A per-stream context ends the pump goroutine when this stream stops.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	src, closer, err := ep.Open(ctx, log)
	if err != nil {
		return fmt.Errorf("stream %s: open %s: %w", s.Name, ep, err)
	}
	defer closer.Close()

	h, flush := newHandler(s, out, labeled, opts, log)
	f := lineframer.New(src, h)
	f.Configure(s.Capacity, opts...)
	if f.Cap() != s.Capacity {
		log.Warn("capacity unavailable, framer degraded", "requested", s.Capacity, "effective", f.Cap())
	}
	log.Info("framing", "source", ep.String(), "capacity", f.Cap(), "flags", f.Flags().String(), "output", s.Output)

	err = f.Run(ctx)
	if ferr := flush(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("stream %s: %w", s.Name, err)
	}
	if n := f.Cursor(); n > 0 {
		log.Warn("source ended inside a message", "pending", n)
	}
	log.Info("source ended", "last_len", f.LastLen())
	return nil
}
