// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command linetap frames slow byte streams (serial devices, sockets, files,
// standard input) into messages and prints them.
//
//	linetap -o keep-delimiter tty:///dev/ttyUSB0?baud=9600
//	linetap --preset nextion --output hex tcp://display.local:2323
//	linetap -c linetap.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"code.hybscloud.com/lineframer/internal/config"
)

var (
	verbosity  int
	configPath string
	capacity   int
	preset     string
	options    []string
	output     string
	byteOrder  string
	idle       string
)

var cmd = &cobra.Command{
	Use:          "linetap [flags] [source...]",
	Short:        "Frame byte streams into lines and print them",
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "how verbose to be, can use multiple")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.yaml or .toml)")
	cmd.Flags().IntVarP(&capacity, "capacity", "n", config.DefaultCapacity, "maximum message length in bytes")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "flag preset: cr, console, nextion")
	cmd.Flags().StringSliceVarP(&options, "option", "o", nil, "framing flags: ignore-lf, skip-ws, allow-empty, sentinel-run, keep-delimiter, trace, trace-detail")
	cmd.Flags().StringVar(&output, "output", config.DefaultOutput, "output format: text, hex, frames")
	cmd.Flags().StringVar(&byteOrder, "byte-order", "big", "length byte order for frames output: big, little, native")
	cmd.Flags().StringVar(&idle, "idle", "", "sleep between idle polls, e.g. 1ms")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

func verbosityLevel(v int) slog.Level {
	switch v {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default: // 2+
		return slog.LevelDebug
	}
}

func run(cc *cobra.Command, args []string) error {
	conf, err := loadConfig(args)
	if err != nil {
		return err
	}

	level := verbosityLevel(verbosity)
	if verbosity == 0 && configPath != "" {
		if level, err = conf.Log.SlogLevel(); err != nil {
			return err
		}
	}
	log := newLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = serve(ctx, conf.Streams, os.Stdout, log)
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return err
}

// loadConfig builds the configuration from the config file, or from the
// command-line flags with one stream per source argument.
func loadConfig(args []string) (*config.Config, error) {
	if configPath != "" {
		if len(args) > 0 {
			return nil, errors.New("sources come from the config file; drop the arguments or --config")
		}
		conf, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to load config %s: %w", configPath, err)
		}
		return conf, nil
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	conf := &config.Config{}
	for _, src := range args {
		conf.Streams = append(conf.Streams, config.Stream{
			Source:    src,
			Capacity:  capacity,
			Preset:    preset,
			Options:   options,
			Output:    output,
			ByteOrder: byteOrder,
			Idle:      idle,
		})
	}
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
