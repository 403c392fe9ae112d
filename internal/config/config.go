// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads linetap configuration files.
//
// Files ending in .toml are decoded as TOML; anything else is decoded as YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"code.hybscloud.com/lineframer"
	"code.hybscloud.com/lineframer/internal/bo"
)

const (
	DefaultCapacity = 64
	DefaultOutput   = "text"
	DefaultLogLevel = "warn"

	// MaxCapacity bounds configured capacities; values above 255 lift the
	// framer's default limit.
	MaxCapacity = 1<<16 - 1
)

// Outputs lists the accepted stream output formats.
var Outputs = []string{"text", "hex", "frames"}

type Config struct {
	Log     Log      `yaml:"log" toml:"log"`
	Streams []Stream `yaml:"streams" toml:"streams"`
}

type Log struct {
	Level string `yaml:"level" toml:"level"`
}

// Stream describes one framed input.
//
// Preset selects the base flags and Options adds to them. Without a preset,
// Options replaces the default flag set.
type Stream struct {
	Name      string   `yaml:"name" toml:"name"`
	Source    string   `yaml:"source" toml:"source"`
	Capacity  int      `yaml:"capacity" toml:"capacity"`
	Preset    string   `yaml:"preset" toml:"preset"`
	Options   []string `yaml:"options" toml:"options"`
	Output    string   `yaml:"output" toml:"output"`
	ByteOrder string   `yaml:"byte_order" toml:"byte_order"`
	Idle      string   `yaml:"idle" toml:"idle"`
}

// LoadFromFile reads, defaults and validates a configuration file.
func LoadFromFile(path string) (*Config, error) {
	var conf Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &conf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &conf, nil
}

func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	for i := range c.Streams {
		c.Streams[i].setDefaults(i)
	}
}

func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if len(c.Streams) == 0 {
		return errors.New("no streams configured")
	}
	seen := make(map[string]bool, len(c.Streams))
	var errs []error
	for _, s := range c.Streams {
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate stream name %q", s.Name))
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("stream %q: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel parses the level name ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

func (s *Stream) setDefaults(i int) {
	s.Source = strings.TrimSpace(s.Source)
	if s.Name == "" {
		if s.Source != "" {
			s.Name = s.Source
		} else {
			s.Name = fmt.Sprintf("stream-%d", i)
		}
	}
	if s.Capacity == 0 {
		s.Capacity = DefaultCapacity
	}
	if s.Output == "" {
		s.Output = DefaultOutput
	}
	s.Output = strings.ToLower(s.Output)
}

func (s Stream) validate() error {
	if s.Source == "" {
		return errors.New("source is required")
	}
	if s.Capacity < 1 || s.Capacity > MaxCapacity {
		return fmt.Errorf("capacity %d out of range 1..%d", s.Capacity, MaxCapacity)
	}
	if !slices.Contains(Outputs, s.Output) {
		return fmt.Errorf("output must be one of %s", strings.Join(Outputs, ", "))
	}
	_, err := s.FramerOptions()
	return err
}

// FramerOptions translates the stream settings into framer options.
func (s Stream) FramerOptions() ([]lineframer.Option, error) {
	var opts []lineframer.Option
	flags, err := lineframer.ParseFlags(s.Options...)
	if err != nil {
		return nil, err
	}
	if s.Preset != "" {
		preset, err := lineframer.LookupPreset(s.Preset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, preset, lineframer.WithAddFlags(flags))
	} else if len(s.Options) > 0 {
		opts = append(opts, lineframer.WithFlags(flags))
	}

	order, err := bo.Lookup(s.ByteOrder)
	if err != nil {
		return nil, err
	}
	opts = append(opts, lineframer.WithByteOrder(order))

	if s.Idle != "" {
		d, err := time.ParseDuration(s.Idle)
		if err != nil {
			return nil, fmt.Errorf("parse idle: %w", err)
		}
		opts = append(opts, lineframer.WithIdleDelay(d))
	}
	if s.Capacity > lineframer.DefaultMaxCapacity {
		opts = append(opts, lineframer.WithMaxCapacity(s.Capacity))
	}
	return opts, nil
}
