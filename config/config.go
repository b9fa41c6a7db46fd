// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the YAML configuration of the hellowindow command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/fractal"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/hellowindow/renderer"
)

// Renderer kinds.
const (
	RendererClear   = "clear"
	RendererFractal = "fractal"
)

// maxConfigSize bounds the size of a configuration file.
const maxConfigSize = 1 << 20

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Window describes the window to open.
type Window struct {
	Title  string `yaml:"title"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// Fractal holds the Mandelbrot region and rendering parameters.
type Fractal struct {
	// UpperLeft and LowerRight are {re, im} pairs.
	UpperLeft  [2]float64 `yaml:"upper_left"`
	LowerRight [2]float64 `yaml:"lower_right"`
	Limit      int        `yaml:"limit"`

	// Workers is the raster worker count; zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Config is the full configuration.
type Config struct {
	Window Window `yaml:"window"`

	// Backend is a registered backend name; empty selects by priority.
	Backend string `yaml:"backend"`

	// Renderer is RendererClear or RendererFractal.
	Renderer string `yaml:"renderer"`

	// ClearColor is {r, g, b, a} in [0, 1].
	ClearColor [4]float64 `yaml:"clear_color"`

	Fractal  Fractal `yaml:"fractal"`
	LogLevel string  `yaml:"log_level"`
}

// Default returns the configuration of the GPU clear program.
func Default() Config {
	c := renderer.DefaultClearColor
	p := fractal.DefaultParams()
	return Config{
		Window:     Window{Title: lifecycle.DefaultWindowAttributes().Title},
		Renderer:   RendererClear,
		ClearColor: [4]float64{c.R, c.G, c.B, c.A},
		Fractal: Fractal{
			UpperLeft:  [2]float64{real(p.UpperLeft), imag(p.UpperLeft)},
			LowerRight: [2]float64{real(p.LowerRight), imag(p.LowerRight)},
			Limit:      p.Limit,
		},
		LogLevel: "info",
	}
}

// Mandelbrot returns the configuration of the fractal program.
func Mandelbrot() Config {
	c := Default()
	c.Window = Window{Title: "Mandelbrot Set", Width: 1600, Height: 1200}
	c.Renderer = RendererFractal
	return c
}

// Load reads path on top of base. Unknown keys are errors.
func Load(path string, base Config) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return base, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(data) > maxConfigSize {
		return base, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalid, path, maxConfigSize)
	}
	c, err := Parse(data, base)
	if err != nil {
		return base, fmt.Errorf("config: %s: %w", path, err)
	}
	hellowindow.Logger().Debug("config loaded", "path", path, "renderer", c.Renderer, "backend", c.Backend)
	return c, nil
}

// Parse decodes YAML on top of base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	c := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	switch c.Renderer {
	case RendererClear, RendererFractal:
	default:
		return fmt.Errorf("%w: renderer %q", ErrInvalid, c.Renderer)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %v outside [0, 1]", ErrInvalid, i, v)
		}
	}
	if c.Fractal.Workers < 0 {
		return fmt.Errorf("%w: fractal.workers = %d", ErrInvalid, c.Fractal.Workers)
	}
	if err := c.FractalParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Color returns the clear color.
func (c Config) Color() gputypes.Color {
	return gputypes.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

// FractalParams returns the fractal region.
func (c Config) FractalParams() fractal.Params {
	f := c.Fractal
	return fractal.Params{
		UpperLeft:  complex(f.UpperLeft[0], f.UpperLeft[1]),
		LowerRight: complex(f.LowerRight[0], f.LowerRight[1]),
		Limit:      f.Limit,
	}
}

// WindowAttributes returns the attributes of the window to create.
func (c Config) WindowAttributes() lifecycle.WindowAttributes {
	attrs := lifecycle.DefaultWindowAttributes()
	if c.Window.Title != "" {
		attrs.Title = c.Window.Title
	}
	attrs.Size = lifecycle.Size{Width: c.Window.Width, Height: c.Window.Height}
	return attrs
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	return hellowindow.ParseLevel(c.LogLevel)
}
