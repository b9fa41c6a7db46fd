// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements a CPU-only graphics backend. Frames are
// framebuffer.Buffer values; presenting copies the back buffer to the front
// buffer, where callers can read the last visible image.
package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/backend"
	"github.com/gogpu/hellowindow/framebuffer"
	"github.com/gogpu/hellowindow/lifecycle"
	"github.com/gogpu/hellowindow/renderer"
)

// Name is the registry name of this backend.
const Name = "software"

func init() {
	backend.Register(Name, backend.PrioritySoftware, func() (lifecycle.Graphics, error) {
		return New(), nil
	}, nil)
}

// PresentFunc receives every presented image. The buffer is only valid
// during the call.
type PresentFunc func(img *framebuffer.Buffer)

// Graphics opens software surfaces.
type Graphics struct {
	onPresent PresentFunc
}

// Option configures Graphics.
type Option func(*Graphics)

// WithPresentFunc registers a callback run after every present.
func WithPresentFunc(fn PresentFunc) Option {
	return func(g *Graphics) {
		g.onPresent = fn
	}
}

// New creates a software backend.
func New(opts ...Option) *Graphics {
	g := &Graphics{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Open binds a surface to w. It never fails.
func (g *Graphics) Open(w lifecycle.Window) (lifecycle.Surface, error) {
	hellowindow.Logger().Debug("software surface opened", "window_size", w.Size().String())
	return &Surface{onPresent: g.onPresent}, nil
}

// Surface is a double-buffered CPU surface.
type Surface struct {
	mu        sync.Mutex
	onPresent PresentFunc
	cfg       SurfaceState
	back      *framebuffer.Buffer
	front     *framebuffer.Buffer
	acquired  bool
	released  bool
	presented uint64
}

// SurfaceState is the configuration and counters of a Surface.
type SurfaceState struct {
	Config     lifecycle.SurfaceConfig
	Configured bool
}

// DefaultConfig returns an opaque BGRA8 Fifo configuration for size.
func (s *Surface) DefaultConfig(size lifecycle.Size) (lifecycle.SurfaceConfig, error) {
	size = size.Clamp()
	return lifecycle.SurfaceConfig{
		Width:       size.Width,
		Height:      size.Height,
		Format:      gputypes.TextureFormatBGRA8Unorm,
		PresentMode: lifecycle.PresentModeFifo,
		AlphaMode:   lifecycle.AlphaModeOpaque,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopyDst,
	}, nil
}

// Configure resizes the back buffer.
func (s *Surface) Configure(cfg lifecycle.SurfaceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return lifecycle.ErrReleased
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("software: zero-sized configuration %s", cfg.Size())
	}
	if s.back == nil {
		s.back = framebuffer.New(int(cfg.Width), int(cfg.Height))
	} else {
		s.back.Resize(int(cfg.Width), int(cfg.Height))
	}
	s.cfg = SurfaceState{Config: cfg, Configured: true}
	return nil
}

// AcquireFrame returns the back buffer as a frame.
func (s *Surface) AcquireFrame() (lifecycle.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.released:
		return nil, lifecycle.ErrReleased
	case !s.cfg.Configured:
		return nil, fmt.Errorf("%w: surface not configured", lifecycle.ErrFrameAcquire)
	case s.acquired:
		return nil, fmt.Errorf("%w: previous frame still outstanding", lifecycle.ErrFrameAcquire)
	}
	s.acquired = true
	return &Frame{surface: s, buf: s.back}, nil
}

// Release frees the buffers. Later calls fail with lifecycle.ErrReleased.
func (s *Surface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.back = nil
	s.front = nil
}

// State returns the applied configuration.
func (s *Surface) State() SurfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Front returns a copy of the last presented image, or nil if nothing has
// been presented.
func (s *Surface) Front() *framebuffer.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		return nil
	}
	return s.front.Clone()
}

// Presented returns the number of presented frames.
func (s *Surface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

func (s *Surface) present(buf *framebuffer.Buffer) {
	s.mu.Lock()
	s.acquired = false
	if s.released {
		s.mu.Unlock()
		return
	}
	if s.front == nil || s.front.Width() != buf.Width() || s.front.Height() != buf.Height() {
		s.front = buf.Clone()
	} else {
		_ = s.front.CopyFrom(buf)
	}
	s.presented++
	fn := s.onPresent
	front := s.front
	s.mu.Unlock()

	if fn != nil {
		fn(front)
	}
}

func (s *Surface) discard() {
	s.mu.Lock()
	s.acquired = false
	s.mu.Unlock()
}

// Frame is a CPU frame. It implements lifecycle.PixelTarget and
// lifecycle.ClearTarget.
type Frame struct {
	surface *Surface
	buf     *framebuffer.Buffer
	done    bool
}

// Size returns the frame size.
func (f *Frame) Size() lifecycle.Size {
	return lifecycle.SizeFromInts(f.buf.Width(), f.buf.Height())
}

// Pixels returns the back buffer.
func (f *Frame) Pixels() *framebuffer.Buffer { return f.buf }

// Clear fills the frame with c.
func (f *Frame) Clear(c gputypes.Color) error {
	f.buf.Fill(renderer.ColorToPixel(c))
	return nil
}

// Present copies the frame to the front buffer.
func (f *Frame) Present() error {
	if f.done {
		return fmt.Errorf("software: frame already finished")
	}
	f.done = true
	f.surface.present(f.buf)
	return nil
}

// Discard drops the frame.
func (f *Frame) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.surface.discard()
}
