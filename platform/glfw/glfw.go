// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glfw is the desktop platform. It opens one native window with
// GLFW and translates its callbacks into lifecycle events.
//
// GLFW must run on the main OS thread; the package locks it in init, so Run
// must be called from main.
package glfw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/hellowindow/lifecycle"
)

func init() {
	runtime.LockOSThread()
}

// DefaultSize is used when the attributes request no size.
var DefaultSize = lifecycle.Size{Width: 800, Height: 600}

// ErrWindowExists is returned when a second window is requested.
var ErrWindowExists = errors.New("glfw: window already created")

// Platform runs the GLFW event loop.
type Platform struct {
	ctx     context.Context
	logger  *slog.Logger
	handler lifecycle.Handler
	window  *Window
	redraw  bool
	exit    bool
	err     error
}

// Option configures a Platform.
type Option func(*Platform)

// WithLogger sets the logger used for swallowed errors.
func WithLogger(l *slog.Logger) Option {
	return func(p *Platform) {
		p.logger = l
	}
}

// WithContext closes the window once ctx is done, as if the user had
// closed it.
func WithContext(ctx context.Context) Option {
	return func(p *Platform) {
		p.ctx = ctx
	}
}

// New initializes GLFW. Call Close when done.
func New(opts ...Option) (*Platform, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw: init: %w", err)
	}
	p := &Platform{}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CreateWindow opens the native window without a client graphics API;
// the surface is created by the graphics backend.
func (p *Platform) CreateWindow(attrs lifecycle.WindowAttributes) (lifecycle.Window, error) {
	if p.window != nil {
		return nil, ErrWindowExists
	}
	size := attrs.Size
	if size == (lifecycle.Size{}) {
		size = DefaultSize
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if attrs.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(int(size.Width), int(size.Height), attrs.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	w := &Window{platform: p, win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s := lifecycle.SizeFromInts(width, height)
		p.deliver(lifecycle.Resized(s.Width, s.Height))
	})
	win.SetCloseCallback(func(*glfw.Window) {
		p.deliver(lifecycle.CloseRequested())
	})
	win.SetRefreshCallback(func(*glfw.Window) {
		p.redraw = true
	})
	p.window = w
	return w, nil
}

// Run delivers Activated, then blocks on GLFW events until Exit is called,
// the context is done, or h returns a fatal error.
func (p *Platform) Run(h lifecycle.Handler) error {
	p.handler = h
	if p.ctx != nil {
		stop := context.AfterFunc(p.ctx, glfw.PostEmptyEvent)
		defer stop()
	}
	p.deliver(lifecycle.Activated())
	p.redraw = true
	for !p.exit {
		if p.closeIfCanceled() {
			break
		}
		if p.redraw {
			p.redraw = false
			p.deliver(lifecycle.RedrawRequested())
			continue
		}
		glfw.WaitEvents()
	}
	return p.err
}

// closeIfCanceled delivers CloseRequested on the loop thread once the
// context is done and reports whether it did.
func (p *Platform) closeIfCanceled() bool {
	if p.ctx == nil || p.ctx.Err() == nil {
		return false
	}
	p.deliver(lifecycle.CloseRequested())
	p.exit = true
	return true
}

func (p *Platform) deliver(ev lifecycle.Event) {
	if p.exit || p.handler == nil {
		return
	}
	stop, err := lifecycle.Deliver(p.handler, ev, p.logger)
	if err != nil {
		p.err = err
	}
	if stop {
		p.exit = true
	}
}

// Exit stops the loop after the current event.
func (p *Platform) Exit() {
	p.exit = true
	glfw.PostEmptyEvent()
}

// Close destroys the window and terminates GLFW.
func (p *Platform) Close() {
	if p.window != nil {
		p.window.win.Destroy()
		p.window = nil
	}
	glfw.Terminate()
}

// Window is a native GLFW window. It implements webgpu.SurfaceWindow.
type Window struct {
	platform *Platform
	win      *glfw.Window
}

// Size returns the framebuffer size in physical pixels.
func (w *Window) Size() lifecycle.Size {
	return lifecycle.SizeFromInts(w.win.GetFramebufferSize())
}

// RequestRedraw schedules a RedrawRequested and wakes the loop.
func (w *Window) RequestRedraw() {
	w.platform.redraw = true
	glfw.PostEmptyEvent()
}

// SurfaceDescriptor describes the native surface of the window.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}
