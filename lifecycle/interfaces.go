// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow/framebuffer"
)

// Window is a platform window. The same value is held by the controller and
// by the surface bound to it; neither may assume it outlives the other.
type Window interface {
	// Size returns the current physical (framebuffer) size in pixels.
	Size() Size

	// RequestRedraw asks the platform to deliver EventRedrawRequested.
	RequestRedraw()
}

// Handler receives events from a platform.
type Handler interface {
	Dispatch(ev Event) (Action, error)
}

// Platform is the host window system.
type Platform interface {
	// CreateWindow creates the single window of the process.
	CreateWindow(attrs WindowAttributes) (Window, error)

	// Run delivers events to h sequentially on the calling goroutine until
	// Exit is called or h returns a fatal error, which Run returns.
	Run(h Handler) error

	// Exit stops event delivery after the current event.
	Exit()
}

// Graphics opens a drawable surface on a window.
type Graphics interface {
	// Open creates a surface bound to w and negotiates an adapter and
	// device compatible with it. It blocks until negotiation completes.
	// Errors wrap ErrSurfaceCreation or ErrNoAdapter.
	Open(w Window) (Surface, error)
}

// Surface is a drawable target bound to a window. It is owned exclusively by
// the controller and is never used concurrently.
type Surface interface {
	// DefaultConfig derives a configuration from the surface and adapter
	// capabilities for the given size.
	DefaultConfig(size Size) (SurfaceConfig, error)

	// Configure applies cfg to the surface.
	Configure(cfg SurfaceConfig) error

	// AcquireFrame returns the next drawable frame, sized to the last
	// applied configuration.
	AcquireFrame() (Frame, error)

	// Release frees the surface, its device and queue.
	Release()
}

// Frame is a drawable acquired for a single redraw. It must be either
// presented or discarded before the redraw handling ends and must not be
// retained afterwards.
type Frame interface {
	// Size returns the frame dimensions.
	Size() Size

	// Present makes the frame visible.
	Present() error

	// Discard drops the frame without presenting it.
	Discard()
}

// ClearTarget is a frame backed by a GPU texture view that can be cleared
// with one render pass.
type ClearTarget interface {
	Frame

	// Clear encodes one render pass that clears the whole view to c and
	// submits it to the queue.
	Clear(c gputypes.Color) error
}

// PixelTarget is a frame backed by a CPU-mapped pixel buffer.
type PixelTarget interface {
	Frame

	// Pixels returns the mapped buffer. It is sized to the frame and is
	// only valid until Present or Discard.
	Pixels() *framebuffer.Buffer
}

// Renderer produces the content of one frame.
type Renderer interface {
	Render(f Frame) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(f Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f Frame) error { return fn(f) }
