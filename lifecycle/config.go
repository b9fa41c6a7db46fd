// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifecycle

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Size is a physical window or surface size in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Clamp returns the size with each dimension floored to 1.
func (s Size) Clamp() Size {
	return Size{Width: max(s.Width, 1), Height: max(s.Height, 1)}
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// String returns "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizeFromInts converts platform integer dimensions to a Size.
// Negative values become 0.
func SizeFromInts(width, height int) Size {
	return Size{Width: uint32(max(width, 0)), Height: uint32(max(height, 0))} //nolint:gosec // clamped to non-negative
}

// PresentMode selects how frames are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota

	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// String returns the present mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "Fifo"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeImmediate:
		return "Immediate"
	default:
		return fmt.Sprintf("PresentMode(%d)", uint8(m))
	}
}

// AlphaMode selects how the compositor treats the surface alpha channel.
type AlphaMode uint8

const (
	// AlphaModeAuto lets the backend choose.
	AlphaModeAuto AlphaMode = iota

	// AlphaModeOpaque ignores alpha.
	AlphaModeOpaque

	// AlphaModePremultiplied expects color premultiplied by alpha.
	AlphaModePremultiplied
)

// String returns the alpha mode name.
func (m AlphaMode) String() string {
	switch m {
	case AlphaModeAuto:
		return "Auto"
	case AlphaModeOpaque:
		return "Opaque"
	case AlphaModePremultiplied:
		return "Premultiplied"
	default:
		return fmt.Sprintf("AlphaMode(%d)", uint8(m))
	}
}

// SurfaceConfig is the configuration applied to a Surface.
//
// It is derived from the surface and adapter capabilities when the surface
// is created, and reapplied with new Width/Height whenever the window is
// resized. Width and Height are never zero once produced by the controller.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
	AlphaMode   AlphaMode
	Usage       gputypes.TextureUsage
}

// Size returns the configured dimensions.
func (c SurfaceConfig) Size() Size {
	return Size{Width: c.Width, Height: c.Height}
}

// WithSize returns a copy of c with dimensions set from s, clamped to 1.
func (c SurfaceConfig) WithSize(s Size) SurfaceConfig {
	s = s.Clamp()
	c.Width = s.Width
	c.Height = s.Height
	return c
}

// WindowAttributes describes the window the controller asks the platform
// to create on first activation.
type WindowAttributes struct {
	// Title is the window title.
	Title string

	// Size is the requested inner size. Zero means platform default.
	Size Size

	// Resizable controls whether the user can resize the window.
	Resizable bool
}

// DefaultWindowAttributes returns attributes for a resizable window titled
// "hello-window" with the platform default size.
func DefaultWindowAttributes() WindowAttributes {
	return WindowAttributes{Title: "hello-window", Resizable: true}
}
