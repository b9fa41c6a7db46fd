// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow/lifecycle"
)

// DefaultClearColor is opaque blue.
var DefaultClearColor = gputypes.Color{R: 0, G: 0, B: 1, A: 1}

// Clear fills every frame with a single color using one render pass.
type Clear struct {
	color gputypes.Color
}

// NewClear returns a renderer clearing to c.
func NewClear(c gputypes.Color) *Clear {
	return &Clear{color: c}
}

// Color returns the clear color.
func (r *Clear) Color() gputypes.Color { return r.color }

// Render clears f. The frame must implement lifecycle.ClearTarget.
func (r *Clear) Render(f lifecycle.Frame) error {
	ct, ok := f.(lifecycle.ClearTarget)
	if !ok {
		return fmt.Errorf("%w: %T is not a clear target", lifecycle.ErrUnsupportedFrame, f)
	}
	return ct.Clear(r.color)
}

// ColorToPixel converts a normalized color to a packed 0x00RRGGBB pixel,
// as a CPU frame stores it. Channels are clamped to [0, 1].
func ColorToPixel(c gputypes.Color) uint32 {
	ch := func(v float64) uint32 {
		v = min(max(v, 0), 1)
		return uint32(v*255 + 0.5)
	}
	return ch(c.R)<<16 | ch(c.G)<<8 | ch(c.B)
}
