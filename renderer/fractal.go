// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"context"
	"fmt"

	"github.com/gogpu/hellowindow/fractal"
	"github.com/gogpu/hellowindow/lifecycle"
)

// Fractal draws the escape-time raster into CPU-mapped frames.
type Fractal struct {
	ctx    context.Context
	raster *fractal.Renderer
}

// NewFractal returns a renderer backed by r. ctx bounds every raster
// computation; a canceled context makes Render fail and the frame is
// skipped.
func NewFractal(ctx context.Context, r *fractal.Renderer) *Fractal {
	return &Fractal{ctx: ctx, raster: r}
}

// Render computes the raster into the frame's pixel buffer. The frame must
// implement lifecycle.PixelTarget.
func (r *Fractal) Render(f lifecycle.Frame) error {
	pt, ok := f.(lifecycle.PixelTarget)
	if !ok {
		return fmt.Errorf("%w: %T is not a pixel target", lifecycle.ErrUnsupportedFrame, f)
	}
	return r.raster.Render(r.ctx, pt.Pixels())
}
