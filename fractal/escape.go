// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"errors"
	"fmt"

	"github.com/gogpu/hellowindow/framebuffer"
)

// ErrInvalidParams is returned for bounds or limits that cannot be rendered.
var ErrInvalidParams = errors.New("fractal: invalid parameters")

// MaxColorCount is the largest escape count with a distinct color. Higher
// counts saturate to it.
const MaxColorCount = 255

// Params describes the region of the complex plane to render.
type Params struct {
	// UpperLeft is the point mapped to pixel (0, 0).
	UpperLeft complex128

	// LowerRight is the point at the far corner (width, height).
	LowerRight complex128

	// Limit is the maximum number of iterations per point.
	Limit int
}

// DefaultParams returns the classic close-up of the seahorse valley edge:
// upper-left -1.20+0.35i, lower-right -1.00+0.20i, 255 iterations.
func DefaultParams() Params {
	return Params{
		UpperLeft:  complex(-1.20, 0.35),
		LowerRight: complex(-1.00, 0.20),
		Limit:      MaxColorCount,
	}
}

// Validate checks that the region is non-degenerate and oriented with the
// real axis growing to the right and the imaginary axis growing upwards.
func (p Params) Validate() error {
	if p.Limit <= 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidParams, p.Limit)
	}
	if real(p.UpperLeft) >= real(p.LowerRight) || imag(p.UpperLeft) <= imag(p.LowerRight) {
		return fmt.Errorf("%w: bounds %v %v", ErrInvalidParams, p.UpperLeft, p.LowerRight)
	}
	return nil
}

// PixelToPoint maps pixel (x, y) of a width x height image onto the plane.
func (p Params) PixelToPoint(x, y, width, height int) complex128 {
	re := real(p.UpperLeft) + float64(x)*(real(p.LowerRight)-real(p.UpperLeft))/float64(width)
	im := imag(p.UpperLeft) - float64(y)*(imag(p.UpperLeft)-imag(p.LowerRight))/float64(height)
	return complex(re, im)
}

// EscapeTime iterates z = z*z + c from z = 0 and returns the index of the
// first iteration at which |z|^2 > 4, tested before each step. escaped is
// false when the point stays bounded for limit iterations.
//
// The products are rounded explicitly so the compiler cannot fuse them into
// FMA instructions, which would make results differ between architectures.
func EscapeTime(c complex128, limit int) (count int, escaped bool) {
	cr, ci := real(c), imag(c)
	var zr, zi float64
	for i := range limit {
		if float64(zr*zr)+float64(zi*zi) > 4 {
			return i, true
		}
		zr, zi = float64(zr*zr)-float64(zi*zi)+cr, float64(zr*zi)+float64(zi*zr)+ci
	}
	return 0, false
}

// Color maps an escape result to a packed 0x00RRGGBB pixel. Bounded points
// are black; escaped points have red = count and green = 255 - count, with
// count clamped to MaxColorCount.
func Color(count int, escaped bool) uint32 {
	if !escaped {
		return 0
	}
	n := uint8(min(max(count, 0), MaxColorCount)) //nolint:gosec // clamped to [0, 255]
	return framebuffer.Pack(n, MaxColorCount-n, 0)
}

// renderRow fills row y of buf.
func renderRow(buf *framebuffer.Buffer, p Params, y int) {
	w, h := buf.Width(), buf.Height()
	row := buf.Row(y)
	for x := range row {
		row[x] = Color(EscapeTime(p.PixelToPoint(x, y, w, h), p.Limit))
	}
}

// Render computes the whole raster into buf on the calling goroutine.
func Render(buf *framebuffer.Buffer, p Params) {
	for y := range buf.Height() {
		renderRow(buf, p, y)
	}
}
