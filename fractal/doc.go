// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fractal renders escape-time images of the Mandelbrot set into
// framebuffer.Buffer values.
//
// Every pixel (x, y) of a width x height buffer is mapped linearly onto the
// rectangle spanned by Params.UpperLeft and Params.LowerRight. The point is
// iterated as z = z*z + c from z = 0; the first iteration index at which
// |z|^2 exceeds 4 becomes the pixel color through Color. Points that never
// escape within Params.Limit iterations are black.
//
// Render is the sequential reference. Renderer distributes rows across a
// worker pool and produces bit-identical output.
package fractal
