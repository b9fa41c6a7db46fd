// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package renderer provides the frame renderers driven by the lifecycle
// controller: a GPU clear pass and a CPU fractal raster.
package renderer
