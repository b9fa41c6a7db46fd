// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package offscreen

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/hellowindow/framebuffer"
)

// byteOrder is the in-memory channel order of an 8-bit color texture.
type byteOrder uint8

const (
	orderBGRA byteOrder = iota
	orderRGBA
)

// targetFormat returns the texture format to render into for the requested
// one, and its byte order. Formats the CPU cannot copy pixels into fall
// back to BGRA8Unorm.
func targetFormat(f gputypes.TextureFormat) (gputypes.TextureFormat, byteOrder) {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return f, orderBGRA
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return f, orderRGBA
	default:
		return gputypes.TextureFormatBGRA8Unorm, orderBGRA
	}
}

// encodePixels appends the texel bytes of b in order o to dst.
func encodePixels(dst []byte, b *framebuffer.Buffer, o byteOrder) []byte {
	if o == orderRGBA {
		return b.RGBA(dst)
	}
	return b.BGRA(dst)
}

// decodeRow unpacks one row of texels in order o into XRGB pixels.
func decodeRow(row []uint32, data []byte, o byteOrder) error {
	if len(data) < len(row)*4 {
		return fmt.Errorf("%w: short readback row", framebuffer.ErrInvalidDimensions)
	}
	r, b := 2, 0
	if o == orderRGBA {
		r, b = 0, 2
	}
	for x := range row {
		px := data[x*4 : x*4+4]
		row[x] = framebuffer.Pack(px[r], px[1], px[b])
	}
	return nil
}
