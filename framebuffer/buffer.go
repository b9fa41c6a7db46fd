// Package framebuffer provides the CPU-side pixel buffer frames are drawn
// into, plus conversion to Go images and file encoders.
//
// Pixels are stored as packed 0x00RRGGBB values, one uint32 per pixel,
// row-major with no padding. Index (x, y) lives at y*width + x.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidDimensions is returned when width or height is not positive, or
// a wrapped slice does not match them.
var ErrInvalidDimensions = errors.New("framebuffer: invalid dimensions")

// Buffer is a rectangular XRGB pixel buffer.
type Buffer struct {
	width  int
	height int
	pix    []uint32
}

// New creates a zeroed (black) buffer with the given dimensions.
// Non-positive dimensions produce an empty buffer.
func New(width, height int) *Buffer {
	width, height = max(width, 0), max(height, 0)
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Wrap returns a Buffer backed by pix, which must hold exactly
// width*height pixels. The buffer aliases pix.
func Wrap(width, height int, pix []uint32) (*Buffer, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels", ErrInvalidDimensions, width, height, len(pix))
	}
	return &Buffer{width: width, height: height, pix: pix}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the raw packed pixels.
func (b *Buffer) Pix() []uint32 { return b.pix }

// Row returns the pixels of row y.
func (b *Buffer) Row(y int) []uint32 {
	return b.pix[y*b.width : (y+1)*b.width]
}

// Set stores a packed pixel. Out-of-bounds coordinates are ignored.
func (b *Buffer) Set(x, y int, v uint32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = v
}

// Get returns the packed pixel at (x, y), or 0 if out of bounds.
func (b *Buffer) Get(x, y int) uint32 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Fill sets every pixel to v.
func (b *Buffer) Fill(v uint32) {
	for i := range b.pix {
		b.pix[i] = v
	}
}

// Resize changes the dimensions, reusing the backing array when it is large
// enough. Content is not preserved.
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	if cap(b.pix) >= n {
		b.pix = b.pix[:n]
	} else {
		b.pix = make([]uint32, n)
	}
	b.width = width
	b.height = height
}

// CopyFrom copies src into b. Both must have the same dimensions.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if src.width != b.width || src.height != b.height {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrInvalidDimensions, src.width, src.height, b.width, b.height)
	}
	copy(b.pix, src.pix)
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height, pix: make([]uint32, len(b.pix))}
	copy(c.pix, b.pix)
	return c
}

// Pack packs 8-bit channels into an XRGB value.
func Pack(r, g, b uint8) uint32 {
	return uint32(b) | uint32(g)<<8 | uint32(r)<<16
}

// Unpack splits an XRGB value into 8-bit channels.
func Unpack(v uint32) (r, g, b uint8) {
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// BGRA appends the pixels to dst as B, G, R, A bytes with opaque alpha,
// the byte order of a little-endian XRGB word. This is the layout expected
// by BGRA8Unorm textures.
func (b *Buffer) BGRA(dst []byte) []byte {
	for _, v := range b.pix {
		dst = append(dst, uint8(v), uint8(v>>8), uint8(v>>16), 0xFF)
	}
	return dst
}

// RGBA appends the pixels to dst as R, G, B, A bytes with opaque alpha.
func (b *Buffer) RGBA(dst []byte) []byte {
	for _, v := range b.pix {
		dst = append(dst, uint8(v>>16), uint8(v>>8), uint8(v), 0xFF)
	}
	return dst
}

// SetBGRA fills the buffer from tightly packed BGRA bytes, ignoring alpha.
func (b *Buffer) SetBGRA(data []byte) error {
	if len(data) < len(b.pix)*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidDimensions, len(data), b.width, b.height)
	}
	for i := range b.pix {
		o := i * 4
		b.pix[i] = uint32(data[o]) | uint32(data[o+1])<<8 | uint32(data[o+2])<<16
	}
	return nil
}

// ToImage converts the buffer to an opaque image.RGBA.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	img.Pix = b.RGBA(img.Pix[:0])
	return img
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	r, g, bl := Unpack(b.Get(x, y))
	return color.RGBA{R: r, G: g, B: bl, A: 0xFF}
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}
