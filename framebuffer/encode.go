package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for unsupported image file formats.
var ErrUnknownFormat = errors.New("framebuffer: unknown image format")

// Format is an image file format.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Save writes the buffer to path, choosing the format from the extension.
func (b *Buffer) Save(path string) error {
	return SaveImage(path, b.ToImage())
}

// SaveImage writes img to path, choosing the format from the extension.
func SaveImage(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Scale returns the buffer scaled by an integer factor with nearest-neighbor
// sampling, so every source pixel becomes a factor x factor block.
// A factor below 2 returns an unscaled copy.
func (b *Buffer) Scale(factor int) *image.RGBA {
	src := b.ToImage()
	if factor < 2 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.width*factor, b.height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
