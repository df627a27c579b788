// Package imaging provides a minimal pixel-buffer container and a handful
// of lossless/nearest-neighbor transforms shared by the png and jpeg
// codecs' surrounding tooling.
package imaging

import "github.com/pkg/errors"

// ColorType identifies the channel layout of an Image's pixel buffer.
type ColorType int

const (
	Gray8 ColorType = iota
	GrayA8
	RGB8
	RGBA8
)

// BytesPerPixel returns the number of bytes one pixel occupies.
func (c ColorType) BytesPerPixel() int {
	switch c {
	case Gray8:
		return 1
	case GrayA8:
		return 2
	case RGB8:
		return 3
	case RGBA8:
		return 4
	default:
		return 0
	}
}

// ErrUnsupportedColorType is returned by operations given a ColorType they
// do not recognize.
var ErrUnsupportedColorType = errors.New("imaging: unsupported color type")

// Config describes an image's dimensions and pixel layout without its
// pixel data, mirroring image.Config from the standard library.
type Config struct {
	ColorType ColorType
	Width     int
	Height    int
}

// Image is a contiguous-buffer pixel container: Pix holds Height rows of
// Stride bytes each, row-major, with no padding beyond Stride.
type Image struct {
	ColorType ColorType
	Width     int
	Height    int
	Stride    int
	Pix       []byte
}

// New allocates a zeroed Image of the given dimensions and color type.
func New(colorType ColorType, width, height int) *Image {
	bpp := colorType.BytesPerPixel()
	stride := width * bpp
	return &Image{
		ColorType: colorType,
		Width:     width,
		Height:    height,
		Stride:    stride,
		Pix:       make([]byte, stride*height),
	}
}

// PixelOffset returns the index into Pix of pixel (x, y)'s first byte.
func (img *Image) PixelOffset(x, y int) int {
	return y*img.Stride + x*img.ColorType.BytesPerPixel()
}
