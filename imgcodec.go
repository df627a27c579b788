// Package imgcodec dispatches image decoding and encoding to the
// format-specific codecs, picking a decoder by sniffing a stream's magic
// bytes the way a multi-format image crate does. It decodes PNG and encodes
// JPEG; it does not dispatch to the ppm package.
package imgcodec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pixelflow/imgcodec/imaging"
	"github.com/pixelflow/imgcodec/jpeg"
	"github.com/pixelflow/imgcodec/png"
)

var imgcodecLog = logrus.WithField("package", "imgcodec")

// ErrUnknownFormat is returned when a stream's leading bytes match no
// supported format's magic number. It is also returned, wrapped, by Decode
// for JPEG streams and by Encode for any format other than "jpeg".
var ErrUnknownFormat = errors.New("imgcodec: unrecognized image format")

var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}
var jpegSOI = []byte{0xFF, 0xD8}

// guessFormat inspects the first few bytes of data and returns "png",
// "jpeg", or "" if unrecognized.
func guessFormat(data []byte) string {
	if bytes.HasPrefix(data, pngSignature) {
		return "png"
	}
	if bytes.HasPrefix(data, jpegSOI) {
		return "jpeg"
	}
	return ""
}

// Decode reads and decodes an image, sniffing its format from the stream's
// magic bytes. It returns the decoded image and the format name. Only PNG
// is decoded: a JPEG stream yields the name "jpeg", no image, and a wrapped
// ErrUnknownFormat.
func Decode(r io.Reader) (*imaging.Image, string, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(8)
	if err != nil && err != io.EOF {
		return nil, "", errors.Wrap(err, "imgcodec: peek header")
	}

	format := guessFormat(peek)
	imgcodecLog.WithField("format", format).Debug("dispatching decode")

	switch format {
	case "png":
		img, err := png.Decode(br)
		return img, "png", err
	case "jpeg":
		return nil, "jpeg", errors.Wrap(ErrUnknownFormat, "jpeg decode is not implemented")
	default:
		return nil, "", ErrUnknownFormat
	}
}

// DecodeConfig reports a stream's format, dimensions, and color type. It
// obtains them by decoding the whole image through Decode, so it reads the
// entire stream and fails wherever Decode fails.
func DecodeConfig(r io.Reader) (imaging.Config, string, error) {
	img, format, err := Decode(r)
	if err != nil {
		return imaging.Config{}, format, err
	}
	return imaging.Config{ColorType: img.ColorType, Width: img.Width, Height: img.Height}, format, nil
}

// Encode writes img to w in the named format ("jpeg" or "png"; png
// encoding is not implemented).
func Encode(w io.Writer, img *imaging.Image, format string) error {
	imgcodecLog.WithFields(logrus.Fields{
		"format": format, "width": img.Width, "height": img.Height,
	}).Debug("dispatching encode")

	switch format {
	case "jpeg":
		colorType, err := JPEGColorType(img.ColorType)
		if err != nil {
			return err
		}
		return jpeg.NewEncoder(w).Encode(img.Pix, img.Width, img.Height, colorType)
	default:
		return errors.Wrapf(ErrUnknownFormat, "encoding to %q is not supported", format)
	}
}

// JPEGColorType maps an imaging.ColorType to the jpeg package's ColorType,
// for callers (such as cmd/imgconv) that build a jpeg.Encoder directly.
func JPEGColorType(c imaging.ColorType) (jpeg.ColorType, error) {
	switch c {
	case imaging.RGB8:
		return jpeg.RGB8, nil
	case imaging.RGBA8:
		return jpeg.RGBA8, nil
	case imaging.Gray8:
		return jpeg.Gray8, nil
	case imaging.GrayA8:
		return jpeg.GrayA8, nil
	default:
		return 0, imaging.ErrUnsupportedColorType
	}
}
