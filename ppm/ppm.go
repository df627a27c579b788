// Package ppm reads and writes the binary NetPBM PPM (P6, RGB) and PGM
// (P5, grayscale) formats: a trivial, uncompressed container used by the
// CLI to round-trip pixel data without depending on PNG or JPEG.
package ppm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/pixelflow/imgcodec/imaging"
)

var errBadHeader = errors.New("ppm: malformed header")

// Decode reads a binary P6 (RGB) or P5 (grayscale) image.
func Decode(r io.Reader) (*imaging.Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, err
	}

	var colorType imaging.ColorType
	switch magic {
	case "P6":
		colorType = imaging.RGB8
	case "P5":
		colorType = imaging.Gray8
	default:
		return nil, errors.Wrap(errBadHeader, "unrecognized magic number")
	}

	width, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	height, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	maxVal, err := readIntToken(br)
	if err != nil {
		return nil, err
	}
	if maxVal != 255 {
		return nil, errors.Wrap(errBadHeader, "only maxval 255 is supported")
	}

	img := imaging.New(colorType, width, height)
	if _, err := io.ReadFull(br, img.Pix); err != nil {
		return nil, errors.Wrap(err, "ppm: read pixel data")
	}
	return img, nil
}

// Encode writes img as a binary P6 or P5 image, depending on its ColorType.
// Only Gray8 and RGB8 are supported; callers must drop any alpha channel
// first.
func Encode(w io.Writer, img *imaging.Image) error {
	var magic string
	switch img.ColorType {
	case imaging.RGB8:
		magic = "P6"
	case imaging.Gray8:
		magic = "P5"
	default:
		return errors.Wrap(imaging.ErrUnsupportedColorType, "ppm encode requires Gray8 or RGB8")
	}

	if _, err := fmt.Fprintf(w, "%s\n%d %d\n255\n", magic, img.Width, img.Height); err != nil {
		return errors.Wrap(err, "ppm: write header")
	}
	_, err := w.Write(img.Pix)
	return errors.Wrap(err, "ppm: write pixel data")
}

// readToken reads whitespace-delimited ASCII tokens, skipping '#' comment
// lines, per the NetPBM header grammar.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", errors.Wrap(err, "ppm: read token")
		}
		if b == '#' {
			for {
				c, err := br.ReadByte()
				if err != nil {
					return "", errors.Wrap(err, "ppm: read comment")
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		if isSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	var v int
	if _, err := fmt.Sscanf(tok, "%d", &v); err != nil {
		return 0, errors.Wrap(errBadHeader, "expected integer token")
	}
	return v, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
