// Package png decodes a restricted subset of PNG (RFC 2083): 8-bit depth,
// non-interlaced Grayscale, RGB, Grayscale+Alpha, and RGBA color types.
// Indexed-color, 16-bit-depth, and Adam7-interlaced images are reported as
// UnsupportedInput.
package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pixelflow/imgcodec/imaging"
	"github.com/pixelflow/imgcodec/zlib"
)

var pngLog = logrus.WithField("package", "png")

var signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

const (
	colorGray      = 0
	colorRGB       = 2
	colorGrayAlpha = 4
	colorRGBA      = 6
)

// Decode reads a complete PNG stream and returns the decoded image.
func Decode(r io.Reader) (*imaging.Image, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, errors.Wrap(err, "png: read signature")
	}
	if sig != signature {
		return nil, errNotPNG
	}

	var width, height int
	var bitDepth, colorTypeByte, interlace byte
	var idat bytes.Buffer
	haveIHDR := false

	for {
		length, typ, data, err := readChunk(r)
		if err != nil {
			return nil, err
		}

		switch typ {
		case "IHDR":
			if len(data) != 13 {
				return nil, errors.Wrap(errMissingIHDR, "short IHDR")
			}
			width = int(binary.BigEndian.Uint32(data[0:4]))
			height = int(binary.BigEndian.Uint32(data[4:8]))
			bitDepth = data[8]
			colorTypeByte = data[9]
			interlace = data[12]
			haveIHDR = true

		case "IDAT":
			if !haveIHDR {
				return nil, errMissingIHDR
			}
			idat.Write(data)

		case "IEND":
			return finishDecode(width, height, bitDepth, colorTypeByte, interlace, &idat)

		default:
			// Ancillary chunks (PLTE, tEXt, gAMA, ...) are skipped; this
			// decoder only reconstructs raster samples.
			pngLog.WithField("chunk", typ).Debug("skipping ancillary chunk")
		}
		_ = length
	}
}

func finishDecode(width, height int, bitDepth, colorTypeByte, interlace byte, idat *bytes.Buffer) (*imaging.Image, error) {
	pngLog.WithFields(logrus.Fields{
		"width": width, "height": height, "bitDepth": bitDepth, "colorType": colorTypeByte,
	}).Debug("decoding IHDR")

	if bitDepth != 8 || interlace != 0 {
		return nil, errUnsupportedFormat
	}

	var colorType imaging.ColorType
	var channels int
	switch colorTypeByte {
	case colorGray:
		colorType, channels = imaging.Gray8, 1
	case colorRGB:
		colorType, channels = imaging.RGB8, 3
	case colorGrayAlpha:
		colorType, channels = imaging.GrayA8, 2
	case colorRGBA:
		colorType, channels = imaging.RGBA8, 4
	default:
		return nil, errUnsupportedFormat
	}

	zr, err := zlib.NewReader(idat)
	if err != nil {
		return nil, errors.Wrap(err, "png: open IDAT zlib stream")
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "png: inflate IDAT")
	}

	img := imaging.New(colorType, width, height)
	rowBytes := width * channels
	if len(raw) < height*(rowBytes+1) {
		return nil, errors.Wrap(errUnsupportedFormat, "truncated scanline data")
	}

	previous := make([]byte, rowBytes)
	pos := 0
	for y := 0; y < height; y++ {
		filter := filterType(raw[pos])
		pos++
		current := make([]byte, rowBytes)
		copy(current, raw[pos:pos+rowBytes])
		pos += rowBytes

		if err := unfilter(filter, channels, previous, current); err != nil {
			return nil, err
		}
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], current)
		previous = current
	}

	return img, nil
}

// readChunk reads one PNG chunk: 4-byte length, 4-byte type, length bytes
// of data, and a trailing CRC-32 (IEEE) computed over type+data.
func readChunk(r io.Reader) (length uint32, typ string, data []byte, err error) {
	var header [8]byte
	if _, err = io.ReadFull(r, header[:]); err != nil {
		return 0, "", nil, errors.Wrap(err, "png: read chunk header")
	}
	length = binary.BigEndian.Uint32(header[0:4])
	typ = string(header[4:8])

	data = make([]byte, length)
	if _, err = io.ReadFull(r, data); err != nil {
		return 0, "", nil, errors.Wrap(err, "png: read chunk data")
	}

	var crcBytes [4]byte
	if _, err = io.ReadFull(r, crcBytes[:]); err != nil {
		return 0, "", nil, errors.Wrap(err, "png: read chunk CRC")
	}
	want := binary.BigEndian.Uint32(crcBytes[:])
	got := crc32.ChecksumIEEE(append([]byte(typ), data...))
	if want != got {
		return 0, "", nil, errChunkCRC
	}

	return length, typ, data, nil
}
