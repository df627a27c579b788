package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTestPNG assembles a minimal, valid PNG byte stream for a 2x2 RGB
// image using unfiltered (filter type 0) scanlines. The zlib/DEFLATE
// payload is produced with the standard library's compress/zlib purely as
// a test fixture generator, independent of the decoder under test.
func buildTestPNG(t *testing.T, width, height int, channels int, pixels []byte) []byte {
	t.Helper()

	var raw bytes.Buffer
	rowBytes := width * channels
	for y := 0; y < height; y++ {
		raw.WriteByte(0) // filter type None
		raw.Write(pixels[y*rowBytes : (y+1)*rowBytes])
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var out bytes.Buffer
	out.Write(signature[:])
	writeChunk(&out, "IHDR", ihdrPayload(width, height, 8, colorRGB))
	writeChunk(&out, "IDAT", compressed.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes()
}

func ihdrPayload(width, height int, bitDepth, colorType byte) []byte {
	buf := make([]byte, 13)
	binary.BigEndian.PutUint32(buf[0:4], uint32(width))
	binary.BigEndian.PutUint32(buf[4:8], uint32(height))
	buf[8] = bitDepth
	buf[9] = colorType
	buf[10] = 0 // compression method
	buf[11] = 0 // filter method
	buf[12] = 0 // interlace method
	return buf
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	w.Write(lenBuf[:])
	w.WriteString(typ)
	w.Write(data)
	crc := crc32.ChecksumIEEE(append([]byte(typ), data...))
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	w.Write(crcBuf[:])
}

func TestDecodeMinimalRGBImage(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}
	data := buildTestPNG(t, 2, 2, 3, pixels)

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, img.Width)
	require.Equal(t, 2, img.Height)
	require.Equal(t, pixels, img.Pix)
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	_, err := Decode(bytes.NewReader(make([]byte, 16)))
	require.ErrorIs(t, err, errNotPNG)
}
