package jpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func findMarker(data []byte, marker byte) int {
	for i := 0; i+1 < len(data); i++ {
		if data[i] == 0xFF && data[i+1] == marker {
			return i
		}
	}
	return -1
}

func TestEncodeMidGrayRGB(t *testing.T) {
	pixels := make([]byte, 8*8*3)
	for i := range pixels {
		pixels[i] = 128
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(pixels, 8, 8, RGB8))

	out := buf.Bytes()
	require.Equal(t, []byte{0xFF, 0xD8}, out[:2])
	require.Equal(t, []byte{0xFF, 0xD9}, out[len(out)-2:])

	require.GreaterOrEqual(t, findMarker(out, 0xDB), 0, "DQT segment present")
	require.GreaterOrEqual(t, findMarker(out, 0xC4), 0, "DHT segment present")
	require.GreaterOrEqual(t, findMarker(out, 0xC0), 0, "SOF0 segment present")
	require.GreaterOrEqual(t, findMarker(out, 0xDA), 0, "SOS segment present")

	// Two DQT segments (luma, chroma) for a 3-component encode.
	first := findMarker(out, 0xDB)
	second := findMarker(out[first+2:], 0xDB)
	require.GreaterOrEqual(t, second, 0, "second DQT segment present")
}

func TestEncodePureBlackGrayscale(t *testing.T) {
	pixels := make([]byte, 8*8*1)

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(pixels, 8, 8, Gray8))

	out := buf.Bytes()
	require.Equal(t, []byte{0xFF, 0xD8}, out[:2])
	require.Equal(t, []byte{0xFF, 0xD9}, out[len(out)-2:])

	// Grayscale extraction reads byte offset 1 of each pixel; with Gray8
	// (bpp=1) that is the next pixel's byte, clamped to the last byte of
	// the buffer. All input bytes are zero, so every sample level-shifts to
	// -128 uniformly, so the DC coefficient is the same in every block and
	// the AC scan is exactly one EOB symbol per block.
}

func TestQuantizeRoundsHalfAwayFromZero(t *testing.T) {
	q := newQuantTable(stdLuminanceQuantTable)
	var coeffs [64]int32
	coeffs[0] = -128 * 8 * 8 // forwardDCT's DC (scaled by 8) for an all -128 level-shifted block
	out := q.quantize(&coeffs)
	want := roundHalfAwayFromZero(coeffs[0], 8*int32(stdLuminanceQuantTable[0]))
	require.Equal(t, int16(want), out[0])
}

func TestEncodeAllZeroBlockIsEOBOnly(t *testing.T) {
	bw := newBitWriter()
	coder := newBlockCoder(bw)
	dc := newEncodeTable(stdDCLuminanceBits, stdDCLuminanceValues)
	ac := newEncodeTable(stdACLuminanceBits, stdACLuminanceValues)

	var block [64]int16 // DC=0, all AC=0
	coder.encodeBlock(&block, dc, ac)

	// DC size-0 symbol, then AC EOB symbol (0x00); no raw bits emitted.
	wantBits := newBitWriter()
	wantBits.writeBits(uint32(dc.codes[0]), uint32(dc.lengths[0]))
	wantBits.writeBits(uint32(ac.codes[0x00]), uint32(ac.lengths[0x00]))
	require.Equal(t, wantBits.bytes(), bw.bytes())
}

func TestBitStuffingEscapesFF(t *testing.T) {
	bw := newBitWriter()
	bw.writeBits(0xFF, 8)
	bw.writeBits(0x00, 8)
	require.Equal(t, []byte{0xFF, 0x00, 0x00}, bw.bytes())
}

func TestEdgeReplicationClampsToLastBufferByte(t *testing.T) {
	// 5x5 RGB image: extracting an 8x8 block replicates the flat last byte
	// of the buffer into out-of-range positions, not a per-row clamp.
	width, height, bpp := 5, 5, 3
	pixels := make([]byte, width*height*bpp)
	for i := range pixels {
		pixels[i] = byte(i % 251)
	}
	lastByte := pixels[len(pixels)-1]

	block := extractBlock(pixels, width, bpp, 0, 0, 0)
	require.Equal(t, lastByte, block[63])
}

func TestEncodeCoeffSignMagnitudeOnesComplement(t *testing.T) {
	size, bits := encodeCoeff(-5)
	require.Equal(t, uint8(3), size)
	require.Equal(t, uint32(2), bits) // -5-1 = -6, masked to 3 bits = 0b010

	size, bits = encodeCoeff(0)
	require.Equal(t, uint8(0), size)
	require.Equal(t, uint32(0), bits)
}
