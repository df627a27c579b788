package inflate

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, data []byte) []byte {
	t.Helper()
	r := NewReader(bytes.NewReader(data))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, r.EOF())
	return got
}

func TestFixedHuffmanHello(t *testing.T) {
	data := []byte{0xF3, 0x48, 0xCD, 0xC9, 0xC9, 0x07, 0x00}
	got := decodeAll(t, data)
	require.Equal(t, []byte("Hello"), got)
}

func TestStoredBlock(t *testing.T) {
	data := []byte{0x01, 0x03, 0x00, 0xFC, 0xFF, 0xAA, 0xBB, 0xCC}
	got := decodeAll(t, data)
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, got)
}

// TestOverlappingBackReference encodes "aaaaaaaa" as a literal 'a' followed
// by a (length=7, distance=1) back-reference, an overlapping copy since
// distance < length.
func TestOverlappingBackReference(t *testing.T) {
	bw := newRawDeflateWriter()
	bw.literal('a')
	bw.backref(7, 1)
	bw.endBlock()
	data := bw.finish()

	got := decodeAll(t, data)
	require.Equal(t, bytes.Repeat([]byte("a"), 8), got)
}

func TestReadReturnsPartialBeforeError(t *testing.T) {
	// Truncated fixed-Huffman stream: the first five bytes of a "Hello"
	// block end inside the code for 'o', so only "Hell" decodes before the
	// stream runs out. Already-decoded bytes must still be returned.
	data := []byte{0xF2, 0x48, 0xCD, 0xC9, 0xC9}
	r := NewReader(bytes.NewReader(data))
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.Equal(t, "Hell", string(buf[:n]))
	if err == nil {
		// Next read should surface the truncation.
		_, err = r.Read(buf)
	}
	require.Error(t, err)
}

// rawDeflateWriter is a tiny hand-rolled DEFLATE bit-stream builder used
// only by tests, to construct fixed-Huffman blocks byte-exactly without
// depending on any encoder.
type rawDeflateWriter struct {
	bits  uint64
	nbits uint32
	out   []byte
}

func newRawDeflateWriter() *rawDeflateWriter {
	w := &rawDeflateWriter{}
	// BFINAL=1, BTYPE=01 (fixed Huffman), both transmitted LSB-first: the
	// 3-bit field 0b011 (BTYPE in bits 2:1, BFINAL in bit 0) goes out as
	// bits 1,1,0.
	w.writeBits(0b011, 3)
	return w
}

func (w *rawDeflateWriter) writeBits(v uint32, n uint32) {
	w.bits |= uint64(v) << w.nbits
	w.nbits += n
	for w.nbits >= 8 {
		w.out = append(w.out, byte(w.bits))
		w.bits >>= 8
		w.nbits -= 8
	}
}

// fixedLitCode returns the (code, length) pair for a literal/length symbol
// under the fixed Huffman code (RFC 1951 §3.2.6), LSB-first bit order.
func fixedLitCode(sym int) (uint32, uint32) {
	var code, length int
	switch {
	case sym <= 143:
		code, length = 0x30+sym, 8
	case sym <= 255:
		code, length = 0x190+(sym-144), 9
	case sym <= 279:
		code, length = sym-256, 7
	default:
		code, length = 0xC0+(sym-280), 8
	}
	return reverseBits(uint32(code), uint32(length)), uint32(length)
}

func reverseBits(v uint32, n uint32) uint32 {
	var r uint32
	for i := uint32(0); i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

func (w *rawDeflateWriter) literal(b byte) {
	code, length := fixedLitCode(int(b))
	w.writeBits(code, length)
}

func (w *rawDeflateWriter) backref(length, distance int) {
	// length=7 -> symbol 261 (base 7, no extra bits) per lengthBase table.
	sym := -1
	for i, base := range lengthBase {
		if base == length {
			sym = 257 + i
			break
		}
	}
	if sym < 0 {
		panic("unsupported test length")
	}
	code, clen := fixedLitCode(sym)
	w.writeBits(code, clen)

	dsym := -1
	for i, base := range distBase {
		if base == distance {
			dsym = i
			break
		}
	}
	if dsym < 0 {
		panic("unsupported test distance")
	}
	// Fixed distance code: 5 bits, MSB-first value == symbol, bit-reversed
	// for the LSB-first stream.
	w.writeBits(reverseBits(uint32(dsym), 5), 5)
}

func (w *rawDeflateWriter) endBlock() {
	code, length := fixedLitCode(256)
	w.writeBits(code, length)
}

func (w *rawDeflateWriter) finish() []byte {
	if w.nbits > 0 {
		w.out = append(w.out, byte(w.bits))
	}
	return w.out
}
