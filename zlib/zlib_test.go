package zlib

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// zlibFixedHuffmanHello wraps the inflate package's "Hello" fixed-Huffman
// fixture in a minimal zlib header (CMF=0x78, FLG=0x9C, a valid check-bits
// pair for compression method 8 / window 32K) and its Adler-32 trailer.
func zlibFixedHuffmanHello() []byte {
	body := []byte{0xF3, 0x48, 0xCD, 0xC9, 0xC9, 0x07, 0x00}
	// Adler-32 of "Hello", big-endian.
	trailer := []byte{0x05, 0x8C, 0x01, 0xF5}
	out := append([]byte{0x78, 0x9C}, body...)
	return append(out, trailer...)
}

func TestReaderDecodesAndVerifiesChecksum(t *testing.T) {
	data := zlibFixedHuffmanHello()
	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), got)
}

func TestReaderRejectsBadChecksum(t *testing.T) {
	data := zlibFixedHuffmanHello()
	data[len(data)-1] ^= 0xFF // corrupt the trailer

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = io.ReadAll(r)
	require.ErrorIs(t, err, ErrChecksum)
}

func TestReaderRejectsBadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0x08, 0x1C}))
	require.Error(t, err)
}
