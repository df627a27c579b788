package ppm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelflow/imgcodec/imaging"
)

func TestEncodeDecodeRoundTripRGB(t *testing.T) {
	img := imaging.New(imaging.RGB8, 2, 2)
	img.Pix = []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img.Width, got.Width)
	require.Equal(t, img.Height, got.Height)
	require.Equal(t, img.Pix, got.Pix)
}

func TestDecodeRejectsUnknownMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("P3\n2 2\n255\n")))
	require.Error(t, err)
}

func TestDecodeSkipsCommentLines(t *testing.T) {
	data := []byte("P5\n# a comment\n1 1\n255\n\x80")
	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, img.Width)
	require.Equal(t, byte(0x80), img.Pix[0])
}
