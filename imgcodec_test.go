package imgcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixelflow/imgcodec/imaging"
)

func TestGuessFormatPNG(t *testing.T) {
	require.Equal(t, "png", guessFormat(pngSignature))
}

func TestGuessFormatJPEG(t *testing.T) {
	require.Equal(t, "jpeg", guessFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
}

func TestGuessFormatUnknown(t *testing.T) {
	require.Equal(t, "", guessFormat([]byte{0x00, 0x01, 0x02}))
}

func TestEncodeJPEGDispatch(t *testing.T) {
	img := imaging.New(imaging.Gray8, 8, 8)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "jpeg"))
	require.Equal(t, []byte{0xFF, 0xD8}, buf.Bytes()[:2])
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
