package png

import "github.com/pkg/errors"

var (
	errNotPNG            = errors.New("png: not a PNG file")
	errInvalidFilterType = errors.New("png: invalid filter type byte")
	errUnsupportedFormat = errors.New("png: unsupported bit depth, interlacing, or color type")
	errMissingIHDR       = errors.New("png: IHDR chunk missing or out of order")
	errChunkCRC          = errors.New("png: chunk CRC mismatch")
)
