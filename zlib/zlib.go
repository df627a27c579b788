// Package zlib wraps the inflate package with an RFC 1950 zlib header and
// Adler-32 trailer, the framing PNG's IDAT stream uses.
package zlib

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"io"

	"github.com/pkg/errors"

	"github.com/pixelflow/imgcodec/inflate"
)

// ErrHeader is returned when the 2-byte zlib header fails its check bits or
// names an unsupported compression method.
var ErrHeader = errors.New("zlib: invalid header")

// ErrChecksum is returned when the trailing Adler-32 does not match the
// decompressed data.
var ErrChecksum = errors.New("zlib: adler32 checksum mismatch")

// Reader decodes a zlib stream: a 2-byte header, a raw DEFLATE stream, and
// a trailing big-endian Adler-32 checksum of the decompressed data.
type Reader struct {
	inflate *inflate.Reader
	adler   hash.Hash32
	checked bool
}

// NewReader validates the zlib header and returns a Reader ready to
// decompress the DEFLATE payload that follows.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "zlib: read header")
	}
	cmf, flg := hdr[0], hdr[1]
	if cmf&0x0F != 8 {
		return nil, errors.Wrap(ErrHeader, "unsupported compression method")
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return nil, errors.Wrap(ErrHeader, "check bits mismatch")
	}
	if flg&0x20 != 0 {
		return nil, errors.Wrap(ErrHeader, "preset dictionary not supported")
	}

	return &Reader{
		inflate: inflate.NewReader(r),
		adler:   adler32.New(),
	}, nil
}

// Read implements io.Reader, pulling decompressed bytes from the
// underlying DEFLATE stream and feeding them to the running checksum. The
// Adler-32 trailer is read and verified on the call that observes end of
// stream.
func (z *Reader) Read(p []byte) (int, error) {
	n, err := z.inflate.Read(p)
	if n > 0 {
		z.adler.Write(p[:n])
	}
	if err == io.EOF && !z.checked {
		z.checked = true
		if cerr := z.verifyChecksum(); cerr != nil {
			return n, cerr
		}
	}
	return n, err
}

func (z *Reader) verifyChecksum() error {
	var trailer [4]byte
	if _, err := io.ReadFull(z.inflate.Inner(), trailer[:]); err != nil {
		return errors.Wrap(err, "zlib: read adler32 trailer")
	}
	want := binary.BigEndian.Uint32(trailer[:])
	if want != z.adler.Sum32() {
		return ErrChecksum
	}
	return nil
}
