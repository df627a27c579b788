package inflate

import (
	"io"

	"github.com/pkg/errors"
)

// bitReader is a LSB-first bit-level reader layered over a byte source.
// Bytes are shifted into the accumulator at the top of the valid window
// (i.e. DEFLATE transmits the least-significant bit of each byte first),
// the opposite convention from the MSB-first JPEG entropy bitstream in the
// jpeg package — the two cores intentionally do not share an accumulator
// type.
type bitReader struct {
	src io.Reader

	bits     uint64 // accumulator; low bitsLeft bits are valid
	bitsLeft uint32

	buf    []byte
	bufPos int
	bufLen int
}

// newBitReader pulls bytes from r one at a time, and only when the
// accumulator needs more bits, so r is not read ahead of the bitstream and
// Reader.Inner can hand the bytes after the DEFLATE stream to the caller.
func newBitReader(r io.Reader) *bitReader {
	return &bitReader{
		src: r,
		buf: make([]byte, 1),
	}
}

// guarantee ensures the accumulator holds at least n valid bits, pulling
// bytes from the underlying reader as needed. It returns ErrTruncated
// (wrapped) if the source reaches EOF before n bits are available.
func (r *bitReader) guarantee(n uint32) error {
	for r.bitsLeft < n {
		b, err := r.readByte()
		if err != nil {
			if err == io.EOF {
				return errors.Wrapf(ErrTruncated, "need %d bits, have %d", n, r.bitsLeft)
			}
			return err
		}
		r.bits |= uint64(b) << r.bitsLeft
		r.bitsLeft += 8
	}
	return nil
}

// receive returns the low n bits of the accumulator and consumes them.
// Precondition: n <= 16 (callers never need more at once: length/distance
// extra bits top out at 13, Huffman codes at maxCodeLen).
func (r *bitReader) receive(n uint32) (uint16, error) {
	if n == 0 {
		return 0, nil
	}
	if r.bitsLeft < n {
		if err := r.guarantee(n); err != nil {
			return 0, err
		}
	}
	v := uint16(r.bits & ((1 << n) - 1))
	r.bits >>= n
	r.bitsLeft -= n
	return v, nil
}

// consume drops n bits without returning them. The caller must already
// know they are available (typically just peeked via the code table).
func (r *bitReader) consume(n uint32) {
	r.bits >>= n
	r.bitsLeft -= n
}

// byteAlign drops the 0-7 bits needed to reach a byte boundary.
func (r *bitReader) byteAlign() {
	n := r.bitsLeft % 8
	r.bits >>= n
	r.bitsLeft -= n
}

func (r *bitReader) readByte() (byte, error) {
	if r.bufPos >= r.bufLen {
		n, err := r.src.Read(r.buf)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		r.bufLen = n
		r.bufPos = 0
	}
	b := r.buf[r.bufPos]
	r.bufPos++
	return b, nil
}
