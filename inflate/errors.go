// Package inflate implements a RFC 1951 DEFLATE decompressor: a bit-level,
// Huffman-coded decoder with LZ77 back-references. It is the hard core that
// the png package layers a zlib (RFC 1950) wrapper around.
package inflate

import "github.com/pkg/errors"

// Sentinel errors returned by Reader. Wrap with errors.Wrap/Wrapf at call
// sites that want to add context; errors.Is still matches these.
var (
	// ErrTruncated means the underlying byte source hit EOF before the
	// bitstream's logical end (a block claimed BFINAL=0, or a length/code
	// needed more bits than were available).
	ErrTruncated = errors.New("inflate: truncated stream")

	// ErrCorrupted means the bitstream violated RFC 1951: a reserved BTYPE,
	// an invalid Huffman code, a back-reference distance that exceeds the
	// bytes produced so far, or an invalid length/distance symbol.
	ErrCorrupted = errors.New("inflate: corrupted bitstream")
)
