package inflate

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Two-level canonical Huffman decode table, modeled on the lookup
// structure used by the Go standard library's compress/flate (and by
// dsnet/compress's prefix decoder): a 2^tableBits primary table gives a
// one-step decode for any code no longer than tableBits; longer codes fall
// through to a secondary "link" table selected by the low tableBits of the
// code and indexed by the remaining high-order bits.
//
// Each table entry packs (value, length) into a uint32: value in the high
// bits, length in the low 4 bits. Length 0 marks an entry that was never
// populated; a zero-valued codeTable decodes nothing. A primary entry whose
// stored length equals linkMarker means "this index is ambiguous between
// codes longer than tableBits; consult links[value]", where value there is
// an index into the links slice, not a symbol.
const (
	tableBits = 9
	numChunks = 1 << tableBits
	lenMask   = 0xF
	// maxCodeLen is RFC 1951's limit on any single Huffman code, literal/
	// length or distance (§3.2.7).
	maxCodeLen = 15
	linkMarker = tableBits + 1
)

type codeTable struct {
	min     int
	primary [numChunks]uint32
	links   [][]uint32
	linkMask uint32
}

func pack(value uint32, length int) uint32 {
	return value<<4 | uint32(length)
}

// newCodeTable builds a canonical Huffman decode table from a length
// vector: lengths[i] is the code length for symbol i, or 0 if symbol i is
// absent. Construction follows RFC 1951 §3.2.2's canonical-code recurrence.
func newCodeTable(lengths []int) (*codeTable, error) {
	var count [maxCodeLen + 1]int
	min, max := 0, 0
	for _, n := range lengths {
		if n == 0 {
			continue
		}
		if n < 0 || n > maxCodeLen {
			return nil, errors.Wrapf(ErrCorrupted, "invalid code length %d", n)
		}
		if min == 0 || n < min {
			min = n
		}
		if n > max {
			max = n
		}
		count[n]++
	}

	t := &codeTable{min: min}
	if max == 0 {
		// No symbols assigned at all; every lookup will fail with
		// ErrCorrupted, which is correct for a degenerate table.
		return t, nil
	}

	var linkBits uint
	var numLinks int
	if max > tableBits {
		linkBits = uint(max - tableBits)
		numLinks = 1 << linkBits
		t.linkMask = uint32(numLinks - 1)
	}

	// next_code[len] per the canonical recurrence.
	var nextCode [maxCodeLen + 1]int
	code := 0
	for length := 1; length <= max; length++ {
		if length == tableBits+1 {
			// Every primary index that still maps to a code longer than
			// tableBits gets a link-table placeholder.
			link := code >> 1
			if link > numChunks {
				return nil, errors.Wrap(ErrCorrupted, "huffman tree overflows table")
			}
			t.links = make([][]uint32, numChunks-link)
			for j := link; j < numChunks; j++ {
				reversed := int(bits.Reverse16(uint16(j))) >> (16 - tableBits)
				off := uint32(j - link)
				t.primary[reversed] = pack(off, linkMarker)
				t.links[off] = make([]uint32, numLinks)
			}
		}
		nextCode[length] = code
		code += count[length]
		code <<= 1
	}

	symIdx := make([]int, max+1)
	for length := 1; length <= max; length++ {
		symIdx[length] = nextCode[length]
	}
	for sym, length := range lengths {
		if length == 0 {
			continue
		}
		c := symIdx[length]
		symIdx[length]++

		reversed := int(bits.Reverse16(uint16(c))) >> (16 - length)
		chunk := pack(uint32(sym), length)

		if length <= tableBits {
			for off := reversed; off < numChunks; off += 1 << uint(length) {
				t.primary[off] = chunk
			}
		} else {
			primaryIdx := reversed & (numChunks - 1)
			linkIdx := t.primary[primaryIdx] >> 4
			if int(linkIdx) >= len(t.links) {
				return nil, errors.Wrap(ErrCorrupted, "huffman link index out of range")
			}
			linktab := t.links[linkIdx]
			hi := reversed >> tableBits
			for off := hi; off < numLinks; off += 1 << uint(length-tableBits) {
				linktab[off] = chunk
			}
		}
	}

	return t, nil
}

// decodeSymbol peeks the low tableBits bits, resolves via the primary
// table (or its link table for long codes), and only guarantees more
// input bits when the resolved code turns out to be longer than what's
// currently buffered.
func (t *codeTable) decodeSymbol(br *bitReader) (int, error) {
	for {
		idx := uint32(br.bits) & (numChunks - 1)
		chunk := t.primary[idx]
		n := chunk & lenMask

		if n > tableBits {
			if n != linkMarker {
				return 0, errors.Wrap(ErrCorrupted, "invalid huffman table state")
			}
			linkIdx := chunk >> 4
			sub := t.links[linkIdx][(uint32(br.bits)>>tableBits)&t.linkMask]
			n = sub & lenMask
			if n == 0 {
				return 0, errors.Wrap(ErrCorrupted, "invalid huffman code")
			}
			if uint32(n) > br.bitsLeft {
				if err := br.guarantee(uint32(n)); err != nil {
					return 0, err
				}
				continue
			}
			br.consume(uint32(n))
			return int(sub >> 4), nil
		}

		if n == 0 {
			return 0, errors.Wrap(ErrCorrupted, "invalid huffman code")
		}
		if uint32(n) > br.bitsLeft {
			if err := br.guarantee(uint32(n)); err != nil {
				return 0, err
			}
			continue
		}
		br.consume(uint32(n))
		return int(chunk >> 4), nil
	}
}
