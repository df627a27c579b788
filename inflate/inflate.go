package inflate

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

type blockState int

const (
	stateAwaitingHeader blockState = iota
	stateDone
)

// Reader decodes a raw DEFLATE stream (RFC 1951) read from an underlying
// io.Reader. It implements io.Reader: callers pull decoded bytes via Read
// the same way they would from any other stream; EOF is returned once the
// final block has been fully drained.
//
// Reader owns a growable output buffer and a read cursor into it: decoding
// appends to the buffer and Read advances the cursor, so already-decoded
// bytes survive a later decode error; Read returns them together with that
// error.
type Reader struct {
	br    *bitReader
	state blockState
	final bool

	out     []byte
	readPos int
}

// NewReader constructs a Reader over r. No bytes are read until the first
// call to Read.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:  newBitReader(r),
		out: make([]byte, 0, 4096),
	}
}

// Inner returns the underlying byte source, for callers (such as the zlib
// package, which reads the Adler-32 trailer) that need to keep reading raw bytes from the same stream after
// the DEFLATE stream ends.
func (z *Reader) Inner() io.Reader {
	return z.br.src
}

// EOF reports whether the final block has been fully decoded and drained.
func (z *Reader) EOF() bool {
	return z.state == stateDone && z.readPos >= len(z.out)
}

// Read implements io.Reader. It returns io.EOF once the final DEFLATE
// block has been decoded and all of its output consumed.
func (z *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for z.readPos >= len(z.out) {
		if z.final {
			return 0, io.EOF
		}
		if err := z.decodeBlock(); err != nil {
			n := copy(p, z.out[z.readPos:])
			z.readPos += n
			return n, err
		}
	}

	n := copy(p, z.out[z.readPos:])
	z.readPos += n
	return n, nil
}

// decodeBlock decodes exactly one DEFLATE block, appending its output to
// z.out. It sets z.final once a block with BFINAL=1 completes.
func (z *Reader) decodeBlock() error {
	bfinal, err := z.br.receive(1)
	if err != nil {
		return err
	}
	btype, err := z.br.receive(2)
	if err != nil {
		return err
	}

	switch btype {
	case 0:
		if err := z.readStoredBlock(); err != nil {
			return err
		}
	case 1:
		litTable, distTable, err := fixedTables()
		if err != nil {
			return err
		}
		if err := z.readCompressedBlock(litTable, distTable); err != nil {
			return err
		}
	case 2:
		litTable, distTable, err := z.readDynamicTables()
		if err != nil {
			return err
		}
		if err := z.readCompressedBlock(litTable, distTable); err != nil {
			return err
		}
	default:
		return errors.Wrap(ErrCorrupted, "reserved BTYPE 3")
	}

	if bfinal == 1 {
		z.final = true
		z.state = stateDone
	}
	return nil
}

var (
	fixedOnce           sync.Once
	fixedLit, fixedDist *codeTable
	fixedErr            error
)

// fixedTables lazily builds the two fixed-Huffman tables (the BTYPE=01
// path) once per process and shares them read-only across every Reader,
// since the tables themselves never change once built.
func fixedTables() (*codeTable, *codeTable, error) {
	fixedOnce.Do(func() {
		fixedLit, fixedErr = newCodeTable(fixedLitLenLengths())
		if fixedErr != nil {
			return
		}
		fixedDist, fixedErr = newCodeTable(fixedDistLengths())
	})
	return fixedLit, fixedDist, fixedErr
}

// readStoredBlock implements the BTYPE=00 path: byte-align, read LEN and
// its one's-complement (the complement is not verified against LEN), then
// copy LEN bytes verbatim.
func (z *Reader) readStoredBlock() error {
	z.br.byteAlign()

	length, err := z.br.receive(16)
	if err != nil {
		return err
	}
	if _, err := z.br.receive(16); err != nil { // ~LEN, intentionally unverified
		return err
	}

	for i := uint16(0); i < length; i++ {
		b, err := z.br.receive(8)
		if err != nil {
			return err
		}
		z.out = append(z.out, byte(b))
	}
	return nil
}

// readDynamicTables implements the BTYPE=10 path: parse HLIT/HDIST/HCLEN,
// the code-length alphabet, then the literal/length and distance code
// length vectors (with the 16/17/18 run-length escapes), and build the two
// resulting canonical tables.
func (z *Reader) readDynamicTables() (*codeTable, *codeTable, error) {
	hlit, err := z.br.receive(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := z.br.receive(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := z.br.receive(4)
	if err != nil {
		return nil, nil, err
	}

	numLit := int(hlit) + 257
	numDist := int(hdist) + 1
	numClen := int(hclen) + 4

	clLengths := make([]int, 19)
	for i := 0; i < numClen; i++ {
		v, err := z.br.receive(3)
		if err != nil {
			return nil, nil, err
		}
		clLengths[codeLengthOrder[i]] = int(v)
	}

	clTable, err := newCodeTable(clLengths)
	if err != nil {
		return nil, nil, err
	}

	total := numLit + numDist
	lengths := make([]int, total)
	i := 0
	var prev int
	for i < total {
		sym, err := clTable.decodeSymbol(z.br)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			lengths[i] = sym
			prev = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, errors.Wrap(ErrCorrupted, "repeat code with no previous length")
			}
			extra, err := z.br.receive(2)
			if err != nil {
				return nil, nil, err
			}
			repeat := 3 + int(extra)
			for n := 0; n < repeat && i < total; n++ {
				lengths[i] = prev
				i++
			}
		case sym == 17:
			extra, err := z.br.receive(3)
			if err != nil {
				return nil, nil, err
			}
			repeat := 3 + int(extra)
			for n := 0; n < repeat && i < total; n++ {
				lengths[i] = 0
				i++
			}
			prev = 0
		case sym == 18:
			extra, err := z.br.receive(7)
			if err != nil {
				return nil, nil, err
			}
			repeat := 11 + int(extra)
			for n := 0; n < repeat && i < total; n++ {
				lengths[i] = 0
				i++
			}
			prev = 0
		default:
			return nil, nil, errors.Wrapf(ErrCorrupted, "invalid code-length symbol %d", sym)
		}
	}

	litTable, err := newCodeTable(lengths[:numLit])
	if err != nil {
		return nil, nil, err
	}
	distTable, err := newCodeTable(lengths[numLit:])
	if err != nil {
		return nil, nil, err
	}
	return litTable, distTable, nil
}

// readCompressedBlock decodes the body of a fixed- or dynamic-Huffman
// block: a stream of literal/length symbols, each either a literal byte,
// the end-of-block marker, or a (length, distance) LZ77 back-reference.
func (z *Reader) readCompressedBlock(litTable, distTable *codeTable) error {
	for {
		sym, err := litTable.decodeSymbol(z.br)
		if err != nil {
			return err
		}

		switch {
		case sym < 256:
			z.out = append(z.out, byte(sym))

		case sym == 256:
			return nil

		case sym <= 285:
			idx := sym - 257
			length := lengthBase[idx]
			if n := lengthExtraBits[idx]; n > 0 {
				extra, err := z.br.receive(n)
				if err != nil {
					return err
				}
				length += int(extra)
			}

			dsym, err := distTable.decodeSymbol(z.br)
			if err != nil {
				return err
			}
			if dsym >= len(distBase) {
				return errors.Wrapf(ErrCorrupted, "invalid distance symbol %d", dsym)
			}
			distance := distBase[dsym]
			if n := distExtraBits[dsym]; n > 0 {
				extra, err := z.br.receive(n)
				if err != nil {
					return err
				}
				distance += int(extra)
			}

			if distance > len(z.out) {
				return errors.Wrapf(ErrCorrupted, "distance %d exceeds output size %d", distance, len(z.out))
			}

			// Copy byte by byte (not via copy()) so that overlapping
			// back-references (distance < length) replicate correctly,
			//
			start := len(z.out) - distance
			for n := 0; n < length; n++ {
				z.out = append(z.out, z.out[start+n])
			}

		default:
			return errors.Wrapf(ErrCorrupted, "invalid literal/length symbol %d", sym)
		}
	}
}
