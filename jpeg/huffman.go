package jpeg

// huffmanEncodeTable is a flat per-symbol (code, length) lookup built from a
// canonical code-length specification, the encoder-side counterpart of the
// two-level decode tables used by the inflate package.
type huffmanEncodeTable struct {
	codes   [256]uint16
	lengths [256]uint8
}

// newEncodeTable builds the canonical codes for a Huffman specification in
// the Annex K.3 shape: bits[n-1] counts how many symbols have code length n,
// and values lists those symbols in code-length-then-value order.
func newEncodeTable(bits [16]byte, values []byte) *huffmanEncodeTable {
	t := &huffmanEncodeTable{}

	code := uint16(0)
	symbolIdx := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(bits[length-1]); i++ {
			symbol := values[symbolIdx]
			t.codes[symbol] = code
			t.lengths[symbol] = uint8(length)
			code++
			symbolIdx++
		}
		code <<= 1
	}
	return t
}
