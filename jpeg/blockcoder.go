package jpeg

// blockCoder writes the differential-DC, run-length-AC entropy coding for a
// sequence of 8x8 blocks sharing one DC/AC Huffman table pair (Annex F.2).
// dcPred carries the previous block's raw DC value across calls.
type blockCoder struct {
	bw     *bitWriter
	dcPred int32
}

func newBlockCoder(bw *bitWriter) *blockCoder {
	return &blockCoder{bw: bw}
}

// encodeBlock writes one block's DC and AC coefficients, given in natural
// (row-major) order, using the zig-zag scan for the AC run-length pass.
func (c *blockCoder) encodeBlock(natural *[64]int16, dcTable, acTable *huffmanEncodeTable) {
	diff := int32(natural[0]) - c.dcPred
	c.dcPred = int32(natural[0])
	c.encodeDC(diff, dcTable)
	c.encodeAC(natural, acTable)
}

// encodeCoeff returns the category (bit size) and the raw bits for a signed
// coefficient: bits equal the value itself when non-negative, or the value
// minus one (sign-magnitude-ones-complement) masked to size bits otherwise.
func encodeCoeff(v int32) (size uint8, bits uint32) {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	for t := abs; t > 0; t >>= 1 {
		size++
	}
	if size == 0 {
		return 0, 0
	}
	if v >= 0 {
		bits = uint32(v)
	} else {
		bits = uint32(v-1) & ((1 << size) - 1)
	}
	return size, bits
}

func (c *blockCoder) encodeDC(diff int32, table *huffmanEncodeTable) {
	size, bits := encodeCoeff(diff)
	c.bw.writeBits(uint32(table.codes[size]), uint32(table.lengths[size]))
	if size > 0 {
		c.bw.writeBits(bits, uint32(size))
	}
}

func (c *blockCoder) encodeAC(natural *[64]int16, table *huffmanEncodeTable) {
	zeroRun := 0
	for zz := 1; zz < 64; zz++ {
		coef := int32(natural[unzigzag[zz]])

		if coef == 0 {
			zeroRun++
			continue
		}

		for zeroRun >= 16 {
			c.bw.writeBits(uint32(table.codes[0xF0]), uint32(table.lengths[0xF0]))
			zeroRun -= 16
		}

		size, bits := encodeCoeff(coef)
		symbol := byte(zeroRun<<4) | size
		c.bw.writeBits(uint32(table.codes[symbol]), uint32(table.lengths[symbol]))
		c.bw.writeBits(bits, uint32(size))
		zeroRun = 0
	}

	if zeroRun > 0 {
		c.bw.writeBits(uint32(table.codes[0x00]), uint32(table.lengths[0x00])) // EOB
	}
}
