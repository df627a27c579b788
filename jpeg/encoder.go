// Package jpeg implements a baseline JPEG encoder (ITU-T T.81), producing
// JFIF 1.02 files from RGB or grayscale pixel buffers.
package jpeg

import (
	"io"

	"github.com/pkg/errors"
)

// ColorType identifies the pixel layout accepted by Encode.
type ColorType int

const (
	RGB8 ColorType = iota
	RGBA8
	Gray8
	GrayA8
)

func (c ColorType) bytesPerPixel() int {
	switch c {
	case RGB8:
		return 3
	case RGBA8:
		return 4
	case Gray8:
		return 1
	case GrayA8:
		return 2
	default:
		return 0
	}
}

func (c ColorType) isColor() bool {
	return c == RGB8 || c == RGBA8
}

// ErrUnsupportedColorType is returned when Encode is given a ColorType it
// does not recognize.
var ErrUnsupportedColorType = errors.New("jpeg: unsupported color type")

// Encoder writes baseline JPEG files to an underlying sink. The four
// Huffman lookup tables (luma/chroma x DC/AC) and the two quantization
// tables are precomputed once at construction and reused for every Encode
// call.
type Encoder struct {
	sink io.Writer

	lumaQuant   *quantTable
	chromaQuant *quantTable

	dcLuma, acLuma     *huffmanEncodeTable
	dcChroma, acChroma *huffmanEncodeTable

	grayQuant *quantTable
}

// NewEncoder constructs an Encoder writing to sink, using the standard
// Annex K quantization tables and Annex K.3 Huffman specifications at
// default quality.
func NewEncoder(sink io.Writer) *Encoder {
	lumaQuant := newQuantTable(stdLuminanceQuantTable)
	return &Encoder{
		sink:        sink,
		lumaQuant:   lumaQuant,
		chromaQuant: newQuantTable(stdChrominanceQuantTable),
		dcLuma:      newEncodeTable(stdDCLuminanceBits, stdDCLuminanceValues),
		acLuma:      newEncodeTable(stdACLuminanceBits, stdACLuminanceValues),
		dcChroma:    newEncodeTable(stdDCChrominanceBits, stdDCChrominanceValues),
		acChroma:    newEncodeTable(stdACChrominanceBits, stdACChrominanceValues),
		grayQuant:   lumaQuant,
	}
}

// SetGrayQuantTable selects which standard quantization table encodes a
// single-component (grayscale) image: false (default) uses the luminance
// table, true reuses the chrominance table. Color images always use
// luminance for Y and chrominance for Cb/Cr regardless of this setting.
func (e *Encoder) SetGrayQuantTable(useChroma bool) {
	if useChroma {
		e.grayQuant = e.chromaQuant
	} else {
		e.grayQuant = e.lumaQuant
	}
}

// Encode writes a complete baseline JPEG file for the given pixel buffer.
// pixels holds width*height samples of colorType.bytesPerPixel() bytes
// each, row-major. Alpha channels (RGBA8, GrayA8) are accepted but ignored.
// Grayscale images encode a single component; RGB/RGBA encode three
// (4:4:4 subsampling, no chroma downsampling).
func (e *Encoder) Encode(pixels []byte, width, height int, colorType ColorType) error {
	bpp := colorType.bytesPerPixel()
	if bpp == 0 {
		return errors.Wrapf(ErrUnsupportedColorType, "color type %d", colorType)
	}

	bw := newBitWriter()
	sw := newSegmentWriter(bw)

	sw.writeSOI()
	sw.writeAPP0()

	color := colorType.isColor()
	// A grayscale image is quantized with e.grayQuant, so DQT 0 carries
	// whichever standard table that is.
	table0 := stdLuminanceQuantTable
	if !color && e.grayQuant == e.chromaQuant {
		table0 = stdChrominanceQuantTable
	}
	sw.writeDQT(0, table0)

	if color {
		sw.writeDQT(1, stdChrominanceQuantTable)
	}

	sw.writeDHT([]huffSpec{
		{class: 0, id: 0, bits: stdDCLuminanceBits, values: stdDCLuminanceValues},
		{class: 1, id: 0, bits: stdACLuminanceBits, values: stdACLuminanceValues},
	})
	if color {
		sw.writeDHT([]huffSpec{
			{class: 0, id: 1, bits: stdDCChrominanceBits, values: stdDCChrominanceValues},
			{class: 1, id: 1, bits: stdACChrominanceBits, values: stdACChrominanceValues},
		})
	}

	var components []sofComponent
	var scanComponents []sosComponent
	if color {
		components = []sofComponent{
			{id: 1, hv: 0x11, qtable: 0},
			{id: 2, hv: 0x11, qtable: 1},
			{id: 3, hv: 0x11, qtable: 1},
		}
		scanComponents = []sosComponent{
			{id: 1, dcac: 0x00},
			{id: 2, dcac: 0x11},
			{id: 3, dcac: 0x11},
		}
	} else {
		components = []sofComponent{{id: 1, hv: 0x11, qtable: 0}}
		scanComponents = []sosComponent{{id: 1, dcac: 0x00}}
	}
	sw.writeSOF0(width, height, components)
	sw.writeSOS(scanComponents)

	if err := e.encodeScan(bw, pixels, width, height, bpp, color); err != nil {
		return err
	}

	bw.flushWithFillBits()
	sw.writeEOI()

	_, err := e.sink.Write(bw.bytes())
	return errors.Wrap(err, "jpeg: write output")
}

// encodeScan walks the image in MCU raster order (one 8x8 block per
// component per MCU, since 4:4:4 means one MCU == one block position),
// entropy-coding luma then Cb then Cr for each block position.
func (e *Encoder) encodeScan(bw *bitWriter, pixels []byte, width, height, bpp int, color bool) error {
	yCoder := newBlockCoder(bw)
	cbCoder := newBlockCoder(bw)
	crCoder := newBlockCoder(bw)

	blocksX := (width + 7) / 8
	blocksY := (height + 7) / 8

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			x0, y0 := bx*8, by*8

			if !color {
				block := extractBlock(pixels, width, bpp, x0, y0, grayscaleChannel)
				e.encodeOneBlock(yCoder, block, e.grayQuant, e.dcLuma, e.acLuma)
				continue
			}

			yBlock, cbBlock, crBlock := e.extractYCbCrBlocks(pixels, width, bpp, x0, y0)
			e.encodeOneBlock(yCoder, yBlock, e.lumaQuant, e.dcLuma, e.acLuma)
			e.encodeOneBlock(cbCoder, cbBlock, e.chromaQuant, e.dcChroma, e.acChroma)
			e.encodeOneBlock(crCoder, crBlock, e.chromaQuant, e.dcChroma, e.acChroma)
		}
	}
	return nil
}

// extractYCbCrBlocks extracts the R, G, B planes independently (each using
// extractBlock's flat-index clamp) and converts sample by sample, so the
// edge-replication quirk applies per channel exactly as it does for
// grayscale extraction.
func (e *Encoder) extractYCbCrBlocks(pixels []byte, width, bpp, x0, y0 int) (y, cb, cr [64]byte) {
	rBlock := extractBlock(pixels, width, bpp, x0, y0, 0)
	gBlock := extractBlock(pixels, width, bpp, x0, y0, 1)
	bBlock := extractBlock(pixels, width, bpp, x0, y0, 2)
	for i := 0; i < 64; i++ {
		y[i], cb[i], cr[i] = rgbToYCbCr(rBlock[i], gBlock[i], bBlock[i])
	}
	return
}

func (e *Encoder) encodeOneBlock(coder *blockCoder, block [64]byte, q *quantTable, dc, ac *huffmanEncodeTable) {
	var shifted [64]int32
	for i, b := range block {
		shifted[i] = int32(b) - 128
	}
	coeffs := forwardDCT(&shifted)
	quantized := q.quantize(&coeffs)
	coder.encodeBlock(&quantized, dc, ac)
}
