package jpeg

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerDQT  = 0xDB
	markerDHT  = 0xC4
	markerAPP0 = 0xE0
	markerSOF0 = 0xC0
)

// segmentWriter emits marker-framed JPEG segments (SOI, APP0/JFIF, DQT,
// DHT, SOF0, SOS, EOI) ahead of the entropy-coded scan data.
type segmentWriter struct {
	bw *bitWriter
}

func newSegmentWriter(bw *bitWriter) *segmentWriter {
	return &segmentWriter{bw: bw}
}

func (s *segmentWriter) marker(code byte) {
	s.bw.writeMarkerByte(0xFF)
	s.bw.writeMarkerByte(code)
}

func (s *segmentWriter) writeSOI() {
	s.marker(markerSOI)
}

func (s *segmentWriter) writeEOI() {
	s.marker(markerEOI)
}

// writeAPP0 emits the JFIF application segment: identifier "JFIF\0",
// version 1.02, density units 0 (aspect ratio only), density 1x1, no
// thumbnail.
func (s *segmentWriter) writeAPP0() {
	s.marker(markerAPP0)
	payload := []byte{
		'J', 'F', 'I', 'F', 0x00,
		1, 2, // version 1.02
		0,    // density units
		0, 1, // X density
		0, 1, // Y density
		0, 0, // thumbnail width/height
	}
	s.writeSegmentBody(payload)
}

// writeDQT emits one Define Quantization Table segment (8-bit precision,
// single table) with the given identifier and zig-zag-ordered values.
func (s *segmentWriter) writeDQT(id byte, zigzagValues [64]uint16) {
	s.marker(markerDQT)
	payload := make([]byte, 0, 65)
	payload = append(payload, id&0x0F)
	for _, v := range zigzagValues {
		payload = append(payload, byte(v))
	}
	s.writeSegmentBody(payload)
}

// huffSpec bundles an Annex K.3-shaped bits/values pair with the class/id
// nibble used in a DHT segment (class 0 = DC, 1 = AC).
type huffSpec struct {
	class, id byte
	bits      [16]byte
	values    []byte
}

func (s *segmentWriter) writeDHT(specs []huffSpec) {
	s.marker(markerDHT)
	payload := []byte{}
	for _, h := range specs {
		payload = append(payload, (h.class<<4)|h.id)
		payload = append(payload, h.bits[:]...)
		payload = append(payload, h.values...)
	}
	s.writeSegmentBody(payload)
}

type sofComponent struct {
	id     byte
	hv     byte
	qtable byte
}

func (s *segmentWriter) writeSOF0(width, height int, components []sofComponent) {
	s.marker(markerSOF0)
	payload := []byte{8, byte(height >> 8), byte(height), byte(width >> 8), byte(width), byte(len(components))}
	for _, c := range components {
		payload = append(payload, c.id, c.hv, c.qtable)
	}
	s.writeSegmentBody(payload)
}

type sosComponent struct {
	id   byte
	dcac byte
}

func (s *segmentWriter) writeSOS(components []sosComponent) {
	s.marker(markerSOS)
	payload := []byte{byte(len(components))}
	for _, c := range components {
		payload = append(payload, c.id, c.dcac)
	}
	payload = append(payload, 0, 63, 0) // spectral_start, spectral_end, approx
	s.writeSegmentBody(payload)
}

// writeSegmentBody writes the big-endian length (payload size + 2) then the
// payload, unescaped: marker-segment bytes are never byte-stuffed.
func (s *segmentWriter) writeSegmentBody(payload []byte) {
	length := len(payload) + 2
	s.bw.writeMarkerByte(byte(length >> 8))
	s.bw.writeMarkerByte(byte(length))
	for _, b := range payload {
		s.bw.writeMarkerByte(b)
	}
}
