package cbor

import (
	"math"

	"github.com/oy3o/serial"
	"github.com/x448/float16"
)

// reader is both the value decoder and the composite decoder of one frame.
// All readers of a call consume the same BytesReader and share one Latch.
type reader struct {
	*serial.Latch
	serial.ElementDecoding
	c    *Cbor
	r    *serial.BytesReader
	desc *serial.Descriptor
	mode mode

	size    int // items declared by a definite-length header, -1 if indefinite
	read    int // items returned by DecodeElementIndex
	seen    serial.ElementTracker
	current int // element most recently returned, -1 before the first
	closed  bool
}

var (
	_ serial.Decoder          = (*reader)(nil)
	_ serial.CompositeDecoder = (*reader)(nil)
)

func newReader(c *Cbor, r *serial.BytesReader, latch *serial.Latch) *reader {
	d := &reader{Latch: latch, c: c, r: r, current: -1}
	d.Elements = d
	return d
}

func (d *reader) Module() *serial.Module { return d.c.module }

// SetError records err on the shared latch, filling in the input offset and
// the current class element when err does not carry them yet.
func (d *reader) SetError(err error) {
	if err == nil || d.Err() != nil {
		return
	}
	if de, ok := err.(*serial.DecodingError); ok {
		if de.Offset < 0 {
			c := *de
			c.Offset = d.r.Offset()
			de = &c
		}
		if de.Element == "" && d.mode == modeClass && d.current >= 0 {
			de = de.WithElement(d.desc.ElementName(d.current))
		}
		err = de
	}
	d.Latch.SetError(err)
}

// next reads the header of the next data item. Tags are rejected: no element
// type maps to a tagged item.
func (d *reader) next() (header, bool) {
	if d.Err() != nil {
		return header{}, false
	}
	h, err := readHeader(d.r)
	if err != nil {
		d.SetError(err)
		return h, false
	}
	if h.major == majorTag {
		d.SetError(serial.Decoding(serial.MalformedInput, h.offset, "unexpected tag %d", h.arg))
		return h, false
	}
	if h.isBreak() {
		d.SetError(serial.Decoding(serial.MalformedInput, h.offset, "unexpected break"))
		return h, false
	}
	return h, true
}

func (d *reader) mismatch(h header, want string) {
	d.SetError(serial.Decoding(serial.MalformedInput, h.offset, "expected %s, found %s", want, majorName(h.major)))
}

func (d *reader) DecodeBool() bool {
	h, ok := d.next()
	if !ok {
		return false
	}
	switch h.major | h.info {
	case simpleTrue:
		return true
	case simpleFalse:
		return false
	}
	d.mismatch(h, "bool")
	return false
}

func (d *reader) DecodeInt64() int64 {
	h, ok := d.next()
	if !ok {
		return 0
	}
	switch h.major {
	case majorUnsigned:
		v, err := serial.FitSignedFromUnsigned[int64](h.arg)
		if err != nil {
			d.SetError(err)
		}
		return v
	case majorNegative:
		v, err := serial.FitSignedFromUnsigned[int64](h.arg)
		if err != nil {
			d.SetError(serial.Decoding(serial.NumericRangeViolation, h.offset, "value -1-%d does not fit in 64 bits", h.arg))
			return 0
		}
		return -1 - v
	}
	d.mismatch(h, "integer")
	return 0
}

func (d *reader) DecodeInt8() int8 {
	v, err := serial.FitSigned[int8](d.DecodeInt64())
	d.SetError(err)
	return v
}

func (d *reader) DecodeInt16() int16 {
	v, err := serial.FitSigned[int16](d.DecodeInt64())
	d.SetError(err)
	return v
}

func (d *reader) DecodeInt32() int32 {
	v, err := serial.FitSigned[int32](d.DecodeInt64())
	d.SetError(err)
	return v
}

func (d *reader) DecodeChar() rune {
	return d.DecodeInt32()
}

// readFloat accepts half, single and double precision. It reports whether the
// value came from a double.
func (d *reader) readFloat() (float64, bool, bool) {
	h, ok := d.next()
	if !ok {
		return 0, false, false
	}
	if h.major == majorSimple {
		switch h.info {
		case infoUint16:
			return float64(float16.Frombits(uint16(h.arg)).Float32()), false, true
		case infoUint32:
			return float64(math.Float32frombits(uint32(h.arg))), false, true
		case infoUint64:
			return math.Float64frombits(h.arg), true, true
		}
	}
	d.mismatch(h, "float")
	return 0, false, false
}

// DecodeFloat32 narrows a double only when no precision is lost.
func (d *reader) DecodeFloat32() float32 {
	v, double, ok := d.readFloat()
	if !ok {
		return 0
	}
	f := float32(v)
	if double && float64(f) != v && !math.IsNaN(v) {
		d.SetError(serial.Decoding(serial.NumericRangeViolation, -1, "double %v is not representable as float32", v))
		return 0
	}
	return f
}

func (d *reader) DecodeFloat64() float64 {
	v, _, _ := d.readFloat()
	return v
}

// readString reads a byte or text string of the given major type, joining
// the chunks of an indefinite-length string.
func (d *reader) readString(major byte) ([]byte, bool) {
	h, ok := d.next()
	if !ok {
		return nil, false
	}
	if h.major != major {
		d.mismatch(h, majorName(major))
		return nil, false
	}
	if !h.indefinite {
		return d.readChunk(h)
	}
	buf := []byte{}
	for {
		ch, err := readHeader(d.r)
		if err != nil {
			d.SetError(err)
			return nil, false
		}
		if ch.isBreak() {
			return buf, true
		}
		if ch.major != major || ch.indefinite {
			d.SetError(serial.Decoding(serial.MalformedInput, ch.offset, "invalid chunk in indefinite-length %s", majorName(major)))
			return nil, false
		}
		b, ok := d.readChunk(ch)
		if !ok {
			return nil, false
		}
		buf = append(buf, b...)
	}
}

func (d *reader) readChunk(h header) ([]byte, bool) {
	n, err := h.length(d.r, 1)
	if err != nil {
		d.SetError(err)
		return nil, false
	}
	b, err := d.r.ReadBytes(n)
	if err != nil {
		d.SetError(err)
		return nil, false
	}
	return b, true
}

func (d *reader) DecodeString() string {
	b, _ := d.readString(majorText)
	return string(b)
}

// DecodeBytes returns a copy; the result never aliases the input.
func (d *reader) DecodeBytes() []byte {
	b, ok := d.readString(majorBytes)
	if !ok {
		return nil
	}
	return append([]byte{}, b...)
}

func (d *reader) DecodeEnum(desc *serial.Descriptor) int {
	name := d.DecodeString()
	if d.Err() != nil {
		return 0
	}
	i, ok := desc.ElementIndex(name)
	if !ok {
		d.SetError(serial.Decoding(serial.UnknownElement, -1, "%q is not an entry of %s", name, desc.SerialName()))
		return 0
	}
	return i
}

func (d *reader) DecodeNotNullMark() bool {
	if d.Err() != nil {
		return false
	}
	b, err := d.r.PeekByte()
	if err != nil {
		d.SetError(err)
		return false
	}
	return b != simpleNull
}

func (d *reader) DecodeNull() {
	h, ok := d.next()
	if ok && h.major|h.info != simpleNull {
		d.mismatch(h, "null")
	}
}

func (d *reader) BeginStructure(desc *serial.Descriptor) serial.CompositeDecoder {
	n := newReader(d.c, d.r, d.Latch)
	n.desc = desc
	m, ok := modeOf(desc)
	if !ok {
		d.SetError(serial.Misuse(desc.SerialName(), "%s is not a structure", desc.Kind()))
		return n
	}
	n.mode = m
	if m == modeClass {
		n.seen = serial.NewElementTracker(desc)
	}
	h, ok := d.next()
	if !ok {
		return n
	}
	want := majorMap
	if m == modeList || m == modePoly {
		want = majorArray
	}
	if h.major != want {
		d.mismatch(h, majorName(want)+" for "+desc.SerialName())
		return n
	}
	if h.indefinite {
		n.size = -1
		return n
	}
	perItem := 1
	if want == majorMap {
		perItem = 2
	}
	size, err := h.length(d.r, perItem)
	if err != nil {
		d.SetError(err)
		return n
	}
	if m == modeMap {
		// Keys and values are separate elements.
		size *= 2
	}
	n.size = size
	return n
}

func (d *reader) DecodeCollectionSize(*serial.Descriptor) int {
	switch {
	case d.size < 0:
		return -1
	case d.mode == modeList:
		return d.size
	case d.mode == modeMap:
		return d.size / 2
	}
	return -1
}

// more reports whether another item precedes the end of the structure.
func (d *reader) more() bool {
	if d.size >= 0 {
		return d.read < d.size
	}
	b, err := d.r.PeekByte()
	if err != nil {
		d.SetError(err)
		return false
	}
	return b != breakByte
}

func (d *reader) DecodeElementIndex(desc *serial.Descriptor) int {
	if d.Err() != nil {
		return serial.DecodeDone
	}
	if d.closed {
		d.SetError(serial.Misuse(desc.SerialName(), "element read after EndStructure"))
		return serial.DecodeDone
	}
	switch d.mode {
	case modeList, modeMap:
		if !d.more() {
			return serial.DecodeDone
		}
		d.read++
		return d.read - 1
	case modePoly:
		if !d.more() {
			return serial.DecodeDone
		}
		if d.read > 1 {
			d.SetError(serial.Decoding(serial.MalformedInput, -1, "polymorphic array of %s has more than two items", desc.SerialName()))
			return serial.DecodeDone
		}
		d.read++
		return d.read - 1
	case modeClass:
		return d.decodeKey(desc)
	}
	d.SetError(serial.Misuse(desc.SerialName(), "element read outside a structure"))
	return serial.DecodeDone
}

// decodeKey reads keys until one names an element of desc, skipping the
// values of unknown keys when they are tolerated.
func (d *reader) decodeKey(desc *serial.Descriptor) int {
	for d.more() {
		d.read++
		d.current = -1
		offset := d.r.Offset()
		b, err := d.r.PeekByte()
		if err != nil {
			d.SetError(err)
			return serial.DecodeDone
		}
		var key string
		if b&majorMask == majorText {
			key = d.DecodeString()
			if d.Err() != nil {
				return serial.DecodeDone
			}
			if i, ok := desc.ElementIndex(key); ok {
				d.seen.Mark(i)
				d.current = i
				return i
			}
		} else if err := skipItem(d.r); err != nil {
			d.SetError(err)
			return serial.DecodeDone
		}
		if !d.c.ignoreUnknownKeys {
			d.SetError(serial.Decoding(serial.UnknownElement, offset, "%s has no element for this key", desc.SerialName()).WithElement(key))
			return serial.DecodeDone
		}
		d.c.logger.Debug("cbor: skipping unknown key", "descriptor", desc.SerialName(), "key", key, "offset", offset)
		if err := skipItem(d.r); err != nil {
			d.SetError(err)
			return serial.DecodeDone
		}
	}
	return serial.DecodeDone
}

// ElementDecoder returns d itself: element values are read in place.
func (d *reader) ElementDecoder(*serial.Descriptor, int) serial.Decoder { return d }

func (d *reader) EndStructure(desc *serial.Descriptor) {
	if d.Err() != nil {
		return
	}
	if d.closed || d.mode == modeValue {
		d.SetError(serial.Misuse(desc.SerialName(), "EndStructure without a matching BeginStructure"))
		return
	}
	d.closed = true
	d.current = -1
	if d.size < 0 {
		h, err := readHeader(d.r)
		if err != nil {
			d.SetError(err)
			return
		}
		if !h.isBreak() {
			d.SetError(serial.Decoding(serial.MalformedInput, h.offset, "%s has unread items", desc.SerialName()))
			return
		}
	} else if d.read < d.size {
		d.SetError(serial.Decoding(serial.MalformedInput, -1, "%s has %d unread items", desc.SerialName(), d.size-d.read))
		return
	}
	if d.mode == modeClass {
		d.SetError(d.seen.CheckRequired(desc, d.r.Offset()))
	}
}
