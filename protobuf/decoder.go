package protobuf

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/oy3o/serial"
)

// reader implements both decoder interfaces; which methods are legal depends on its role.
type reader struct {
	*serial.Latch
	serial.ElementDecoding
	p    *ProtoBuf
	r    *serial.BytesReader
	role role

	// field role; number and wireType also track the current item of
	// repeated and map roles
	number   protowire.Number
	wireType protowire.Type
	intType  IntegerType
	offset   int    // offset of the field key
	element  string // element name for error reports
	repeated bool
	absent   bool // a map entry without a value

	// message role
	desc    *serial.Descriptor
	msg     *message
	seen    serial.ElementTracker
	current int

	// repeated and map roles
	pending    bool // the key of the first item was consumed by the parent
	read       int
	key, value *reader

	field  *reader // reused for the value of the current element
	closed bool
}

var (
	_ serial.Decoder          = (*reader)(nil)
	_ serial.CompositeDecoder = (*reader)(nil)
)

func newRootReader(p *ProtoBuf, r *serial.BytesReader, latch *serial.Latch) *reader {
	return newReader(p, r, latch, roleRoot)
}

func newReader(p *ProtoBuf, r *serial.BytesReader, latch *serial.Latch, ro role) *reader {
	d := &reader{Latch: latch, p: p, r: r, role: ro, current: -1}
	d.Elements = d
	return d
}

func (d *reader) Module() *serial.Module { return d.p.module }

// SetError records err on the shared latch, filling in the input offset and
// element name when err does not carry them yet.
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
		if de.Element == "" {
			switch {
			case d.element != "":
				de = de.WithElement(d.element)
			case d.role == roleMessage && d.current >= 0:
				de = de.WithElement(d.desc.ElementName(d.current))
			}
		}
		err = de
	}
	d.Latch.SetError(err)
}

// expect checks that a scalar of wire type typ can be read here.
func (d *reader) expect(typ protowire.Type) bool {
	if d.Err() != nil {
		return false
	}
	switch {
	case d.role != roleField:
		d.SetError(serial.Misuse("", "a scalar cannot be read outside a field; the top-level value must be a message"))
		return false
	case d.absent:
		d.SetError(serial.Decoding(serial.MalformedInput, d.offset, "map entry has no value"))
		return false
	case d.wireType != typ:
		d.SetError(serial.Decoding(serial.UnexpectedWireType, d.offset, "field %d has wire type %d, want %d", d.number, d.wireType, typ))
		return false
	}
	return true
}

func (d *reader) varint() (uint64, bool) {
	if !d.expect(protowire.VarintType) {
		return 0, false
	}
	v, err := d.r.ReadUvarint()
	if err != nil {
		d.SetError(err)
		return 0, false
	}
	return v, true
}

func (d *reader) fixed32() (uint32, bool) {
	if !d.expect(protowire.Fixed32Type) {
		return 0, false
	}
	v, err := d.r.ReadUint32()
	if err != nil {
		d.SetError(err)
		return 0, false
	}
	return v, true
}

func (d *reader) fixed64() (uint64, bool) {
	if !d.expect(protowire.Fixed64Type) {
		return 0, false
	}
	v, err := d.r.ReadUint64()
	if err != nil {
		d.SetError(err)
		return 0, false
	}
	return v, true
}

func (d *reader) bytes() ([]byte, bool) {
	if !d.expect(protowire.BytesType) {
		return nil, false
	}
	n, err := readLen(d.r)
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

// decodeInt reads an integer in the element's integer mode. Range checks
// against narrower targets are left to the caller.
func (d *reader) decodeInt(bits int) int64 {
	switch d.intType {
	case TypeSigned:
		v, _ := d.varint()
		return protowire.DecodeZigZag(v)
	case TypeFixed:
		if bits <= 32 {
			v, _ := d.fixed32()
			return int64(int32(v))
		}
		v, _ := d.fixed64()
		return int64(v)
	}
	v, _ := d.varint()
	return int64(v)
}

func (d *reader) DecodeInt8() int8 {
	v, err := serial.FitSigned[int8](d.decodeInt(8))
	d.SetError(err)
	return v
}

func (d *reader) DecodeInt16() int16 {
	v, err := serial.FitSigned[int16](d.decodeInt(16))
	d.SetError(err)
	return v
}

func (d *reader) DecodeInt32() int32 {
	v, err := serial.FitSigned[int32](d.decodeInt(32))
	d.SetError(err)
	return v
}

func (d *reader) DecodeInt64() int64 { return d.decodeInt(64) }

func (d *reader) DecodeBool() bool {
	v, _ := d.varint()
	return protowire.DecodeBool(v)
}

func (d *reader) DecodeChar() rune {
	v, ok := d.varint()
	if !ok {
		return 0
	}
	r, err := serial.FitSignedFromUnsigned[int32](v)
	d.SetError(err)
	return r
}

func (d *reader) DecodeFloat32() float32 {
	v, _ := d.fixed32()
	return math.Float32frombits(v)
}

func (d *reader) DecodeFloat64() float64 {
	v, _ := d.fixed64()
	return math.Float64frombits(v)
}

func (d *reader) DecodeString() string {
	b, _ := d.bytes()
	return string(b)
}

// DecodeBytes returns a copy; the result never aliases the input.
func (d *reader) DecodeBytes() []byte {
	b, ok := d.bytes()
	if !ok {
		return nil
	}
	return append([]byte{}, b...)
}

func (d *reader) DecodeEnum(desc *serial.Descriptor) int {
	v, ok := d.varint()
	if !ok {
		return 0
	}
	if v >= uint64(desc.ElementsCount()) {
		d.SetError(serial.Decoding(serial.UnknownElement, d.offset, "%d is not an ordinal of %s", v, desc.SerialName()))
		return 0
	}
	return int(v)
}

// DecodeNotNullMark is false only for the missing value of a map entry:
// null is never written, so anything present is not null.
func (d *reader) DecodeNotNullMark() bool { return !d.absent }

func (d *reader) DecodeNull() {}

func (d *reader) BeginStructure(desc *serial.Descriptor) serial.CompositeDecoder {
	if d.Err() != nil {
		return d
	}
	switch desc.Kind() {
	case serial.KindClass, serial.KindObject, serial.KindPolymorphic:
		switch d.role {
		case roleRoot:
			return d.message(desc, d.r)
		case roleField:
			if !d.expect(protowire.BytesType) {
				return d
			}
			n, err := readLen(d.r)
			if err != nil {
				d.SetError(err)
				return d
			}
			sub, err := d.r.Limit(n)
			if err != nil {
				d.SetError(err)
				return d
			}
			return d.message(desc, sub)
		}
	case serial.KindList, serial.KindMap:
		if d.role != roleField {
			break
		}
		if d.repeated {
			d.SetError(serial.Misuse(desc.SerialName(), "field %d: a repeated field cannot hold a nested collection", d.number))
			return d
		}
		r := roleRepeated
		if desc.Kind() == serial.KindMap {
			r = roleMap
		}
		n := newReader(d.p, d.r, d.Latch, r)
		n.desc = desc
		n.number, n.wireType, n.intType, n.offset, n.element = d.number, d.wireType, d.intType, d.offset, d.element
		n.pending = !d.absent
		return n
	default:
		d.SetError(serial.Misuse(desc.SerialName(), "%s is not a structure", desc.Kind()))
		return d
	}
	if d.role == roleRoot {
		d.SetError(serial.Misuse(desc.SerialName(), "the top-level value must be a message, not a %s", desc.Kind()))
	} else {
		d.SetError(serial.Misuse(desc.SerialName(), "structure started outside a field"))
	}
	return d
}

func (d *reader) message(desc *serial.Descriptor, r *serial.BytesReader) *reader {
	n := newReader(d.p, r, d.Latch, roleMessage)
	n.desc = desc
	n.msg = messageOf(desc)
	n.seen = serial.NewElementTracker(desc)
	for _, i := range n.msg.collections {
		n.seen.Mark(i)
	}
	return n
}

func (d *reader) DecodeCollectionSize(*serial.Descriptor) int { return -1 }

func (d *reader) DecodeElementIndex(desc *serial.Descriptor) int {
	if d.Err() != nil {
		return serial.DecodeDone
	}
	if d.closed {
		d.SetError(serial.Misuse(desc.SerialName(), "element read after EndStructure"))
		return serial.DecodeDone
	}
	switch d.role {
	case roleMessage:
		return d.nextField(desc)
	case roleRepeated:
		if !d.nextItem() {
			return serial.DecodeDone
		}
		d.read++
		return d.read - 1
	case roleMap:
		if d.read%2 == 0 && (!d.nextItem() || !d.readEntry(desc)) {
			return serial.DecodeDone
		}
		d.read++
		return d.read - 1
	}
	d.SetError(serial.Misuse(desc.SerialName(), "element read outside a structure"))
	return serial.DecodeDone
}

// nextField reads keys until one has a serial id of desc, skipping the
// values of unknown fields when they are tolerated.
func (d *reader) nextField(desc *serial.Descriptor) int {
	d.current = -1
	for d.r.Available() > 0 {
		offset := d.r.Offset()
		num, typ, err := readTag(d.r)
		if err != nil {
			d.SetError(err)
			return serial.DecodeDone
		}
		i, ok := d.msg.byNumber[num]
		if ok {
			d.seen.Mark(i)
			d.current = i
			d.number, d.wireType, d.offset = num, typ, offset
			return i
		}
		if !d.p.ignoreUnknownKeys {
			d.SetError(serial.Decoding(serial.UnknownElement, offset, "%s has no field %d", desc.SerialName(), num))
			return serial.DecodeDone
		}
		d.p.logger.Debug("protobuf: skipping unknown field", "descriptor", desc.SerialName(), "field", int32(num), "wire_type", int8(typ), "offset", offset)
		if err := skipField(d.r, typ); err != nil {
			d.SetError(err)
			return serial.DecodeDone
		}
	}
	return serial.DecodeDone
}

// nextItem moves to the next item of a repeated field. Items are the run of
// consecutive keys with the field's number; items that appear later in the
// message are merged by the message's serializer.
func (d *reader) nextItem() bool {
	if d.pending {
		d.pending = false
		return true
	}
	v, n, ok := d.r.PeekUvarint()
	if !ok {
		return false
	}
	num, typ := protowire.DecodeTag(v)
	if num != d.number {
		return false
	}
	d.offset = d.r.Offset()
	if err := d.r.Skip(n); err != nil {
		d.SetError(err)
		return false
	}
	d.wireType = typ
	return true
}

// readEntry parses the map entry at the cursor into its key and value.
func (d *reader) readEntry(desc *serial.Descriptor) bool {
	if d.wireType != protowire.BytesType {
		d.SetError(serial.Decoding(serial.UnexpectedWireType, d.offset, "map field %d has wire type %d, want %d", d.number, d.wireType, protowire.BytesType))
		return false
	}
	n, err := readLen(d.r)
	if err != nil {
		d.SetError(err)
		return false
	}
	entry, err := d.r.Limit(n)
	if err != nil {
		d.SetError(err)
		return false
	}
	msg := messageOf(desc)
	d.key, d.value = nil, nil
	for entry.Available() > 0 {
		offset := entry.Offset()
		num, typ, err := readTag(entry)
		if err != nil {
			d.SetError(err)
			return false
		}
		value, err := span(entry, typ)
		if err != nil {
			d.SetError(err)
			return false
		}
		i, ok := msg.byNumber[num]
		if !ok {
			if !d.p.ignoreUnknownKeys {
				d.SetError(serial.Decoding(serial.UnknownElement, offset, "map entry of field %d has no field %d", d.number, num).WithElement(d.element))
				return false
			}
			d.p.logger.Debug("protobuf: skipping unknown field", "descriptor", desc.SerialName(), "field", int32(num), "wire_type", int8(typ), "offset", offset)
			continue
		}
		f := newReader(d.p, value, d.Latch, roleField)
		f.number, f.wireType, f.intType, f.offset = num, typ, msg.fields[i].intType, offset
		f.element = d.element + "." + desc.ElementName(i)
		if i == 0 {
			d.key = f
		} else {
			d.value = f
		}
	}
	if d.key == nil {
		d.SetError(serial.Decoding(serial.MalformedInput, entry.Offset(), "map entry has no key"))
		return false
	}
	if d.value == nil {
		d.value = newReader(d.p, entry, d.Latch, roleField)
		d.value.element, d.value.offset, d.value.absent = d.element+".value", entry.Offset(), true
	}
	return true
}

// ElementDecoder returns the reader for the current element's value.
func (d *reader) ElementDecoder(desc *serial.Descriptor, index int) serial.Decoder {
	if d.Err() != nil {
		return d
	}
	switch d.role {
	case roleMessage:
		if index != d.current || d.current < 0 {
			d.SetError(serial.Misuse(desc.SerialName(), "element %d is not the current element", index))
			return d
		}
		return d.fieldReader(d.msg.fields[index].intType, desc.ElementName(index), false)
	case roleRepeated:
		return d.fieldReader(d.intType, d.element, true)
	case roleMap:
		if index%2 == 0 {
			return d.key
		}
		return d.value
	}
	d.SetError(serial.Misuse(desc.SerialName(), "element %d read outside a structure", index))
	return d
}

func (d *reader) fieldReader(intType IntegerType, element string, repeated bool) *reader {
	if d.field == nil {
		d.field = newReader(d.p, d.r, d.Latch, roleField)
	}
	f := d.field
	f.number, f.wireType, f.intType, f.offset = d.number, d.wireType, intType, d.offset
	f.element, f.repeated = element, repeated
	return f
}

func (d *reader) EndStructure(desc *serial.Descriptor) {
	if d.Err() != nil {
		return
	}
	if d.closed || d.role == roleRoot || d.role == roleField {
		d.SetError(serial.Misuse(desc.SerialName(), "EndStructure without a matching BeginStructure"))
		return
	}
	d.closed = true
	if d.role != roleMessage {
		return
	}
	d.current = -1
	if n := d.r.Available(); n > 0 {
		d.SetError(serial.Decoding(serial.MalformedInput, -1, "%s has %d unread bytes", desc.SerialName(), n))
		return
	}
	d.SetError(d.seen.CheckRequired(desc, d.r.Offset()))
}
