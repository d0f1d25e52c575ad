package protobuf

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/oy3o/serial"
)

// role is what a writer or reader stands for in the message being processed.
type role uint8

const (
	roleRoot     role = iota // the top-level value, which must be a message
	roleField                // the value of one field
	roleMessage              // the fields of a message
	roleRepeated             // the items of a repeated field
	roleMap                  // the entries of a map field
)

// writer implements both encoder interfaces; which methods are legal depends on its role.
type writer struct {
	*serial.Latch
	serial.ElementEncoding
	p    *ProtoBuf
	w    *serial.BytesWriter
	role role

	// field, repeated and map roles
	number   protowire.Number
	intType  IntegerType
	repeated bool // the field is one item of a repeated field

	// message role
	msg    *message
	out    *serial.BytesWriter // parent of a nested message, nil for the root message
	closed bool

	// map role
	entry *writer
}

var (
	_ serial.Encoder          = (*writer)(nil)
	_ serial.CompositeEncoder = (*writer)(nil)
)

func newRootWriter(p *ProtoBuf, w *serial.BytesWriter, latch *serial.Latch) *writer {
	return newWriter(p, w, latch, roleRoot)
}

func newWriter(p *ProtoBuf, w *serial.BytesWriter, latch *serial.Latch, r role) *writer {
	e := &writer{Latch: latch, p: p, w: w, role: r}
	e.Elements = e
	return e
}

func (e *writer) Module() *serial.Module { return e.p.module }

// key writes the field key ahead of a scalar. It reports false when nothing
// may be written.
func (e *writer) key(typ protowire.Type) bool {
	if e.Err() != nil {
		return false
	}
	if e.role != roleField {
		e.SetError(serial.Misuse("", "a scalar cannot be written outside a field; the top-level value must be a message"))
		return false
	}
	e.w.WriteUvarint(protowire.EncodeTag(e.number, typ))
	return true
}

func (e *writer) encodeInt(v int64, bits int) {
	switch e.intType {
	case TypeSigned:
		if e.key(protowire.VarintType) {
			e.w.WriteUvarint(protowire.EncodeZigZag(v))
		}
	case TypeFixed:
		if bits <= 32 {
			if e.key(protowire.Fixed32Type) {
				e.w.WriteUint32(uint32(v))
			}
		} else if e.key(protowire.Fixed64Type) {
			e.w.WriteUint64(uint64(v))
		}
	default:
		if e.key(protowire.VarintType) {
			e.w.WriteUvarint(uint64(v))
		}
	}
}

func (e *writer) EncodeInt8(v int8)   { e.encodeInt(int64(v), 8) }
func (e *writer) EncodeInt16(v int16) { e.encodeInt(int64(v), 16) }
func (e *writer) EncodeInt32(v int32) { e.encodeInt(int64(v), 32) }
func (e *writer) EncodeInt64(v int64) { e.encodeInt(v, 64) }

func (e *writer) EncodeBool(v bool) {
	if e.key(protowire.VarintType) {
		e.w.WriteUvarint(protowire.EncodeBool(v))
	}
}

func (e *writer) EncodeChar(v rune) {
	if e.key(protowire.VarintType) {
		e.w.WriteUvarint(uint64(v))
	}
}

func (e *writer) EncodeFloat32(v float32) {
	if e.key(protowire.Fixed32Type) {
		e.w.WriteUint32(math.Float32bits(v))
	}
}

func (e *writer) EncodeFloat64(v float64) {
	if e.key(protowire.Fixed64Type) {
		e.w.WriteUint64(math.Float64bits(v))
	}
}

func (e *writer) EncodeString(v string) {
	if e.key(protowire.BytesType) {
		e.w.WriteUvarint(uint64(len(v)))
		_, _ = e.w.WriteString(v)
	}
}

func (e *writer) EncodeBytes(v []byte) {
	if e.key(protowire.BytesType) {
		e.w.WriteUvarint(uint64(len(v)))
		_, _ = e.w.Write(v)
	}
}

func (e *writer) EncodeEnum(desc *serial.Descriptor, ordinal int) {
	if e.Err() != nil {
		return
	}
	if ordinal < 0 || ordinal >= desc.ElementsCount() {
		e.SetError(serial.Misuse(desc.SerialName(), "enum ordinal %d out of range [0, %d)", ordinal, desc.ElementsCount()))
		return
	}
	if e.key(protowire.VarintType) {
		e.w.WriteUvarint(uint64(ordinal))
	}
}

// EncodeNull omits the field. Repeated fields cannot hold null.
func (e *writer) EncodeNull() {
	if e.Err() != nil {
		return
	}
	switch {
	case e.role != roleField:
		e.SetError(serial.Misuse("", "null cannot be a top-level value"))
	case e.repeated:
		e.SetError(serial.Misuse("", "field %d: null cannot be an item of a repeated field", e.number))
	}
}

func (e *writer) EncodeNotNullMark() {}

func (e *writer) BeginStructure(desc *serial.Descriptor) serial.CompositeEncoder {
	if e.Err() != nil {
		return e
	}
	switch desc.Kind() {
	case serial.KindClass, serial.KindObject, serial.KindPolymorphic:
		switch e.role {
		case roleRoot:
			n := newWriter(e.p, e.w, e.Latch, roleMessage)
			n.msg = messageOf(desc)
			return n
		case roleField:
			n := newWriter(e.p, serial.AcquireWriter(serial.LE), e.Latch, roleMessage)
			n.msg = messageOf(desc)
			n.out, n.number = e.w, e.number
			return n
		}
	case serial.KindList, serial.KindMap:
		if e.role != roleField {
			break
		}
		if e.repeated {
			e.SetError(serial.Misuse(desc.SerialName(), "field %d: a repeated field cannot hold a nested collection", e.number))
			return e
		}
		r := roleRepeated
		if desc.Kind() == serial.KindMap {
			r = roleMap
		}
		n := newWriter(e.p, e.w, e.Latch, r)
		n.number, n.intType = e.number, e.intType
		return n
	default:
		e.SetError(serial.Misuse(desc.SerialName(), "%s is not a structure", desc.Kind()))
		return e
	}
	if e.role == roleRoot {
		e.SetError(serial.Misuse(desc.SerialName(), "the top-level value must be a message, not a %s", desc.Kind()))
	} else {
		e.SetError(serial.Misuse(desc.SerialName(), "structure started outside a field"))
	}
	return e
}

// BeginCollection ignores size: repeated fields carry no count.
func (e *writer) BeginCollection(desc *serial.Descriptor, _ int) serial.CompositeEncoder {
	return e.BeginStructure(desc)
}

func (e *writer) field(number protowire.Number, intType IntegerType, repeated bool) *writer {
	f := newWriter(e.p, e.w, e.Latch, roleField)
	f.number, f.intType, f.repeated = number, intType, repeated
	return f
}

func (e *writer) ElementEncoder(desc *serial.Descriptor, index int) serial.Encoder {
	if e.Err() != nil {
		return e
	}
	if e.closed {
		e.SetError(serial.Misuse(desc.SerialName(), "element %d written after EndStructure", index))
		return e
	}
	switch e.role {
	case roleMessage:
		if index < 0 || index >= len(e.msg.fields) {
			e.SetError(serial.Misuse(desc.SerialName(), "no element at index %d", index))
			return e
		}
		f := e.msg.fields[index]
		return e.field(f.number, f.intType, false)
	case roleRepeated:
		return e.field(e.number, e.intType, true)
	case roleMap:
		if index%2 == 0 {
			e.flushEntry(desc)
			e.entry = newWriter(e.p, serial.AcquireWriter(serial.LE), e.Latch, roleMessage)
			e.entry.msg = messageOf(desc)
			e.entry.out, e.entry.number = e.w, e.number
			return e.entry.ElementEncoder(desc, 0)
		}
		if e.entry == nil {
			e.SetError(serial.Misuse(desc.SerialName(), "map value %d written before its key", index))
			return e
		}
		return e.entry.ElementEncoder(desc, 1)
	}
	e.SetError(serial.Misuse(desc.SerialName(), "element %d written outside a structure", index))
	return e
}

func (e *writer) flushEntry(desc *serial.Descriptor) {
	if e.entry != nil {
		e.entry.EndStructure(desc)
		e.entry = nil
	}
}

func (e *writer) ShouldEncodeElementDefault(*serial.Descriptor, int) bool {
	return e.p.encodeDefaults
}

// EndStructure closes the structure. A nested message is appended to its
// parent as a length-delimited field once its size is known.
func (e *writer) EndStructure(desc *serial.Descriptor) {
	if e.Err() != nil {
		if e.out != nil && !e.closed {
			e.closed = true
			serial.ReleaseWriter(e.w)
		}
		return
	}
	if e.closed || e.role == roleRoot || e.role == roleField {
		e.SetError(serial.Misuse(desc.SerialName(), "EndStructure without a matching BeginStructure"))
		return
	}
	if e.role == roleMap {
		e.flushEntry(desc)
	}
	e.closed = true
	if e.out == nil {
		return
	}
	e.out.WriteUvarint(protowire.EncodeTag(e.number, protowire.BytesType))
	e.out.WriteUvarint(uint64(e.w.Len()))
	_, _ = e.out.Write(e.w.Bytes())
	serial.ReleaseWriter(e.w)
}
