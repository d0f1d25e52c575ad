package cbor

import (
	"math"

	"github.com/oy3o/serial"
)

// writer is both the value encoder and the composite encoder of one frame.
// All writers of a call append to the same BytesWriter and share one Latch.
type writer struct {
	*serial.Latch
	serial.ElementEncoding
	c      *Cbor
	w      *serial.BytesWriter
	mode   mode
	closed bool
}

var (
	_ serial.Encoder          = (*writer)(nil)
	_ serial.CompositeEncoder = (*writer)(nil)
)

func newWriter(c *Cbor, w *serial.BytesWriter, latch *serial.Latch) *writer {
	e := &writer{Latch: latch, c: c, w: w}
	e.Elements = e
	return e
}

func (e *writer) child(m mode) *writer {
	n := newWriter(e.c, e.w, e.Latch)
	n.mode = m
	return n
}

func (e *writer) Module() *serial.Module { return e.c.module }

func (e *writer) EncodeBool(v bool) {
	if e.Err() != nil {
		return
	}
	if v {
		_ = e.w.WriteByte(simpleTrue)
	} else {
		_ = e.w.WriteByte(simpleFalse)
	}
}

func (e *writer) EncodeInt8(v int8)   { e.EncodeInt64(int64(v)) }
func (e *writer) EncodeInt16(v int16) { e.EncodeInt64(int64(v)) }
func (e *writer) EncodeInt32(v int32) { e.EncodeInt64(int64(v)) }
func (e *writer) EncodeChar(v rune)   { e.EncodeInt64(int64(v)) }

func (e *writer) EncodeInt64(v int64) {
	if e.Err() != nil {
		return
	}
	writeInt(e.w, v)
}

func (e *writer) EncodeFloat32(v float32) {
	if e.Err() != nil {
		return
	}
	_ = e.w.WriteByte(floatSingle)
	e.w.WriteUint32(math.Float32bits(v))
}

func (e *writer) EncodeFloat64(v float64) {
	if e.Err() != nil {
		return
	}
	_ = e.w.WriteByte(floatDouble)
	e.w.WriteUint64(math.Float64bits(v))
}

func (e *writer) EncodeString(v string) {
	if e.Err() != nil {
		return
	}
	writeText(e.w, v)
}

func (e *writer) EncodeBytes(v []byte) {
	if e.Err() != nil {
		return
	}
	writeHeader(e.w, majorBytes, uint64(len(v)))
	_, _ = e.w.Write(v)
}

// EncodeEnum writes the entry name, not the ordinal.
func (e *writer) EncodeEnum(desc *serial.Descriptor, ordinal int) {
	if e.Err() != nil {
		return
	}
	if ordinal < 0 || ordinal >= desc.ElementsCount() {
		e.SetError(serial.Misuse(desc.SerialName(), "enum ordinal %d out of range [0, %d)", ordinal, desc.ElementsCount()))
		return
	}
	writeText(e.w, desc.ElementName(ordinal))
}

func (e *writer) EncodeNull() {
	if e.Err() != nil {
		return
	}
	_ = e.w.WriteByte(simpleNull)
}

func (e *writer) EncodeNotNullMark() {}

func (e *writer) BeginStructure(desc *serial.Descriptor) serial.CompositeEncoder {
	m, ok := modeOf(desc)
	if !ok {
		e.SetError(serial.Misuse(desc.SerialName(), "%s is not a structure", desc.Kind()))
		return e.child(modeValue)
	}
	if e.Err() == nil {
		switch m {
		case modeList, modePoly:
			_ = e.w.WriteByte(beginArray)
		default:
			_ = e.w.WriteByte(beginMap)
		}
	}
	return e.child(m)
}

// BeginCollection ignores size: collections are always written with indefinite length.
func (e *writer) BeginCollection(desc *serial.Descriptor, _ int) serial.CompositeEncoder {
	return e.BeginStructure(desc)
}

func (e *writer) ElementEncoder(desc *serial.Descriptor, index int) serial.Encoder {
	if e.Err() != nil {
		return e
	}
	if e.closed {
		e.SetError(serial.Misuse(desc.SerialName(), "element %d written after EndStructure", index))
		return e
	}
	switch e.mode {
	case modeClass:
		if index < 0 || index >= desc.ElementsCount() {
			e.SetError(serial.Misuse(desc.SerialName(), "no element at index %d", index))
			return e
		}
		writeText(e.w, desc.ElementName(index))
	case modePoly:
		if index < 0 || index > 1 {
			e.SetError(serial.Misuse(desc.SerialName(), "polymorphic value has no element %d", index))
		}
	case modeValue:
		e.SetError(serial.Misuse(desc.SerialName(), "element %d written outside a structure", index))
	}
	return e
}

func (e *writer) ShouldEncodeElementDefault(*serial.Descriptor, int) bool {
	return e.c.encodeDefaults
}

func (e *writer) EndStructure(desc *serial.Descriptor) {
	if e.Err() != nil {
		return
	}
	if e.closed || e.mode == modeValue {
		e.SetError(serial.Misuse(desc.SerialName(), "EndStructure without a matching BeginStructure"))
		return
	}
	e.closed = true
	_ = e.w.WriteByte(breakByte)
}
