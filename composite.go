package serial

// ElementEncoding implements the typed Encode<T>Element methods of
// CompositeEncoder on top of ElementEncoder. Formats embed it and point
// Elements at themselves.
type ElementEncoding struct {
	Elements interface {
		ElementEncoder(desc *Descriptor, index int) Encoder
	}
}

func (e ElementEncoding) EncodeBoolElement(desc *Descriptor, index int, v bool) {
	e.Elements.ElementEncoder(desc, index).EncodeBool(v)
}

func (e ElementEncoding) EncodeInt8Element(desc *Descriptor, index int, v int8) {
	e.Elements.ElementEncoder(desc, index).EncodeInt8(v)
}

func (e ElementEncoding) EncodeInt16Element(desc *Descriptor, index int, v int16) {
	e.Elements.ElementEncoder(desc, index).EncodeInt16(v)
}

func (e ElementEncoding) EncodeInt32Element(desc *Descriptor, index int, v int32) {
	e.Elements.ElementEncoder(desc, index).EncodeInt32(v)
}

func (e ElementEncoding) EncodeInt64Element(desc *Descriptor, index int, v int64) {
	e.Elements.ElementEncoder(desc, index).EncodeInt64(v)
}

func (e ElementEncoding) EncodeFloat32Element(desc *Descriptor, index int, v float32) {
	e.Elements.ElementEncoder(desc, index).EncodeFloat32(v)
}

func (e ElementEncoding) EncodeFloat64Element(desc *Descriptor, index int, v float64) {
	e.Elements.ElementEncoder(desc, index).EncodeFloat64(v)
}

func (e ElementEncoding) EncodeCharElement(desc *Descriptor, index int, v rune) {
	e.Elements.ElementEncoder(desc, index).EncodeChar(v)
}

func (e ElementEncoding) EncodeStringElement(desc *Descriptor, index int, v string) {
	e.Elements.ElementEncoder(desc, index).EncodeString(v)
}

func (e ElementEncoding) EncodeBytesElement(desc *Descriptor, index int, v []byte) {
	e.Elements.ElementEncoder(desc, index).EncodeBytes(v)
}

// ElementDecoding implements the typed Decode<T>Element methods of
// CompositeDecoder on top of ElementDecoder.
type ElementDecoding struct {
	Elements interface {
		ElementDecoder(desc *Descriptor, index int) Decoder
	}
}

func (e ElementDecoding) DecodeBoolElement(desc *Descriptor, index int) bool {
	return e.Elements.ElementDecoder(desc, index).DecodeBool()
}

func (e ElementDecoding) DecodeInt8Element(desc *Descriptor, index int) int8 {
	return e.Elements.ElementDecoder(desc, index).DecodeInt8()
}

func (e ElementDecoding) DecodeInt16Element(desc *Descriptor, index int) int16 {
	return e.Elements.ElementDecoder(desc, index).DecodeInt16()
}

func (e ElementDecoding) DecodeInt32Element(desc *Descriptor, index int) int32 {
	return e.Elements.ElementDecoder(desc, index).DecodeInt32()
}

func (e ElementDecoding) DecodeInt64Element(desc *Descriptor, index int) int64 {
	return e.Elements.ElementDecoder(desc, index).DecodeInt64()
}

func (e ElementDecoding) DecodeFloat32Element(desc *Descriptor, index int) float32 {
	return e.Elements.ElementDecoder(desc, index).DecodeFloat32()
}

func (e ElementDecoding) DecodeFloat64Element(desc *Descriptor, index int) float64 {
	return e.Elements.ElementDecoder(desc, index).DecodeFloat64()
}

func (e ElementDecoding) DecodeCharElement(desc *Descriptor, index int) rune {
	return e.Elements.ElementDecoder(desc, index).DecodeChar()
}

func (e ElementDecoding) DecodeStringElement(desc *Descriptor, index int) string {
	return e.Elements.ElementDecoder(desc, index).DecodeString()
}

func (e ElementDecoding) DecodeBytesElement(desc *Descriptor, index int) []byte {
	return e.Elements.ElementDecoder(desc, index).DecodeBytes()
}
