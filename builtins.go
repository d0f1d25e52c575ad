package serial

var (
	boolDescriptor    = PrimitiveDescriptor("bool", PrimitiveBool)
	int8Descriptor    = PrimitiveDescriptor("int8", PrimitiveInt8)
	int16Descriptor   = PrimitiveDescriptor("int16", PrimitiveInt16)
	int32Descriptor   = PrimitiveDescriptor("int32", PrimitiveInt32)
	int64Descriptor   = PrimitiveDescriptor("int64", PrimitiveInt64)
	float32Descriptor = PrimitiveDescriptor("float32", PrimitiveFloat32)
	float64Descriptor = PrimitiveDescriptor("float64", PrimitiveFloat64)
	charDescriptor    = PrimitiveDescriptor("char", PrimitiveChar)
	stringDescriptor  = PrimitiveDescriptor("string", PrimitiveString)
	bytesDescriptor   = PrimitiveDescriptor("bytes", PrimitiveBytes)
)

var (
	boolSerializer = NewSerializer(boolDescriptor,
		func(enc Encoder, v bool) { enc.EncodeBool(v) },
		func(dec Decoder) bool { return dec.DecodeBool() })
	int8Serializer = NewSerializer(int8Descriptor,
		func(enc Encoder, v int8) { enc.EncodeInt8(v) },
		func(dec Decoder) int8 { return dec.DecodeInt8() })
	int16Serializer = NewSerializer(int16Descriptor,
		func(enc Encoder, v int16) { enc.EncodeInt16(v) },
		func(dec Decoder) int16 { return dec.DecodeInt16() })
	int32Serializer = NewSerializer(int32Descriptor,
		func(enc Encoder, v int32) { enc.EncodeInt32(v) },
		func(dec Decoder) int32 { return dec.DecodeInt32() })
	int64Serializer = NewSerializer(int64Descriptor,
		func(enc Encoder, v int64) { enc.EncodeInt64(v) },
		func(dec Decoder) int64 { return dec.DecodeInt64() })
	intSerializer = NewSerializer(int64Descriptor,
		func(enc Encoder, v int) { enc.EncodeInt64(int64(v)) },
		func(dec Decoder) int {
			v, err := FitSigned[int](dec.DecodeInt64())
			dec.SetError(err)
			return v
		})
	float32Serializer = NewSerializer(float32Descriptor,
		func(enc Encoder, v float32) { enc.EncodeFloat32(v) },
		func(dec Decoder) float32 { return dec.DecodeFloat32() })
	float64Serializer = NewSerializer(float64Descriptor,
		func(enc Encoder, v float64) { enc.EncodeFloat64(v) },
		func(dec Decoder) float64 { return dec.DecodeFloat64() })
	charSerializer = NewSerializer(charDescriptor,
		func(enc Encoder, v rune) { enc.EncodeChar(v) },
		func(dec Decoder) rune { return dec.DecodeChar() })
	stringSerializer = NewSerializer(stringDescriptor,
		func(enc Encoder, v string) { enc.EncodeString(v) },
		func(dec Decoder) string { return dec.DecodeString() })
	bytesSerializer = NewSerializer(bytesDescriptor,
		func(enc Encoder, v []byte) { enc.EncodeBytes(v) },
		func(dec Decoder) []byte { return dec.DecodeBytes() })
)

func Bool() Serializer[bool]       { return boolSerializer }
func Int8() Serializer[int8]       { return int8Serializer }
func Int16() Serializer[int16]     { return int16Serializer }
func Int32() Serializer[int32]     { return int32Serializer }
func Int64() Serializer[int64]     { return int64Serializer }
func Int() Serializer[int]         { return intSerializer }
func Float32() Serializer[float32] { return float32Serializer }
func Float64() Serializer[float64] { return float64Serializer }
func Char() Serializer[rune]       { return charSerializer }
func String() Serializer[string]   { return stringSerializer }

// Bytes serializes a byte sequence as the format's native binary type,
// never as escaped text.
func Bytes() Serializer[[]byte] { return bytesSerializer }

// enumSerializer writes an integer-like enum by its ordinal; the format
// decides whether the ordinal or the entry name goes on the wire.
type enumSerializer[T ~int] struct {
	desc *Descriptor
}

// Enum returns a serializer for an enumeration whose ordinals index entries.
func Enum[T ~int](serialName string, entries ...string) Serializer[T] {
	return &enumSerializer[T]{desc: EnumDescriptor(serialName, entries...)}
}

func (s *enumSerializer[T]) Descriptor() *Descriptor { return s.desc }

func (s *enumSerializer[T]) Serialize(enc Encoder, v T) {
	if int(v) < 0 || int(v) >= s.desc.ElementsCount() {
		enc.SetError(Misuse(s.desc.SerialName(), "ordinal %d out of %d entries", int(v), s.desc.ElementsCount()))
		return
	}
	enc.EncodeEnum(s.desc, int(v))
}

func (s *enumSerializer[T]) Deserialize(dec Decoder) T {
	return T(dec.DecodeEnum(s.desc))
}

// objectSerializer writes a singleton as an empty structure.
type objectSerializer[T any] struct {
	desc  *Descriptor
	value T
}

// Object returns a serializer for a singleton that always decodes to value.
func Object[T any](serialName string, value T) Serializer[T] {
	return &objectSerializer[T]{desc: ObjectDescriptor(serialName), value: value}
}

func (s *objectSerializer[T]) Descriptor() *Descriptor { return s.desc }

func (s *objectSerializer[T]) Serialize(enc Encoder, _ T) {
	enc.BeginStructure(s.desc).EndStructure(s.desc)
}

func (s *objectSerializer[T]) Deserialize(dec Decoder) T {
	c := dec.BeginStructure(s.desc)
	if i := c.DecodeElementIndex(s.desc); i != DecodeDone {
		c.SetError(Misuse(s.desc.SerialName(), "object has no element %d", i))
	}
	c.EndStructure(s.desc)
	return s.value
}
