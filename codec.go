package serial

const (
	// DecodeDone is returned by CompositeDecoder.DecodeElementIndex when a
	// structure has no more elements.
	DecodeDone = -1
)

// Serializer drives an Encoder or Decoder for values of type T.
// It is the contract every encodable type supplies: a descriptor plus the
// serialize/deserialize pair, written only against the generic protocol.
type Serializer[T any] interface {
	Descriptor() *Descriptor
	Serialize(enc Encoder, v T)
	// Deserialize reads a value. On failure it records the error on dec and
	// may return a partially populated value, which callers must discard.
	Deserialize(dec Decoder) T
}

// Updater is implemented by serializers that can merge newly decoded data
// into a previous value, e.g. lists whose items are split across a message.
type Updater[T any] interface {
	Update(dec Decoder, old T) T
}

// Encoder writes one value in a concrete wire format.
// Errors latch: after the first failure all operations are no-ops and Err reports it.
type Encoder interface {
	EncodeBool(v bool)
	EncodeInt8(v int8)
	EncodeInt16(v int16)
	EncodeInt32(v int32)
	EncodeInt64(v int64)
	EncodeFloat32(v float32)
	EncodeFloat64(v float64)
	EncodeChar(v rune)
	EncodeString(v string)
	EncodeBytes(v []byte)
	EncodeEnum(desc *Descriptor, ordinal int)
	EncodeNull()
	EncodeNotNullMark()

	// BeginStructure writes whatever framing desc needs and returns the
	// encoder for its elements. It must be paired with exactly one EndStructure.
	BeginStructure(desc *Descriptor) CompositeEncoder
	// BeginCollection is BeginStructure for lists and maps of a known size.
	BeginCollection(desc *Descriptor, size int) CompositeEncoder

	Module() *Module
	Err() error
	SetError(err error)
}

// CompositeEncoder writes the elements of one structure.
type CompositeEncoder interface {
	EncodeBoolElement(desc *Descriptor, index int, v bool)
	EncodeInt8Element(desc *Descriptor, index int, v int8)
	EncodeInt16Element(desc *Descriptor, index int, v int16)
	EncodeInt32Element(desc *Descriptor, index int, v int32)
	EncodeInt64Element(desc *Descriptor, index int, v int64)
	EncodeFloat32Element(desc *Descriptor, index int, v float32)
	EncodeFloat64Element(desc *Descriptor, index int, v float64)
	EncodeCharElement(desc *Descriptor, index int, v rune)
	EncodeStringElement(desc *Descriptor, index int, v string)
	EncodeBytesElement(desc *Descriptor, index int, v []byte)

	// ElementEncoder starts element index and returns the encoder its value
	// is written with. Nested serializable elements go through it.
	ElementEncoder(desc *Descriptor, index int) Encoder

	// ShouldEncodeElementDefault reports whether an element equal to its
	// declared default must still be written.
	ShouldEncodeElementDefault(desc *Descriptor, index int) bool

	EndStructure(desc *Descriptor)

	Module() *Module
	Err() error
	SetError(err error)
}

// Decoder reads one value in a concrete wire format.
// Errors latch: after the first failure all operations return zero values.
type Decoder interface {
	DecodeBool() bool
	DecodeInt8() int8
	DecodeInt16() int16
	DecodeInt32() int32
	DecodeInt64() int64
	DecodeFloat32() float32
	DecodeFloat64() float64
	DecodeChar() rune
	DecodeString() string
	DecodeBytes() []byte
	DecodeEnum(desc *Descriptor) int
	// DecodeNotNullMark reports whether a non-null value follows.
	DecodeNotNullMark() bool
	DecodeNull()

	// BeginStructure consumes whatever framing desc needs and returns the
	// decoder for its elements. It must be paired with exactly one EndStructure.
	BeginStructure(desc *Descriptor) CompositeDecoder

	Module() *Module
	Err() error
	SetError(err error)
}

// CompositeDecoder reads the elements of one structure.
//
// Typical use:
//
//	c := dec.BeginStructure(desc)
//	for {
//		i := c.DecodeElementIndex(desc)
//		if i == serial.DecodeDone {
//			break
//		}
//		switch i { ... }
//	}
//	c.EndStructure(desc)
type CompositeDecoder interface {
	// DecodeElementIndex returns the index of the next element present in
	// the input, or DecodeDone. It returns DecodeDone once an error is latched.
	DecodeElementIndex(desc *Descriptor) int
	// DecodeCollectionSize returns the number of items of a list or map
	// when the input declares it, otherwise -1.
	DecodeCollectionSize(desc *Descriptor) int

	DecodeBoolElement(desc *Descriptor, index int) bool
	DecodeInt8Element(desc *Descriptor, index int) int8
	DecodeInt16Element(desc *Descriptor, index int) int16
	DecodeInt32Element(desc *Descriptor, index int) int32
	DecodeInt64Element(desc *Descriptor, index int) int64
	DecodeFloat32Element(desc *Descriptor, index int) float32
	DecodeFloat64Element(desc *Descriptor, index int) float64
	DecodeCharElement(desc *Descriptor, index int) rune
	DecodeStringElement(desc *Descriptor, index int) string
	DecodeBytesElement(desc *Descriptor, index int) []byte

	// ElementDecoder returns the decoder positioned at the value of the
	// element most recently returned by DecodeElementIndex.
	ElementDecoder(desc *Descriptor, index int) Decoder

	EndStructure(desc *Descriptor)

	Module() *Module
	Err() error
	SetError(err error)
}

// NewSerializer adapts a descriptor and a pair of functions into a Serializer.
func NewSerializer[T any](desc *Descriptor, serialize func(Encoder, T), deserialize func(Decoder) T) Serializer[T] {
	return &funcSerializer[T]{desc: desc, serialize: serialize, deserialize: deserialize}
}

type funcSerializer[T any] struct {
	desc        *Descriptor
	serialize   func(Encoder, T)
	deserialize func(Decoder) T
}

func (s *funcSerializer[T]) Descriptor() *Descriptor    { return s.desc }
func (s *funcSerializer[T]) Serialize(enc Encoder, v T) { s.serialize(enc, v) }
func (s *funcSerializer[T]) Deserialize(dec Decoder) T  { return s.deserialize(dec) }

// --- Generic helpers ---

// EncodeSerializableValue writes v with s unless enc already failed.
func EncodeSerializableValue[T any](enc Encoder, s Serializer[T], v T) {
	if enc.Err() != nil {
		return
	}
	s.Serialize(enc, v)
}

// DecodeSerializableValue reads a value with s unless dec already failed.
func DecodeSerializableValue[T any](dec Decoder, s Serializer[T]) T {
	if dec.Err() != nil {
		var zero T
		return zero
	}
	return s.Deserialize(dec)
}

// EncodeSerializableElement writes element index of desc with s.
func EncodeSerializableElement[T any](c CompositeEncoder, desc *Descriptor, index int, s Serializer[T], v T) {
	if c.Err() != nil {
		return
	}
	EncodeSerializableValue(c.ElementEncoder(desc, index), s, v)
}

// DecodeSerializableElement reads element index of desc with s.
func DecodeSerializableElement[T any](c CompositeDecoder, desc *Descriptor, index int, s Serializer[T]) T {
	if c.Err() != nil {
		var zero T
		return zero
	}
	return DecodeSerializableValue(c.ElementDecoder(desc, index), s)
}

// UpdateSerializableElement reads element index of desc and merges it into old
// when s supports merging; otherwise the new value replaces old.
func UpdateSerializableElement[T any](c CompositeDecoder, desc *Descriptor, index int, s Serializer[T], old T) T {
	if c.Err() != nil {
		return old
	}
	dec := c.ElementDecoder(desc, index)
	if u, ok := s.(Updater[T]); ok {
		return u.Update(dec, old)
	}
	return DecodeSerializableValue(dec, s)
}

// EncodeNullableSerializableElement writes a possibly-null element.
func EncodeNullableSerializableElement[T any](c CompositeEncoder, desc *Descriptor, index int, s Serializer[T], v *T) {
	EncodeSerializableElement(c, desc, index, Nullable(s), v)
}

// DecodeNullableSerializableElement reads a possibly-null element.
func DecodeNullableSerializableElement[T any](c CompositeDecoder, desc *Descriptor, index int, s Serializer[T]) *T {
	return DecodeSerializableElement(c, desc, index, Nullable(s))
}
