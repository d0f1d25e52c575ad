package serial

// BinaryFormat is a configured wire format. Implementations are immutable and
// safe for concurrent use; each call builds its own Encoder or Decoder.
type BinaryFormat interface {
	// EncodeValue runs fn against a fresh Encoder appending to w and returns
	// the first error the encode latched.
	EncodeValue(w *BytesWriter, fn func(enc Encoder)) error
	// DecodeValue runs fn against a fresh Decoder reading r and returns the
	// first error the decode latched, including unconsumed trailing input.
	DecodeValue(r *BytesReader, fn func(dec Decoder)) error
}

// EncodeToByteArray encodes v with s in format f.
func EncodeToByteArray[T any](f BinaryFormat, s Serializer[T], v T) ([]byte, error) {
	w := NewBytesWriter(nil)
	err := f.EncodeValue(w, func(enc Encoder) {
		EncodeSerializableValue(enc, s, v)
	})
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeFromByteArray decodes one value of s from data in format f.
// On failure it returns the zero value: a partially decoded value never escapes.
func DecodeFromByteArray[T any](f BinaryFormat, s Serializer[T], data []byte) (T, error) {
	var v T
	err := f.DecodeValue(NewBytesReader(data), func(dec Decoder) {
		v = DecodeSerializableValue(dec, s)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
