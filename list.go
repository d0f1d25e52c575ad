package serial

import "slices"

// listSerializer is a generic serializer for slices of any serializable type.
type listSerializer[T any] struct {
	elem Serializer[T]
	desc *Descriptor
}

// ListOf returns a serializer for []T. A nil slice and an empty one have the
// same encoding; an empty collection decodes to nil.
func ListOf[T any](elem Serializer[T]) Serializer[[]T] {
	return &listSerializer[T]{elem: elem, desc: ListDescriptor(elem.Descriptor())}
}

func (l *listSerializer[T]) Descriptor() *Descriptor { return l.desc }

// Serialize writes every item as element i of the collection.
func (l *listSerializer[T]) Serialize(enc Encoder, v []T) {
	c := enc.BeginCollection(l.desc, len(v))
	for i, item := range v {
		EncodeSerializableElement(c, l.desc, i, l.elem, item)
	}
	c.EndStructure(l.desc)
}

func (l *listSerializer[T]) Deserialize(dec Decoder) []T {
	return l.Update(dec, nil)
}

// Update appends the decoded items to old.
// The read behavior is determined by the input:
// - If the collection declares its size, the slice is grown once up front.
// - Otherwise items are read until the decoder reports DecodeDone.
func (l *listSerializer[T]) Update(dec Decoder, old []T) []T {
	c := dec.BeginStructure(l.desc)
	items := old
	if size := c.DecodeCollectionSize(l.desc); size > 0 {
		items = slices.Grow(items, size)
	}
	for {
		i := c.DecodeElementIndex(l.desc)
		if i == DecodeDone {
			break
		}
		items = append(items, DecodeSerializableElement(c, l.desc, i, l.elem))
	}
	c.EndStructure(l.desc)
	return items
}

// mapSerializer writes a map as alternating key (index 2k) and value (index 2k+1) elements.
// Encoding order follows Go map iteration and is therefore not deterministic.
type mapSerializer[K comparable, V any] struct {
	key   Serializer[K]
	value Serializer[V]
	desc  *Descriptor
}

// MapOf returns a serializer for map[K]V. Keys may be of any serializable type.
func MapOf[K comparable, V any](key Serializer[K], value Serializer[V]) Serializer[map[K]V] {
	return &mapSerializer[K, V]{key: key, value: value, desc: MapDescriptor(key.Descriptor(), value.Descriptor())}
}

func (m *mapSerializer[K, V]) Descriptor() *Descriptor { return m.desc }

func (m *mapSerializer[K, V]) Serialize(enc Encoder, v map[K]V) {
	c := enc.BeginCollection(m.desc, len(v))
	i := 0
	for k, val := range v {
		EncodeSerializableElement(c, m.desc, i, m.key, k)
		EncodeSerializableElement(c, m.desc, i+1, m.value, val)
		i += 2
	}
	c.EndStructure(m.desc)
}

func (m *mapSerializer[K, V]) Deserialize(dec Decoder) map[K]V {
	return m.Update(dec, nil)
}

// Update adds the decoded entries to old; later keys overwrite earlier ones.
func (m *mapSerializer[K, V]) Update(dec Decoder, old map[K]V) map[K]V {
	c := dec.BeginStructure(m.desc)
	out := old
	if out == nil {
		size := c.DecodeCollectionSize(m.desc)
		out = make(map[K]V, max(size, 0))
	}
	for {
		i := c.DecodeElementIndex(m.desc)
		if i == DecodeDone {
			break
		}
		k := DecodeSerializableElement(c, m.desc, i, m.key)
		j := c.DecodeElementIndex(m.desc)
		if j == DecodeDone {
			c.SetError(Decoding(MalformedInput, -1, "map key without a value").WithElement(m.desc.SerialName()))
			break
		}
		out[k] = DecodeSerializableElement(c, m.desc, j, m.value)
	}
	c.EndStructure(m.desc)
	return out
}

// nullableSerializer maps a nil pointer to the format's null.
type nullableSerializer[T any] struct {
	inner Serializer[T]
	desc  *Descriptor
}

// Nullable returns a serializer for *T where nil is written as null.
func Nullable[T any](inner Serializer[T]) Serializer[*T] {
	return &nullableSerializer[T]{inner: inner, desc: NullableDescriptor(inner.Descriptor())}
}

func (n *nullableSerializer[T]) Descriptor() *Descriptor { return n.desc }

func (n *nullableSerializer[T]) Serialize(enc Encoder, v *T) {
	if v == nil {
		enc.EncodeNull()
		return
	}
	enc.EncodeNotNullMark()
	n.inner.Serialize(enc, *v)
}

func (n *nullableSerializer[T]) Deserialize(dec Decoder) *T {
	if !dec.DecodeNotNullMark() {
		dec.DecodeNull()
		return nil
	}
	v := n.inner.Deserialize(dec)
	return &v
}
