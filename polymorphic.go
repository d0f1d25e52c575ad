package serial

import "fmt"

// Variant is one concrete case of a polymorphic Base type, identified on the
// wire by its discriminator name.
type Variant[Base any] struct {
	name        string
	desc        *Descriptor
	matches     func(v Base) bool
	serialize   func(c CompositeEncoder, desc *Descriptor, index int, v Base)
	deserialize func(c CompositeDecoder, desc *Descriptor, index int) Base
}

// VariantOf builds the variant of Base whose concrete type is T.
// Values of T must be assignable to Base, e.g. T implements interface Base.
func VariantOf[Base, T any](name string, s Serializer[T]) Variant[Base] {
	return Variant[Base]{
		name: name,
		desc: s.Descriptor(),
		matches: func(v Base) bool {
			_, ok := any(v).(T)
			return ok
		},
		serialize: func(c CompositeEncoder, desc *Descriptor, index int, v Base) {
			EncodeSerializableElement(c, desc, index, s, any(v).(T))
		},
		deserialize: func(c CompositeDecoder, desc *Descriptor, index int) Base {
			t := DecodeSerializableElement(c, desc, index, s)
			b, ok := any(t).(Base)
			if !ok {
				c.SetError(Misuse(desc.SerialName(), "variant %s (%T) is not assignable to the base type", name, t))
			}
			return b
		},
	}
}

// Name returns the discriminator written ahead of the payload.
func (v Variant[Base]) Name() string { return v.name }

// Descriptor returns the concrete payload descriptor.
func (v Variant[Base]) Descriptor() *Descriptor { return v.desc }

type variantSet[Base any] struct {
	byName  map[string]*Variant[Base]
	ordered []*Variant[Base]
}

func newVariantSet[Base any](variants []Variant[Base]) *variantSet[Base] {
	set := &variantSet[Base]{byName: make(map[string]*Variant[Base], len(variants))}
	for _, v := range variants {
		set.add(v)
	}
	return set
}

func (s *variantSet[Base]) add(v Variant[Base]) {
	if _, dup := s.byName[v.name]; dup {
		panic(fmt.Sprintf("serial: polymorphic variant %q registered twice", v.name))
	}
	p := &v
	s.byName[v.name] = p
	s.ordered = append(s.ordered, p)
}

func (s *variantSet[Base]) forName(name string) (*Variant[Base], bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.byName[name]
	return v, ok
}

func (s *variantSet[Base]) forValue(value Base) (*Variant[Base], bool) {
	if s == nil {
		return nil, false
	}
	for _, v := range s.ordered {
		if v.matches(value) {
			return v, true
		}
	}
	return nil, false
}

// polymorphicSerializer writes a tagged union: the discriminator as element 0
// ("type") followed by the payload as element 1 ("value").
type polymorphicSerializer[Base any] struct {
	desc    *Descriptor
	resolve func(m *Module) *variantSet[Base]
}

// Sealed returns a serializer for a closed set of variants of Base.
func Sealed[Base any](serialName string, variants ...Variant[Base]) Serializer[Base] {
	set := newVariantSet(variants)
	return &polymorphicSerializer[Base]{
		desc:    PolymorphicDescriptor(serialName),
		resolve: func(*Module) *variantSet[Base] { return set },
	}
}

// Polymorphic returns a serializer for an open Base type whose variants are
// registered with RegisterVariant in the format's Module.
func Polymorphic[Base any](serialName string) Serializer[Base] {
	return &polymorphicSerializer[Base]{
		desc:    PolymorphicDescriptor(serialName),
		resolve: lookupVariants[Base],
	}
}

func (p *polymorphicSerializer[Base]) Descriptor() *Descriptor { return p.desc }

func (p *polymorphicSerializer[Base]) Serialize(enc Encoder, v Base) {
	variant, ok := p.resolve(enc.Module()).forValue(v)
	if !ok {
		enc.SetError(fmt.Errorf("%w: no variant of %s for %T", ErrSerializerNotFound, p.desc.SerialName(), v))
		return
	}
	c := enc.BeginStructure(p.desc)
	c.EncodeStringElement(p.desc, 0, variant.name)
	variant.serialize(c, p.desc, 1, v)
	c.EndStructure(p.desc)
}

func (p *polymorphicSerializer[Base]) Deserialize(dec Decoder) Base {
	variants := p.resolve(dec.Module())
	var (
		value   Base
		variant *Variant[Base]
		decoded bool
	)
	c := dec.BeginStructure(p.desc)
	for {
		i := c.DecodeElementIndex(p.desc)
		if i == DecodeDone {
			break
		}
		switch i {
		case 0:
			name := c.DecodeStringElement(p.desc, 0)
			if c.Err() != nil {
				continue
			}
			v, ok := variants.forName(name)
			if !ok {
				c.SetError(Decoding(UnknownPolymorphicDiscriminator, -1, "%q is not a variant of %s", name, p.desc.SerialName()).WithElement("type"))
				continue
			}
			variant = v
		case 1:
			if variant == nil {
				c.SetError(Decoding(MalformedInput, -1, "payload of %s precedes its discriminator", p.desc.SerialName()).WithElement("value"))
				continue
			}
			value = variant.deserialize(c, p.desc, 1)
			decoded = true
		default:
			c.SetError(Decoding(MalformedInput, -1, "%s has no element %d", p.desc.SerialName(), i))
		}
	}
	if c.Err() == nil {
		switch {
		case variant == nil:
			c.SetError(Decoding(MissingRequiredElement, -1, "%s has no discriminator", p.desc.SerialName()).WithElement("type"))
		case !decoded:
			c.SetError(Decoding(MissingRequiredElement, -1, "%s has no payload for %q", p.desc.SerialName(), variant.name).WithElement("value"))
		}
	}
	c.EndStructure(p.desc)
	return value
}
