package serial

import (
	"fmt"
	"reflect"
)

// Module is an immutable registry of serializers for types the built-in set
// cannot describe, plus the variants of open polymorphic base types.
// A nil *Module behaves as an empty registry.
type Module struct {
	serializers map[reflect.Type]any // reflect.Type -> Serializer[T]
	variants    map[reflect.Type]any // reflect.Type -> *variantSet[Base]
}

// ModuleBuilder accumulates registrations for NewModule.
type ModuleBuilder struct {
	m *Module
}

// NewModule builds a Module. The builder must not be retained after build returns.
func NewModule(build func(b *ModuleBuilder)) *Module {
	b := &ModuleBuilder{m: &Module{
		serializers: make(map[reflect.Type]any),
		variants:    make(map[reflect.Type]any),
	}}
	if build != nil {
		build(b)
	}
	m := b.m
	b.m = nil
	return m
}

// Register makes s the serializer Contextual[T] resolves to.
func Register[T any](b *ModuleBuilder, s Serializer[T]) {
	b.m.serializers[reflect.TypeFor[T]()] = s
}

// RegisterVariant registers a concrete T as the variant of Base named name.
// Polymorphic[Base] uses these registrations.
func RegisterVariant[Base, T any](b *ModuleBuilder, name string, s Serializer[T]) {
	key := reflect.TypeFor[Base]()
	set, _ := b.m.variants[key].(*variantSet[Base])
	if set == nil {
		set = newVariantSet[Base](nil)
	}
	set.add(VariantOf[Base](name, s))
	b.m.variants[key] = set
}

// Lookup returns the serializer registered for T.
func Lookup[T any](m *Module) (Serializer[T], bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.serializers[reflect.TypeFor[T]()].(Serializer[T])
	return s, ok
}

func lookupVariants[Base any](m *Module) *variantSet[Base] {
	if m == nil {
		return nil
	}
	set, _ := m.variants[reflect.TypeFor[Base]()].(*variantSet[Base])
	return set
}

// contextualSerializer defers to the serializer registered in the format's Module.
type contextualSerializer[T any] struct {
	desc *Descriptor
}

// Contextual returns a serializer that resolves T's serializer from the
// Module of the encoder or decoder it runs on.
func Contextual[T any]() Serializer[T] {
	return &contextualSerializer[T]{desc: ContextualDescriptor(reflect.TypeFor[T]().String())}
}

func (s *contextualSerializer[T]) Descriptor() *Descriptor { return s.desc }

func (s *contextualSerializer[T]) Serialize(enc Encoder, v T) {
	actual, ok := Lookup[T](enc.Module())
	if !ok {
		enc.SetError(fmt.Errorf("%w: %s", ErrSerializerNotFound, s.desc.SerialName()))
		return
	}
	actual.Serialize(enc, v)
}

func (s *contextualSerializer[T]) Deserialize(dec Decoder) T {
	actual, ok := Lookup[T](dec.Module())
	if !ok {
		dec.SetError(fmt.Errorf("%w: %s", ErrSerializerNotFound, s.desc.SerialName()))
		var zero T
		return zero
	}
	return actual.Deserialize(dec)
}
