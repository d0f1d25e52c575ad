package serial

import "fmt"

// Kind is the structural shape of a described type.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindEnum
	KindList
	KindMap
	KindClass
	KindObject
	KindPolymorphic
	KindContextual
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "PRIMITIVE"
	case KindEnum:
		return "ENUM"
	case KindList:
		return "LIST"
	case KindMap:
		return "MAP"
	case KindClass:
		return "CLASS"
	case KindObject:
		return "OBJECT"
	case KindPolymorphic:
		return "POLYMORPHIC"
	case KindContextual:
		return "CONTEXTUAL"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsStructured reports whether values of this kind are written as a structure
// of named elements (as opposed to a collection or a scalar).
func (k Kind) IsStructured() bool {
	return k == KindClass || k == KindObject || k == KindPolymorphic
}

// PrimitiveKind refines KindPrimitive.
type PrimitiveKind uint8

const (
	PrimitiveNone PrimitiveKind = iota
	PrimitiveBool
	PrimitiveInt8
	PrimitiveInt16
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveFloat32
	PrimitiveFloat64
	PrimitiveChar
	PrimitiveString
	PrimitiveBytes
)

// Element describes one named sub-element of a Descriptor.
type Element struct {
	Name        string
	Descriptor  *Descriptor
	Optional    bool  // has a declared default; may be absent on the wire
	Annotations []any // format-specific metadata, e.g. protobuf.Number
}

// Descriptor is the static, immutable description of a type's serializable shape.
// A Descriptor is built once per type and shared by every encode and decode call.
type Descriptor struct {
	serialName string
	kind       Kind
	primitive  PrimitiveKind
	nullable   bool
	elements   []Element
	index      map[string]int
	original   *Descriptor // non-nullable counterpart of a nullable descriptor
}

func (d *Descriptor) SerialName() string           { return d.serialName }
func (d *Descriptor) Kind() Kind                   { return d.kind }
func (d *Descriptor) PrimitiveKind() PrimitiveKind { return d.primitive }
func (d *Descriptor) IsNullable() bool             { return d.nullable }
func (d *Descriptor) ElementsCount() int           { return len(d.elements) }

func (d *Descriptor) String() string {
	s := d.serialName
	if d.nullable {
		s += "?"
	}
	return s
}

// NonNullable returns the descriptor without its nullable marker.
func (d *Descriptor) NonNullable() *Descriptor {
	if d.original != nil {
		return d.original
	}
	return d
}

// Element returns the element at index. It panics when index is out of range:
// asking for an element a descriptor does not have is a programming error.
func (d *Descriptor) Element(index int) *Element {
	if index < 0 || index >= len(d.elements) {
		panic(fmt.Sprintf("serial: %s has no element at index %d (elements: %d)", d.serialName, index, len(d.elements)))
	}
	return &d.elements[index]
}

func (d *Descriptor) ElementName(index int) string            { return d.Element(index).Name }
func (d *Descriptor) ElementDescriptor(index int) *Descriptor { return d.Element(index).Descriptor }
func (d *Descriptor) ElementAnnotations(index int) []any      { return d.Element(index).Annotations }
func (d *Descriptor) IsElementOptional(index int) bool        { return d.Element(index).Optional }

// ElementIndex looks up an element by name. The second result is false when the
// descriptor has no element with that name, which decoders treat as unknown input.
func (d *Descriptor) ElementIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// MustElementIndex is like ElementIndex but panics on an unknown name.
func (d *Descriptor) MustElementIndex(name string) int {
	i, ok := d.index[name]
	if !ok {
		panic(fmt.Sprintf("serial: %s has no element named %q", d.serialName, name))
	}
	return i
}

// --- Construction ---

// ElementOption configures an element while a descriptor is being built.
type ElementOption func(*Element)

// Optional marks an element as having a declared default.
func Optional() ElementOption {
	return func(e *Element) { e.Optional = true }
}

// Annotated attaches format-specific metadata to an element.
func Annotated(annotations ...any) ElementOption {
	return func(e *Element) { e.Annotations = append(e.Annotations, annotations...) }
}

// ClassBuilder accumulates elements for BuildClassDescriptor.
type ClassBuilder struct {
	elements []Element
}

// Element appends an element. Indices are assigned densely in call order.
func (b *ClassBuilder) Element(name string, desc *Descriptor, opts ...ElementOption) *ClassBuilder {
	if desc == nil {
		panic(fmt.Sprintf("serial: element %q has a nil descriptor", name))
	}
	e := Element{Name: name, Descriptor: desc}
	for _, opt := range opts {
		opt(&e)
	}
	b.elements = append(b.elements, e)
	return b
}

// BuildClassDescriptor builds the descriptor of a class with named elements.
func BuildClassDescriptor(serialName string, build func(b *ClassBuilder)) *Descriptor {
	b := &ClassBuilder{}
	if build != nil {
		build(b)
	}
	return newDescriptor(serialName, KindClass, PrimitiveNone, b.elements)
}

// PrimitiveDescriptor describes a scalar.
func PrimitiveDescriptor(serialName string, kind PrimitiveKind) *Descriptor {
	return newDescriptor(serialName, KindPrimitive, kind, nil)
}

// ObjectDescriptor describes a singleton with no elements.
func ObjectDescriptor(serialName string) *Descriptor {
	return newDescriptor(serialName, KindObject, PrimitiveNone, nil)
}

// EnumDescriptor describes an enumeration; each entry is an element named after it.
func EnumDescriptor(serialName string, entries ...string) *Descriptor {
	elems := make([]Element, len(entries))
	for i, name := range entries {
		elems[i] = Element{Name: name, Descriptor: ObjectDescriptor(serialName + "." + name)}
	}
	return newDescriptor(serialName, KindEnum, PrimitiveNone, elems)
}

// ListDescriptor describes a list; the element type is described once at index 0.
func ListDescriptor(elem *Descriptor) *Descriptor {
	return newDescriptor("List<"+elem.String()+">", KindList, PrimitiveNone, []Element{
		{Name: "0", Descriptor: elem},
	})
}

// MapDescriptor describes a map with the key at index 0 and the value at index 1.
func MapDescriptor(key, value *Descriptor) *Descriptor {
	return newDescriptor("Map<"+key.String()+","+value.String()+">", KindMap, PrimitiveNone, []Element{
		{Name: "key", Descriptor: key},
		{Name: "value", Descriptor: value},
	})
}

// ContextualDescriptor stands in for a type whose serializer is resolved at run time.
func ContextualDescriptor(serialName string) *Descriptor {
	return newDescriptor(serialName, KindContextual, PrimitiveNone, nil)
}

// PolymorphicDescriptor describes a tagged union: element 0 is the "type"
// discriminator, element 1 the "value" payload.
func PolymorphicDescriptor(serialName string) *Descriptor {
	return newDescriptor(serialName, KindPolymorphic, PrimitiveNone, []Element{
		{Name: "type", Descriptor: stringDescriptor},
		{Name: "value", Descriptor: ContextualDescriptor(serialName + ".value")},
	})
}

// NullableDescriptor returns a descriptor marking d's values as possibly null.
func NullableDescriptor(d *Descriptor) *Descriptor {
	if d.nullable {
		return d
	}
	n := *d
	n.nullable = true
	n.original = d
	return &n
}

func newDescriptor(serialName string, kind Kind, primitive PrimitiveKind, elements []Element) *Descriptor {
	d := &Descriptor{
		serialName: serialName,
		kind:       kind,
		primitive:  primitive,
		elements:   elements,
		index:      make(map[string]int, len(elements)),
	}
	for i, e := range elements {
		if _, dup := d.index[e.Name]; dup {
			panic(fmt.Sprintf("serial: %s declares element %q twice", serialName, e.Name))
		}
		d.index[e.Name] = i
	}
	return d
}
