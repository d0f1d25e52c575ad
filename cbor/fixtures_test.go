package cbor

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/oy3o/serial"
)

// --- Fixture types and their hand-written serializers ---

type simple struct {
	A int32
	B string
}

var simpleDesc = serial.BuildClassDescriptor("simple", func(b *serial.ClassBuilder) {
	b.Element("a", serial.Int32().Descriptor())
	b.Element("b", serial.String().Descriptor())
})

var simpleSer = serial.NewSerializer(simpleDesc,
	func(enc serial.Encoder, v simple) {
		c := enc.BeginStructure(simpleDesc)
		c.EncodeInt32Element(simpleDesc, 0, v.A)
		c.EncodeStringElement(simpleDesc, 1, v.B)
		c.EndStructure(simpleDesc)
	},
	func(dec serial.Decoder) simple {
		var v simple
		c := dec.BeginStructure(simpleDesc)
		for {
			switch i := c.DecodeElementIndex(simpleDesc); i {
			case serial.DecodeDone:
				c.EndStructure(simpleDesc)
				return v
			case 0:
				v.A = c.DecodeInt32Element(simpleDesc, 0)
			case 1:
				v.B = c.DecodeStringElement(simpleDesc, 1)
			}
		}
	})

// wide carries everything simple does plus fields simple does not know about.
type wide struct {
	A      int32
	B      string
	Extra  []simple
	Lookup map[string]float64
}

var wideDesc = serial.BuildClassDescriptor("wide", func(b *serial.ClassBuilder) {
	b.Element("extra", serial.ListOf(simpleSer).Descriptor())
	b.Element("a", serial.Int32().Descriptor())
	b.Element("lookup", serial.MapOf(serial.String(), serial.Float64()).Descriptor())
	b.Element("b", serial.String().Descriptor())
})

var wideSer = serial.NewSerializer(wideDesc,
	func(enc serial.Encoder, v wide) {
		c := enc.BeginStructure(wideDesc)
		serial.EncodeSerializableElement(c, wideDesc, 0, serial.ListOf(simpleSer), v.Extra)
		c.EncodeInt32Element(wideDesc, 1, v.A)
		serial.EncodeSerializableElement(c, wideDesc, 2, serial.MapOf(serial.String(), serial.Float64()), v.Lookup)
		c.EncodeStringElement(wideDesc, 3, v.B)
		c.EndStructure(wideDesc)
	},
	func(dec serial.Decoder) wide {
		panic("encode only")
	})

// defaults declares count = 5 and tags = nil as defaults.
type defaults struct {
	Name  string
	Count int32
	Tags  []string
}

var defaultsDesc = serial.BuildClassDescriptor("defaults", func(b *serial.ClassBuilder) {
	b.Element("name", serial.String().Descriptor())
	b.Element("count", serial.Int32().Descriptor(), serial.Optional())
	b.Element("tags", serial.ListOf(serial.String()).Descriptor(), serial.Optional())
})

var defaultsSer = serial.NewSerializer(defaultsDesc,
	func(enc serial.Encoder, v defaults) {
		c := enc.BeginStructure(defaultsDesc)
		c.EncodeStringElement(defaultsDesc, 0, v.Name)
		if v.Count != 5 || c.ShouldEncodeElementDefault(defaultsDesc, 1) {
			c.EncodeInt32Element(defaultsDesc, 1, v.Count)
		}
		if v.Tags != nil || c.ShouldEncodeElementDefault(defaultsDesc, 2) {
			serial.EncodeSerializableElement(c, defaultsDesc, 2, serial.ListOf(serial.String()), v.Tags)
		}
		c.EndStructure(defaultsDesc)
	},
	func(dec serial.Decoder) defaults {
		v := defaults{Count: 5}
		c := dec.BeginStructure(defaultsDesc)
		for {
			switch i := c.DecodeElementIndex(defaultsDesc); i {
			case serial.DecodeDone:
				c.EndStructure(defaultsDesc)
				return v
			case 0:
				v.Name = c.DecodeStringElement(defaultsDesc, 0)
			case 1:
				v.Count = c.DecodeInt32Element(defaultsDesc, 1)
			case 2:
				v.Tags = serial.DecodeSerializableElement(c, defaultsDesc, 2, serial.ListOf(serial.String()))
			}
		}
	})

type tiny struct {
	V int8
}

var tinyDesc = serial.BuildClassDescriptor("tiny", func(b *serial.ClassBuilder) {
	b.Element("v", serial.Int8().Descriptor())
})

var tinySer = serial.NewSerializer(tinyDesc,
	func(enc serial.Encoder, v tiny) {
		c := enc.BeginStructure(tinyDesc)
		c.EncodeInt8Element(tinyDesc, 0, v.V)
		c.EndStructure(tinyDesc)
	},
	func(dec serial.Decoder) tiny {
		var v tiny
		c := dec.BeginStructure(tinyDesc)
		for i := c.DecodeElementIndex(tinyDesc); i != serial.DecodeDone; i = c.DecodeElementIndex(tinyDesc) {
			v.V = c.DecodeInt8Element(tinyDesc, i)
		}
		c.EndStructure(tinyDesc)
		return v
	})

// node is a recursive tree used for deep-structure tests.
type node struct {
	Value    int32
	Children []node
}

var nodeDesc = serial.BuildClassDescriptor("node", func(b *serial.ClassBuilder) {
	b.Element("value", serial.Int32().Descriptor())
	b.Element("children", serial.ListDescriptor(serial.ContextualDescriptor("node")), serial.Optional())
})

type nodeSerializer struct{}

var (
	nodeSer     serial.Serializer[node] = nodeSerializer{}
	nodeListSer serial.Serializer[[]node]
)

func init() {
	nodeListSer = serial.ListOf(nodeSer)
}

func (nodeSerializer) Descriptor() *serial.Descriptor { return nodeDesc }

func (nodeSerializer) Serialize(enc serial.Encoder, v node) {
	c := enc.BeginStructure(nodeDesc)
	c.EncodeInt32Element(nodeDesc, 0, v.Value)
	if len(v.Children) > 0 || c.ShouldEncodeElementDefault(nodeDesc, 1) {
		serial.EncodeSerializableElement(c, nodeDesc, 1, nodeListSer, v.Children)
	}
	c.EndStructure(nodeDesc)
}

func (nodeSerializer) Deserialize(dec serial.Decoder) node {
	var v node
	c := dec.BeginStructure(nodeDesc)
	for {
		switch i := c.DecodeElementIndex(nodeDesc); i {
		case serial.DecodeDone:
			c.EndStructure(nodeDesc)
			return v
		case 0:
			v.Value = c.DecodeInt32Element(nodeDesc, 0)
		case 1:
			v.Children = serial.DecodeSerializableElement(c, nodeDesc, 1, nodeListSer)
		}
	}
}

// chain builds a node nested depth levels deep.
func chain(value int32, depth int) node {
	n := node{Value: value + int32(depth)}
	for d := depth - 1; d > 0; d-- {
		n = node{Value: value + int32(d), Children: []node{n}}
	}
	return n
}

// --- Polymorphic fixtures ---

type shape interface {
	Area() float64
}

type circle struct {
	R float64
}

func (c circle) Area() float64 { return math.Pi * c.R * c.R }

type rect struct {
	W, H int32
}

func (r rect) Area() float64 { return float64(r.W * r.H) }

var circleDesc = serial.BuildClassDescriptor("circle", func(b *serial.ClassBuilder) {
	b.Element("r", serial.Float64().Descriptor())
})

var circleSer = serial.NewSerializer(circleDesc,
	func(enc serial.Encoder, v circle) {
		c := enc.BeginStructure(circleDesc)
		c.EncodeFloat64Element(circleDesc, 0, v.R)
		c.EndStructure(circleDesc)
	},
	func(dec serial.Decoder) circle {
		var v circle
		c := dec.BeginStructure(circleDesc)
		for i := c.DecodeElementIndex(circleDesc); i != serial.DecodeDone; i = c.DecodeElementIndex(circleDesc) {
			v.R = c.DecodeFloat64Element(circleDesc, i)
		}
		c.EndStructure(circleDesc)
		return v
	})

var rectDesc = serial.BuildClassDescriptor("rect", func(b *serial.ClassBuilder) {
	b.Element("w", serial.Int32().Descriptor())
	b.Element("h", serial.Int32().Descriptor())
})

var rectSer = serial.NewSerializer(rectDesc,
	func(enc serial.Encoder, v rect) {
		c := enc.BeginStructure(rectDesc)
		c.EncodeInt32Element(rectDesc, 0, v.W)
		c.EncodeInt32Element(rectDesc, 1, v.H)
		c.EndStructure(rectDesc)
	},
	func(dec serial.Decoder) rect {
		var v rect
		c := dec.BeginStructure(rectDesc)
		for {
			switch i := c.DecodeElementIndex(rectDesc); i {
			case serial.DecodeDone:
				c.EndStructure(rectDesc)
				return v
			case 0:
				v.W = c.DecodeInt32Element(rectDesc, 0)
			case 1:
				v.H = c.DecodeInt32Element(rectDesc, 1)
			}
		}
	})

var shapeSer = serial.Sealed("shape",
	serial.VariantOf[shape]("circle", circleSer),
	serial.VariantOf[shape]("rect", rectSer),
)

type color int

const (
	red color = iota
	green
	blue
)

var colorSer = serial.Enum[color]("color", "red", "green", "blue")

func unhex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}
