package protobuf

import (
	"encoding/hex"
	"strings"

	"github.com/oy3o/serial"
)

func unhex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

// decodeFields is the loop every message fixture shares: it dispatches each
// present element to fn until the message ends.
func decodeFields(dec serial.Decoder, desc *serial.Descriptor, fn func(c serial.CompositeDecoder, i int)) {
	c := dec.BeginStructure(desc)
	for {
		i := c.DecodeElementIndex(desc)
		if i == serial.DecodeDone {
			break
		}
		fn(c, i)
	}
	c.EndStructure(desc)
}

// signedInt: a = 1 (zigzag).
type signedInt struct {
	A int32
}

var signedIntDesc = serial.BuildClassDescriptor("SignedInt", func(b *serial.ClassBuilder) {
	b.Element("a", serial.Int32().Descriptor(), serial.Annotated(Number(1), TypeSigned))
})

var signedIntSer = serial.NewSerializer(signedIntDesc,
	func(enc serial.Encoder, v signedInt) {
		c := enc.BeginStructure(signedIntDesc)
		c.EncodeInt32Element(signedIntDesc, 0, v.A)
		c.EndStructure(signedIntDesc)
	},
	func(dec serial.Decoder) signedInt {
		var v signedInt
		decodeFields(dec, signedIntDesc, func(c serial.CompositeDecoder, i int) {
			v.A = c.DecodeInt32Element(signedIntDesc, i)
		})
		return v
	})

// intList: a = 1 (repeated varint).
type intList struct {
	A []int32
}

var int32List = serial.ListOf(serial.Int32())

var intListDesc = serial.BuildClassDescriptor("IntList", func(b *serial.ClassBuilder) {
	b.Element("a", int32List.Descriptor(), serial.Annotated(Number(1)))
})

var intListSer = serial.NewSerializer(intListDesc,
	func(enc serial.Encoder, v intList) {
		c := enc.BeginStructure(intListDesc)
		serial.EncodeSerializableElement(c, intListDesc, 0, int32List, v.A)
		c.EndStructure(intListDesc)
	},
	func(dec serial.Decoder) intList {
		var v intList
		decodeFields(dec, intListDesc, func(c serial.CompositeDecoder, i int) {
			v.A = serial.UpdateSerializableElement(c, intListDesc, i, int32List, v.A)
		})
		return v
	})

// text: b = 2.
type text struct {
	B string
}

var textDesc = serial.BuildClassDescriptor("Text", func(b *serial.ClassBuilder) {
	b.Element("b", serial.String().Descriptor(), serial.Annotated(Number(2)))
})

var textSer = serial.NewSerializer(textDesc,
	func(enc serial.Encoder, v text) {
		c := enc.BeginStructure(textDesc)
		c.EncodeStringElement(textDesc, 0, v.B)
		c.EndStructure(textDesc)
	},
	func(dec serial.Decoder) text {
		var v text
		decodeFields(dec, textDesc, func(c serial.CompositeDecoder, i int) {
			v.B = c.DecodeStringElement(textDesc, i)
		})
		return v
	})

// wrapper: a = 3 (nested signedInt).
type wrapper struct {
	A signedInt
}

var wrapperDesc = serial.BuildClassDescriptor("Wrapper", func(b *serial.ClassBuilder) {
	b.Element("a", signedIntDesc, serial.Annotated(Number(3)))
})

var wrapperSer = serial.NewSerializer(wrapperDesc,
	func(enc serial.Encoder, v wrapper) {
		c := enc.BeginStructure(wrapperDesc)
		serial.EncodeSerializableElement(c, wrapperDesc, 0, signedIntSer, v.A)
		c.EndStructure(wrapperDesc)
	},
	func(dec serial.Decoder) wrapper {
		var v wrapper
		decodeFields(dec, wrapperDesc, func(c serial.CompositeDecoder, i int) {
			v.A = serial.DecodeSerializableElement(c, wrapperDesc, i, signedIntSer)
		})
		return v
	})

// unordered: b = 42, c = 2.
type unordered struct {
	B int32
	C string
}

var unorderedDesc = serial.BuildClassDescriptor("Unordered", func(b *serial.ClassBuilder) {
	b.Element("b", serial.Int32().Descriptor(), serial.Annotated(Number(42)))
	b.Element("c", serial.String().Descriptor(), serial.Annotated(Number(2)))
})

var unorderedSer = serial.NewSerializer(unorderedDesc,
	func(enc serial.Encoder, v unordered) {
		c := enc.BeginStructure(unorderedDesc)
		c.EncodeInt32Element(unorderedDesc, 0, v.B)
		c.EncodeStringElement(unorderedDesc, 1, v.C)
		c.EndStructure(unorderedDesc)
	},
	func(dec serial.Decoder) unordered {
		var v unordered
		decodeFields(dec, unorderedDesc, func(c serial.CompositeDecoder, i int) {
			switch i {
			case 0:
				v.B = c.DecodeInt32Element(unorderedDesc, 0)
			case 1:
				v.C = c.DecodeStringElement(unorderedDesc, 1)
			}
		})
		return v
	})

// record exercises every scalar kind, every integer mode, maps, nullable and
// defaulted elements. Element numbers follow declaration order.
type record struct {
	Flag    bool
	Small   int8
	Medium  int16
	Fixed   int32
	Big     int64
	Zig     int64
	Ratio   float32
	Precise float64
	Letter  rune
	Name    string
	Raw     []byte
	Color   color
	Scores  map[string]int32
	Note    *string
	Level   int32 // defaults to 3
	Tags    []string
}

type color int

const (
	red color = iota
	green
	blue
)

var colorSer = serial.Enum[color]("color", "red", "green", "blue")

var (
	scoresSer = serial.MapOf(serial.String(), serial.Int32())
	noteSer   = serial.Nullable(serial.String())
	tagsSer   = serial.ListOf(serial.String())
)

var recordDesc = serial.BuildClassDescriptor("Record", func(b *serial.ClassBuilder) {
	b.Element("flag", serial.Bool().Descriptor())
	b.Element("small", serial.Int8().Descriptor())
	b.Element("medium", serial.Int16().Descriptor(), serial.Annotated(TypeSigned))
	b.Element("fixed", serial.Int32().Descriptor(), serial.Annotated(TypeFixed))
	b.Element("big", serial.Int64().Descriptor(), serial.Annotated(TypeFixed))
	b.Element("zig", serial.Int64().Descriptor(), serial.Annotated(TypeSigned))
	b.Element("ratio", serial.Float32().Descriptor())
	b.Element("precise", serial.Float64().Descriptor())
	b.Element("letter", serial.Char().Descriptor())
	b.Element("name", serial.String().Descriptor())
	b.Element("raw", serial.Bytes().Descriptor())
	b.Element("color", colorSer.Descriptor())
	b.Element("scores", scoresSer.Descriptor())
	b.Element("note", noteSer.Descriptor(), serial.Optional())
	b.Element("level", serial.Int32().Descriptor(), serial.Optional())
	b.Element("tags", tagsSer.Descriptor())
})

var recordSer = serial.NewSerializer(recordDesc,
	func(enc serial.Encoder, v record) {
		d := recordDesc
		c := enc.BeginStructure(d)
		c.EncodeBoolElement(d, 0, v.Flag)
		c.EncodeInt8Element(d, 1, v.Small)
		c.EncodeInt16Element(d, 2, v.Medium)
		c.EncodeInt32Element(d, 3, v.Fixed)
		c.EncodeInt64Element(d, 4, v.Big)
		c.EncodeInt64Element(d, 5, v.Zig)
		c.EncodeFloat32Element(d, 6, v.Ratio)
		c.EncodeFloat64Element(d, 7, v.Precise)
		c.EncodeCharElement(d, 8, v.Letter)
		c.EncodeStringElement(d, 9, v.Name)
		c.EncodeBytesElement(d, 10, v.Raw)
		serial.EncodeSerializableElement(c, d, 11, colorSer, v.Color)
		serial.EncodeSerializableElement(c, d, 12, scoresSer, v.Scores)
		if v.Note != nil || c.ShouldEncodeElementDefault(d, 13) {
			serial.EncodeNullableSerializableElement(c, d, 13, serial.String(), v.Note)
		}
		if v.Level != 3 || c.ShouldEncodeElementDefault(d, 14) {
			c.EncodeInt32Element(d, 14, v.Level)
		}
		serial.EncodeSerializableElement(c, d, 15, tagsSer, v.Tags)
		c.EndStructure(d)
	},
	func(dec serial.Decoder) record {
		d := recordDesc
		v := record{Level: 3}
		decodeFields(dec, d, func(c serial.CompositeDecoder, i int) {
			switch i {
			case 0:
				v.Flag = c.DecodeBoolElement(d, i)
			case 1:
				v.Small = c.DecodeInt8Element(d, i)
			case 2:
				v.Medium = c.DecodeInt16Element(d, i)
			case 3:
				v.Fixed = c.DecodeInt32Element(d, i)
			case 4:
				v.Big = c.DecodeInt64Element(d, i)
			case 5:
				v.Zig = c.DecodeInt64Element(d, i)
			case 6:
				v.Ratio = c.DecodeFloat32Element(d, i)
			case 7:
				v.Precise = c.DecodeFloat64Element(d, i)
			case 8:
				v.Letter = c.DecodeCharElement(d, i)
			case 9:
				v.Name = c.DecodeStringElement(d, i)
			case 10:
				v.Raw = c.DecodeBytesElement(d, i)
			case 11:
				v.Color = serial.DecodeSerializableElement(c, d, i, colorSer)
			case 12:
				v.Scores = serial.UpdateSerializableElement(c, d, i, scoresSer, v.Scores)
			case 13:
				v.Note = serial.DecodeNullableSerializableElement(c, d, i, serial.String())
			case 14:
				v.Level = c.DecodeInt32Element(d, i)
			case 15:
				v.Tags = serial.UpdateSerializableElement(c, d, i, tagsSer, v.Tags)
			}
		})
		return v
	})

// --- Polymorphic fixtures ---

type event interface {
	Kind() string
}

type login struct {
	User string
}

func (login) Kind() string { return "login" }

type logout struct {
	User   string
	Reason int32
}

func (logout) Kind() string { return "logout" }

var loginDesc = serial.BuildClassDescriptor("login", func(b *serial.ClassBuilder) {
	b.Element("user", serial.String().Descriptor())
})

var loginSer = serial.NewSerializer(loginDesc,
	func(enc serial.Encoder, v login) {
		c := enc.BeginStructure(loginDesc)
		c.EncodeStringElement(loginDesc, 0, v.User)
		c.EndStructure(loginDesc)
	},
	func(dec serial.Decoder) login {
		var v login
		decodeFields(dec, loginDesc, func(c serial.CompositeDecoder, i int) {
			v.User = c.DecodeStringElement(loginDesc, i)
		})
		return v
	})

var logoutDesc = serial.BuildClassDescriptor("logout", func(b *serial.ClassBuilder) {
	b.Element("user", serial.String().Descriptor())
	b.Element("reason", serial.Int32().Descriptor(), serial.Optional())
})

var logoutSer = serial.NewSerializer(logoutDesc,
	func(enc serial.Encoder, v logout) {
		c := enc.BeginStructure(logoutDesc)
		c.EncodeStringElement(logoutDesc, 0, v.User)
		if v.Reason != 0 || c.ShouldEncodeElementDefault(logoutDesc, 1) {
			c.EncodeInt32Element(logoutDesc, 1, v.Reason)
		}
		c.EndStructure(logoutDesc)
	},
	func(dec serial.Decoder) logout {
		var v logout
		decodeFields(dec, logoutDesc, func(c serial.CompositeDecoder, i int) {
			switch i {
			case 0:
				v.User = c.DecodeStringElement(logoutDesc, 0)
			case 1:
				v.Reason = c.DecodeInt32Element(logoutDesc, 1)
			}
		})
		return v
	})

var eventSer = serial.Sealed("event",
	serial.VariantOf[event]("login", loginSer),
	serial.VariantOf[event]("logout", logoutSer),
)
