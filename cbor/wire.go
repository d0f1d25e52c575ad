package cbor

import (
	"github.com/oy3o/serial"
)

// Major types, already shifted into the top three bits of the initial byte.
const (
	majorUnsigned byte = 0 << 5
	majorNegative byte = 1 << 5
	majorBytes    byte = 2 << 5
	majorText     byte = 3 << 5
	majorArray    byte = 4 << 5
	majorMap      byte = 5 << 5
	majorTag      byte = 6 << 5
	majorSimple   byte = 7 << 5

	majorMask byte = 0xE0
	infoMask  byte = 0x1F
)

const (
	infoUint8      byte = 24
	infoUint16     byte = 25
	infoUint32     byte = 26
	infoUint64     byte = 27
	infoIndefinite byte = 31
)

const (
	simpleFalse byte = 0xF4
	simpleTrue  byte = 0xF5
	simpleNull  byte = 0xF6
	floatHalf   byte = 0xF9
	floatSingle byte = 0xFA
	floatDouble byte = 0xFB
	breakByte   byte = 0xFF
	beginArray  byte = majorArray | infoIndefinite // 0x9F
	beginMap    byte = majorMap | infoIndefinite   // 0xBF
)

// writeHeader writes major with the smallest encoding of arg.
func writeHeader(w *serial.BytesWriter, major byte, arg uint64) {
	switch {
	case arg < uint64(infoUint8):
		_ = w.WriteByte(major | byte(arg))
	case arg <= 0xFF:
		_ = w.WriteByte(major | infoUint8)
		_ = w.WriteByte(byte(arg))
	case arg <= 0xFFFF:
		_ = w.WriteByte(major | infoUint16)
		w.WriteUint16(uint16(arg))
	case arg <= 0xFFFFFFFF:
		_ = w.WriteByte(major | infoUint32)
		w.WriteUint32(uint32(arg))
	default:
		_ = w.WriteByte(major | infoUint64)
		w.WriteUint64(arg)
	}
}

func writeInt(w *serial.BytesWriter, v int64) {
	if v >= 0 {
		writeHeader(w, majorUnsigned, uint64(v))
		return
	}
	writeHeader(w, majorNegative, uint64(-(v + 1)))
}

func writeText(w *serial.BytesWriter, s string) {
	writeHeader(w, majorText, uint64(len(s)))
	_, _ = w.WriteString(s)
}

// header is a decoded initial byte plus its argument.
type header struct {
	offset     int
	major      byte
	info       byte
	arg        uint64
	indefinite bool
}

// readHeader reads an initial byte and the argument bytes that follow it.
// For major type 7 the argument holds the raw simple value or float bits.
func readHeader(r *serial.BytesReader) (header, error) {
	h := header{offset: r.Offset()}
	b, err := r.ReadByte()
	if err != nil {
		return h, err
	}
	h.major, h.info = b&majorMask, b&infoMask
	switch {
	case h.info < infoUint8:
		h.arg = uint64(h.info)
	case h.info == infoUint8:
		v, err := r.ReadByte()
		if err != nil {
			return h, err
		}
		h.arg = uint64(v)
	case h.info == infoUint16:
		v, err := r.ReadUint16()
		if err != nil {
			return h, err
		}
		h.arg = uint64(v)
	case h.info == infoUint32:
		v, err := r.ReadUint32()
		if err != nil {
			return h, err
		}
		h.arg = uint64(v)
	case h.info == infoUint64:
		v, err := r.ReadUint64()
		if err != nil {
			return h, err
		}
		h.arg = v
	case h.info == infoIndefinite:
		switch h.major {
		case majorBytes, majorText, majorArray, majorMap, majorSimple:
			h.indefinite = true
		default:
			return h, serial.Decoding(serial.MalformedInput, h.offset, "indefinite length is invalid for major type %d", h.major>>5)
		}
	default:
		return h, serial.Decoding(serial.MalformedInput, h.offset, "reserved additional information %d", h.info)
	}
	return h, nil
}

func (h header) isBreak() bool { return h.major == majorSimple && h.indefinite }

// length returns the definite length argument as an int, rejecting lengths
// that cannot fit in the remaining input at perItem bytes per item.
func (h header) length(r *serial.BytesReader, perItem int) (int, error) {
	if h.arg > uint64(r.Available()/perItem) {
		return 0, serial.Decoding(serial.MalformedInput, h.offset, "length %d exceeds the remaining %d bytes", h.arg, r.Available()).Wrap(serial.ErrTruncatedData)
	}
	return int(h.arg), nil
}

func majorName(major byte) string {
	switch major {
	case majorUnsigned:
		return "unsigned integer"
	case majorNegative:
		return "negative integer"
	case majorBytes:
		return "byte string"
	case majorText:
		return "text string"
	case majorArray:
		return "array"
	case majorMap:
		return "map"
	case majorTag:
		return "tag"
	}
	return "simple/float"
}

// mode is the framing a composite encoder or decoder is inside.
type mode uint8

const (
	modeValue mode = iota
	modeClass
	modeList
	modeMap
	modePoly
)

func modeOf(desc *serial.Descriptor) (mode, bool) {
	switch desc.Kind() {
	case serial.KindClass, serial.KindObject:
		return modeClass, true
	case serial.KindList:
		return modeList, true
	case serial.KindMap:
		return modeMap, true
	case serial.KindPolymorphic:
		return modePoly, true
	}
	return modeValue, false
}
