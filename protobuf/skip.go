package protobuf

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/oy3o/serial"
)

// readTag reads a field key and validates its number and wire type.
func readTag(r *serial.BytesReader) (protowire.Number, protowire.Type, error) {
	offset := r.Offset()
	v, err := r.ReadUvarint()
	if err != nil {
		return 0, 0, err
	}
	num, typ := protowire.DecodeTag(v)
	if !num.IsValid() {
		return 0, 0, serial.Decoding(serial.MalformedInput, offset, "invalid field number %d", num)
	}
	switch typ {
	case protowire.VarintType, protowire.Fixed32Type, protowire.Fixed64Type, protowire.BytesType:
		return num, typ, nil
	case protowire.StartGroupType, protowire.EndGroupType:
		return 0, 0, serial.Decoding(serial.MalformedInput, offset, "field %d: groups are not supported", num)
	}
	return 0, 0, serial.Decoding(serial.MalformedInput, offset, "field %d: invalid wire type %d", num, typ)
}

// readLen reads the length prefix of a length-delimited value.
func readLen(r *serial.BytesReader) (int, error) {
	offset := r.Offset()
	n, err := r.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > uint64(r.Available()) {
		return 0, serial.Decoding(serial.MalformedInput, offset, "length %d exceeds the remaining %d bytes", n, r.Available()).Wrap(serial.ErrTruncatedData)
	}
	return int(n), nil
}

// skipField consumes the value of a field of wire type typ. Length-delimited
// values are skipped whole, so nested messages cost nothing to skip.
func skipField(r *serial.BytesReader, typ protowire.Type) error {
	switch typ {
	case protowire.VarintType:
		_, err := r.ReadUvarint()
		return err
	case protowire.Fixed32Type:
		return r.Skip(4)
	case protowire.Fixed64Type:
		return r.Skip(8)
	case protowire.BytesType:
		n, err := readLen(r)
		if err != nil {
			return err
		}
		return r.Skip(n)
	}
	return serial.Decoding(serial.MalformedInput, r.Offset(), "cannot skip wire type %d", typ)
}

// span returns a reader over the value of a field of wire type typ and
// advances r past it.
func span(r *serial.BytesReader, typ protowire.Type) (*serial.BytesReader, error) {
	probe := *r
	if err := skipField(&probe, typ); err != nil {
		return nil, err
	}
	return r.Limit(probe.N - r.N)
}
