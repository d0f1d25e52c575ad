package serial

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// ByteOrder reads fixed-width integers from and appends them to byte slices.
// binary.BigEndian and binary.LittleEndian implement it.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the default byte order of BytesReader and BytesWriter.
	Order ByteOrder = BE
)

func Ptr[T any](v T) *T { return &v } // Ptr is a helper to take the address of a value, making nullable fields easier to populate.

// FitSigned converts v to T, failing with NumericRangeViolation when v does not fit T's width.
func FitSigned[T constraints.Signed](v int64) (T, error) {
	t := T(v)
	if int64(t) != v {
		return 0, Decoding(NumericRangeViolation, -1, "value %d does not fit in %d bits", v, bitSize[T]())
	}
	return t, nil
}

// FitUnsigned converts v to T, failing with NumericRangeViolation when v does not fit T's width.
func FitUnsigned[T constraints.Unsigned](v uint64) (T, error) {
	t := T(v)
	if uint64(t) != v {
		return 0, Decoding(NumericRangeViolation, -1, "value %d does not fit in %d bits", v, bitSize[T]())
	}
	return t, nil
}

// FitSignedFromUnsigned converts an unsigned wire value to a signed T,
// failing when it exceeds T's maximum.
func FitSignedFromUnsigned[T constraints.Signed](v uint64) (T, error) {
	if v > 1<<63-1 {
		return 0, Decoding(NumericRangeViolation, -1, "value %d does not fit in %d bits", v, bitSize[T]())
	}
	return FitSigned[T](int64(v))
}

func bitSize[T constraints.Integer]() int {
	var t T
	return int(unsafe.Sizeof(t)) * 8
}
