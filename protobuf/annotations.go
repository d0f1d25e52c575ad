package protobuf

import "fmt"

// Number is an element annotation assigning the element's serial id (field
// number). Elements without it are numbered by position: index + 1.
type Number int32

// IntegerType is an element annotation selecting how integers are written.
type IntegerType uint8

const (
	// TypeDefault writes a varint; negative values are sign-extended to 64 bits.
	TypeDefault IntegerType = iota
	// TypeSigned writes a zigzag varint, compact for small negative values.
	TypeSigned
	// TypeFixed writes 4 bytes for targets up to 32 bits and 8 bytes for 64 bits.
	TypeFixed
)

func (t IntegerType) String() string {
	switch t {
	case TypeDefault:
		return "default"
	case TypeSigned:
		return "signed"
	case TypeFixed:
		return "fixed"
	}
	return fmt.Sprintf("IntegerType(%d)", uint8(t))
}
