package serial

import (
	"errors"
	"fmt"
)

var (
	// ErrDecoding is the single failure category every decode error belongs to.
	// Use errors.Is(err, ErrDecoding) to tell data errors from other failures.
	ErrDecoding = errors.New("serial: decoding failed")

	// ErrProtocol indicates a serializer/descriptor mismatch, such as an element
	// index the descriptor does not have or a structure closed twice.
	// It is a programming error and is never caused by the data.
	ErrProtocol = errors.New("serial: protocol misuse")

	// ErrSerializerNotFound indicates that a contextual or polymorphic serializer
	// was not registered in the format's Module.
	ErrSerializerNotFound = errors.New("serial: serializer not registered")

	// ErrMalformedInput indicates truncated input, an invalid leading byte or
	// major type, or an invalid varint continuation.
	ErrMalformedInput = errors.New("serial: malformed input")

	// ErrUnexpectedWireType indicates that a field's wire type does not match what the
	// target element expects.
	ErrUnexpectedWireType = errors.New("serial: unexpected wire type")

	// ErrNumericRange indicates that a decoded integer does not fit the target width.
	ErrNumericRange = errors.New("serial: numeric value out of range")

	// ErrUnknownElement indicates an unrecognized key or serial id while unknown
	// keys are not tolerated.
	ErrUnknownElement = errors.New("serial: unknown element")

	// ErrMissingElement indicates that a required element was never observed
	// before the end of its structure.
	ErrMissingElement = errors.New("serial: missing required element")

	// ErrUnknownDiscriminator indicates a polymorphic discriminator that has no
	// registered variant.
	ErrUnknownDiscriminator = errors.New("serial: unknown polymorphic discriminator")

	// ErrTruncatedData indicates that a read could not complete because the
	// input ended before all expected bytes were read.
	ErrTruncatedData = errors.New("serial: truncated data")

	// ErrTrailingData indicates bytes left over after the top-level value was decoded.
	ErrTrailingData = errors.New("serial: trailing data found after decoding")

	// ErrInvalidVarint indicates a varint longer than 10 bytes or overflowing 64 bits.
	ErrInvalidVarint = errors.New("serial: invalid varint")
)

// ErrorKind classifies a decoding failure.
type ErrorKind uint8

const (
	MalformedInput ErrorKind = iota + 1
	UnexpectedWireType
	NumericRangeViolation
	UnknownElement
	MissingRequiredElement
	UnknownPolymorphicDiscriminator
)

var kindSentinels = map[ErrorKind]error{
	MalformedInput:                  ErrMalformedInput,
	UnexpectedWireType:              ErrUnexpectedWireType,
	NumericRangeViolation:           ErrNumericRange,
	UnknownElement:                  ErrUnknownElement,
	MissingRequiredElement:          ErrMissingElement,
	UnknownPolymorphicDiscriminator: ErrUnknownDiscriminator,
}

func (k ErrorKind) String() string {
	switch k {
	case MalformedInput:
		return "MalformedInput"
	case UnexpectedWireType:
		return "UnexpectedWireType"
	case NumericRangeViolation:
		return "NumericRangeViolation"
	case UnknownElement:
		return "UnknownElement"
	case MissingRequiredElement:
		return "MissingRequiredElement"
	case UnknownPolymorphicDiscriminator:
		return "UnknownPolymorphicDiscriminator"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// DecodingError reports a decode failure with enough context to diagnose it.
// It matches ErrDecoding and the sentinel of its Kind through errors.Is.
type DecodingError struct {
	Kind    ErrorKind
	Offset  int    // input offset where the failure was detected, -1 if unknown
	Element string // element name, if known
	Msg     string
	Err     error // optional detail, e.g. ErrTruncatedData
}

// Decoding builds a DecodingError of the given kind at offset.
func Decoding(kind ErrorKind, offset int, format string, args ...any) *DecodingError {
	return &DecodingError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// WithElement returns a copy of e naming the element being decoded.
func (e *DecodingError) WithElement(name string) *DecodingError {
	c := *e
	c.Element = name
	return &c
}

// Wrap attaches a detail error.
func (e *DecodingError) Wrap(err error) *DecodingError {
	c := *e
	c.Err = err
	return &c
}

func (e *DecodingError) Error() string {
	s := "serial: " + e.Kind.String()
	if e.Element != "" {
		s += " in element '" + e.Element + "'"
	}
	if e.Offset >= 0 {
		s += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DecodingError) Unwrap() error { return e.Err }

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding || target == kindSentinels[e.Kind]
}

// ProtocolError reports a serializer/descriptor mismatch.
type ProtocolError struct {
	Descriptor string
	Msg        string
}

// Misuse builds a ProtocolError for the descriptor named serialName.
func Misuse(serialName string, format string, args ...any) *ProtocolError {
	return &ProtocolError{Descriptor: serialName, Msg: fmt.Sprintf(format, args...)}
}

func (e *ProtocolError) Error() string {
	if e.Descriptor == "" {
		return "serial: protocol misuse: " + e.Msg
	}
	return "serial: protocol misuse in " + e.Descriptor + ": " + e.Msg
}

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// truncated is the error every cursor read returns when it runs past the end.
func truncated(offset, want, have int) *DecodingError {
	return Decoding(MalformedInput, offset, "need %d bytes, %d available", want, have).Wrap(ErrTruncatedData)
}
