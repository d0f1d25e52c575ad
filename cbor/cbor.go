// Package cbor implements the serial protocol over CBOR (RFC 7049).
//
// The mapping from descriptor kinds to CBOR is:
//
//	                  kind | CBOR
//	-----------------------+------------------------------------------
//	                  bool | simple value true/false (0xF5/0xF4)
//	  int8 ... int64, char | major type 0/1, smallest header
//	               float32 | single precision (0xFA)
//	               float64 | double precision (0xFB)
//	                string | major type 3
//	                 bytes | major type 2 (byte string, no text escaping)
//	                  enum | text string of the entry name
//	                  null | simple value null (0xF6)
//	        class / object | indefinite-length map of element name to value
//	   list / polymorphic | indefinite-length array
//	                   map | indefinite-length map of arbitrary keys
//
// Encoding always writes indefinite-length arrays and maps so that no length
// has to be known before the elements are written. Decoding accepts both
// definite and indefinite lengths. Tags (datetime, bignum, ...) are never
// written and are rejected where a known element is expected.
package cbor

import (
	"log/slog"

	"github.com/oy3o/serial"
)

// Cbor is an immutable CBOR format configuration. It is safe for concurrent
// use by any number of goroutines.
type Cbor struct {
	encodeDefaults    bool
	ignoreUnknownKeys bool
	module            *serial.Module
	logger            *slog.Logger
}

// Default is the CBOR format with default settings: default-valued elements
// are elided and unknown keys fail decoding.
var Default = New()

var _ serial.BinaryFormat = (*Cbor)(nil)

// Option configures a Cbor instance at construction.
type Option func(*Cbor)

// WithEncodeDefaults sets whether elements equal to their declared default are still written.
func WithEncodeDefaults(v bool) Option {
	return func(c *Cbor) { c.encodeDefaults = v }
}

// WithIgnoreUnknownKeys sets whether unknown map keys are skipped instead of failing.
func WithIgnoreUnknownKeys(v bool) Option {
	return func(c *Cbor) { c.ignoreUnknownKeys = v }
}

// WithModule sets the registry used by contextual and polymorphic serializers.
func WithModule(m *serial.Module) Option {
	return func(c *Cbor) { c.module = m }
}

// WithLogger sets the logger receiving debug records about skipped input.
// A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cbor) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.logger = l
	}
}

// New creates a Cbor format from the library defaults adjusted by opts.
func New(opts ...Option) *Cbor {
	c := &Cbor{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c adjusted by opts. c itself is left unchanged.
func (c *Cbor) With(opts ...Option) *Cbor {
	n := *c
	for _, opt := range opts {
		opt(&n)
	}
	return &n
}

func (c *Cbor) EncodeDefaults() bool    { return c.encodeDefaults }
func (c *Cbor) IgnoreUnknownKeys() bool { return c.ignoreUnknownKeys }
func (c *Cbor) Module() *serial.Module  { return c.module }

// EncodeValue implements serial.BinaryFormat. It switches w to big-endian.
func (c *Cbor) EncodeValue(w *serial.BytesWriter, fn func(enc serial.Encoder)) error {
	enc := newWriter(c, w.WithByteOrder(serial.BE), &serial.Latch{})
	fn(enc)
	return enc.Err()
}

// DecodeValue implements serial.BinaryFormat. Input left after the top-level
// item is an error.
func (c *Cbor) DecodeValue(r *serial.BytesReader, fn func(dec serial.Decoder)) error {
	dec := newReader(c, r.WithByteOrder(serial.BE), &serial.Latch{})
	fn(dec)
	if err := dec.Err(); err != nil {
		return err
	}
	if n := r.Available(); n > 0 {
		return serial.Decoding(serial.MalformedInput, r.Offset(), "%d bytes after the top-level item", n).Wrap(serial.ErrTrailingData)
	}
	return nil
}

// Encode encodes v with s in format c.
func Encode[T any](c *Cbor, s serial.Serializer[T], v T) ([]byte, error) {
	return serial.EncodeToByteArray(c, s, v)
}

// Decode decodes one value of s from data in format c.
func Decode[T any](c *Cbor, s serial.Serializer[T], data []byte) (T, error) {
	return serial.DecodeFromByteArray(c, s, data)
}
