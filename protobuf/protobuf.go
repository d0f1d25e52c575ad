// Package protobuf implements the serial protocol over the Protocol Buffers
// wire format: tag/varint/length-delimited fields addressed by serial id.
//
// Serial ids and integer encodings are supplied per element through
// descriptor annotations (Number, IntegerType); nothing is inferred from Go
// types. Lists are written as repeated fields (never packed), maps as repeated
// entry messages with the key at field 1 and the value at field 2, and
// polymorphic values as a message with the discriminator at field 1 and the
// payload at field 2. Null has no wire form: null elements are omitted.
//
// The top-level value must be a message (class, object or polymorphic).
package protobuf

import (
	"log/slog"

	"github.com/oy3o/serial"
)

// ProtoBuf is an immutable Protobuf format configuration. It is safe for
// concurrent use by any number of goroutines.
type ProtoBuf struct {
	encodeDefaults    bool
	ignoreUnknownKeys bool
	module            *serial.Module
	logger            *slog.Logger
}

// Default is the Protobuf format with default settings.
var Default = New()

var _ serial.BinaryFormat = (*ProtoBuf)(nil)

// Option configures a ProtoBuf instance at construction.
type Option func(*ProtoBuf)

// WithEncodeDefaults sets whether elements equal to their declared default are still written.
func WithEncodeDefaults(v bool) Option {
	return func(p *ProtoBuf) { p.encodeDefaults = v }
}

// WithIgnoreUnknownKeys sets whether fields with unknown serial ids are
// skipped instead of failing.
func WithIgnoreUnknownKeys(v bool) Option {
	return func(p *ProtoBuf) { p.ignoreUnknownKeys = v }
}

// WithModule sets the registry used by contextual and polymorphic serializers.
func WithModule(m *serial.Module) Option {
	return func(p *ProtoBuf) { p.module = m }
}

// WithLogger sets the logger receiving debug records about skipped input.
// A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *ProtoBuf) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		p.logger = l
	}
}

// New creates a ProtoBuf format from the library defaults adjusted by opts.
func New(opts ...Option) *ProtoBuf {
	p := &ProtoBuf{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of p adjusted by opts.
func (p *ProtoBuf) With(opts ...Option) *ProtoBuf {
	n := *p
	for _, opt := range opts {
		opt(&n)
	}
	return &n
}

func (p *ProtoBuf) EncodeDefaults() bool    { return p.encodeDefaults }
func (p *ProtoBuf) IgnoreUnknownKeys() bool { return p.ignoreUnknownKeys }
func (p *ProtoBuf) Module() *serial.Module  { return p.module }

// EncodeValue implements serial.BinaryFormat. It switches w to little-endian.
func (p *ProtoBuf) EncodeValue(w *serial.BytesWriter, fn func(enc serial.Encoder)) error {
	enc := newRootWriter(p, w.WithByteOrder(serial.LE), &serial.Latch{})
	fn(enc)
	return enc.Err()
}

// DecodeValue implements serial.BinaryFormat.
func (p *ProtoBuf) DecodeValue(r *serial.BytesReader, fn func(dec serial.Decoder)) error {
	dec := newRootReader(p, r.WithByteOrder(serial.LE), &serial.Latch{})
	fn(dec)
	if err := dec.Err(); err != nil {
		return err
	}
	if n := r.Available(); n > 0 {
		return serial.Decoding(serial.MalformedInput, r.Offset(), "%d bytes after the top-level message", n).Wrap(serial.ErrTrailingData)
	}
	return nil
}

// Encode encodes v with s in format p.
func Encode[T any](p *ProtoBuf, s serial.Serializer[T], v T) ([]byte, error) {
	return serial.EncodeToByteArray(p, s, v)
}

// Decode decodes one message of s from data in format p.
func Decode[T any](p *ProtoBuf, s serial.Serializer[T], data []byte) (T, error) {
	return serial.DecodeFromByteArray(p, s, data)
}
