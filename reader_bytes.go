package serial

import (
	"errors"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// BytesReader is a forward-only cursor over a complete in-memory byte sequence.
// Every read that would run past the end fails with a MalformedInput error
// wrapping ErrTruncatedData.
type BytesReader struct {
	B     []byte // source slice
	N     int    // current read position
	base  int    // absolute offset of B[0] in the top-level input
	order ByteOrder
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b, order: Order}
}

// WithByteOrder sets the byte order used by the fixed-width reads and returns
// the reader for chaining.
func (r *BytesReader) WithByteOrder(order ByteOrder) *BytesReader {
	r.order = order
	return r
}

// Offset returns the absolute position of the cursor in the top-level input.
func (r *BytesReader) Offset() int { return r.base + r.N }

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int { return len(r.B) }

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, truncated(r.Offset(), 1, 0)
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// PeekByte returns the next byte without advancing.
func (r *BytesReader) PeekByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, truncated(r.Offset(), 1, 0)
	}
	return r.B[r.N], nil
}

// ReadBytes returns a view of the next n bytes and advances past them.
// The view aliases the input; callers that keep it must copy.
func (r *BytesReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Available() {
		return nil, truncated(r.Offset(), n, r.Available())
	}
	b := r.B[r.N : r.N+n]
	r.N += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *BytesReader) Skip(n int) error {
	_, err := r.ReadBytes(n)
	return err
}

func (r *BytesReader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *BytesReader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *BytesReader) ReadUint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

// ReadUvarint reads a base-128 varint.
func (r *BytesReader) ReadUvarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.B[r.N:])
	if n < 0 {
		if errors.Is(protowire.ParseError(n), io.ErrUnexpectedEOF) {
			return 0, truncated(r.Offset(), 1, r.Available())
		}
		return 0, Decoding(MalformedInput, r.Offset(), "bad varint continuation").Wrap(ErrInvalidVarint)
	}
	r.N += n
	return v, nil
}

// PeekUvarint decodes the varint at the cursor without advancing and returns
// its value and encoded length. ok is false when no complete varint follows.
func (r *BytesReader) PeekUvarint() (v uint64, n int, ok bool) {
	v, n = protowire.ConsumeVarint(r.B[r.N:])
	return v, n, n > 0
}

// Limit returns a reader over the next n bytes and advances r past them.
// Offsets reported by the returned reader stay absolute.
func (r *BytesReader) Limit(n int) (*BytesReader, error) {
	start := r.Offset()
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return &BytesReader{B: b, base: start, order: r.order}, nil
}
