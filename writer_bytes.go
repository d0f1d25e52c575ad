package serial

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// BytesWriter is an append-only output buffer that grows as needed.
// Writes always land at the current end; there is no way to rewrite earlier bytes.
type BytesWriter struct {
	B     []byte // written data
	order ByteOrder
}

// NewBytesWriter creates a new BytesWriter that appends to p[:0].
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:0], order: Order}
}

// WithByteOrder sets the byte order used by the fixed-width writes and returns
// the writer for chaining.
func (w *BytesWriter) WithByteOrder(order ByteOrder) *BytesWriter {
	w.order = order
	return w
}

// Write implements the io.Writer interface. It never fails.
func (w *BytesWriter) Write(p []byte) (int, error) {
	w.B = append(w.B, p...)
	return len(p), nil
}

// WriteString implements the io.StringWriter interface. It never fails.
func (w *BytesWriter) WriteString(s string) (int, error) {
	w.B = append(w.B, s...)
	return len(s), nil
}

// WriteByte implements the io.ByteWriter interface. It never fails.
func (w *BytesWriter) WriteByte(c byte) error {
	w.B = append(w.B, c)
	return nil
}

func (w *BytesWriter) WriteUint16(v uint16) { w.B = w.order.AppendUint16(w.B, v) }
func (w *BytesWriter) WriteUint32(v uint32) { w.B = w.order.AppendUint32(w.B, v) }
func (w *BytesWriter) WriteUint64(v uint64) { w.B = w.order.AppendUint64(w.B, v) }

// WriteUvarint writes v as a base-128 varint.
func (w *BytesWriter) WriteUvarint(v uint64) { w.B = protowire.AppendVarint(w.B, v) }

// Reset allows the underlying byte slice to be reused.
func (w *BytesWriter) Reset() { w.B = w.B[:0] }

// Len returns the number of bytes written.
func (w *BytesWriter) Len() int { return len(w.B) }

// Bytes returns a slice view of the written data.
func (w *BytesWriter) Bytes() []byte { return w.B }
