package serial

import "sync"

// writerPool reuses scratch writers for nested length-delimited frames.
// This reduces GC pressure on deeply nested messages, whose bytes must be
// complete before their length prefix can be appended to the parent.
var writerPool = sync.Pool{
	New: func() any {
		// A 256B default covers the common small nested message.
		return NewBytesWriter(make([]byte, 0, 256))
	},
}

// maxPooledSize keeps a single huge frame from pinning memory in the pool.
const maxPooledSize = 64 * 1024

// AcquireWriter returns an empty scratch writer using the given byte order.
func AcquireWriter(order ByteOrder) *BytesWriter {
	w := writerPool.Get().(*BytesWriter)
	w.Reset()
	return w.WithByteOrder(order)
}

// ReleaseWriter returns w to the pool. w must not be used afterwards.
func ReleaseWriter(w *BytesWriter) {
	if cap(w.B) > maxPooledSize {
		return
	}
	writerPool.Put(w)
}
