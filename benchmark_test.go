package serial

import (
	"encoding/binary"
	"testing"
)

var benchValues = []uint64{1, 150, 1 << 20, 1 << 40, 1<<64 - 1}

func BenchmarkWriteUvarint(b *testing.B) {
	w := NewBytesWriter(make([]byte, 0, 64))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		for _, v := range benchValues {
			w.WriteUvarint(v)
		}
	}
}

func BenchmarkReadUvarint(b *testing.B) {
	w := NewBytesWriter(nil)
	for _, v := range benchValues {
		w.WriteUvarint(v)
	}
	data := w.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewBytesReader(data)
		for range benchValues {
			_, _ = r.ReadUvarint()
		}
	}
}

func BenchmarkAcquireWriter(b *testing.B) {
	for i := 0; i < b.N; i++ {
		w := AcquireWriter(LE)
		w.WriteUint64(uint64(i))
		ReleaseWriter(w)
	}
}

// Baseline comparison using encoding/binary directly, to see overhead of the cursor
func BenchmarkStandardAppendUvarint(b *testing.B) {
	buf := make([]byte, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		for _, v := range benchValues {
			buf = binary.AppendUvarint(buf, v)
		}
	}
}
