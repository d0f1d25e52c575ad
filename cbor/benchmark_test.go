package cbor

import (
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/oy3o/serial"
)

func benchTree() []node {
	tree := make([]node, 100)
	for i := range tree {
		tree[i] = chain(int32(i), 10)
	}
	return tree
}

func BenchmarkEncodeTree(b *testing.B) {
	tree := benchTree()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(Default, nodeListSer, tree)
	}
}

func BenchmarkDecodeTree(b *testing.B) {
	data, _ := Encode(Default, nodeListSer, benchTree())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(Default, nodeListSer, data)
	}
}

func BenchmarkSkipTree(b *testing.B) {
	data, _ := Encode(Default, nodeListSer, benchTree())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = skipItem(serial.NewBytesReader(data))
	}
}

// Baseline comparison using the reflection-based encoder on the same shape
func BenchmarkForeignEncodeTree(b *testing.B) {
	tree := toForeign(benchTree())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fxcbor.Marshal(tree)
	}
}

func BenchmarkForeignDecodeTree(b *testing.B) {
	data, _ := fxcbor.Marshal(toForeign(benchTree()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out []foreignNode
		_ = fxcbor.Unmarshal(data, &out)
	}
}
