package protobuf

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/oy3o/serial"
)

type field struct {
	number  protowire.Number
	intType IntegerType
}

// message is the field table of one structured descriptor.
type message struct {
	fields   []field
	byNumber map[protowire.Number]int
	// collections lists elements that are lists or maps. They have no wire
	// form when empty, so they are never reported missing.
	collections []int
}

// messages caches field tables. Descriptors are immutable, so a table is
// computed at most a few times and then read concurrently by every call.
var messages = xsync.NewMap[*serial.Descriptor, *message]()

func messageOf(desc *serial.Descriptor) *message {
	desc = desc.NonNullable()
	if m, ok := messages.Load(desc); ok {
		return m
	}
	m := newMessage(desc)
	messages.Store(desc, m)
	return m
}

// newMessage panics on invalid or duplicate serial ids: both are errors in
// how the descriptor was built, not in any data.
func newMessage(desc *serial.Descriptor) *message {
	n := desc.ElementsCount()
	m := &message{
		fields:   make([]field, n),
		byNumber: make(map[protowire.Number]int, n),
	}
	for i := 0; i < n; i++ {
		f := field{number: protowire.Number(i + 1)}
		for _, a := range desc.ElementAnnotations(i) {
			switch a := a.(type) {
			case Number:
				f.number = protowire.Number(a)
			case IntegerType:
				f.intType = a
			}
		}
		if !f.number.IsValid() {
			panic(fmt.Sprintf("protobuf: element %q of %s has invalid serial id %d", desc.ElementName(i), desc.SerialName(), f.number))
		}
		if j, dup := m.byNumber[f.number]; dup {
			panic(fmt.Sprintf("protobuf: elements %q and %q of %s share serial id %d", desc.ElementName(j), desc.ElementName(i), desc.SerialName(), f.number))
		}
		m.fields[i] = f
		m.byNumber[f.number] = i
		if k := desc.ElementDescriptor(i).Kind(); k == serial.KindList || k == serial.KindMap {
			m.collections = append(m.collections, i)
		}
	}
	return m
}
