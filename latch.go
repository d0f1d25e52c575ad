package serial

// Latch records the first error of one encode or decode call.
// Every Encoder and Decoder created for that call shares the same Latch,
// so a failure deep inside a nested structure is visible to the outer frames.
type Latch struct {
	err error
}

// Err returns the first error recorded, or nil.
func (l *Latch) Err() error { return l.err }

// SetError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (l *Latch) SetError(err error) {
	if l.err == nil && err != nil {
		l.err = err
	}
}

// ElementTracker remembers which elements of a class were observed while decoding.
type ElementTracker struct {
	seen []uint64
}

// NewElementTracker creates a tracker sized for desc.
func NewElementTracker(desc *Descriptor) ElementTracker {
	return ElementTracker{seen: make([]uint64, (desc.ElementsCount()+63)/64)}
}

// Mark records index as observed.
func (t *ElementTracker) Mark(index int) {
	if index >= 0 && index/64 < len(t.seen) {
		t.seen[index/64] |= 1 << (index % 64)
	}
}

// Seen reports whether index was observed.
func (t *ElementTracker) Seen(index int) bool {
	return index >= 0 && index/64 < len(t.seen) && t.seen[index/64]&(1<<(index%64)) != 0
}

// Missing returns the first required element of desc that was never observed.
func (t *ElementTracker) Missing(desc *Descriptor) (int, bool) {
	for i := 0; i < desc.ElementsCount(); i++ {
		if !desc.IsElementOptional(i) && !t.Seen(i) {
			return i, true
		}
	}
	return 0, false
}

// CheckRequired returns a MissingRequiredElement error naming the first
// required element of desc that was never observed, or nil.
func (t *ElementTracker) CheckRequired(desc *Descriptor, offset int) error {
	if i, missing := t.Missing(desc); missing {
		return Decoding(MissingRequiredElement, offset, "%s requires it", desc.SerialName()).WithElement(desc.ElementName(i))
	}
	return nil
}
