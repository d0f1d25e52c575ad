package cbor

import (
	"github.com/oy3o/serial"
)

// skipItem consumes one complete data item, including everything nested in it.
// Nesting is tracked on an explicit stack of remaining item counts (-1 for
// indefinite length) so that deep input cannot exhaust the goroutine stack.
func skipItem(r *serial.BytesReader) error {
	stack := []int{1}
	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top] == 0 {
			stack = stack[:top]
			continue
		}
		h, err := readHeader(r)
		if err != nil {
			return err
		}
		if h.isBreak() {
			if stack[top] != -1 {
				return serial.Decoding(serial.MalformedInput, h.offset, "unexpected break")
			}
			stack = stack[:top]
			continue
		}
		if stack[top] > 0 {
			stack[top]--
		}
		switch h.major {
		case majorBytes, majorText:
			if err := skipString(r, h); err != nil {
				return err
			}
		case majorArray:
			if h.indefinite {
				stack = append(stack, -1)
				continue
			}
			n, err := h.length(r, 1)
			if err != nil {
				return err
			}
			stack = append(stack, n)
		case majorMap:
			if h.indefinite {
				stack = append(stack, -1)
				continue
			}
			n, err := h.length(r, 2)
			if err != nil {
				return err
			}
			stack = append(stack, 2*n)
		case majorTag:
			stack = append(stack, 1)
		}
	}
	return nil
}

func skipString(r *serial.BytesReader, h header) error {
	if !h.indefinite {
		n, err := h.length(r, 1)
		if err != nil {
			return err
		}
		return r.Skip(n)
	}
	for {
		ch, err := readHeader(r)
		if err != nil {
			return err
		}
		if ch.isBreak() {
			return nil
		}
		if ch.major != h.major || ch.indefinite {
			return serial.Decoding(serial.MalformedInput, ch.offset, "invalid chunk in indefinite-length %s", majorName(h.major))
		}
		n, err := ch.length(r, 1)
		if err != nil {
			return err
		}
		if err := r.Skip(n); err != nil {
			return err
		}
	}
}
