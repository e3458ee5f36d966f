package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

type reader struct {
	data []byte
	pos  int
}

func (r *reader) done() bool { return r.pos >= len(r.data) }

func (r *reader) u8() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", ErrTruncated, r.pos)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) str() (string, error) {
	if r.pos+2 > len(r.data) {
		return "", fmt.Errorf("%w: need string length at offset %d", ErrTruncated, r.pos)
	}
	n := int(binary.BigEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("%w: need %d string bytes at offset %d", ErrTruncated, n, r.pos)
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(b byte) { w.buf.WriteByte(b) }

func (w *writer) str(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes is too long", len(s))
	}
	w.buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(s))))
	w.buf.WriteString(s)
	return nil
}
