package bundle

import (
	"encoding/binary"
	"math"
)

// reader walks a byte slice with a switchable byte order. Reads past the end
// clamp to the end, return zero values and set the short flag; callers check
// short() at structural boundaries instead of after every field.
type reader struct {
	data  []byte
	off   int
	order binary.ByteOrder
	trunc bool
}

func newReader(data []byte, order binary.ByteOrder) *reader {
	return &reader{data: data, order: order}
}

func (r *reader) short() bool { return r.trunc }

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) skip(n int) {
	if n < 0 || r.off+n > len(r.data) {
		r.off = len(r.data)
		r.trunc = true
		return
	}
	r.off += n
}

// align advances to the next 4-byte boundary relative to the start of data.
func (r *reader) align() {
	if rem := r.off % 4; rem != 0 {
		r.skip(4 - rem)
	}
}

func (r *reader) bytes(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.off = len(r.data)
		r.trunc = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	if r.off >= len(r.data) {
		r.trunc = true
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) boolean() bool { return r.u8() != 0 }

func (r *reader) u16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return r.order.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return r.order.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return r.order.Uint64(b)
}

func (r *reader) i16() int16 { return int16(r.u16()) }
func (r *reader) i32() int32 { return int32(r.u32()) }
func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }

// cstring reads a null-terminated string.
func (r *reader) cstring() string {
	start := r.off
	for r.off < len(r.data) {
		if r.data[r.off] == 0 {
			s := string(r.data[start:r.off])
			r.off++
			return s
		}
		r.off++
	}
	r.trunc = true
	return string(r.data[start:])
}

// alignedString reads a length-prefixed string followed by 4-byte alignment,
// the layout used throughout serialized file metadata and object data.
func (r *reader) alignedString() string {
	n := int(r.i32())
	if n < 0 || n > r.remaining() {
		r.trunc = true
		return ""
	}
	s := string(r.bytes(n))
	r.align()
	return s
}
