// Package buffer implements the zero-copy framing layer described by
// the core: a grow-on-demand write scratch buffer, a symmetric
// length-prefixed message writer, a ring-backed message reader that
// accumulates arbitrary transport chunks into logical frames without
// per-message allocation, and a flat single-chunk reader for codecs.
//
// The package is grounded on the teacher framer's split between a
// pure byte-manipulation core (here: WriteBuffer, the cursor state in
// MessageReader) and a thin options/state wrapper around it, adapted
// from the teacher's single-message io.Reader/Writer model to the
// spec's feed-then-pull cursor model.
package buffer

import "encoding/binary"

// growIncrement is the minimum amount WriteBuffer grows by whenever the
// required size exceeds current capacity.
const growIncrement = 4096

// WriteBuffer is a grow-on-demand scratch buffer for serializing
// primitives in big-endian wire order. It never shrinks; Reset only
// rewinds the write position.
type WriteBuffer struct {
	buf []byte
	pos int
}

// NewWriteBuffer returns an empty WriteBuffer with no pre-allocation.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{}
}

// Position returns the number of bytes written so far.
func (b *WriteBuffer) Position() int { return b.pos }

// Reset rewinds the write position to zero without releasing capacity.
func (b *WriteBuffer) Reset() { b.pos = 0 }

// Unwrap returns the written bytes, buf[0:position]. The returned slice
// aliases the buffer's storage; callers must not retain it across a
// subsequent write.
func (b *WriteBuffer) Unwrap() []byte { return b.buf[:b.pos] }

// ensure grows buf so that at least n more bytes can be written at pos,
// by at least growIncrement, copying existing content forward.
func (b *WriteBuffer) ensure(n int) {
	need := b.pos + n
	if need <= len(b.buf) {
		return
	}
	grown := len(b.buf) + growIncrement
	if grown < need {
		grown = need
	}
	next := make([]byte, grown)
	copy(next, b.buf[:b.pos])
	b.buf = next
}

// WriteU8 appends one byte.
func (b *WriteBuffer) WriteU8(v uint8) {
	b.ensure(1)
	b.buf[b.pos] = v
	b.pos++
}

// WriteI16 appends a big-endian signed 16-bit integer.
func (b *WriteBuffer) WriteI16(v int16) { b.WriteU16(uint16(v)) }

// WriteU16 appends a big-endian unsigned 16-bit integer.
func (b *WriteBuffer) WriteU16(v uint16) {
	b.ensure(2)
	binary.BigEndian.PutUint16(b.buf[b.pos:], v)
	b.pos += 2
}

// WriteI32 appends a big-endian signed 32-bit integer.
func (b *WriteBuffer) WriteI32(v int32) { b.WriteU32(uint32(v)) }

// WriteU32 appends a big-endian unsigned 32-bit integer.
func (b *WriteBuffer) WriteU32(v uint32) {
	b.ensure(4)
	binary.BigEndian.PutUint32(b.buf[b.pos:], v)
	b.pos += 4
}

// WriteI64 appends a big-endian signed 64-bit integer.
func (b *WriteBuffer) WriteI64(v int64) { b.WriteU64(uint64(v)) }

// WriteU64 appends a big-endian unsigned 64-bit integer.
func (b *WriteBuffer) WriteU64(v uint64) {
	b.ensure(8)
	binary.BigEndian.PutUint64(b.buf[b.pos:], v)
	b.pos += 8
}

// WriteBytes appends raw bytes with no length prefix.
func (b *WriteBuffer) WriteBytes(p []byte) {
	b.ensure(len(p))
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
}

// WriteString appends an i32 length prefix followed by the UTF-8 bytes
// of s.
func (b *WriteBuffer) WriteString(s string) {
	b.WriteI32(int32(len(s)))
	b.WriteBytes([]byte(s))
}

// WriteUUID appends the 16 raw bytes of a UUID with no length prefix.
func (b *WriteBuffer) WriteUUID(id [16]byte) { b.WriteBytes(id[:]) }

// WriteLenPrefixedBytes appends an i32 length prefix followed by p.
func (b *WriteBuffer) WriteLenPrefixedBytes(p []byte) {
	b.WriteI32(int32(len(p)))
	b.WriteBytes(p)
}
