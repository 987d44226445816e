package buffer

import (
	"encoding/binary"
	"errors"

	"github.com/edgedb/edgedb-go/internal/protocol"
)

// ringCapacity is the bounded queue depth of spec §3: once this many
// unconsumed chunks are buffered, Feed reports backpressure.
const ringCapacity = 1024

// ErrOverread is raised by any typed read when fewer than size bytes
// remain in the current frame. It is fatal to the connection (spec §7).
var ErrOverread = errors.New("buffer: overread past end of message")

// ErrBufferFull names the condition of the ring holding ringCapacity
// queued chunks. Feed reports that condition through its boolean
// result and does not return this error.
var ErrBufferFull = errors.New("buffer: ring at capacity")

// MessageReader accumulates arbitrary transport chunks into logical
// protocol frames without per-message allocation. It mirrors the
// teacher's split of a pure offset/length cursor (here: the tag/len/
// unread/ready fields) wrapped by the public API, adapted from a
// single-message io.Reader into the feed-then-pull ring described by
// spec §3/§4.1.3.
type MessageReader struct {
	chunks [][]byte // queued raw chunks, in arrival order
	off    int      // consumed offset into chunks[0]
	unread int64    // total unread bytes across chunks[0][off:] .. chunks[n-1]

	// current-message cursor
	tag    protocol.Tag
	length int32 // full frame length as read off the wire (includes itself)
	left   int64 // bytes remaining inside the current frame payload
	ready  bool

	tagRead bool
	lenRead bool
}

// NewMessageReader returns an empty MessageReader.
func NewMessageReader() *MessageReader {
	return &MessageReader{}
}

// Len reports the number of unread bytes currently buffered.
func (r *MessageReader) Len() int64 { return r.unread }

// Feed appends a chunk of transport bytes. It returns true once the
// ring has reached capacity, signaling that the caller should pause
// the transport until frames are consumed.
func (r *MessageReader) Feed(chunk []byte) bool {
	if len(chunk) == 0 {
		return len(r.chunks) >= ringCapacity
	}
	r.chunks = append(r.chunks, chunk)
	r.unread += int64(len(chunk))
	return len(r.chunks) >= ringCapacity
}

// dropEmptyHead discards fully-consumed leading chunks.
func (r *MessageReader) dropEmptyHead() {
	for len(r.chunks) > 0 && r.off >= len(r.chunks[0]) {
		r.chunks = r.chunks[1:]
		r.off = 0
	}
}

// peekByte returns the first unread byte without consuming it. Ok is
// false if no bytes are buffered.
func (r *MessageReader) peekByte() (byte, bool) {
	r.dropEmptyHead()
	if len(r.chunks) == 0 {
		return 0, false
	}
	return r.chunks[0][r.off], true
}

// advance consumes n unread bytes, tracking the cross-chunk boundary.
// n must not exceed r.unread.
func (r *MessageReader) advance(n int64) {
	for n > 0 {
		r.dropEmptyHead()
		avail := int64(len(r.chunks[0]) - r.off)
		take := n
		if take > avail {
			take = avail
		}
		r.off += int(take)
		r.unread -= take
		n -= take
	}
	r.dropEmptyHead()
}

// peekN returns the next n unread bytes without consuming them — the
// caller is expected to follow with advance(n) once done. When the
// bytes lie within the head chunk it returns a slice of that chunk
// (fast path); otherwise it returns a fresh copy assembled across
// chunks.
func (r *MessageReader) peekN(n int64) []byte {
	r.dropEmptyHead()
	if len(r.chunks) > 0 && int64(len(r.chunks[0])-r.off) >= n {
		return r.chunks[0][r.off : int64(r.off)+n]
	}
	out := make([]byte, n)
	off := r.off
	pos := 0
	for _, c := range r.chunks {
		avail := len(c) - off
		if avail <= 0 {
			off -= len(c)
			continue
		}
		take := avail
		if int64(take) > n-int64(pos) {
			take = int(n - int64(pos))
		}
		copy(out[pos:], c[off:off+take])
		pos += take
		off = 0
		if int64(pos) >= n {
			break
		}
	}
	return out
}

// TakeMessage attempts to advance the current-message cursor: it reads
// the tag (1 byte) if not yet read, then the length (4 bytes) if not
// yet read, then checks that the frame's remaining payload (left) is
// fully buffered (left ≤ unread). It returns true only when a complete
// frame is present; state persists across partial feeds.
func (r *MessageReader) TakeMessage() bool {
	if r.ready {
		return true
	}
	if !r.tagRead {
		b, ok := r.peekByte()
		if !ok {
			return false
		}
		r.tag = protocol.Tag(b)
		r.advance(1)
		r.tagRead = true
	}
	if !r.lenRead {
		if r.unread < 4 {
			return false
		}
		lb := r.peekN(4)
		r.advance(4)
		r.length = int32(binary.BigEndian.Uint32(lb))
		r.left = int64(r.length) - 4
		if r.left < 0 {
			r.left = 0
		}
		r.lenRead = true
	}
	if r.unread < r.left {
		return false
	}
	r.ready = true
	return true
}

// TakeMessageType peeks the tag byte without advancing the tag/length
// cursor state on mismatch; it returns true only if the tag matches
// AND the full frame is available.
func (r *MessageReader) TakeMessageType(tag protocol.Tag) bool {
	if !r.tagRead {
		b, ok := r.peekByte()
		if !ok {
			return false
		}
		if protocol.Tag(b) != tag {
			return false
		}
	} else if r.tag != tag {
		return false
	}
	return r.TakeMessage()
}

// GetMessageType returns the tag of the current (ready) message.
func (r *MessageReader) GetMessageType() protocol.Tag { return r.tag }

// FinishMessage resets the cursor after a message has been fully
// consumed, discarding any unread remainder of its payload.
func (r *MessageReader) FinishMessage() {
	if r.ready && r.left > 0 {
		r.advance(r.left)
	}
	r.tagRead = false
	r.lenRead = false
	r.ready = false
	r.tag = 0
	r.length = 0
	r.left = 0
}

// PutMessage restores ready = false after a peek (TakeMessageType) that
// chose not to consume the message, so a later TakeMessage re-offers it.
func (r *MessageReader) PutMessage() { r.ready = false }

// DiscardMessage skips the remaining unread bytes of the current frame
// and resets the cursor, without returning them to the caller.
func (r *MessageReader) DiscardMessage() { r.FinishMessage() }

// ConsumeMessage returns the full remaining payload of the current
// message as a freshly-copied byte slice, and resets the cursor.
func (r *MessageReader) ConsumeMessage() []byte {
	n := r.left
	if n == 0 {
		r.FinishMessage()
		return nil
	}
	out := make([]byte, n)
	copy(out, r.peekN(n))
	r.advance(n)
	r.left = 0
	r.FinishMessage()
	return out
}

// ConsumeMessageInto returns a FlatReader over the current message's
// remaining payload: a zero-copy slice when it lies entirely within one
// chunk, or a copy otherwise. The cursor is reset as if by
// FinishMessage.
func (r *MessageReader) ConsumeMessageInto() *FlatReader {
	n := r.left
	r.dropEmptyHead()
	var slice []byte
	if n == 0 {
		slice = nil
	} else if len(r.chunks) > 0 && int64(len(r.chunks[0])-r.off) >= n {
		slice = r.chunks[0][r.off : int64(r.off)+n]
	} else {
		slice = make([]byte, n)
		copy(slice, r.peekN(n))
	}
	r.advance(n)
	r.left = 0
	r.FinishMessage()
	return NewFlatReader(slice)
}

func (r *MessageReader) requireUnread(size int64) error {
	if r.left < size {
		return ErrOverread
	}
	return nil
}

// ReadU8 reads one byte from the current message.
func (r *MessageReader) ReadU8() (uint8, error) {
	if err := r.requireUnread(1); err != nil {
		return 0, err
	}
	b := r.peekN(1)[0]
	r.advance(1)
	r.left--
	return b, nil
}

// ReadI16 reads a big-endian signed 16-bit integer.
func (r *MessageReader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU16 reads a big-endian unsigned 16-bit integer.
func (r *MessageReader) ReadU16() (uint16, error) {
	if err := r.requireUnread(2); err != nil {
		return 0, err
	}
	b := r.peekN(2)
	r.advance(2)
	r.left -= 2
	return binary.BigEndian.Uint16(b), nil
}

// ReadI32 reads a big-endian signed 32-bit integer.
func (r *MessageReader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU32 reads a big-endian unsigned 32-bit integer.
func (r *MessageReader) ReadU32() (uint32, error) {
	if err := r.requireUnread(4); err != nil {
		return 0, err
	}
	b := r.peekN(4)
	r.advance(4)
	r.left -= 4
	return binary.BigEndian.Uint32(b), nil
}

// ReadString reads an i32 length prefix followed by that many UTF-8
// bytes.
func (r *MessageReader) ReadString() (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadLenPrefixedPayload(int64(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadUUID reads 16 raw bytes.
func (r *MessageReader) ReadUUID() ([16]byte, error) {
	var out [16]byte
	if err := r.requireUnread(16); err != nil {
		return out, err
	}
	copy(out[:], r.peekN(16))
	r.advance(16)
	r.left -= 16
	return out, nil
}

// ReadLenPrefixedBytes reads an i32 length prefix followed by that many
// raw bytes.
func (r *MessageReader) ReadLenPrefixedBytes() ([]byte, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	return r.ReadLenPrefixedPayload(int64(n))
}

// ReadLenPrefixedPayload reads exactly n already-length-prefixed bytes.
func (r *MessageReader) ReadLenPrefixedPayload(n int64) ([]byte, error) {
	if n < 0 {
		return nil, ErrOverread
	}
	if err := r.requireUnread(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.peekN(n))
	r.advance(n)
	r.left -= n
	return out, nil
}

// ReadHeaders reads a u16 count | count × (u16 key, i32 value_length,
// value) header block.
func (r *MessageReader) ReadHeaders() (protocol.Headers, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	h := make(protocol.Headers, count)
	for i := 0; i < int(count); i++ {
		key, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadLenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		h[key] = val
	}
	return h, nil
}
