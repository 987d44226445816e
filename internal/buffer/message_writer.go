package buffer

import (
	"errors"

	"github.com/edgedb/edgedb-go/internal/protocol"
)

// ErrMessageOpen is returned by BeginMessage, WriteSync, WriteFlush and
// Unwrap when they are called while a message is still open.
var ErrMessageOpen = errors.New("buffer: message already open")

// ErrNoMessageOpen is returned by typed writes, Buffer, and EndMessage
// when they are called without an open message.
var ErrNoMessageOpen = errors.New("buffer: no message open")

// precomputed single-frame Sync and Flush messages: tag + zero-payload
// length (4, covering only the length field itself).
var syncFrame = []byte{byte(protocol.TagSync), 0, 0, 0, 4}
var flushFrame = []byte{byte(protocol.TagFlush), 0, 0, 0, 4}

// MessageWriter wraps a WriteBuffer with length-prefixed frame
// bookkeeping: begin_message/end_message back-patch the four length
// bytes once the payload is known, matching the teacher's pattern of a
// small state struct (here: msgStart) guarding a scratch buffer.
type MessageWriter struct {
	wb       *WriteBuffer
	msgOpen  bool
	msgStart int // position of the tag byte for the open message
}

// NewMessageWriter returns a MessageWriter over a fresh WriteBuffer.
func NewMessageWriter() *MessageWriter {
	return &MessageWriter{wb: NewWriteBuffer()}
}

// BeginMessage opens a new frame with the given tag. It fails if a
// message is already open.
func (m *MessageWriter) BeginMessage(tag protocol.Tag) error {
	if m.msgOpen {
		return ErrMessageOpen
	}
	m.msgStart = m.wb.Position()
	m.wb.WriteU8(byte(tag))
	m.wb.WriteI32(0) // placeholder length, patched in EndMessage
	m.msgOpen = true
	return nil
}

// EndMessage back-patches the four length bytes to
// current_position − frame_start − 1 (length covers everything after
// the tag, including the length field's own four bytes).
func (m *MessageWriter) EndMessage() error {
	if !m.msgOpen {
		return ErrNoMessageOpen
	}
	length := int32(m.wb.Position() - m.msgStart - 1)
	buf := m.wb.buf
	lenOff := m.msgStart + 1
	_ = buf[lenOff+3] // bounds check hint
	be := uint32(length)
	buf[lenOff] = byte(be >> 24)
	buf[lenOff+1] = byte(be >> 16)
	buf[lenOff+2] = byte(be >> 8)
	buf[lenOff+3] = byte(be)
	m.msgOpen = false
	return nil
}

func (m *MessageWriter) guard() error {
	if !m.msgOpen {
		return ErrNoMessageOpen
	}
	return nil
}

func (m *MessageWriter) WriteU8(v uint8) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteU8(v)
	return nil
}

func (m *MessageWriter) WriteI16(v int16) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteI16(v)
	return nil
}

func (m *MessageWriter) WriteI32(v int32) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteI32(v)
	return nil
}

func (m *MessageWriter) WriteU16(v uint16) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteU16(v)
	return nil
}

func (m *MessageWriter) WriteU32(v uint32) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteU32(v)
	return nil
}

func (m *MessageWriter) WriteString(s string) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteString(s)
	return nil
}

func (m *MessageWriter) WriteBytes(p []byte) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteBytes(p)
	return nil
}

func (m *MessageWriter) WriteHeaders(h protocol.Headers) error {
	if err := m.guard(); err != nil {
		return err
	}
	m.wb.WriteU16(uint16(len(h)))
	for k, v := range h {
		m.wb.WriteU16(k)
		m.wb.WriteLenPrefixedBytes(v)
	}
	return nil
}

// Buffer exposes the underlying WriteBuffer for a codec's Encode call
// to write directly into the open message. It is the one seam between
// the frame-bookkeeping layer and the codec layer's own length-
// prefixed value encoding (spec §4.2.3).
func (m *MessageWriter) Buffer() (*WriteBuffer, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.wb, nil
}

// WriteSync appends a precomputed Sync frame. May only be called with
// no open message.
func (m *MessageWriter) WriteSync() error {
	if m.msgOpen {
		return ErrMessageOpen
	}
	m.wb.WriteBytes(syncFrame)
	return nil
}

// WriteFlush appends a precomputed Flush frame. May only be called
// with no open message.
func (m *MessageWriter) WriteFlush() error {
	if m.msgOpen {
		return ErrMessageOpen
	}
	m.wb.WriteBytes(flushFrame)
	return nil
}

// Unwrap returns the accumulated bytes. Fails if a message is open.
func (m *MessageWriter) Unwrap() ([]byte, error) {
	if m.msgOpen {
		return nil, ErrMessageOpen
	}
	return m.wb.Unwrap(), nil
}

// Reset rewinds the writer for reuse.
func (m *MessageWriter) Reset() {
	m.wb.Reset()
	m.msgOpen = false
	m.msgStart = 0
}
