package buffer

import "encoding/binary"

// FlatReader is a single-chunk, non-growing reader used by codecs over
// a value's byte range. It shares its parent's underlying bytes (no
// copy) when constructed from a contiguous slice.
type FlatReader struct {
	buf []byte
	pos int
}

// NewFlatReader wraps buf for sequential reads starting at offset 0.
func NewFlatReader(buf []byte) *FlatReader {
	return &FlatReader{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (f *FlatReader) Len() int { return len(f.buf) - f.pos }

// Remaining returns the unread tail without consuming it.
func (f *FlatReader) Remaining() []byte { return f.buf[f.pos:] }

func (f *FlatReader) require(n int) error {
	if f.Len() < n {
		return ErrOverread
	}
	return nil
}

// Discard skips n bytes.
func (f *FlatReader) Discard(n int) error {
	if err := f.require(n); err != nil {
		return err
	}
	f.pos += n
	return nil
}

// ConsumeAsString returns the entire unread remainder as a string and
// advances past it.
func (f *FlatReader) ConsumeAsString() string {
	s := string(f.buf[f.pos:])
	f.pos = len(f.buf)
	return s
}

// ReadU8 reads one byte.
func (f *FlatReader) ReadU8() (uint8, error) {
	if err := f.require(1); err != nil {
		return 0, err
	}
	v := f.buf[f.pos]
	f.pos++
	return v, nil
}

// ReadI16 reads a big-endian signed 16-bit integer.
func (f *FlatReader) ReadI16() (int16, error) {
	v, err := f.ReadU16()
	return int16(v), err
}

// ReadU16 reads a big-endian unsigned 16-bit integer.
func (f *FlatReader) ReadU16() (uint16, error) {
	if err := f.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(f.buf[f.pos:])
	f.pos += 2
	return v, nil
}

// ReadI32 reads a big-endian signed 32-bit integer.
func (f *FlatReader) ReadI32() (int32, error) {
	v, err := f.ReadU32()
	return int32(v), err
}

// ReadU32 reads a big-endian unsigned 32-bit integer.
func (f *FlatReader) ReadU32() (uint32, error) {
	if err := f.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(f.buf[f.pos:])
	f.pos += 4
	return v, nil
}

// ReadI64 reads a big-endian signed 64-bit integer.
func (f *FlatReader) ReadI64() (int64, error) {
	v, err := f.ReadU64()
	return int64(v), err
}

// ReadU64 reads a big-endian unsigned 64-bit integer.
func (f *FlatReader) ReadU64() (uint64, error) {
	if err := f.require(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(f.buf[f.pos:])
	f.pos += 8
	return v, nil
}

// ReadString reads an i32 length prefix followed by that many UTF-8
// bytes.
func (f *FlatReader) ReadString() (string, error) {
	n, err := f.ReadI32()
	if err != nil {
		return "", err
	}
	b, err := f.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadUUID reads 16 raw bytes.
func (f *FlatReader) ReadUUID() ([16]byte, error) {
	var out [16]byte
	if err := f.require(16); err != nil {
		return out, err
	}
	copy(out[:], f.buf[f.pos:f.pos+16])
	f.pos += 16
	return out, nil
}

// ReadBytes reads exactly n raw bytes. The returned slice aliases the
// FlatReader's backing array.
func (f *FlatReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrOverread
	}
	if err := f.require(n); err != nil {
		return nil, err
	}
	b := f.buf[f.pos : f.pos+n]
	f.pos += n
	return b, nil
}

// ReadLenPrefixedBytes reads an i32 length prefix followed by that many
// raw bytes.
func (f *FlatReader) ReadLenPrefixedBytes() ([]byte, error) {
	n, err := f.ReadI32()
	if err != nil {
		return nil, err
	}
	return f.ReadBytes(int(n))
}
