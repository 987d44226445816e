package codec_test

import (
	"bytes"
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/edgedb/edgedb-go/internal/codec"
)

func TestInt32RoundTripAndWireBytes(t *testing.T) {
	c := codec.Int32Codec{}
	w := buffer.NewWriteBuffer()
	if err := c.Encode(w, int32(-123456)); err != nil {
		t.Fatal(err)
	}
	got := w.Unwrap()
	want := []byte{0, 0, 0, 4, 0xFF, 0xFE, 0x1D, 0xC0}
	if !bytes.Equal(got, want) {
		t.Fatalf("encoded = % x, want % x", got, want)
	}

	// decode is handed the value's byte range with the length prefix
	// already consumed by the caller.
	fr := buffer.NewFlatReader(got[4:])
	v, err := c.Decode(fr)
	if err != nil {
		t.Fatal(err)
	}
	if v.(int32) != -123456 {
		t.Fatalf("decoded = %v, want -123456", v)
	}
}

func TestInt64NativeRoundTrip(t *testing.T) {
	c := codec.Int64Codec{}
	w := buffer.NewWriteBuffer()
	big := int64(1) << 40
	if err := c.Encode(w, big); err != nil {
		t.Fatal(err)
	}
	out := w.Unwrap()
	fr := buffer.NewFlatReader(out[4:])
	v, err := c.Decode(fr)
	if err != nil {
		t.Fatal(err)
	}
	if v.(int64) != big {
		t.Fatalf("decoded = %v, want %v", v, big)
	}
}

func TestScalarDecodeRejectsShortfall(t *testing.T) {
	c := codec.Int16Codec{}
	fr := buffer.NewFlatReader([]byte{0, 1, 0, 0}) // 4 bytes for a 2-byte scalar
	if _, err := c.Decode(fr); err != codec.ErrDecodeShortfall {
		t.Fatalf("err = %v, want ErrDecodeShortfall", err)
	}
}

func TestScalarEncodeWrongType(t *testing.T) {
	c := codec.Int16Codec{}
	w := buffer.NewWriteBuffer()
	if err := c.Encode(w, "not an int16"); err != codec.ErrWrongValueType {
		t.Fatalf("err = %v, want ErrWrongValueType", err)
	}
}
