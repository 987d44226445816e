package codec_test

import (
	"testing"
	"time"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/edgedb/edgedb-go/internal/codec"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func roundTrip(t *testing.T, c codec.Codec, v any) any {
	t.Helper()
	w := buffer.NewWriteBuffer()
	if err := c.Encode(w, v); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := w.Unwrap()
	n := int32(out[0])<<24 | int32(out[1])<<16 | int32(out[2])<<8 | int32(out[3])
	fr := buffer.NewFlatReader(out[4 : 4+n])
	got, err := c.Decode(fr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestScalarRoundTrips(t *testing.T) {
	if got := roundTrip(t, codec.BoolCodec{}, true); got.(bool) != true {
		t.Fatalf("bool = %v", got)
	}
	if got := roundTrip(t, codec.Float32Codec{}, float32(3.5)); got.(float32) != 3.5 {
		t.Fatalf("float32 = %v", got)
	}
	if got := roundTrip(t, codec.Float64Codec{}, 2.25); got.(float64) != 2.25 {
		t.Fatalf("float64 = %v", got)
	}
	if got := roundTrip(t, codec.StrCodec{}, "hello"); got.(string) != "hello" {
		t.Fatalf("str = %v", got)
	}
	if got := roundTrip(t, codec.BytesCodec{}, []byte{1, 2, 3}); string(got.([]byte)) != "\x01\x02\x03" {
		t.Fatalf("bytes = %v", got)
	}

	id := uuid.New()
	var raw [16]byte
	copy(raw[:], id[:])
	if got := roundTrip(t, codec.UUIDCodec{}, raw); got.([16]byte) != raw {
		t.Fatalf("uuid = %v, want %v", got, raw)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := 90 * time.Minute
	got := roundTrip(t, codec.DurationCodec{}, d)
	if got.(time.Duration) != d {
		t.Fatalf("duration = %v, want %v", got, d)
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	got := roundTrip(t, codec.DateTimeCodec{}, ts)
	if !got.(time.Time).Equal(ts) {
		t.Fatalf("datetime = %v, want %v", got, ts)
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("12345.6789")
	got := roundTrip(t, codec.DecimalCodec{}, d)
	if !got.(decimal.Decimal).Equal(d) {
		t.Fatalf("decimal = %v, want %v", got, d)
	}
}

func TestEnumRejectsUnknownMember(t *testing.T) {
	e := codec.EnumCodec{Members: []string{"red", "green", "blue"}}
	w := buffer.NewWriteBuffer()
	if err := e.Encode(w, "purple"); err != codec.ErrWrongValueType {
		t.Fatalf("err = %v, want ErrWrongValueType", err)
	}
}
