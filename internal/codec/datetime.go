package codec

import (
	"time"

	"github.com/edgedb/edgedb-go/internal/buffer"
)

// epoch is the server's reference instant for all datetime scalars:
// microseconds on the wire count from 2000-01-01T00:00:00Z, not the
// Unix epoch.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DateTimeCodec encodes/decodes std::datetime as microseconds since
// epoch, 8 bytes big-endian, into a time.Time in UTC.
type DateTimeCodec struct{ baseCodec }

func (DateTimeCodec) Encode(w *buffer.WriteBuffer, v any) error {
	t, ok := v.(time.Time)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(8)
	w.WriteI64(t.UTC().Sub(epoch).Microseconds())
	return nil
}

func (DateTimeCodec) Decode(r *buffer.FlatReader) (any, error) {
	us, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return epoch.Add(time.Duration(us) * time.Microsecond), nil
}

// LocalDateTimeCodec is wire-identical to DateTimeCodec but carries no
// timezone; the client must not treat the result as an instant in UTC.
// Represented the same way (time.Time) with callers expected to ignore
// the location.
type LocalDateTimeCodec struct{ baseCodec }

func (LocalDateTimeCodec) Encode(w *buffer.WriteBuffer, v any) error {
	return DateTimeCodec{}.Encode(w, v)
}

func (LocalDateTimeCodec) Decode(r *buffer.FlatReader) (any, error) {
	return DateTimeCodec{}.Decode(r)
}

// LocalDateCodec encodes/decodes std::cal::local_date as a signed
// 4-byte day count from epoch's date.
type LocalDateCodec struct{ baseCodec }

func (LocalDateCodec) Encode(w *buffer.WriteBuffer, v any) error {
	t, ok := v.(time.Time)
	if !ok {
		return ErrWrongValueType
	}
	days := int32(t.UTC().Sub(epoch).Hours() / 24)
	w.WriteI32(4)
	w.WriteI32(days)
	return nil
}

func (LocalDateCodec) Decode(r *buffer.FlatReader) (any, error) {
	days, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return epoch.AddDate(0, 0, int(days)), nil
}

// LocalTimeCodec encodes/decodes std::cal::local_time as microseconds
// since midnight, 8 bytes big-endian.
type LocalTimeCodec struct{ baseCodec }

func (LocalTimeCodec) Encode(w *buffer.WriteBuffer, v any) error {
	d, ok := v.(time.Duration)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(8)
	w.WriteI64(d.Microseconds())
	return nil
}

func (LocalTimeCodec) Decode(r *buffer.FlatReader) (any, error) {
	us, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return time.Duration(us) * time.Microsecond, nil
}

// DurationCodec encodes/decodes std::duration as microseconds, 8 bytes
// big-endian, into a time.Duration.
type DurationCodec struct{ baseCodec }

func (DurationCodec) Encode(w *buffer.WriteBuffer, v any) error {
	d, ok := v.(time.Duration)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(8)
	w.WriteI64(d.Microseconds())
	return nil
}

func (DurationCodec) Decode(r *buffer.FlatReader) (any, error) {
	us, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return time.Duration(us) * time.Microsecond, nil
}
