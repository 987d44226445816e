package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// StrCodec encodes/decodes std::str as UTF-8 bytes with no internal
// length prefix beyond the outer i32 value-length.
type StrCodec struct{ baseCodec }

func (StrCodec) Encode(w *buffer.WriteBuffer, v any) error {
	s, ok := v.(string)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(int32(len(s)))
	w.WriteBytes([]byte(s))
	return nil
}

func (StrCodec) Decode(r *buffer.FlatReader) (any, error) {
	return r.ConsumeAsString(), nil
}

// BytesCodec encodes/decodes std::bytes as raw bytes.
type BytesCodec struct{ baseCodec }

func (BytesCodec) Encode(w *buffer.WriteBuffer, v any) error {
	b, ok := v.([]byte)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(int32(len(b)))
	w.WriteBytes(b)
	return nil
}

func (BytesCodec) Decode(r *buffer.FlatReader) (any, error) {
	b, err := r.ReadBytes(r.Len())
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// JSONCodec encodes/decodes std::json. On the wire it carries the same
// raw-bytes shape as std::bytes (spec §4.3.3: JSON results are a
// single-element result of type JSON, unwrapped by the query layer);
// the value is exposed as already-serialized JSON text.
type JSONCodec struct{ baseCodec }

func (JSONCodec) Encode(w *buffer.WriteBuffer, v any) error {
	var b []byte
	switch val := v.(type) {
	case []byte:
		b = val
	case string:
		b = []byte(val)
	default:
		return ErrWrongValueType
	}
	w.WriteI32(int32(len(b)))
	w.WriteBytes(b)
	return nil
}

func (JSONCodec) Decode(r *buffer.FlatReader) (any, error) {
	b, err := r.ReadBytes(r.Len())
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
