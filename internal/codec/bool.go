package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// BoolCodec encodes/decodes std::bool as a single byte, 0 or 1.
type BoolCodec struct{ baseCodec }

func (BoolCodec) Encode(w *buffer.WriteBuffer, v any) error {
	b, ok := v.(bool)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(1)
	if b {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
	return nil
}

func (BoolCodec) Decode(r *buffer.FlatReader) (any, error) {
	b, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return b != 0, nil
}
