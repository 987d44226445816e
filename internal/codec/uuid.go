package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// UUIDCodec encodes/decodes std::uuid as 16 raw bytes.
type UUIDCodec struct{ baseCodec }

func (UUIDCodec) Encode(w *buffer.WriteBuffer, v any) error {
	u, ok := v.([16]byte)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(16)
	w.WriteUUID(u)
	return nil
}

func (UUIDCodec) Decode(r *buffer.FlatReader) (any, error) {
	u, err := r.ReadUUID()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return u, nil
}
