package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// EnumCodec encodes/decodes an enum as its member name, sent the same
// way as std::str on the wire. Encode validates the value against
// Members and rejects an unknown name with ErrWrongValueType; Decode
// returns the name the server sent without checking it against
// Members.
type EnumCodec struct {
	baseCodec
	Members []string
}

func (e EnumCodec) isMember(s string) bool {
	for _, m := range e.Members {
		if m == s {
			return true
		}
	}
	return false
}

func (e EnumCodec) Encode(w *buffer.WriteBuffer, v any) error {
	s, ok := v.(string)
	if !ok || !e.isMember(s) {
		return ErrWrongValueType
	}
	return StrCodec{}.Encode(w, s)
}

func (e EnumCodec) Decode(r *buffer.FlatReader) (any, error) {
	v, err := StrCodec{}.Decode(r)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// NullCodec encodes/decodes the null/empty-set shape: zero bytes of
// payload.
type NullCodec struct{ baseCodec }

func (NullCodec) Encode(w *buffer.WriteBuffer, v any) error {
	if v != nil {
		return ErrWrongValueType
	}
	w.WriteI32(0)
	return nil
}

func (NullCodec) Decode(r *buffer.FlatReader) (any, error) {
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return nil, nil
}
