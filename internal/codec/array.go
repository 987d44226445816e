package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// ArrayCodec encodes/decodes a single-dimension array of Element. The
// wire descriptor carries a dimension count (spec §4.2.1); this core
// only supports the common one-dimensional case non-dimension-aware
// callers expect, and raises ErrWrongValueType for anything else
// during encode.
type ArrayCodec struct {
	baseCodec
	Element    Codec
	Dimensions int
}

func (a ArrayCodec) Encode(w *buffer.WriteBuffer, v any) error {
	if a.Dimensions > 1 {
		return ErrWrongValueType
	}
	vals, ok := v.([]any)
	if !ok {
		return ErrWrongValueType
	}
	body := buffer.NewWriteBuffer()
	body.WriteU32(uint32(len(vals)))
	for _, val := range vals {
		if err := writeElement(body, a.Element, val); err != nil {
			return err
		}
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (a ArrayCodec) Decode(r *buffer.FlatReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]any, count)
	for i := range out {
		v, err := readElement(r, a.Element)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return out, nil
}

// SetCodec encodes/decodes a set, wire-identical to ArrayCodec but
// semantically unordered and never containing a null element.
type SetCodec struct {
	baseCodec
	Element Codec
}

func (s SetCodec) Encode(w *buffer.WriteBuffer, v any) error {
	return ArrayCodec{Element: s.Element}.Encode(w, v)
}

func (s SetCodec) Decode(r *buffer.FlatReader) (any, error) {
	return ArrayCodec{Element: s.Element}.Decode(r)
}
