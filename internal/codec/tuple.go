package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// writeElement writes one length-prefixed sub-frame of a composite
// codec's payload: a -1 i32 length marks a null element, matching the
// convention used throughout the wire protocol's object/array shapes.
func writeElement(w *buffer.WriteBuffer, c Codec, v any) error {
	if v == nil {
		w.WriteI32(-1)
		return nil
	}
	scratch := buffer.NewWriteBuffer()
	if err := c.Encode(scratch, v); err != nil {
		return err
	}
	// c.Encode already wrote its own i32 length prefix; splice it in
	// directly so the outer frame nests the inner one untouched.
	w.WriteBytes(scratch.Unwrap())
	return nil
}

// readElement reads one length-prefixed sub-frame and decodes it with
// c, or returns nil for a null marker.
func readElement(r *buffer.FlatReader, c Codec) (any, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return c.Decode(buffer.NewFlatReader(b))
}

// TupleCodec encodes/decodes an unnamed tuple as a fixed sequence of
// element codecs.
type TupleCodec struct {
	baseCodec
	Elements []Codec
}

func (t TupleCodec) Encode(w *buffer.WriteBuffer, v any) error {
	vals, ok := v.([]any)
	if !ok || len(vals) != len(t.Elements) {
		return ErrWrongValueType
	}
	body := buffer.NewWriteBuffer()
	body.WriteU32(uint32(len(vals)))
	for i, val := range vals {
		if err := writeElement(body, t.Elements[i], val); err != nil {
			return err
		}
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (t TupleCodec) Decode(r *buffer.FlatReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) != len(t.Elements) {
		return nil, ErrDecodeShortfall
	}
	out := make([]any, count)
	for i := range out {
		v, err := readElement(r, t.Elements[i])
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

// NamedTupleField is one [name, Codec] entry of a named tuple shape.
type NamedTupleField struct {
	Name  string
	Codec Codec
}

// NamedTupleCodec encodes/decodes a named tuple; on the wire it is
// identical to an unnamed tuple (field order carries the meaning), the
// names are metadata surfaced to callers that shape results.
type NamedTupleCodec struct {
	baseCodec
	Fields []NamedTupleField
}

func (n NamedTupleCodec) Encode(w *buffer.WriteBuffer, v any) error {
	vals, ok := v.(map[string]any)
	if !ok {
		return ErrWrongValueType
	}
	body := buffer.NewWriteBuffer()
	body.WriteU32(uint32(len(n.Fields)))
	for _, f := range n.Fields {
		if err := writeElement(body, f.Codec, vals[f.Name]); err != nil {
			return err
		}
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (n NamedTupleCodec) Decode(r *buffer.FlatReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) != len(n.Fields) {
		return nil, ErrDecodeShortfall
	}
	out := make(map[string]any, count)
	for _, f := range n.Fields {
		v, err := readElement(r, f.Codec)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return out, nil
}
