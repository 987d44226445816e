package codec

import "github.com/edgedb/edgedb-go/internal/buffer"

// ShapeFlag annotates one field of an object shape descriptor: whether
// it was explicitly requested, is a link property, or is implicit
// (e.g. an injected id).
type ShapeFlag uint8

const (
	ShapeImplicit ShapeFlag = 1 << iota
	ShapeLinkProperty
)

// ObjectField is one [flags, name, Codec] entry of an object shape.
type ObjectField struct {
	Flags ShapeFlag
	Name  string
	Codec Codec
}

// ObjectCodec encodes/decodes a record (object shape) as an ordered
// list of named, independently-typed fields. On the wire this is the
// same element-count + length-prefixed-elements shape as a tuple; the
// field metadata exists purely for the caller to build named results.
type ObjectCodec struct {
	baseCodec
	Fields []ObjectField
}

func (o ObjectCodec) Encode(w *buffer.WriteBuffer, v any) error {
	vals, ok := v.(map[string]any)
	if !ok {
		return ErrWrongValueType
	}
	body := buffer.NewWriteBuffer()
	body.WriteU32(uint32(len(o.Fields)))
	for _, f := range o.Fields {
		if err := writeElement(body, f.Codec, vals[f.Name]); err != nil {
			return err
		}
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (o ObjectCodec) Decode(r *buffer.FlatReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) != len(o.Fields) {
		return nil, ErrDecodeShortfall
	}
	out := make(map[string]any, count)
	for _, f := range o.Fields {
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
