package codec

import (
	"math"

	"github.com/edgedb/edgedb-go/internal/buffer"
)

// Float32Codec encodes/decodes std::float32 as IEEE-754 single
// precision, 4 bytes big-endian.
type Float32Codec struct{ baseCodec }

func (Float32Codec) Encode(w *buffer.WriteBuffer, v any) error {
	f, ok := v.(float32)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(4)
	w.WriteU32(math.Float32bits(f))
	return nil
}

func (Float32Codec) Decode(r *buffer.FlatReader) (any, error) {
	bits, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return math.Float32frombits(bits), nil
}

// Float64Codec encodes/decodes std::float64 as IEEE-754 double
// precision, 8 bytes big-endian.
type Float64Codec struct{ baseCodec }

func (Float64Codec) Encode(w *buffer.WriteBuffer, v any) error {
	f, ok := v.(float64)
	if !ok {
		return ErrWrongValueType
	}
	w.WriteI32(8)
	w.WriteU64(math.Float64bits(f))
	return nil
}

func (Float64Codec) Decode(r *buffer.FlatReader) (any, error) {
	bits, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	return math.Float64frombits(bits), nil
}
