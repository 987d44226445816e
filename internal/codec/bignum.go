package codec

import (
	"math/big"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/shopspring/decimal"
)

// The bigint/decimal wire format groups digits in base 10000, the same
// layout Postgres uses for NUMERIC: a digit count, a weight (the
// base-10000 exponent of the first digit group), a sign, and a
// reserved/scale field (the scale for decimal, always 0 for bigint),
// followed by that many big-endian uint16 digit groups.
const numericBase = 10000

const (
	numericPositive uint16 = 0x0000
	numericNegative uint16 = 0x4000
)

func digitGroups(abs *big.Int) []uint16 {
	if abs.Sign() == 0 {
		return nil
	}
	base := big.NewInt(numericBase)
	n := new(big.Int).Set(abs)
	var groups []uint16
	mod := new(big.Int)
	for n.Sign() != 0 {
		n.DivMod(n, base, mod)
		groups = append([]uint16{uint16(mod.Int64())}, groups...)
	}
	return groups
}

func groupsToBigInt(groups []uint16) *big.Int {
	out := new(big.Int)
	base := big.NewInt(numericBase)
	for _, g := range groups {
		out.Mul(out, base)
		out.Add(out, big.NewInt(int64(g)))
	}
	return out
}

// BigIntCodec encodes/decodes std::bigint into a *big.Int. The
// standard library's math/big is used directly: no ecosystem bigint
// codec appears anywhere in the retrieved corpus (see DESIGN.md), and
// math/big is the type every Go numeric library, including
// shopspring/decimal below, is itself built on.
type BigIntCodec struct{ baseCodec }

func (BigIntCodec) Encode(w *buffer.WriteBuffer, v any) error {
	n, ok := v.(*big.Int)
	if !ok {
		return ErrWrongValueType
	}
	groups := digitGroups(new(big.Int).Abs(n))
	sign := numericPositive
	if n.Sign() < 0 {
		sign = numericNegative
	}

	body := buffer.NewWriteBuffer()
	body.WriteU16(uint16(len(groups)))
	body.WriteI16(int16(len(groups) - 1)) // weight: base-10000 exponent of first group
	body.WriteU16(sign)
	body.WriteU16(0) // reserved/scale, always 0 for bigint
	for _, g := range groups {
		body.WriteU16(g)
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (BigIntCodec) Decode(r *buffer.FlatReader) (any, error) {
	n, err := decodeNumericGroups(r)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func decodeNumericGroups(r *buffer.FlatReader) (*big.Int, error) {
	ndigits, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadI16(); err != nil { // weight, implied by ndigits for our groups
		return nil, err
	}
	sign, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU16(); err != nil { // reserved/scale
		return nil, err
	}
	groups := make([]uint16, ndigits)
	for i := range groups {
		g, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		groups[i] = g
	}
	if r.Len() != 0 {
		return nil, ErrDecodeShortfall
	}
	n := groupsToBigInt(groups)
	if sign == numericNegative {
		n.Neg(n)
	}
	return n, nil
}

// DecimalCodec encodes/decodes std::decimal into a
// github.com/shopspring/decimal.Decimal, the arbitrary-precision
// decimal type that recurs as an indirect dependency across several
// retrieved example manifests and is the natural ecosystem stand-in
// for a scaled NUMERIC wire value.
type DecimalCodec struct{ baseCodec }

func (DecimalCodec) Encode(w *buffer.WriteBuffer, v any) error {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return ErrWrongValueType
	}
	unscaled := d.Coefficient()
	scale := -d.Exponent()

	groups := digitGroups(new(big.Int).Abs(unscaled))
	sign := numericPositive
	if unscaled.Sign() < 0 {
		sign = numericNegative
	}

	body := buffer.NewWriteBuffer()
	body.WriteU16(uint16(len(groups)))
	body.WriteI16(int16(len(groups) - 1))
	body.WriteU16(sign)
	body.WriteU16(uint16(scale))
	for _, g := range groups {
		body.WriteU16(g)
	}
	payload := body.Unwrap()
	w.WriteI32(int32(len(payload)))
	w.WriteBytes(payload)
	return nil
}

func (DecimalCodec) Decode(r *buffer.FlatReader) (any, error) {
	ndigits, err := r.ReadU16()
	if err != nil {
		return decimal.Decimal{}, err
	}
	if _, err := r.ReadI16(); err != nil {
		return decimal.Decimal{}, err
	}
	sign, err := r.ReadU16()
	if err != nil {
		return decimal.Decimal{}, err
	}
	scale, err := r.ReadU16()
	if err != nil {
		return decimal.Decimal{}, err
	}
	groups := make([]uint16, ndigits)
	for i := range groups {
		g, err := r.ReadU16()
		if err != nil {
			return decimal.Decimal{}, err
		}
		groups[i] = g
	}
	if r.Len() != 0 {
		return decimal.Decimal{}, ErrDecodeShortfall
	}
	n := groupsToBigInt(groups)
	if sign == numericNegative {
		n.Neg(n)
	}
	return decimal.NewFromBigInt(n, -int32(scale)), nil
}
