package codec

import (
	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/pkg/errors"
)

// DescriptorKind is the one-byte leading tag of a type descriptor
// (spec §4.2.1).
type DescriptorKind byte

const (
	KindSet         DescriptorKind = 0
	KindTuple       DescriptorKind = 1
	KindNamedTuple  DescriptorKind = 2
	KindArray       DescriptorKind = 3
	KindEnum        DescriptorKind = 4
	KindObjectShape DescriptorKind = 5
	KindScalar      DescriptorKind = 6
	KindBaseScalar  DescriptorKind = 7
)

// BuildCodec implements spec §4.2.2: reads descriptors left-to-right
// from data, registers each resulting codec under its own UUID (later
// descriptors may reference earlier ones), and returns the last
// descriptor's codec as the top-level result.
//
// The left-to-right single-pass walk with a running id→value table is
// the same shape the corpus's own nested-message decoders (the
// retrieved PostgreSQL/MySQL packet decoders) use for recursively
// structured wire payloads, adapted here from a byte-stream decoder to
// a descriptor-stream codec builder.
func BuildCodec(reg *Registry, data []byte) (Codec, error) {
	r := buffer.NewFlatReader(data)
	var last Codec
	for r.Len() > 0 {
		c, err := parseOneDescriptor(reg, r)
		if err != nil {
			return nil, err
		}
		last = c
	}
	if last == nil {
		return nil, errors.Wrap(ErrUnknownDescriptorKind, "empty descriptor stream")
	}
	return last, nil
}

func parseOneDescriptor(reg *Registry, r *buffer.FlatReader) (Codec, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	id, err := r.ReadUUID()
	if err != nil {
		return nil, err
	}
	var cid ID = id

	switch DescriptorKind(kindByte) {
	case KindBaseScalar:
		c, ok := reg.Get(cid)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTypeID, "base scalar %s", cid)
		}
		return c, nil

	case KindScalar:
		baseID, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		base, ok := reg.Get(ID(baseID))
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTypeID, "scalar base type %s", ID(baseID))
		}
		reg.Put(cid, base)
		return base, nil

	case KindSet:
		elemID, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		elem, ok := reg.Get(ID(elemID))
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTypeID, "set element %s", ID(elemID))
		}
		c := SetCodec{baseCodec{cid}, elem}
		reg.Put(cid, c)
		return c, nil

	case KindArray:
		elemID, err := r.ReadUUID()
		if err != nil {
			return nil, err
		}
		elem, ok := reg.Get(ID(elemID))
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTypeID, "array element %s", ID(elemID))
		}
		ndims, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		c := ArrayCodec{baseCodec{cid}, elem, int(ndims)}
		reg.Put(cid, c)
		return c, nil

	case KindTuple:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		elems := make([]Codec, n)
		for i := range elems {
			eid, err := r.ReadUUID()
			if err != nil {
				return nil, err
			}
			c, ok := reg.Get(ID(eid))
			if !ok {
				return nil, errors.Wrapf(ErrUnknownTypeID, "tuple element %s", ID(eid))
			}
			elems[i] = c
		}
		c := TupleCodec{baseCodec{cid}, elems}
		reg.Put(cid, c)
		return c, nil

	case KindNamedTuple:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		fields := make([]NamedTupleField, n)
		for i := range fields {
			name, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			fid, err := r.ReadUUID()
			if err != nil {
				return nil, err
			}
			c, ok := reg.Get(ID(fid))
			if !ok {
				return nil, errors.Wrapf(ErrUnknownTypeID, "named tuple field %q %s", name, ID(fid))
			}
			fields[i] = NamedTupleField{Name: name, Codec: c}
		}
		c := NamedTupleCodec{baseCodec{cid}, fields}
		reg.Put(cid, c)
		return c, nil

	case KindObjectShape:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		fields := make([]ObjectField, n)
		for i := range fields {
			flags, err := r.ReadU8()
			if err != nil {
				return nil, err
			}
			name, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			fid, err := r.ReadUUID()
			if err != nil {
				return nil, err
			}
			c, ok := reg.Get(ID(fid))
			if !ok {
				return nil, errors.Wrapf(ErrUnknownTypeID, "object field %q %s", name, ID(fid))
			}
			fields[i] = ObjectField{Flags: ShapeFlag(flags), Name: name, Codec: c}
		}
		c := ObjectCodec{baseCodec{cid}, fields}
		reg.Put(cid, c)
		return c, nil

	case KindEnum:
		n, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		members := make([]string, n)
		for i := range members {
			m, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		c := EnumCodec{baseCodec{cid}, members}
		reg.Put(cid, c)
		return c, nil

	default:
		return nil, errors.Wrapf(ErrUnknownDescriptorKind, "kind %d", kindByte)
	}
}
