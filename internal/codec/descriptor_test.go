package codec

import (
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
)

func buildDescriptor(kind DescriptorKind, id [16]byte, body func(w *buffer.WriteBuffer)) []byte {
	w := buffer.NewWriteBuffer()
	w.WriteU8(byte(kind))
	w.WriteUUID(id)
	body(w)
	return w.Unwrap()
}

func TestBuildCodecResolvesEarlierReferencesWithinStream(t *testing.T) {
	reg := NewRegistry()

	aliasID := [16]byte{1, 2, 3}
	scalarDesc := buildDescriptor(KindScalar, aliasID, func(w *buffer.WriteBuffer) {
		w.WriteUUID(idInt32)
	})

	tupleID := [16]byte{9, 9, 9}
	tupleDesc := buildDescriptor(KindTuple, tupleID, func(w *buffer.WriteBuffer) {
		w.WriteU16(1)
		w.WriteUUID(aliasID)
	})

	stream := append(scalarDesc, tupleDesc...)
	top, err := BuildCodec(reg, stream)
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := top.(TupleCodec)
	if !ok {
		t.Fatalf("top-level codec = %T, want TupleCodec", top)
	}
	if len(tc.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(tc.Elements))
	}
	if !reg.Has(ID(aliasID)) || !reg.Has(ID(tupleID)) {
		t.Fatal("expected both descriptors to be registered as a side effect")
	}
}

func TestBuildCodecUnknownReferenceIsProtocolError(t *testing.T) {
	reg := NewRegistry()
	tupleID := [16]byte{7}
	unknownElem := [16]byte{0xDE, 0xAD, 0xBE, 0xEF}
	desc := buildDescriptor(KindTuple, tupleID, func(w *buffer.WriteBuffer) {
		w.WriteU16(1)
		w.WriteUUID(unknownElem)
	})
	if _, err := BuildCodec(reg, desc); err == nil {
		t.Fatal("expected error for reference to undefined type id")
	}
}

func TestBuildCodecLastDescriptorIsTopLevel(t *testing.T) {
	reg := NewRegistry()
	aliasID := [16]byte{4}
	scalarDesc := buildDescriptor(KindScalar, aliasID, func(w *buffer.WriteBuffer) {
		w.WriteUUID(idStr)
	})
	top, err := BuildCodec(reg, scalarDesc)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := top.(StrCodec); !ok {
		t.Fatalf("top-level codec = %T, want StrCodec", top)
	}
}
