package codec

import "testing"

func TestRegistryPreSeededWithBaseScalars(t *testing.T) {
	reg := NewRegistry()
	if !reg.Has(idInt32) {
		t.Fatal("expected int32 base scalar to be pre-registered")
	}
	if !reg.Has(idStr) {
		t.Fatal("expected str base scalar to be pre-registered")
	}
}

func TestRegistryIsMonotonic(t *testing.T) {
	reg := NewRegistry()
	id := ID{1, 2, 3}
	reg.Put(id, Int32Codec{baseCodec{id}})
	if !reg.Has(id) {
		t.Fatal("expected Put to register id")
	}
	// Overwriting is allowed (build_codec may redefine via forward
	// references resolving differently across queries); eviction is
	// never allowed, which this test exercises by checking presence
	// persists across an unrelated Put.
	reg.Put(ID{9}, StrCodec{baseCodec{ID{9}}})
	if !reg.Has(id) {
		t.Fatal("expected earlier registration to remain after later Put")
	}
}
