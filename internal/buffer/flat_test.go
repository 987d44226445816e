package buffer_test

import (
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
)

func TestFlatReaderSharesBackingArray(t *testing.T) {
	backing := []byte{1, 2, 3, 4, 5}
	f := buffer.NewFlatReader(backing)
	b, err := f.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	// mutate through the backing array and observe it in the returned
	// slice: proof there is no copy.
	backing[0] = 99
	if b[0] != 99 {
		t.Fatal("FlatReader.ReadBytes should alias the backing array")
	}
}

func TestFlatReaderOverread(t *testing.T) {
	f := buffer.NewFlatReader([]byte{1, 2})
	if _, err := f.ReadU32(); err != buffer.ErrOverread {
		t.Fatalf("err = %v, want ErrOverread", err)
	}
	// overread must not advance the cursor.
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (cursor should not move)", f.Len())
	}
}

func TestFlatReaderDiscardAndConsumeAsString(t *testing.T) {
	f := buffer.NewFlatReader([]byte("abcdef"))
	if err := f.Discard(2); err != nil {
		t.Fatal(err)
	}
	if got := f.ConsumeAsString(); got != "cdef" {
		t.Fatalf("got %q, want %q", got, "cdef")
	}
	if f.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", f.Len())
	}
}
