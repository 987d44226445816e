package buffer_test

import (
	"bytes"
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
)

func TestWriteBufferPrimitives(t *testing.T) {
	wb := buffer.NewWriteBuffer()
	wb.WriteU8(0xAB)
	wb.WriteI16(-2)
	wb.WriteI32(-123456)
	wb.WriteString("hi")

	want := []byte{0xAB, 0xFF, 0xFE, 0xFF, 0xFE, 0x1D, 0xC0, 0, 0, 0, 2, 'h', 'i'}
	if got := wb.Unwrap(); !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestWriteBufferGrowth(t *testing.T) {
	wb := buffer.NewWriteBuffer()
	// force growth across the +4096 boundary.
	big := make([]byte, 5000)
	wb.WriteBytes(big)
	if wb.Position() != 5000 {
		t.Fatalf("position = %d, want 5000", wb.Position())
	}
	if got := wb.Unwrap(); len(got) != 5000 {
		t.Fatalf("unwrap len = %d, want 5000", len(got))
	}
}

func TestWriteBufferReset(t *testing.T) {
	wb := buffer.NewWriteBuffer()
	wb.WriteU32(1)
	wb.Reset()
	if wb.Position() != 0 {
		t.Fatalf("position after reset = %d, want 0", wb.Position())
	}
	wb.WriteU8(9)
	if got := wb.Unwrap(); len(got) != 1 || got[0] != 9 {
		t.Fatalf("unexpected bytes after reset+write: % x", got)
	}
}
