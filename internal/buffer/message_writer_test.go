package buffer_test

import (
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/edgedb/edgedb-go/internal/protocol"
)

func TestMessageWriterLengthPrefix(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.BeginMessage(protocol.TagParse); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteString("select 1"); err != nil {
		t.Fatal(err)
	}
	if err := mw.EndMessage(); err != nil {
		t.Fatal(err)
	}
	out, err := mw.Unwrap()
	if err != nil {
		t.Fatal(err)
	}

	total := len(out)
	// length field = total − 1 (excludes the tag byte, includes itself).
	gotLen := int32(out[1])<<24 | int32(out[2])<<16 | int32(out[3])<<8 | int32(out[4])
	if int(gotLen) != total-1 {
		t.Fatalf("length = %d, want %d", gotLen, total-1)
	}
}

func TestMessageWriterRejectsNestedBegin(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.BeginMessage(protocol.TagSync); err != nil {
		t.Fatal(err)
	}
	if err := mw.BeginMessage(protocol.TagSync); err != buffer.ErrMessageOpen {
		t.Fatalf("err = %v, want ErrMessageOpen", err)
	}
}

func TestMessageWriterRejectsWriteWithoutOpen(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.WriteU8(1); err != buffer.ErrNoMessageOpen {
		t.Fatalf("err = %v, want ErrNoMessageOpen", err)
	}
	if err := mw.EndMessage(); err != buffer.ErrNoMessageOpen {
		t.Fatalf("err = %v, want ErrNoMessageOpen", err)
	}
}

func TestMessageWriterSyncAndFlushRejectMidMessage(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.BeginMessage(protocol.TagParse); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteSync(); err != buffer.ErrMessageOpen {
		t.Fatalf("WriteSync err = %v, want ErrMessageOpen", err)
	}
	if err := mw.WriteFlush(); err != buffer.ErrMessageOpen {
		t.Fatalf("WriteFlush err = %v, want ErrMessageOpen", err)
	}
}

func TestMessageWriterUnwrapRejectsOpenMessage(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.BeginMessage(protocol.TagParse); err != nil {
		t.Fatal(err)
	}
	if _, err := mw.Unwrap(); err != buffer.ErrMessageOpen {
		t.Fatalf("Unwrap err = %v, want ErrMessageOpen", err)
	}
}

func TestMessageWriterSyncFlushFrames(t *testing.T) {
	mw := buffer.NewMessageWriter()
	if err := mw.WriteSync(); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteFlush(); err != nil {
		t.Fatal(err)
	}
	out, err := mw.Unwrap()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'S', 0, 0, 0, 4, 'H', 0, 0, 0, 4}
	if string(out) != string(want) {
		t.Fatalf("got % x, want % x", out, want)
	}
}
