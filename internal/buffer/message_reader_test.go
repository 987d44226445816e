package buffer_test

import (
	"bytes"
	"testing"

	"github.com/edgedb/edgedb-go/internal/buffer"
	"github.com/edgedb/edgedb-go/internal/protocol"
)

// buildFrame returns tag + i32(len(payload)+4) + payload.
func buildFrame(tag byte, payload []byte) []byte {
	n := len(payload) + 4
	out := []byte{tag, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	return append(out, payload...)
}

func TestTakeMessageAcrossChunkSplits(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 10)
	frame := buildFrame(0x50, payload)
	if len(frame) != 15 {
		t.Fatalf("frame len = %d, want 15", len(frame))
	}

	splits := []int{1, 2, 7, 5}
	r := buffer.NewMessageReader()
	off := 0
	var gotReady []bool
	for _, n := range splits {
		r.Feed(frame[off : off+n])
		off += n
		gotReady = append(gotReady, r.TakeMessage())
	}
	wantReady := []bool{false, false, false, true}
	for i := range wantReady {
		if gotReady[i] != wantReady[i] {
			t.Fatalf("step %d: ready = %v, want %v", i, gotReady[i], wantReady[i])
		}
	}
	if r.GetMessageType() != protocol.Tag(0x50) {
		t.Fatalf("tag = %v, want 0x50", r.GetMessageType())
	}
	got := r.ConsumeMessage()
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = % x, want % x", got, payload)
	}
}

func TestFeedWholeStreamEquivalence(t *testing.T) {
	payload1 := []byte("hello")
	payload2 := []byte("world!!")
	stream := append(buildFrame('A', payload1), buildFrame('B', payload2)...)

	// Feed everything in one shot.
	whole := buffer.NewMessageReader()
	whole.Feed(stream)
	var wholeFrames [][]byte
	for whole.TakeMessage() {
		wholeFrames = append(wholeFrames, whole.ConsumeMessage())
	}

	// Feed byte-by-byte.
	piecewise := buffer.NewMessageReader()
	var pieceFrames [][]byte
	for i := range stream {
		piecewise.Feed(stream[i : i+1])
		for piecewise.TakeMessage() {
			pieceFrames = append(pieceFrames, piecewise.ConsumeMessage())
		}
	}

	if len(wholeFrames) != len(pieceFrames) {
		t.Fatalf("frame count mismatch: %d vs %d", len(wholeFrames), len(pieceFrames))
	}
	for i := range wholeFrames {
		if !bytes.Equal(wholeFrames[i], pieceFrames[i]) {
			t.Fatalf("frame %d mismatch: % x vs % x", i, wholeFrames[i], pieceFrames[i])
		}
	}
}

func TestTakeMessageTypeMismatch(t *testing.T) {
	r := buffer.NewMessageReader()
	r.Feed(buildFrame('Z', []byte{1}))
	if r.TakeMessageType(protocol.Tag('Q')) {
		t.Fatal("expected mismatch to return false")
	}
	if !r.TakeMessageType(protocol.Tag('Z')) {
		t.Fatal("expected matching tag to return true")
	}
}

func TestOverreadIsFatal(t *testing.T) {
	r := buffer.NewMessageReader()
	r.Feed(buildFrame('X', []byte{1, 2}))
	if !r.TakeMessage() {
		t.Fatal("expected ready message")
	}
	if _, err := r.ReadU32(); err != buffer.ErrOverread {
		t.Fatalf("err = %v, want ErrOverread", err)
	}
}

func TestPutMessageReoffersFrame(t *testing.T) {
	r := buffer.NewMessageReader()
	r.Feed(buildFrame('Z', nil))
	if !r.TakeMessageType(protocol.Tag('Z')) {
		t.Fatal("expected ready")
	}
	r.PutMessage()
	if !r.TakeMessage() {
		t.Fatal("expected re-offered message to still be ready")
	}
}

func TestRingBackpressure(t *testing.T) {
	r := buffer.NewMessageReader()
	var full bool
	for i := 0; i < 1024; i++ {
		full = r.Feed([]byte{byte(i)})
	}
	if !full {
		t.Fatal("expected ring to report full at capacity")
	}
}

func TestDiscardMessageSkipsPayload(t *testing.T) {
	r := buffer.NewMessageReader()
	r.Feed(buildFrame('D', []byte("ignored")))
	r.Feed(buildFrame('Z', []byte{'I'}))
	if !r.TakeMessage() {
		t.Fatal("expected first frame ready")
	}
	r.DiscardMessage()
	if !r.TakeMessage() {
		t.Fatal("expected second frame ready")
	}
	if r.GetMessageType() != protocol.Tag('Z') {
		t.Fatalf("tag = %v, want Z", r.GetMessageType())
	}
}
