// Package codec interprets the server's type-descriptor wire format
// into a tree of encoders/decoders, caches them in a per-connection
// registry keyed by the server's content-addressed UUID, and exposes
// Encode/Decode entry points used by the connection's Parse/Execute
// cycle.
//
// The recursive descriptor walk is grounded on the same shape as the
// corpus's own length-prefixed nested-message decoders (the
// PostgreSQL and MySQL packet decoders retrieved alongside this
// spec): a flat byte cursor, a dispatch on a small leading tag, and a
// running table of already-built sub-values keyed by id.
package codec

import (
	"github.com/edgedb/edgedb-go/internal/buffer"
)

// ID is the 16-byte content-addressed codec identifier the server
// assigns per schema type, rendered on the wire as raw bytes and in
// diagnostics as 32 hex chars via github.com/google/uuid.
type ID [16]byte

// Codec encodes and decodes values of one schema type.
type Codec interface {
	// ID returns the codec's registry key.
	ID() ID

	// Encode writes v's wire representation (length prefix included)
	// to w.
	Encode(w *buffer.WriteBuffer, v any) error

	// Decode reads a value from r, which is already narrowed to the
	// value's byte range (any length prefix has been consumed by the
	// caller). Decoders must consume exactly r's remaining bytes.
	Decode(r *buffer.FlatReader) (any, error)
}

// baseCodec gives concrete codec types a shared ID() implementation.
type baseCodec struct {
	id ID
}

func (b baseCodec) ID() ID { return b.id }
