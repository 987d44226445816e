package codec

import "errors"

// ErrUnknownTypeID is raised when a descriptor references a UUID that
// is neither a built-in base scalar nor a previously-defined entry in
// the current descriptor stream (spec §4.2.2 rule 3). It is a
// protocol error.
var ErrUnknownTypeID = errors.New("codec: reference to undefined type id")

// ErrUnknownDescriptorKind is raised when a descriptor's kind tag does
// not match any of spec §4.2.1's kinds.
var ErrUnknownDescriptorKind = errors.New("codec: unknown descriptor kind")

// ErrWrongValueType is raised when Encode is given a Go value that
// does not match the codec's expected shape.
var ErrWrongValueType = errors.New("codec: value does not match codec type")

// ErrCardinality is raised by fetch_one semantics when the row count
// does not equal exactly one.
var ErrCardinality = errors.New("codec: expected exactly one row")

// ErrDecodeShortfall is raised when a composite decode does not
// consume its input reader exactly.
var ErrDecodeShortfall = errors.New("codec: decoder did not consume its input exactly")
