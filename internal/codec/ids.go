package codec

import (
	"strings"

	"github.com/google/uuid"
)

// mustID parses a canonical hex UUID string into an ID, panicking on a
// malformed literal. Only ever called at package init time against
// constants below, so a panic here means a programmer error, not a
// runtime condition.
func mustID(s string) ID {
	u := uuid.MustParse(s)
	var id ID
	copy(id[:], u[:])
	return id
}

// String renders id as 32 hex chars (spec §6, "UUIDs ... rendered as
// 32 hex chars") via google/uuid.
func (id ID) String() string {
	return strings.ReplaceAll(uuid.UUID(id).String(), "-", "")
}

// Well-known base scalar type ids, pre-registered per spec §4.2.1. The
// server assigns these to the same values for every connection, so
// they are safe to hard-code rather than discover.
var (
	idUUID           = mustID("00000000-0000-0000-0000-000000000100")
	idStr            = mustID("00000000-0000-0000-0000-000000000101")
	idBytes          = mustID("00000000-0000-0000-0000-000000000102")
	idInt16          = mustID("00000000-0000-0000-0000-000000000103")
	idInt32          = mustID("00000000-0000-0000-0000-000000000104")
	idInt64          = mustID("00000000-0000-0000-0000-000000000105")
	idFloat32        = mustID("00000000-0000-0000-0000-000000000106")
	idFloat64        = mustID("00000000-0000-0000-0000-000000000107")
	idDecimal        = mustID("00000000-0000-0000-0000-000000000108")
	idBool           = mustID("00000000-0000-0000-0000-000000000109")
	idDateTime       = mustID("00000000-0000-0000-0000-00000000010a")
	idLocalDateTime  = mustID("00000000-0000-0000-0000-00000000010b")
	idLocalDate      = mustID("00000000-0000-0000-0000-00000000010c")
	idLocalTime      = mustID("00000000-0000-0000-0000-00000000010d")
	idDuration       = mustID("00000000-0000-0000-0000-00000000010e")
	idJSON           = mustID("00000000-0000-0000-0000-00000000010f")
	idBigInt         = mustID("00000000-0000-0000-0000-000000000110")
)
