package protocol

// Headers is the `u16 count | count × (u16 key, i32 value_length,
// u8[value_length] value)` structure repeated throughout the protocol.
// The core never needs to interpret header keys, so it is carried as a
// plain map; callers that emit headers (none do yet — every client
// frame in this spec sends zero headers) encode from it directly.
type Headers map[uint16][]byte
