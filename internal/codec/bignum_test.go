package codec_test

import (
	"math/big"
	"testing"

	"github.com/edgedb/edgedb-go/internal/codec"
)

func TestBigIntRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "-1", "123456789012345678901234567890", "-99999999999999999999"}
	for _, s := range cases {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad test fixture %q", s)
		}
		got := roundTrip(t, codec.BigIntCodec{}, n)
		if got.(*big.Int).Cmp(n) != 0 {
			t.Fatalf("bigint %s roundtrip = %v", s, got)
		}
	}
}
