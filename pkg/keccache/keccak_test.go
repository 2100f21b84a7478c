package keccache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/keccache/pkg/keccache"
)

var knownDigests = []struct {
	name  string
	input string
	want  string
}{
	{"Empty", "", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
	{"Abc", "abc", "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
	{"HelloWorld", "hello world", "47173285a8d7341e5e972fc677286384f802f8ef42a5ec5f03bbfa254cb01fad"},
	{"EIP191Message", "\x19Ethereum Signed Message:\n11Hello World", "a1de988600a42c4b4ab089b619297c17d53cffae5d5120d82d8a92d0bb3b78f2"},
}

func Test_Sum_Returns_Known_Digest_When_Given_Test_Vector(t *testing.T) {
	t.Parallel()

	for _, tc := range knownDigests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			want, err := keccache.ParseDigest(tc.want)
			require.NoError(t, err)

			require.Equal(t, want, keccache.Sum([]byte(tc.input)))
		})
	}
}

func Test_Sum_Matches_EmptyDigest_When_Input_Empty(t *testing.T) {
	t.Parallel()

	if got, want := keccache.Sum(nil), keccache.EmptyDigest; got != want {
		t.Fatalf("Sum(nil)=%s, want=%s", got, want)
	}

	if got, want := keccache.Sum([]byte{}), keccache.EmptyDigest; got != want {
		t.Fatalf("Sum([]byte{})=%s, want=%s", got, want)
	}
}

func Test_Sum_Produces_Selector_When_Hashing_Function_Signature(t *testing.T) {
	t.Parallel()

	d := keccache.Sum([]byte("transfer(address,uint256)"))

	if got, want := d.Hex()[:10], "0xa9059cbb"; got != want {
		t.Fatalf("selector=%s, want=%s", got, want)
	}
}

func Test_Sum_Is_Stable_When_Pooled_Hashers_Are_Reused(t *testing.T) {
	t.Parallel()

	// Interleave inputs so a hasher that was not reset would leak state.
	first := keccache.Sum([]byte("abc"))

	for range 100 {
		_ = keccache.Sum([]byte(strings.Repeat("x", 300)))

		if got := keccache.Sum([]byte("abc")); got != first {
			t.Fatalf("Sum(abc)=%s after reuse, want=%s", got, first)
		}
	}
}

func Test_Digest_Hex_Roundtrips_When_Parsed(t *testing.T) {
	t.Parallel()

	d := keccache.Sum([]byte("roundtrip"))

	parsed, err := keccache.ParseDigest(d.Hex())
	require.NoError(t, err)
	require.Equal(t, d, parsed)

	parsed, err = keccache.ParseDigest(strings.TrimPrefix(d.String(), "0x"))
	require.NoError(t, err)
	require.Equal(t, d, parsed)
}

func Test_ParseDigest_Accepts_Uppercase_Prefix_When_Present(t *testing.T) {
	t.Parallel()

	d := keccache.Sum([]byte("abc"))

	parsed, err := keccache.ParseDigest("0X" + strings.TrimPrefix(d.Hex(), "0x"))
	require.NoError(t, err)
	require.Equal(t, d, parsed)

	_, err = keccache.ParseDigest("0x0X" + strings.TrimPrefix(d.Hex(), "0x")[4:])
	require.Error(t, err, "only one prefix is stripped")
}

func Test_CutHexPrefix_Strips_One_Prefix_When_Present(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantCut bool
	}{
		{in: "0xab", want: "ab", wantCut: true},
		{in: "0Xab", want: "ab", wantCut: true},
		{in: "0x", want: "", wantCut: true},
		{in: "ab", want: "ab", wantCut: false},
		{in: "0", want: "0", wantCut: false},
		{in: "x0ab", want: "x0ab", wantCut: false},
	}

	for _, tt := range tests {
		got, cut := keccache.CutHexPrefix(tt.in)
		if got != tt.want || cut != tt.wantCut {
			t.Errorf("CutHexPrefix(%q)=(%q, %t), want (%q, %t)", tt.in, got, cut, tt.want, tt.wantCut)
		}
	}
}

func Test_ParseDigest_Returns_Error_When_Input_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "0x", "0x1234", strings.Repeat("zz", 32), "0x" + strings.Repeat("ab", 33)} {
		_, err := keccache.ParseDigest(in)
		require.Error(t, err, "ParseDigest(%q)", in)
	}
}
