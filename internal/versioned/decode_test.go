package versioned

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value []byte
		want  []byte
		kind  Kind
	}{
		{name: "raw bytes", key: "/a", value: []byte{0x01, 0x02}, want: []byte{0x01, 0x02}, kind: KindRaw},
		{name: "empty", key: "/a", value: []byte{}, want: []byte{}, kind: KindRaw},
		{name: "height prefixed", key: "/a", value: []byte("840000:deadbeef"), want: []byte{0xde, 0xad, 0xbe, 0xef}, kind: KindHeightPrefixed},
		{name: "height prefixed empty payload", key: "/a", value: []byte("7:"), want: []byte{}, kind: KindHeightPrefixed},
		{name: "height prefixed upper hex", key: "/a", value: []byte("1:ABCD"), want: []byte{0xab, 0xcd}, kind: KindHeightPrefixed},
		{name: "odd hex stays raw", key: "/a", value: []byte("1:abc"), want: []byte("1:abc"), kind: KindRaw},
		{name: "non hex stays raw", key: "/a", value: []byte("1:xyz"), want: []byte("1:xyz"), kind: KindRaw},
		{name: "non numeric height stays raw", key: "/a", value: []byte("h1:abcd"), want: []byte("h1:abcd"), kind: KindRaw},
		{name: "missing height stays raw", key: "/a", value: []byte(":abcd"), want: []byte(":abcd"), kind: KindRaw},
		{name: "digits under plain key stay raw", key: "/a", value: []byte("42"), want: []byte("42"), kind: KindRaw},
		{name: "digits under length key", key: "/a/length", value: []byte("42"), want: []byte{42, 0, 0, 0}, kind: KindASCIILength},
		{name: "zero under length key", key: "/a/length", value: []byte("0"), want: []byte{0, 0, 0, 0}, kind: KindASCIILength},
		{name: "u32 overflow under length key stays raw", key: "/a/length", value: []byte("4294967296"), want: []byte("4294967296"), kind: KindRaw},
		{name: "LE under length key stays raw", key: "/a/length", value: []byte{3, 0, 0, 0}, want: []byte{3, 0, 0, 0}, kind: KindRaw},
		{name: "height prefixed ascii length", key: "/a/length", value: []byte("9:3132"), want: []byte{12, 0, 0, 0}, kind: KindASCIILength},
		{name: "height prefixed binary length", key: "/a/length", value: []byte("9:05000000"), want: []byte{5, 0, 0, 0}, kind: KindHeightPrefixed},
		{name: "length suffix must be exact", key: "/a/lengths", value: []byte("5"), want: []byte("5"), kind: KindRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := Normalize([]byte(tt.key), tt.value)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.kind, kind, "kind %s", kind)
		})
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  uint64
		ok    bool
	}{
		{name: "ascii", value: []byte("3"), want: 3, ok: true},
		{name: "ascii multi digit", value: []byte("1024"), want: 1024, ok: true},
		{name: "u32 LE", value: []byte{3, 0, 0, 0}, want: 3, ok: true},
		{name: "u64 LE", value: []byte{0, 1, 0, 0, 0, 0, 0, 0}, want: 256, ok: true},
		{name: "height prefixed LE", value: []byte("100:04000000"), want: 4, ok: true},
		{name: "height prefixed ascii", value: []byte("100:39"), want: 9, ok: true},
		{name: "empty", value: []byte{}, ok: false},
		{name: "three bytes", value: []byte{1, 2, 3}, ok: false},
		{name: "garbage text", value: []byte("abc"), ok: false},
		{name: "ascii overflow", value: []byte("99999999999999999999999"), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLength(tt.value)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUint(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  uint64
		ok    bool
	}{
		{name: "one byte", value: []byte{7}, want: 7, ok: true},
		{name: "u32", value: []byte{0x10, 0x27, 0, 0}, want: 10000, ok: true},
		{name: "u64", value: []byte{1, 0, 0, 0, 0, 0, 0, 1}, want: 1<<56 + 1, ok: true},
		{name: "u128 small", value: append([]byte{5, 0, 0, 0, 0, 0, 0, 0}, make([]byte, 8)...), want: 5, ok: true},
		{name: "u128 overflow", value: append(make([]byte, 8), 1, 0, 0, 0, 0, 0, 0, 0), ok: false},
		{name: "empty", value: nil, ok: false},
		{name: "nine bytes", value: make([]byte, 9), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeUint(tt.value)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBlockHash(t *testing.T) {
	const display = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

	internal := make([]byte, 32)
	for i := range 32 {
		internal[i] = hexByte(display[62-2*i:64-2*i])
	}

	tests := []struct {
		name  string
		value []byte
		want  string
		ok    bool
	}{
		{name: "raw internal order", value: internal, want: display, ok: true},
		{name: "hex string", value: []byte(display), want: display, ok: true},
		{name: "upper hex string", value: []byte("000000000019D6689C085AE165831E934FF763AE46A2A6C172B3F1B60A8CE26F"), want: display, ok: true},
		{name: "bad hex string", value: []byte("zz0000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"), ok: false},
		{name: "short", value: []byte{1, 2, 3}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeBlockHash(tt.value)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func hexByte(s string) byte {
	var b byte
	for _, c := range []byte(s) {
		b <<= 4
		switch {
		case c >= '0' && c <= '9':
			b |= c - '0'
		default:
			b |= c - 'a' + 10
		}
	}
	return b
}
