package versioned

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goran-ethernal/StateIndexor/internal/common"
)

// Value normalization is a fixed table, applied in order:
//
//	"<height>:<hex>"                 -> hex-decoded payload
//	ASCII digits under a /length key -> 4 byte little-endian u32
//	anything else                    -> unchanged
//
// A value only matches the first row when the part before ':' is a
// decimal height and the part after it is valid hex.

// Kind names the row of the decode table a value matched.
type Kind int

const (
	KindRaw Kind = iota
	KindHeightPrefixed
	KindASCIILength
)

func (k Kind) String() string {
	switch k {
	case KindHeightPrefixed:
		return "height-prefixed"
	case KindASCIILength:
		return "ascii-length"
	default:
		return "raw"
	}
}

// Normalize decodes value as stored under key.
func Normalize(key, value []byte) ([]byte, Kind) {
	kind := KindRaw
	if payload, _, ok := DecodeHeightPrefixed(value); ok {
		value = payload
		kind = KindHeightPrefixed
	}
	if IsLengthKey(key) {
		if le, ok := ASCIILengthToLE(value); ok {
			return le, KindASCIILength
		}
	}
	return value, kind
}

// IsLengthKey reports whether key addresses a version list length.
func IsLengthKey(key []byte) bool {
	return bytes.HasSuffix(key, []byte(common.LengthSuffix))
}

// DecodeHeightPrefixed splits "<height>:<hex>" into its decoded payload and height.
func DecodeHeightPrefixed(value []byte) ([]byte, uint64, bool) {
	sep := bytes.IndexByte(value, ':')
	if sep <= 0 || !isDigits(value[:sep]) {
		return nil, 0, false
	}
	height, err := strconv.ParseUint(string(value[:sep]), 10, 64)
	if err != nil {
		return nil, 0, false
	}
	payload := make([]byte, hex.DecodedLen(len(value)-sep-1))
	if _, err := hex.Decode(payload, value[sep+1:]); err != nil {
		return nil, 0, false
	}
	return payload, height, true
}

// ASCIILengthToLE converts a decimal ASCII count to little-endian u32 bytes.
func ASCIILengthToLE(value []byte) ([]byte, bool) {
	if !isDigits(value) {
		return nil, false
	}
	n, err := strconv.ParseUint(string(value), 10, 32)
	if err != nil {
		return nil, false
	}
	return common.Uint32LE(uint32(n)), true
}

// ParseLength decodes a version list length. Accepted forms, after
// height-prefix decoding: decimal ASCII, 4 byte LE and 8 byte LE.
func ParseLength(value []byte) (uint64, bool) {
	if payload, _, ok := DecodeHeightPrefixed(value); ok {
		value = payload
	}
	if len(value) == 0 {
		return 0, false
	}
	if isDigits(value) {
		n, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return common.DecodeLE(value)
}

// DecodeUint decodes a little-endian unsigned value of 1 to 8 bytes, or
// of 16 bytes when the upper half is zero.
func DecodeUint(value []byte) (uint64, bool) {
	switch {
	case len(value) >= 1 && len(value) <= 8:
		var buf [8]byte
		copy(buf[:], value)
		n, _ := common.DecodeLE(buf[:])
		return n, true
	case len(value) == 16:
		for _, b := range value[8:] {
			if b != 0 {
				return 0, false
			}
		}
		return common.DecodeLE(value[:8])
	default:
		return 0, false
	}
}

// DecodeBlockHash renders a stored block hash in display form. Raw 32 byte
// hashes are in internal byte order; 64 character hex is taken as is.
func DecodeBlockHash(value []byte) (string, bool) {
	switch len(value) {
	case chainhash.HashSize:
		h, err := chainhash.NewHash(value)
		if err != nil {
			return "", false
		}
		return h.String(), true
	case chainhash.MaxHashStringSize:
		if _, err := chainhash.NewHashFromStr(string(value)); err != nil {
			return "", false
		}
		return string(bytes.ToLower(value)), true
	default:
		return "", false
	}
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
