package common

import (
	"strconv"
)

const (
	// LengthSuffix is appended to a list key to address its element count.
	LengthSuffix = "/length"

	// InternalPrefix namespaces coordinator bookkeeping keys in the primary store.
	InternalPrefix = "/__INTERNAL"
)

// LengthKey returns "{key}/length".
func LengthKey(key []byte) []byte {
	out := make([]byte, 0, len(key)+len(LengthSuffix))
	out = append(out, key...)
	return append(out, LengthSuffix...)
}

// IndexKey returns "{key}/{idx}" with idx in decimal.
func IndexKey(key []byte, idx uint64) []byte {
	out := make([]byte, 0, len(key)+21) //nolint:mnd
	out = append(out, key...)
	out = append(out, '/')
	return strconv.AppendUint(out, idx, 10) //nolint:mnd
}

// HeightKey is the coordinator's IndexedHeight key.
func HeightKey() []byte {
	return []byte(InternalPrefix + "/height")
}

// BlockHashKey is the key holding the locally recorded hash of height.
func BlockHashKey(height uint64) []byte {
	return strconv.AppendUint([]byte(InternalPrefix+"/height-to-hash/"), height, 10) //nolint:mnd
}

// ConsumerHeightKey is the IndexedHeight key of one consumer.
func ConsumerHeightKey(consumer string) []byte {
	return []byte(InternalPrefix + "/consumer/" + consumer + "/height")
}
