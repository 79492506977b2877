package kvstore

import (
	"fmt"

	"github.com/goran-ethernal/StateIndexor/internal/common"
)

// Lists follow the "{key}/length" plus "{key}/{idx}" convention. The
// length is stored as a little-endian u32.

// ListLength returns the number of elements of the list at key.
func ListLength(r Reader, key []byte) (uint32, error) {
	n, _, err := GetUint32(r, common.LengthKey(key))
	return n, err
}

// ListGet returns element idx of the list at key.
func ListGet(r Reader, key []byte, idx uint32) ([]byte, bool, error) {
	n, err := ListLength(r, key)
	if err != nil {
		return nil, false, err
	}
	if idx >= n {
		return nil, false, nil
	}
	v, ok, err := r.Get(common.IndexKey(key, uint64(idx)))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("list %q: element %d of %d is missing", key, idx, n)
	}
	return v, true, nil
}

// ListLast returns the final element of the list at key.
func ListLast(r Reader, key []byte) ([]byte, bool, error) {
	n, err := ListLength(r, key)
	if err != nil || n == 0 {
		return nil, false, err
	}
	return ListGet(r, key, n-1)
}

// ListAll returns every element of the list at key in order.
func ListAll(r Reader, key []byte) ([][]byte, error) {
	n, err := ListLength(r, key)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, n)
	for i := range n {
		v, ok, err := r.Get(common.IndexKey(key, uint64(i)))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("list %q: element %d of %d is missing", key, i, n)
		}
		out = append(out, v)
	}
	return out, nil
}

// ListAppend appends value to the list at key and returns its index.
func ListAppend(rw ReadWriter, key, value []byte) (uint32, error) {
	n, err := ListLength(rw, key)
	if err != nil {
		return 0, err
	}
	if err := rw.Put(common.IndexKey(key, uint64(n)), value); err != nil {
		return 0, err
	}
	if err := PutUint32(rw, common.LengthKey(key), n+1); err != nil {
		return 0, err
	}
	return n, nil
}

// ListTruncate drops elements from the end of the list until it holds n.
func ListTruncate(rw ReadWriter, key []byte, n uint32) error {
	length, err := ListLength(rw, key)
	if err != nil {
		return err
	}
	if n >= length {
		return nil
	}
	for i := length; i > n; i-- {
		if err := rw.Delete(common.IndexKey(key, uint64(i-1))); err != nil {
			return err
		}
	}
	return PutUint32(rw, common.LengthKey(key), n)
}
