package kvstore

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
)

type pebbleEngine struct {
	db    *pebble.DB
	cache *pebble.Cache
}

// OpenPebble opens a pebble engine at path.
func OpenPebble(path string, cacheSizeMB uint64, log *logger.Logger) (Engine, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	cache := pebble.NewCache(int64(common.MBToBytes(cacheSizeMB))) //nolint:gosec
	opts := &pebble.Options{
		Cache:              cache,
		Logger:             log,
		FormatMajorVersion: pebble.FormatNewest,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		cache.Unref()
		return nil, fmt.Errorf("failed to open pebble database at %s: %w", path, err)
	}

	return &pebbleEngine{db: db, cache: cache}, nil
}

func (e *pebbleEngine) Get(key []byte) ([]byte, bool, error) {
	return pebbleGet(e.db.Get(key))
}

func pebbleGet(value []byte, closer interface{ Close() error }, err error) ([]byte, bool, error) {
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (e *pebbleEngine) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	it, err := e.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
		KeyTypes:   pebble.IterKeyTypePointsOnly,
	})
	if err != nil {
		return err
	}
	defer it.Close()

	for valid := it.First(); valid; valid = it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

func (e *pebbleEngine) NewBatch() Batch {
	return &pebbleBatch{b: e.db.NewIndexedBatch()}
}

func (e *pebbleEngine) Close() error {
	err := e.db.Close()
	e.cache.Unref()
	return err
}

type pebbleBatch struct {
	b      *pebble.Batch
	closed bool
}

func (b *pebbleBatch) Get(key []byte) ([]byte, bool, error) {
	if b.closed {
		return nil, false, ErrBatchClosed
	}
	return pebbleGet(b.b.Get(key))
}

func (b *pebbleBatch) Set(key, value []byte) error {
	if b.closed {
		return ErrBatchClosed
	}
	return b.b.Set(key, value, nil)
}

func (b *pebbleBatch) Delete(key []byte) error {
	if b.closed {
		return ErrBatchClosed
	}
	return b.b.Delete(key, nil)
}

func (b *pebbleBatch) Commit() error {
	if b.closed {
		return ErrBatchClosed
	}
	b.closed = true
	defer b.b.Close()
	return b.b.Commit(pebble.Sync)
}

func (b *pebbleBatch) Discard() {
	if b.closed {
		return
	}
	b.closed = true
	_ = b.b.Close()
}
