package kvstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
)

type badgerEngine struct {
	db *badger.DB
}

// badgerLogger routes badger's logging through zap.
type badgerLogger struct {
	*logger.Logger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// OpenBadger opens a badger engine at path with synchronous writes.
//
// Every block and every rollback is one badger transaction, so both are
// bounded by badger's batch limits (15% of the memtable size, and the entry
// count that fits in it). Blocks or rollbacks above them fail with
// ErrBatchTooLarge; use pebble for chains with very large blocks.
func OpenBadger(path string, cacheSizeMB uint64, log *logger.Logger) (Engine, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	e, err := openBadger(badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithBlockCacheSize(int64(common.MBToBytes(cacheSizeMB))). //nolint:gosec
		WithLogger(badgerLogger{log}))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func openBadger(opts badger.Options) (*badgerEngine, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", opts.Dir, err)
	}

	return &badgerEngine{db: db}, nil
}

func (e *badgerEngine) maxBatchCount() int64 {
	return e.db.MaxBatchCount()
}

func (e *badgerEngine) Get(key []byte) ([]byte, bool, error) {
	var (
		out   []byte
		found bool
	)
	err := e.db.View(func(txn *badger.Txn) error {
		var err error
		out, found, err = badgerGet(txn, key)
		return err
	})
	return out, found, err
}

func badgerGet(txn *badger.Txn, key []byte) ([]byte, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (e *badgerEngine) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return e.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.Key(), value) {
				return nil
			}
		}
		return nil
	})
}

func (e *badgerEngine) NewBatch() Batch {
	return &badgerBatch{txn: e.db.NewTransaction(true)}
}

func (e *badgerEngine) Close() error {
	return e.db.Close()
}

type badgerBatch struct {
	txn    *badger.Txn
	closed bool
}

func (b *badgerBatch) Get(key []byte) ([]byte, bool, error) {
	if b.closed {
		return nil, false, ErrBatchClosed
	}
	return badgerGet(b.txn, key)
}

func (b *badgerBatch) Set(key, value []byte) error {
	if b.closed {
		return ErrBatchClosed
	}
	// badger keeps references to both slices until commit
	return txnErr(b.txn.Set(append([]byte(nil), key...), append([]byte(nil), value...)))
}

func (b *badgerBatch) Delete(key []byte) error {
	if b.closed {
		return ErrBatchClosed
	}
	return txnErr(b.txn.Delete(append([]byte(nil), key...)))
}

func txnErr(err error) error {
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: %w", ErrBatchTooLarge, err)
	}
	return err
}

func (b *badgerBatch) Commit() error {
	if b.closed {
		return ErrBatchClosed
	}
	b.closed = true
	defer b.txn.Discard()
	return b.txn.Commit()
}

func (b *badgerBatch) Discard() {
	if b.closed {
		return
	}
	b.closed = true
	b.txn.Discard()
}
