package kvstore

import (
	"errors"
	"fmt"

	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

var (
	// ErrBatchClosed is returned when a committed or discarded batch is used.
	ErrBatchClosed = errors.New("batch closed")

	// ErrBatchTooLarge is returned when a block or a rollback needs more
	// writes than the engine accepts in one atomic batch.
	ErrBatchTooLarge = errors.New("write batch exceeds engine transaction limit")
)

// Engine is an ordered, durable key-value engine.
type Engine interface {
	// Get returns a copy of the committed value of key.
	Get(key []byte) ([]byte, bool, error)
	// Iterate calls fn for every committed key with the given prefix in
	// ascending order until fn returns false. The slices are only valid
	// for the duration of the call.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
	// NewBatch starts an atomic write batch with read-your-writes.
	NewBatch() Batch
	Close() error
}

// batchLimiter is implemented by engines that cap the entries of a batch.
type batchLimiter interface {
	maxBatchCount() int64
}

// Batch buffers writes that become visible atomically on Commit.
type Batch interface {
	Get(key []byte) ([]byte, bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Commit applies the batch atomically and syncs it to stable storage.
	Commit() error
	// Discard drops the batch. It is safe to call after Commit.
	Discard()
}

// OpenEngine opens the engine selected by cfg.
func OpenEngine(cfg config.StoreConfig, log *logger.Logger) (Engine, error) {
	switch cfg.Engine {
	case config.EnginePebble, "":
		return OpenPebble(cfg.Path, cfg.CacheSizeMB, log)
	case config.EngineBadger:
		return OpenBadger(cfg.Path, cfg.CacheSizeMB, log)
	default:
		return nil, fmt.Errorf("unknown store engine %q", cfg.Engine)
	}
}

// prefixEnd returns the first key after every key with the given prefix,
// or nil when no such bound exists.
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
