// Package kvstore is the primary key-value store. Every mutation made
// inside a block is mirrored into the undo log before it reaches the
// engine, and a block's writes land as one atomic batch.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
)

var (
	// ErrNoActiveBlock is returned when a closed block is written to.
	ErrNoActiveBlock = errors.New("no active block")

	// ErrBlockActive is returned by BeginBlock and RollbackTo while a block is open.
	ErrBlockActive = errors.New("block already active")

	// ErrPrimaryCommit is returned when a block's undo records are durable but
	// its batch could not be written. The store must be recovered before reuse.
	ErrPrimaryCommit = errors.New("primary store commit failed")
)

// Reader reads values by key.
type Reader interface {
	Get(key []byte) ([]byte, bool, error)
}

// Writer mutates values by key.
type Writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// ReadWriter is what consumers see of the block being indexed.
type ReadWriter interface {
	Reader
	Writer
}

// Store is the primary store. Reads through Store see committed state only.
type Store struct {
	engine Engine
	undo   *undo.Log
	log    *logger.Logger

	mu     sync.Mutex
	active *Block
}

// New creates a store over an opened engine and undo log.
func New(engine Engine, undoLog *undo.Log, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{engine: engine, undo: undoLog, log: log}
}

// Undo returns the undo log backing this store.
func (s *Store) Undo() *undo.Log {
	return s.undo
}

// Get returns the committed value of key.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	v, ok, err := s.engine.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("store get %q: %w", key, err)
	}
	return v, ok, nil
}

// Iterate walks committed keys under prefix.
func (s *Store) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return s.engine.Iterate(prefix, fn)
}

// BeginBlock opens the write scope of height. Only one block may be open.
func (s *Store) BeginBlock(height uint64, blockHash string) (*Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, fmt.Errorf("%w: height %d", ErrBlockActive, s.active.height)
	}

	scope, err := s.undo.BeginBlock(height, blockHash)
	if err != nil {
		return nil, err
	}

	s.active = &Block{
		store:  s,
		batch:  s.engine.NewBatch(),
		scope:  scope,
		height: height,
	}
	return s.active, nil
}

func (s *Store) release(b *Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == b {
		s.active = nil
	}
}

// RollbackTo rewinds the store to the state it had after target was committed.
func (s *Store) RollbackTo(ctx context.Context, target uint64) (int, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != nil {
		return 0, fmt.Errorf("%w: height %d", ErrBlockActive, active.height)
	}

	return s.undo.RollbackTo(ctx, target, undo.RestorerFunc(s.restore))
}

// RollbackAll reverts every block retained in the undo log.
func (s *Store) RollbackAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active != nil {
		return 0, fmt.Errorf("%w: height %d", ErrBlockActive, active.height)
	}

	return s.undo.RollbackAll(ctx, undo.RestorerFunc(s.restore))
}

// restore applies reverse-ordered undo records as one synced batch.
func (s *Store) restore(records []*undo.Record) error {
	if len(records) == 0 {
		return nil
	}
	if l, ok := s.engine.(batchLimiter); ok && int64(len(records)) >= l.maxBatchCount() {
		return fmt.Errorf("%w: rollback of %d records, engine accepts fewer than %d per batch",
			ErrBatchTooLarge, len(records), l.maxBatchCount())
	}

	batch := s.engine.NewBatch()
	defer batch.Discard()

	for _, r := range records {
		var err error
		if r.PriorExists() {
			err = batch.Set(r.Key, r.Prior)
		} else {
			err = batch.Delete(r.Key)
		}
		if err != nil {
			return fmt.Errorf("restore %q from height %d: %w", r.Key, r.Height, err)
		}
	}

	return batch.Commit()
}

// Close closes the engine. The undo log is closed by its owner.
func (s *Store) Close() error {
	return s.engine.Close()
}

// Block is the uncommitted write scope of one height. Reads through a
// Block see its own pending writes.
type Block struct {
	store  *Store
	batch  Batch
	scope  *undo.Scope
	height uint64

	puts, deletes int
	closed        bool
}

// Height returns the height of the block.
func (b *Block) Height() uint64 {
	return b.height
}

// Get reads key including the block's pending writes.
func (b *Block) Get(key []byte) ([]byte, bool, error) {
	if b.closed {
		return nil, false, ErrNoActiveBlock
	}
	return b.batch.Get(key)
}

// Put records the current value of key in the undo log, then sets it.
func (b *Block) Put(key, value []byte) error {
	if err := b.record(undo.OpPut, key); err != nil {
		return err
	}
	if err := b.batch.Set(key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	b.puts++
	return nil
}

// Delete records the current value of key in the undo log, then deletes it.
func (b *Block) Delete(key []byte) error {
	if err := b.record(undo.OpDelete, key); err != nil {
		return err
	}
	if err := b.batch.Delete(key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	b.deletes++
	return nil
}

func (b *Block) record(op undo.Op, key []byte) error {
	if b.closed {
		return ErrNoActiveBlock
	}
	prior, existed, err := b.batch.Get(key)
	if err != nil {
		return fmt.Errorf("read prior value of %q: %w", key, err)
	}
	return b.scope.Record(op, key, prior, existed)
}

// Commit persists the undo scope first and the engine batch second, so
// any write that reaches the engine is always reversible.
func (b *Block) Commit() error {
	if b.closed {
		return ErrNoActiveBlock
	}
	b.closed = true
	defer b.store.release(b)

	if err := b.scope.Commit(); err != nil {
		b.batch.Discard()
		return err
	}

	if err := b.batch.Commit(); err != nil {
		return fmt.Errorf("%w: block %d: %w", ErrPrimaryCommit, b.height, err)
	}

	metrics.KeysWrittenInc("put", b.puts)
	metrics.KeysWrittenInc("delete", b.deletes)

	return nil
}

// Abort drops the block's pending writes and undo records.
func (b *Block) Abort() error {
	if b.closed {
		return nil
	}
	b.closed = true
	defer b.store.release(b)

	b.batch.Discard()
	return b.scope.Abort()
}

// GetUint32 reads a little-endian u32 value.
func GetUint32(r Reader, key []byte) (uint32, bool, error) {
	v, ok, err := r.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, valid := common.DecodeLE(v)
	if !valid || n > 0xffffffff {
		return 0, false, fmt.Errorf("value of %q is not a little-endian u32", key)
	}
	return uint32(n), true, nil
}

// PutUint32 writes a little-endian u32 value.
func PutUint32(w Writer, key []byte, n uint32) error {
	return w.Put(key, common.Uint32LE(n))
}
