// Package undo implements a durable write-ahead undo log. Every primary
// store mutation of a block is recorded with the value it replaced, so the
// store can be rewound to any height inside the retention window.
package undo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/db"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/migrations"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/russross/meddler"
)

// Log is the undo log. It is written by a single goroutine; reads such as
// Records and Tip may run concurrently.
type Log struct {
	db          *sql.DB
	log         *logger.Logger
	maintenance db.Maintenance
	window      uint64

	mu     sync.Mutex
	active *Scope
}

// Open opens (creating if needed) the undo log database.
func Open(cfg config.UndoConfig, log *logger.Logger) (*Log, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db.RegisterZstdMeddler(cfg.CompressThreshold)

	sqlDB, err := db.Open(log, cfg.DB, migrations.UndoLog())
	if err != nil {
		return nil, fmt.Errorf("failed to open undo log: %w", err)
	}

	l := &Log{
		db:          sqlDB,
		log:         log,
		maintenance: db.NewMaintenanceCoordinator(cfg.DB.Path, sqlDB, cfg.Maintenance, log),
		window:      cfg.Window,
	}

	if oldest, ok, err := l.Oldest(); err == nil && ok {
		metrics.UndoOldestHeightSet(oldest)
	}
	metrics.ComponentHealthSet(common.ComponentUndoLog, true)

	return l, nil
}

// Maintenance returns the coordinator guarding the undo database.
func (l *Log) Maintenance() db.Maintenance {
	return l.maintenance
}

// Window returns the configured retention window.
func (l *Log) Window() uint64 {
	return l.window
}

// Close stops maintenance and closes the database.
func (l *Log) Close() error {
	if err := l.maintenance.Stop(); err != nil {
		l.log.Warnw("failed to stop undo log maintenance", "error", err)
	}
	return l.db.Close()
}

// BeginBlock opens the undo scope for height. Only one scope may be open.
// The scope holds the maintenance operation lock until it is committed
// or aborted.
func (l *Log) BeginBlock(height uint64, blockHash string) (*Scope, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active != nil {
		return nil, fmt.Errorf("%w: height %d", ErrScopeActive, l.active.height)
	}

	tip, ok, err := l.Tip()
	if err != nil {
		return nil, err
	}
	if ok && height <= tip {
		return nil, fmt.Errorf("%w: height %d, tip %d", ErrHeightNotAfterTip, height, tip)
	}

	unlock := l.maintenance.AcquireOperationLock()

	tx, err := l.db.Begin()
	if err != nil {
		unlock()
		return nil, ioErr("begin", height, err)
	}

	l.active = &Scope{
		log:       l,
		tx:        tx,
		height:    height,
		blockHash: blockHash,
		unlock:    unlock,
	}

	return l.active, nil
}

func (l *Log) release(s *Scope) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active == s {
		l.active = nil
	}
	s.unlock()
}

// Tip returns the highest committed height.
func (l *Log) Tip() (uint64, bool, error) {
	return l.boundary("MAX")
}

// Oldest returns the lowest retained committed height.
func (l *Log) Oldest() (uint64, bool, error) {
	return l.boundary("MIN")
}

func (l *Log) boundary(agg string) (uint64, bool, error) {
	var h sql.NullInt64
	if err := l.db.QueryRow(fmt.Sprintf("SELECT %s(height) FROM %s", agg, blockTable)).Scan(&h); err != nil {
		return 0, false, fmt.Errorf("failed to read undo log %s height: %w", agg, err)
	}
	if !h.Valid {
		return 0, false, nil
	}
	return uint64(h.Int64), true, nil
}

// CommittedAbove reports whether any height above h has a committed marker.
func (l *Log) CommittedAbove(h uint64) (bool, error) {
	var exists bool
	err := l.db.QueryRow(
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE height > ?)", blockTable), h,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check committed heights above %d: %w", h, err)
	}
	return exists, nil
}

// Marker returns the commit marker of height, or nil if none is retained.
func (l *Log) Marker(height uint64) (*BlockMarker, error) {
	var m BlockMarker
	err := meddler.QueryRow(l.db, &m, fmt.Sprintf("SELECT * FROM %s WHERE height = ?", blockTable), height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read undo marker %d: %w", height, err)
	}
	return &m, nil
}

// Records returns the records of height in mutation order.
func (l *Log) Records(height uint64) ([]*Record, error) {
	var records []*Record
	err := meddler.QueryAll(l.db, &records,
		fmt.Sprintf("SELECT * FROM %s WHERE height = ? ORDER BY seq ASC", recordTable), height)
	if err != nil {
		return nil, fmt.Errorf("failed to read undo records of height %d: %w", height, err)
	}
	return records, nil
}

// RollbackTo reverts every committed block above target. Records are handed
// to the restorer newest first (height descending, then mutation order
// descending) and only dropped once the restorer has durably applied them,
// so an interrupted rollback can be repeated. Rolling back to the tip or
// above is a no-op. A target below the oldest retained height minus one
// fails with ErrRollbackWindowExceeded before anything is touched.
func (l *Log) RollbackTo(ctx context.Context, target uint64, restorer Restorer) (int, error) {
	if err := l.checkIdle(); err != nil {
		return 0, err
	}

	tip, ok, err := l.Tip()
	if err != nil {
		return 0, err
	}
	if !ok || target >= tip {
		return 0, nil
	}

	oldest, _, err := l.Oldest()
	if err != nil {
		return 0, err
	}
	if oldest > 0 && target < oldest-1 {
		return 0, fmt.Errorf("%w: target %d, oldest retained height %d, tip %d",
			ErrRollbackWindowExceeded, target, oldest, tip)
	}

	return l.revertFrom(ctx, target+1, tip, restorer)
}

// RollbackAll reverts every retained block, including the oldest one. It
// serves stores whose first block was never recorded as indexed.
func (l *Log) RollbackAll(ctx context.Context, restorer Restorer) (int, error) {
	if err := l.checkIdle(); err != nil {
		return 0, err
	}

	tip, ok, err := l.Tip()
	if err != nil || !ok {
		return 0, err
	}
	oldest, _, err := l.Oldest()
	if err != nil {
		return 0, err
	}

	return l.revertFrom(ctx, oldest, tip, restorer)
}

func (l *Log) checkIdle() error {
	l.mu.Lock()
	active := l.active
	l.mu.Unlock()
	if active != nil {
		return fmt.Errorf("%w: cannot roll back while height %d is open", ErrScopeActive, active.height)
	}
	return nil
}

// revertFrom restores and drops every record at or above from.
func (l *Log) revertFrom(ctx context.Context, from, tip uint64, restorer Restorer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	unlock := l.maintenance.AcquireOperationLock()
	defer unlock()

	var records []*Record
	err := meddler.QueryAll(l.db, &records,
		fmt.Sprintf("SELECT * FROM %s WHERE height >= ? ORDER BY height DESC, seq DESC", recordTable), from)
	if err != nil {
		return 0, fmt.Errorf("failed to load undo records from %d: %w", from, err)
	}

	if err := restorer.Restore(records); err != nil {
		return 0, fmt.Errorf("failed to restore %d undo records from %d: %w", len(records), from, err)
	}

	if err := l.deleteFrom(from); err != nil {
		return 0, ioErr("truncate", from, err)
	}

	metrics.DBQueryInc(metricsDB, "rollback")
	metrics.RollbacksInc()
	l.log.Infow("rolled back undo log",
		"reverted_from", from, "previous_tip", tip, "depth", tip-from+1, "records", len(records))

	return len(records), nil
}

func (l *Log) deleteFrom(from uint64) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE height >= ?", recordTable), from); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE height >= ?", blockTable), from); err != nil {
		return err
	}

	return tx.Commit()
}

// Prune drops every height at or below tip-window, keeping the trailing
// window heights reversible. It returns the number of records removed.
func (l *Log) Prune(window uint64) (int64, error) {
	if window < config.MinUndoWindow {
		return 0, fmt.Errorf("%w: %d < %d", ErrWindowTooSmall, window, config.MinUndoWindow)
	}

	tip, ok, err := l.Tip()
	if err != nil {
		return 0, err
	}
	if !ok || tip <= window {
		return 0, nil
	}
	cutoff := tip - window

	unlock := l.maintenance.AcquireOperationLock()
	defer unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return 0, ioErr("prune", cutoff, err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	res, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE height <= ?", recordTable), cutoff)
	if err != nil {
		return 0, ioErr("prune", cutoff, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE height <= ?", blockTable), cutoff); err != nil {
		return 0, ioErr("prune", cutoff, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, ioErr("prune", cutoff, err)
	}

	removed, _ := res.RowsAffected()
	metrics.DBQueryInc(metricsDB, "prune")
	metrics.UndoOldestHeightSet(cutoff + 1)
	if removed > 0 {
		l.log.Debugw("pruned undo log", "cutoff", cutoff, "records", removed)
	}

	return removed, nil
}

// Scope collects the undo records of one block inside a single database
// transaction. Nothing is visible to Tip or RollbackTo until Commit.
type Scope struct {
	log       *Log
	tx        *sql.Tx
	height    uint64
	blockHash string
	seq       uint32
	unlock    func()
	closed    bool
}

// Height returns the height this scope records for.
func (s *Scope) Height() uint64 {
	return s.height
}

// Record appends a reversible mutation. It must be called before the
// mutation is applied to the primary store. existed reports whether key
// had a value (prior) before the mutation.
func (s *Scope) Record(op Op, key, prior []byte, existed bool) error {
	if s.closed {
		return ErrScopeClosed
	}

	rec := &Record{
		Height: s.height,
		Seq:    s.seq,
		Key:    append([]byte(nil), key...),
		Op:     op,
	}
	if existed {
		rec.Prior = append(make([]byte, 0, len(prior)), prior...)
	}

	if err := meddler.Insert(s.tx, recordTable, rec); err != nil {
		return ioErr("append", s.height, err)
	}
	s.seq++

	return nil
}

// Count returns the number of records appended so far.
func (s *Scope) Count() int {
	return int(s.seq)
}

// Commit durably persists the scope's records and its committed marker.
// Only after Commit returns may the primary store batch be committed.
func (s *Scope) Commit() error {
	if s.closed {
		return ErrScopeClosed
	}
	s.closed = true
	defer s.log.release(s)

	marker := &BlockMarker{
		Height:      s.height,
		BlockHash:   s.blockHash,
		RecordCount: int(s.seq),
		CommittedAt: time.Now().UTC().Unix(),
	}
	if err := meddler.Insert(s.tx, blockTable, marker); err != nil {
		_ = s.tx.Rollback()
		return ioErr("mark", s.height, err)
	}

	start := time.Now()
	if err := s.tx.Commit(); err != nil {
		return ioErr("flush", s.height, err)
	}

	metrics.DBQueryInc(metricsDB, "commit")
	metrics.DBQueryDuration(metricsDB, "commit", time.Since(start))
	metrics.UndoRecordsInc(int(s.seq))

	return nil
}

// Abort discards the scope. It is safe to call after Commit.
func (s *Scope) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.log.release(s)

	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return ioErr("abort", s.height, err)
	}
	return nil
}
