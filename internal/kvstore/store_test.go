package kvstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

var engines = []string{config.EnginePebble, config.EngineBadger}

func openTestStore(t *testing.T, engineName string) *Store {
	t.Helper()
	dir := t.TempDir()

	undoCfg := config.UndoConfig{DB: config.DatabaseConfig{Path: filepath.Join(dir, "undo.sqlite")}}
	undoCfg.ApplyDefaults()
	undoLog, err := undo.Open(undoCfg, logger.NewNopLogger())
	require.NoError(t, err)

	storeCfg := config.StoreConfig{Path: filepath.Join(dir, "primary"), Engine: engineName}
	storeCfg.ApplyDefaults()
	engine, err := OpenEngine(storeCfg, logger.NewNopLogger())
	require.NoError(t, err)

	s := New(engine, undoLog, logger.NewNopLogger())
	t.Cleanup(func() {
		require.NoError(t, s.Close())
		require.NoError(t, undoLog.Close())
	})
	return s
}

func forEachEngine(t *testing.T, fn func(t *testing.T, s *Store)) {
	t.Helper()
	for _, name := range engines {
		t.Run(name, func(t *testing.T) {
			fn(t, openTestStore(t, name))
		})
	}
}

func commitBlock(t *testing.T, s *Store, height uint64, writes map[string]string, deletes ...string) {
	t.Helper()
	b, err := s.BeginBlock(height, fmt.Sprintf("hash-%d", height))
	require.NoError(t, err)
	for k, v := range writes {
		require.NoError(t, b.Put([]byte(k), []byte(v)))
	}
	for _, k := range deletes {
		require.NoError(t, b.Delete([]byte(k)))
	}
	require.NoError(t, b.Commit())
}

func requireValue(t *testing.T, r Reader, key, want string) {
	t.Helper()
	v, ok, err := r.Get([]byte(key))
	require.NoError(t, err)
	require.True(t, ok, "key %s should exist", key)
	require.Equal(t, want, string(v))
}

func requireAbsent(t *testing.T, r Reader, key string) {
	t.Helper()
	_, ok, err := r.Get([]byte(key))
	require.NoError(t, err)
	require.False(t, ok, "key %s should be absent", key)
}

func TestStore_ReadYourWrites(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		commitBlock(t, s, 1, map[string]string{"a": "1"})

		b, err := s.BeginBlock(2, "hash-2")
		require.NoError(t, err)

		require.NoError(t, b.Put([]byte("a"), []byte("2")))
		require.NoError(t, b.Put([]byte("b"), []byte("new")))
		requireValue(t, b, "a", "2")
		requireValue(t, b, "b", "new")

		// committed view is unchanged until commit
		requireValue(t, s, "a", "1")
		requireAbsent(t, s, "b")

		require.NoError(t, b.Delete([]byte("a")))
		requireAbsent(t, b, "a")

		require.NoError(t, b.Commit())
		requireAbsent(t, s, "a")
		requireValue(t, s, "b", "new")
	})
}

func TestStore_AbortDiscardsEverything(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		commitBlock(t, s, 1, map[string]string{"a": "1"})

		b, err := s.BeginBlock(2, "hash-2")
		require.NoError(t, err)
		require.NoError(t, b.Put([]byte("a"), []byte("2")))
		require.NoError(t, b.Abort())

		requireValue(t, s, "a", "1")
		require.ErrorIs(t, b.Put([]byte("a"), []byte("3")), ErrNoActiveBlock)
		require.ErrorIs(t, b.Commit(), ErrNoActiveBlock)

		above, err := s.Undo().CommittedAbove(1)
		require.NoError(t, err)
		require.False(t, above)

		// height 2 can be retried
		commitBlock(t, s, 2, map[string]string{"a": "2"})
		requireValue(t, s, "a", "2")
	})
}

func TestStore_SingleActiveBlock(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		b, err := s.BeginBlock(1, "hash-1")
		require.NoError(t, err)

		_, err = s.BeginBlock(2, "hash-2")
		require.ErrorIs(t, err, ErrBlockActive)

		_, err = s.RollbackTo(context.Background(), 0)
		require.ErrorIs(t, err, ErrBlockActive)

		require.NoError(t, b.Commit())
	})
}

func TestStore_RollbackTo(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		commitBlock(t, s, 1, map[string]string{"a": "1", "b": "1"})
		commitBlock(t, s, 2, map[string]string{"a": "2", "c": "2"}, "b")
		commitBlock(t, s, 3, map[string]string{"a": "3", "b": "3"}, "c")

		n, err := s.RollbackTo(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, 6, n)

		requireValue(t, s, "a", "1")
		requireValue(t, s, "b", "1")
		requireAbsent(t, s, "c")

		// idempotent
		n, err = s.RollbackTo(context.Background(), 1)
		require.NoError(t, err)
		require.Zero(t, n)
		requireValue(t, s, "a", "1")

		// forward indexing resumes at 2
		commitBlock(t, s, 2, map[string]string{"a": "2'"})
		requireValue(t, s, "a", "2'")
	})
}

func TestStore_RollbackWindowExceededLeavesStoreUntouched(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		for h := uint64(1); h <= 20; h++ {
			commitBlock(t, s, h, map[string]string{"x": fmt.Sprint(h)})
		}
		_, err := s.Undo().Prune(config.MinUndoWindow)
		require.NoError(t, err)

		_, err = s.RollbackTo(context.Background(), 13)
		require.ErrorIs(t, err, undo.ErrRollbackWindowExceeded)
		requireValue(t, s, "x", "20")

		_, err = s.RollbackTo(context.Background(), 14)
		require.NoError(t, err)
		requireValue(t, s, "x", "14")
	})
}

// failingEngine wraps an engine and fails the next batch commit.
type failingEngine struct {
	Engine
	failNext bool
}

type failingBatch struct {
	Batch
	fail bool
}

func (e *failingEngine) NewBatch() Batch {
	b := &failingBatch{Batch: e.Engine.NewBatch(), fail: e.failNext}
	e.failNext = false
	return b
}

func (b *failingBatch) Commit() error {
	if b.fail {
		b.Discard()
		return errors.New("injected crash")
	}
	return b.Batch.Commit()
}

func TestStore_UndoCommittedPrimaryLost(t *testing.T) {
	for _, name := range engines {
		t.Run(name, func(t *testing.T) {
			base := openTestStore(t, name)
			engine := &failingEngine{Engine: base.engine}
			s := New(engine, base.undo, logger.NewNopLogger())

			commitBlock(t, s, 49, map[string]string{"x": "49", "y": "49"})

			engine.failNext = true
			b, err := s.BeginBlock(50, "hash-50")
			require.NoError(t, err)
			require.NoError(t, b.Put([]byte("x"), []byte("50")))
			require.NoError(t, b.Put([]byte("x"), []byte("50b")))
			require.NoError(t, b.Delete([]byte("y")))
			require.ErrorContains(t, b.Commit(), "injected crash")

			above, err := s.Undo().CommittedAbove(49)
			require.NoError(t, err)
			require.True(t, above)

			_, err = s.RollbackTo(context.Background(), 49)
			require.NoError(t, err)

			requireValue(t, s, "x", "49")
			requireValue(t, s, "y", "49")

			commitBlock(t, s, 50, map[string]string{"x": "50b"}, "y")
			requireValue(t, s, "x", "50b")
			requireAbsent(t, s, "y")
		})
	}
}

func TestStore_Iterate(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s *Store) {
		commitBlock(t, s, 1, map[string]string{"/p/a": "1", "/p/b": "2", "/q/a": "3"})

		var keys []string
		require.NoError(t, s.Iterate([]byte("/p/"), func(k, v []byte) bool {
			keys = append(keys, string(k)+"="+string(v))
			return true
		}))
		require.Equal(t, []string{"/p/a=1", "/p/b=2"}, keys)

		keys = nil
		require.NoError(t, s.Iterate([]byte("/p/"), func(k, v []byte) bool {
			keys = append(keys, string(k))
			return false
		}))
		require.Len(t, keys, 1)
	})
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		prefix []byte
		want   []byte
	}{
		{prefix: nil, want: nil},
		{prefix: []byte("ab"), want: []byte("ac")},
		{prefix: []byte{'a', 0xff}, want: []byte("b")},
		{prefix: []byte{0xff, 0xff}, want: nil},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, prefixEnd(tt.prefix))
	}
}

// openSmallBadgerStore opens a badger store whose batch limit is small enough
// to reach in a test.
func openSmallBadgerStore(t *testing.T) (*Store, int64) {
	t.Helper()
	dir := t.TempDir()

	undoCfg := config.UndoConfig{DB: config.DatabaseConfig{Path: filepath.Join(dir, "undo.sqlite")}}
	undoCfg.ApplyDefaults()
	undoLog, err := undo.Open(undoCfg, logger.NewNopLogger())
	require.NoError(t, err)

	engine, err := openBadger(badger.DefaultOptions(filepath.Join(dir, "primary")).
		WithMemTableSize(1 << 20).
		WithValueThreshold(1 << 10).
		WithLogger(badgerLogger{logger.NewNopLogger()}))
	require.NoError(t, err)

	s := New(engine, undoLog, logger.NewNopLogger())
	t.Cleanup(func() {
		require.NoError(t, s.Close())
		require.NoError(t, undoLog.Close())
	})
	return s, engine.maxBatchCount()
}

func putKeys(b *Block, prefix string, n int64) error {
	for i := range n {
		if err := b.Put([]byte(fmt.Sprintf("%s/%06d", prefix, i)), []byte("v")); err != nil {
			return err
		}
	}
	return nil
}

func TestStore_BadgerBlockOverBatchLimit(t *testing.T) {
	s, limit := openSmallBadgerStore(t)

	b, err := s.BeginBlock(1, "hash-1")
	require.NoError(t, err)
	err = putKeys(b, "k", limit+1)
	require.ErrorIs(t, err, ErrBatchTooLarge)
	require.NoError(t, b.Abort())

	requireAbsent(t, s, "k/000000")
	_, ok, err := s.Undo().Tip()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_BadgerRollbackOverBatchLimit(t *testing.T) {
	s, limit := openSmallBadgerStore(t)

	commitBlock(t, s, 1, map[string]string{"x": "1"})

	// each block fits, reverting both does not
	perBlock := limit/2 + 1
	for h := uint64(2); h <= 3; h++ {
		b, err := s.BeginBlock(h, fmt.Sprintf("hash-%d", h))
		require.NoError(t, err)
		require.NoError(t, putKeys(b, fmt.Sprintf("h%d", h), perBlock))
		require.NoError(t, b.Commit())
	}

	_, err := s.RollbackTo(context.Background(), 1)
	require.ErrorIs(t, err, ErrBatchTooLarge)
	require.ErrorContains(t, err, fmt.Sprintf("rollback of %d records", 2*perBlock))

	// nothing was reverted and the undo records are kept
	requireValue(t, s, "h3/000000", "v")
	above, err := s.Undo().CommittedAbove(1)
	require.NoError(t, err)
	require.True(t, above)

	// one block at a time stays under the limit
	_, err = s.RollbackTo(context.Background(), 2)
	require.NoError(t, err)
	_, err = s.RollbackTo(context.Background(), 1)
	require.NoError(t, err)
	requireAbsent(t, s, "h2/000000")
	requireValue(t, s, "x", "1")
}
