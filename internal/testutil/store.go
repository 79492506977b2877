package testutil

import (
	"path/filepath"
	"testing"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

// StoreConfig returns store and undo configs rooted in dir.
func StoreConfig(dir string, window uint64) (config.StoreConfig, config.UndoConfig) {
	storeCfg := config.StoreConfig{Path: filepath.Join(dir, "primary")}
	storeCfg.ApplyDefaults()

	undoCfg := config.UndoConfig{
		Window: window,
		DB:     config.DatabaseConfig{Path: filepath.Join(dir, "undo.sqlite")},
	}
	undoCfg.ApplyDefaults()

	return storeCfg, undoCfg
}

// OpenStore opens a primary store and its undo log from the given configs.
// Both are closed when the test ends.
func OpenStore(t *testing.T, storeCfg config.StoreConfig, undoCfg config.UndoConfig) *kvstore.Store {
	t.Helper()

	undoLog, err := undo.Open(undoCfg, logger.NewNopLogger())
	require.NoError(t, err)

	engine, err := kvstore.OpenEngine(storeCfg, logger.NewNopLogger())
	require.NoError(t, err)

	s := kvstore.New(engine, undoLog, logger.NewNopLogger())
	t.Cleanup(func() {
		_ = s.Close()
		_ = undoLog.Close()
	})
	return s
}

// NewStore opens a pebble backed store with the given undo window in a temp dir.
func NewStore(t *testing.T, window uint64) *kvstore.Store {
	t.Helper()
	storeCfg, undoCfg := StoreConfig(t.TempDir(), window)
	return OpenStore(t, storeCfg, undoCfg)
}

// CommitBlock writes one block of puts and records its hash the way the
// indexing loop does.
func CommitBlock(t *testing.T, s *kvstore.Store, height uint64, hash string, puts map[string]string) {
	t.Helper()

	b, err := s.BeginBlock(height, hash)
	require.NoError(t, err)
	for k, v := range puts {
		require.NoError(t, b.Put([]byte(k), []byte(v)))
	}
	require.NoError(t, RecordBlock(b, height, hash))
	require.NoError(t, b.Commit())
}

// RecordBlock writes the coordinator's hash and height keys for height.
func RecordBlock(w kvstore.ReadWriter, height uint64, hash string) error {
	if err := w.Put(common.BlockHashKey(height), []byte(hash)); err != nil {
		return err
	}
	return kvstore.PutUint32(w, common.HeightKey(), uint32(height)) //nolint:gosec
}
