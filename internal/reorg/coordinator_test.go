package reorg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/testutil"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	hashes   map[uint64]string
	catchUps int
	err      error
}

func (f *fakeUpstream) BlockHash(height uint64) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	h, ok := f.hashes[height]
	return h, ok, nil
}

func (f *fakeUpstream) CatchUp(context.Context) error {
	f.catchUps++
	return nil
}

func hashOf(height uint64, fork string) string {
	return fmt.Sprintf("%s-%d", fork, height)
}

// indexedChain commits heights from..to to a fresh store, each writing X,
// and returns an upstream agreeing with every height.
func indexedChain(t *testing.T, from, to uint64) (*kvstore.Store, *fakeUpstream) {
	t.Helper()

	s := testutil.NewStore(t, 100)
	up := &fakeUpstream{hashes: make(map[uint64]string)}
	for h := from; h <= to; h++ {
		puts := map[string]string{"X": fmt.Sprintf("v%d", h), fmt.Sprintf("only%d", h): "1"}
		testutil.CommitBlock(t, s, h, hashOf(h, "a"), puts)
		up.hashes[h] = hashOf(h, "a")
	}
	return s, up
}

func requireValue(t *testing.T, s *kvstore.Store, key, want string) {
	t.Helper()
	v, ok, err := s.Get([]byte(key))
	require.NoError(t, err)
	require.True(t, ok, key)
	require.Equal(t, want, string(v))
}

func TestCoordinator_NoReorg(t *testing.T) {
	s, up := indexedChain(t, 100, 105)
	c := NewCoordinator(up, s, 100, logger.NewNopLogger())

	require.NoError(t, c.Detect(context.Background(), 105))

	re, err := c.CheckAndRecover(context.Background(), 105)
	require.NoError(t, err)
	require.Nil(t, re)
	require.Zero(t, up.catchUps)
}

func TestCoordinator_EmptyStore(t *testing.T) {
	s := testutil.NewStore(t, 100)
	c := NewCoordinator(&fakeUpstream{}, s, 100, logger.NewNopLogger())
	require.NoError(t, c.Detect(context.Background(), 0))
}

func TestCoordinator_FindsForkPointAndRecovers(t *testing.T) {
	s, up := indexedChain(t, 100, 105)
	for h := uint64(103); h <= 105; h++ {
		up.hashes[h] = hashOf(h, "b")
	}

	c := NewCoordinator(up, s, 100, logger.NewNopLogger())

	err := c.Detect(context.Background(), 105)
	re, ok := AsReorg(err)
	require.True(t, ok)
	require.Equal(t, uint64(102), re.ForkPoint)
	require.Equal(t, uint64(103), re.FirstReorgBlock)
	require.Equal(t, uint64(3), re.Depth())
	require.Contains(t, re.Details, "local_hash=a-103 upstream_hash=b-103")

	re, err = c.CheckAndRecover(context.Background(), 105)
	require.NoError(t, err)
	require.Equal(t, uint64(102), re.ForkPoint)
	require.Equal(t, 1, up.catchUps)

	requireValue(t, s, "X", "v102")
	height, ok, err := kvstore.GetUint32(s, common.HeightKey())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(102), height)

	for h := uint64(103); h <= 105; h++ {
		_, ok, err := s.Get(common.BlockHashKey(h))
		require.NoError(t, err)
		require.False(t, ok)
	}

	// after reindexing the new branch the chains agree again
	for h := uint64(103); h <= 105; h++ {
		testutil.CommitBlock(t, s, h, hashOf(h, "b"), map[string]string{"X": fmt.Sprintf("w%d", h)})
	}
	require.NoError(t, c.Detect(context.Background(), 105))
	requireValue(t, s, "X", "w105")
}

func TestCoordinator_UpstreamShorterThanLocal(t *testing.T) {
	s, up := indexedChain(t, 100, 105)
	delete(up.hashes, 105)
	delete(up.hashes, 104)

	c := NewCoordinator(up, s, 100, logger.NewNopLogger())

	re, ok := AsReorg(c.Detect(context.Background(), 105))
	require.True(t, ok)
	require.Equal(t, uint64(103), re.ForkPoint)
}

func TestCoordinator_ForkBelowFirstIndexedHeight(t *testing.T) {
	s, up := indexedChain(t, 100, 103)
	for h := uint64(100); h <= 103; h++ {
		up.hashes[h] = hashOf(h, "b")
	}

	c := NewCoordinator(up, s, 100, logger.NewNopLogger())

	re, err := c.CheckAndRecover(context.Background(), 103)
	require.NoError(t, err)
	require.Equal(t, uint64(99), re.ForkPoint)

	_, ok, err := s.Get([]byte("X"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCoordinator_DeeperThanWindow(t *testing.T) {
	s, up := indexedChain(t, 100, 110)
	for h := uint64(104); h <= 110; h++ {
		up.hashes[h] = hashOf(h, "b")
	}

	c := NewCoordinator(up, s, 6, logger.NewNopLogger())

	_, err := c.CheckAndRecover(context.Background(), 110)
	require.ErrorIs(t, err, undo.ErrRollbackWindowExceeded)
	requireValue(t, s, "X", "v110")
	require.Zero(t, up.catchUps)

	// a fork exactly at the window boundary is recoverable
	up.hashes[104] = hashOf(104, "a")
	re, err := c.CheckAndRecover(context.Background(), 110)
	require.NoError(t, err)
	require.Equal(t, uint64(104), re.ForkPoint)
	requireValue(t, s, "X", "v104")
}

func TestCoordinator_UpstreamError(t *testing.T) {
	s, up := indexedChain(t, 100, 101)
	up.err = errors.New("boom")

	c := NewCoordinator(up, s, 100, logger.NewNopLogger())

	err := c.Detect(context.Background(), 101)
	require.ErrorContains(t, err, "boom")
	_, ok := AsReorg(err)
	require.False(t, ok)
}
