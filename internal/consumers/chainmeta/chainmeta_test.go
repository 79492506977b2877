package chainmeta

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/testutil"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/goran-ethernal/StateIndexor/pkg/indexer"
	"github.com/stretchr/testify/require"
)

func TestChainmeta_IndexBlock(t *testing.T) {
	c, err := New(config.ConsumerConfig{Name: "meta", GenesisHeight: 3}, nil)
	require.NoError(t, err)
	require.Equal(t, "meta", c.Name())
	require.Equal(t, uint64(3), c.GenesisHeight())

	s := testutil.NewStore(t, 10)
	blocks := testutil.Chain(3, 4, chainhash.Hash{}, "a")

	for _, block := range blocks {
		b, err := s.BeginBlock(block.Height, block.Hash)
		require.NoError(t, err)
		require.NoError(t, c.IndexBlock(context.Background(), &indexer.BlockContext{Block: block, Store: b}))

		// visible to later consumers of the same block
		summary, ok, err := ReadSummary(b, block.Height)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint32(len(block.Transactions)), summary.TxCount)

		require.NoError(t, b.Commit())
	}

	// block 4 has 2 transactions: 1 + 2 outputs
	summary, ok, err := ReadSummary(s, 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Summary{TxCount: 2, InputCount: 2, OutputCount: 3}, summary)

	header, ok, err := ReadHeader(s, 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, blocks[1].Hash, header.BlockHash().String())
	require.Equal(t, blocks[0].Hash, header.PrevBlock.String())

	h, ok, err := kvstore.GetUint32(s, HeightByHashKey(blocks[0].Hash))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(3), h)

	hashes, err := kvstore.ListAll(s, HashesKey())
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte(blocks[0].Hash), []byte(blocks[1].Hash)}, hashes)
}

func TestChainmeta_RollbackRemovesBlock(t *testing.T) {
	c, err := New(config.ConsumerConfig{Name: "meta"}, nil)
	require.NoError(t, err)

	s := testutil.NewStore(t, 10)
	for _, block := range testutil.Chain(1, 3, chainhash.Hash{}, "a") {
		b, err := s.BeginBlock(block.Height, block.Hash)
		require.NoError(t, err)
		require.NoError(t, c.IndexBlock(context.Background(), &indexer.BlockContext{Block: block, Store: b}))
		require.NoError(t, b.Commit())
	}

	_, err = s.RollbackTo(context.Background(), 2)
	require.NoError(t, err)

	_, ok, err := ReadSummary(s, 3)
	require.NoError(t, err)
	require.False(t, ok)

	n, err := kvstore.ListLength(s, HashesKey())
	require.NoError(t, err)
	require.Equal(t, uint32(2), n)
}

func TestReadSummary_RejectsBadSize(t *testing.T) {
	s := testutil.NewStore(t, 10)
	b, err := s.BeginBlock(1, "h")
	require.NoError(t, err)
	require.NoError(t, b.Put(SummaryKey(1), common.Uint32LE(1)))

	_, _, err = ReadSummary(b, 1)
	require.ErrorContains(t, err, "has 4 bytes")
	require.NoError(t, b.Abort())
}

func TestDescriptor(t *testing.T) {
	d := Descriptor()
	require.Equal(t, Type, d.Type)
	require.True(t, d.Foundational)
}
