package blocksource_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goran-ethernal/StateIndexor/internal/blocksource"
	"github.com/goran-ethernal/StateIndexor/internal/blocksource/mocks"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func msgBlock(prev chainhash.Hash, nonce uint32) *wire.MsgBlock {
	coinbase := wire.NewMsgTx(1)
	coinbase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), []byte{byte(nonce)}, nil))
	coinbase.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))

	block := wire.NewMsgBlock(&wire.BlockHeader{
		Version:    2,
		PrevBlock:  prev,
		MerkleRoot: coinbase.TxHash(),
		Timestamp:  time.Unix(1_600_000_000, 0),
		Bits:       0x207fffff,
		Nonce:      nonce,
	})
	_ = block.AddTransaction(coinbase)
	return block
}

func TestBitcoind_BlockAt(t *testing.T) {
	node := mocks.NewNodeClient(t)
	src := blocksource.NewBitcoind(node, logger.NewNopLogger())

	block := msgBlock(chainhash.Hash{0x09}, 1)
	hash := block.BlockHash()

	node.EXPECT().GetBlockHash(mock.Anything, uint64(7)).Return(&hash, nil)
	node.EXPECT().GetBlock(mock.Anything, &hash).Return(block, nil)

	got, err := src.BlockAt(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), got.Height)
	require.Equal(t, hash.String(), got.Hash)
	require.Equal(t, block.Header.PrevBlock.String(), got.PrevHash)
	require.Equal(t, block.Header.Timestamp, got.Time)
	require.Len(t, got.Transactions, 1)
}

func TestBitcoind_BlockAt_NotAvailable(t *testing.T) {
	node := mocks.NewNodeClient(t)
	src := blocksource.NewBitcoind(node, nil)

	node.EXPECT().GetBlockHash(mock.Anything, uint64(8)).
		Return(nil, fmt.Errorf("%w: 8", rpc.ErrHeightOutOfRange))

	_, err := src.BlockAt(context.Background(), 8)
	require.ErrorIs(t, err, blocksource.ErrBlockNotAvailable)
}

func TestBitcoind_BlockAt_Errors(t *testing.T) {
	block := msgBlock(chainhash.Hash{0x09}, 1)
	hash := block.BlockHash()
	other := msgBlock(chainhash.Hash{0x09}, 2)

	tests := []struct {
		name    string
		setup   func(node *mocks.NodeClient)
		wantErr string
	}{
		{
			name: "hash lookup fails",
			setup: func(node *mocks.NodeClient) {
				node.EXPECT().GetBlockHash(mock.Anything, uint64(3)).Return(nil, errors.New("boom"))
			},
			wantErr: "failed to get hash of block 3: boom",
		},
		{
			name: "block fetch fails",
			setup: func(node *mocks.NodeClient) {
				node.EXPECT().GetBlockHash(mock.Anything, uint64(3)).Return(&hash, nil)
				node.EXPECT().GetBlock(mock.Anything, &hash).Return(nil, errors.New("gone"))
			},
			wantErr: "gone",
		},
		{
			name: "node returns another block",
			setup: func(node *mocks.NodeClient) {
				node.EXPECT().GetBlockHash(mock.Anything, uint64(3)).Return(&hash, nil)
				node.EXPECT().GetBlock(mock.Anything, &hash).Return(other, nil)
			},
			wantErr: "node returned block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := mocks.NewNodeClient(t)
			tt.setup(node)

			_, err := blocksource.NewBitcoind(node, nil).BlockAt(context.Background(), 3)
			require.ErrorContains(t, err, tt.wantErr)
			require.NotErrorIs(t, err, blocksource.ErrBlockNotAvailable)
		})
	}
}

func TestBitcoind_TipHeight(t *testing.T) {
	node := mocks.NewNodeClient(t)
	node.EXPECT().GetBlockCount(mock.Anything).Return(uint64(120), nil)

	tip, err := blocksource.NewBitcoind(node, nil).TipHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(120), tip)
}
