package blocksource

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/rpc"
)

// NodeClient is the subset of the node RPC the bitcoind source uses.
type NodeClient interface {
	GetBlockCount(ctx context.Context) (uint64, error)
	GetBlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error)
	GetBlock(ctx context.Context, hash *chainhash.Hash) (*wire.MsgBlock, error)
}

var _ NodeClient = (*rpc.Client)(nil)

// Bitcoind serves blocks from a bitcoind compatible node.
type Bitcoind struct {
	node NodeClient
	log  *logger.Logger
}

var _ BlockSource = (*Bitcoind)(nil)

// NewBitcoind creates a block source over node.
func NewBitcoind(node NodeClient, log *logger.Logger) *Bitcoind {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Bitcoind{node: node, log: log.WithComponent(common.ComponentBlockSource)}
}

// TipHeight returns the node's best chain height.
func (b *Bitcoind) TipHeight(ctx context.Context) (uint64, error) {
	return b.node.GetBlockCount(ctx)
}

// BlockAt fetches the best chain block at height.
func (b *Bitcoind) BlockAt(ctx context.Context, height uint64) (*Block, error) {
	hash, err := b.node.GetBlockHash(ctx, height)
	if err != nil {
		if rpc.IsHeightOutOfRange(err) {
			return nil, fmt.Errorf("%w: height %d", ErrBlockNotAvailable, height)
		}
		return nil, fmt.Errorf("failed to get hash of block %d: %w", height, err)
	}

	msg, err := b.node.GetBlock(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d (%s): %w", height, hash, err)
	}

	if got := msg.BlockHash(); !got.IsEqual(hash) {
		return nil, fmt.Errorf("node returned block %s for hash %s at height %d", got, hash, height)
	}

	b.log.Debugw("fetched block", "height", height, "hash", hash.String(), "txs", len(msg.Transactions))

	return FromMsgBlock(height, msg), nil
}
