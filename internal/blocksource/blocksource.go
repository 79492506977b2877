// Package blocksource supplies the indexing loop with one block at a time.
package blocksource

import (
	"context"
	"errors"
	"time"

	"github.com/btcsuite/btcd/wire"
)

// ErrBlockNotAvailable is returned when the source has no block at the
// requested height yet.
var ErrBlockNotAvailable = errors.New("block not available")

// Block is one unit of work handed to consumers.
type Block struct {
	Height       uint64
	Hash         string
	PrevHash     string
	Time         time.Time
	Header       wire.BlockHeader
	Transactions []*wire.MsgTx
}

// BlockSource fetches blocks by height.
type BlockSource interface {
	// TipHeight returns the highest height the source can serve.
	TipHeight(ctx context.Context) (uint64, error)

	// BlockAt returns the block at height, or ErrBlockNotAvailable.
	BlockAt(ctx context.Context, height uint64) (*Block, error)
}

// FromMsgBlock converts a wire block at height into a Block.
func FromMsgBlock(height uint64, msg *wire.MsgBlock) *Block {
	return &Block{
		Height:       height,
		Hash:         msg.BlockHash().String(),
		PrevHash:     msg.Header.PrevBlock.String(),
		Time:         msg.Header.Timestamp,
		Header:       msg.Header,
		Transactions: msg.Transactions,
	}
}
