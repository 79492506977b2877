package indexer

import (
	"context"

	"github.com/goran-ethernal/StateIndexor/internal/blocksource"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
)

// Consumer derives state from blocks. Consumers run strictly one after the
// other inside a block and write only through the BlockContext store.
type Consumer interface {
	// Name uniquely identifies the consumer. It keys the consumer's indexed height.
	Name() string

	// GenesisHeight is the first height the consumer processes.
	// Lower heights are skipped and leave the consumer's height key unset.
	GenesisHeight() uint64

	// IndexBlock applies one block. Any returned error aborts the whole block.
	IndexBlock(ctx context.Context, bc *BlockContext) error
}

// Upstream is the read view of the upstream store available to consumers.
// It reflects the upstream state caught up before the block began.
type Upstream interface {
	Get(key []byte) ([]byte, bool, error)
	GetList(key []byte) ([][]byte, error)
	GetUint64(key []byte) (uint64, bool, error)
	GetAt(key []byte, height uint64) ([]byte, bool, error)
}

// BlockContext is passed to every consumer call of a block. It is built
// once per block by the indexing loop and is never retained.
type BlockContext struct {
	Block    *blocksource.Block
	Store    kvstore.ReadWriter
	Upstream Upstream
	Log      *logger.Logger
}

// Height is the height of the block being indexed.
func (bc *BlockContext) Height() uint64 {
	return bc.Block.Height
}
