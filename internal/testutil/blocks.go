package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goran-ethernal/StateIndexor/internal/blocksource"
)

// MakeBlock builds a block at height on top of parent with txs transactions.
// Blocks built with different fork tags have different hashes.
func MakeBlock(height uint64, parent chainhash.Hash, fork string, txs int) (*blocksource.Block, chainhash.Hash) {
	msg := wire.NewMsgBlock(&wire.BlockHeader{
		Version:   1,
		PrevBlock: parent,
		Timestamp: time.Unix(1_700_000_000+int64(height)*600, 0), //nolint:gosec
		Bits:      0x207fffff,
		Nonce:     uint32(height), //nolint:gosec
	})

	for i := range txs {
		tx := wire.NewMsgTx(1)
		script := []byte(fmt.Sprintf("%s/%d/%d", fork, height, i))
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), script, nil))
		tx.AddTxOut(wire.NewTxOut(int64(1000*(i+1)), []byte{0x51}))
		if i%2 == 1 {
			tx.AddTxOut(wire.NewTxOut(1, []byte{0x52}))
		}
		_ = msg.AddTransaction(tx)
	}

	hashes := make([]chainhash.Hash, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		hashes = append(hashes, tx.TxHash())
	}
	if len(hashes) > 0 {
		msg.Header.MerkleRoot = chainhash.DoubleHashH(append(hashes[0][:], []byte(fork)...))
	} else {
		msg.Header.MerkleRoot = chainhash.DoubleHashH([]byte(fork))
	}

	return blocksource.FromMsgBlock(height, msg), msg.BlockHash()
}

// Chain builds linked blocks from..to on top of parent, each with
// (height % 3) + 1 transactions.
func Chain(from, to uint64, parent chainhash.Hash, fork string) []*blocksource.Block {
	blocks := make([]*blocksource.Block, 0, to-from+1)
	for h := from; h <= to; h++ {
		var b *blocksource.Block
		b, parent = MakeBlock(h, parent, fork, int(h%3)+1) //nolint:gosec
		blocks = append(blocks, b)
	}
	return blocks
}

// MemorySource is an in-memory block source whose chain can be replaced to
// simulate reorgs.
type MemorySource struct {
	mu     sync.Mutex
	blocks map[uint64]*blocksource.Block
	tip    uint64
	err    error
}

var _ blocksource.BlockSource = (*MemorySource)(nil)

// NewMemorySource creates a source serving blocks.
func NewMemorySource(blocks ...*blocksource.Block) *MemorySource {
	m := &MemorySource{blocks: make(map[uint64]*blocksource.Block)}
	m.Set(blocks...)
	return m
}

// Set adds or replaces blocks and raises the tip to the highest height.
func (m *MemorySource) Set(blocks ...*blocksource.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range blocks {
		m.blocks[b.Height] = b
		if b.Height > m.tip {
			m.tip = b.Height
		}
	}
}

// Truncate drops every block above tip.
func (m *MemorySource) Truncate(tip uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h := range m.blocks {
		if h > tip {
			delete(m.blocks, h)
		}
	}
	m.tip = tip
}

// FailWith makes every call return err until cleared with nil.
func (m *MemorySource) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemorySource) TipHeight(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tip, m.err
}

func (m *MemorySource) BlockAt(_ context.Context, height uint64) (*blocksource.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.blocks[height]
	if !ok {
		return nil, fmt.Errorf("%w: height %d", blocksource.ErrBlockNotAvailable, height)
	}
	return b, nil
}
