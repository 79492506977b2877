// Package chainmeta is the foundational consumer. It records block headers
// and per-block summaries that dependent consumers read within the same block.
package chainmeta

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/wire"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/goran-ethernal/StateIndexor/pkg/indexer"
)

// Type is the registered consumer type.
const Type = "chainmeta"

const (
	prefix = "/chainmeta"

	// summarySize is tx count, input count and output count, each u32 LE.
	summarySize = 12
)

// HeaderKey holds the 80 byte serialized header of height.
func HeaderKey(height uint64) []byte {
	return strconv.AppendUint([]byte(prefix+"/header/"), height, 10) //nolint:mnd
}

// SummaryKey holds the Summary of height.
func SummaryKey(height uint64) []byte {
	return strconv.AppendUint([]byte(prefix+"/summary/"), height, 10) //nolint:mnd
}

// HeightByHashKey maps a block hash to its height.
func HeightByHashKey(hash string) []byte {
	return []byte(prefix + "/height-by-hash/" + hash)
}

// HashesKey is the list of block hashes in indexing order.
func HashesKey() []byte {
	return []byte(prefix + "/hashes")
}

// Summary counts what a block contains.
type Summary struct {
	TxCount     uint32
	InputCount  uint32
	OutputCount uint32
}

func (s Summary) encode() []byte {
	out := make([]byte, summarySize)
	binary.LittleEndian.PutUint32(out[0:4], s.TxCount)
	binary.LittleEndian.PutUint32(out[4:8], s.InputCount)
	binary.LittleEndian.PutUint32(out[8:12], s.OutputCount)
	return out
}

// ReadSummary reads the summary chainmeta wrote for height.
func ReadSummary(r kvstore.Reader, height uint64) (Summary, bool, error) {
	v, ok, err := r.Get(SummaryKey(height))
	if err != nil || !ok {
		return Summary{}, false, err
	}
	if len(v) != summarySize {
		return Summary{}, false, fmt.Errorf("summary of height %d has %d bytes, want %d", height, len(v), summarySize)
	}
	return Summary{
		TxCount:     binary.LittleEndian.Uint32(v[0:4]),
		InputCount:  binary.LittleEndian.Uint32(v[4:8]),
		OutputCount: binary.LittleEndian.Uint32(v[8:12]),
	}, true, nil
}

// ReadHeader reads the header chainmeta wrote for height.
func ReadHeader(r kvstore.Reader, height uint64) (*wire.BlockHeader, bool, error) {
	v, ok, err := r.Get(HeaderKey(height))
	if err != nil || !ok {
		return nil, false, err
	}
	var h wire.BlockHeader
	if err := h.Deserialize(bytes.NewReader(v)); err != nil {
		return nil, false, fmt.Errorf("decode header of height %d: %w", height, err)
	}
	return &h, true, nil
}

// Consumer is the chainmeta consumer.
type Consumer struct {
	name    string
	genesis uint64
	log     *logger.Logger
}

var _ indexer.Consumer = (*Consumer)(nil)

// New creates a chainmeta consumer.
func New(cfg config.ConsumerConfig, log *logger.Logger) (indexer.Consumer, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Consumer{
		name:    cfg.Name,
		genesis: cfg.GenesisHeight,
		log:     log.WithComponent(common.ComponentConsumer),
	}, nil
}

// Descriptor registers chainmeta as a foundational consumer.
func Descriptor() indexer.Descriptor {
	return indexer.Descriptor{
		Type:         Type,
		Foundational: true,
		Description:  "block headers, hash to height index and per-block transaction counts",
		Factory:      New,
	}
}

func (c *Consumer) Name() string          { return c.name }
func (c *Consumer) GenesisHeight() uint64 { return c.genesis }

// IndexBlock writes the header, summary and hash index of the block.
func (c *Consumer) IndexBlock(_ context.Context, bc *indexer.BlockContext) error {
	block := bc.Block

	var header bytes.Buffer
	if err := block.Header.Serialize(&header); err != nil {
		return fmt.Errorf("serialize header: %w", err)
	}

	summary := Summary{TxCount: uint32(len(block.Transactions))} //nolint:gosec
	for _, tx := range block.Transactions {
		summary.InputCount += uint32(len(tx.TxIn))   //nolint:gosec
		summary.OutputCount += uint32(len(tx.TxOut)) //nolint:gosec
	}

	if err := bc.Store.Put(HeaderKey(block.Height), header.Bytes()); err != nil {
		return err
	}
	if err := bc.Store.Put(SummaryKey(block.Height), summary.encode()); err != nil {
		return err
	}
	if err := bc.Store.Put(HeightByHashKey(block.Hash), common.Uint32LE(uint32(block.Height))); err != nil { //nolint:gosec
		return err
	}
	if _, err := kvstore.ListAppend(bc.Store, HashesKey(), []byte(block.Hash)); err != nil {
		return err
	}

	c.log.Debugw("indexed block metadata", "height", block.Height, "txs", summary.TxCount)
	return nil
}
