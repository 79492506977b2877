// Package activity keeps running chain totals. It depends on the per-block
// summaries chainmeta writes earlier in the same block.
package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/consumers/chainmeta"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/goran-ethernal/StateIndexor/pkg/indexer"
)

// Type is the registered consumer type.
const Type = "activity"

// OptionUpstreamKeys lists comma separated upstream keys mirrored at each height.
const OptionUpstreamKeys = "upstream_keys"

const prefix = "/activity"

var (
	keyBlocks  = []byte(prefix + "/total/blocks")
	keyTxs     = []byte(prefix + "/total/txs")
	keyInputs  = []byte(prefix + "/total/inputs")
	keyOutputs = []byte(prefix + "/total/outputs")
	keyValue   = []byte(prefix + "/total/value")
)

// MirrorKey holds the upstream value of key as of the last indexed height.
func MirrorKey(key string) []byte {
	return []byte(prefix + "/upstream/" + key)
}

// Totals are the running counters.
type Totals struct {
	Blocks  uint64 `json:"blocks"`
	Txs     uint64 `json:"txs"`
	Inputs  uint64 `json:"inputs"`
	Outputs uint64 `json:"outputs"`
	// Value is the sum of all output values in satoshis.
	Value uint64 `json:"value"`
}

// ReadTotals reads the running counters.
func ReadTotals(r kvstore.Reader) (Totals, error) {
	var t Totals
	for _, ctr := range []struct {
		key []byte
		dst *uint64
	}{
		{keyBlocks, &t.Blocks},
		{keyTxs, &t.Txs},
		{keyInputs, &t.Inputs},
		{keyOutputs, &t.Outputs},
		{keyValue, &t.Value},
	} {
		v, err := readCounter(r, ctr.key)
		if err != nil {
			return Totals{}, err
		}
		*ctr.dst = v
	}
	return t, nil
}

func readCounter(r kvstore.Reader, key []byte) (uint64, error) {
	v, ok, err := r.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	n, valid := common.DecodeLE(v)
	if !valid {
		return 0, fmt.Errorf("counter %s is not a little-endian integer", key)
	}
	return n, nil
}

func addCounter(rw kvstore.ReadWriter, key []byte, delta uint64) error {
	n, err := readCounter(rw, key)
	if err != nil {
		return err
	}
	return rw.Put(key, common.Uint64LE(n+delta))
}

// Consumer is the activity consumer.
type Consumer struct {
	name         string
	genesis      uint64
	upstreamKeys []string
	log          *logger.Logger
}

var _ indexer.Consumer = (*Consumer)(nil)

// New creates an activity consumer.
func New(cfg config.ConsumerConfig, log *logger.Logger) (indexer.Consumer, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	c := &Consumer{
		name:    cfg.Name,
		genesis: cfg.GenesisHeight,
		log:     log.WithComponent(common.ComponentConsumer),
	}

	for _, k := range strings.Split(cfg.Options[OptionUpstreamKeys], ",") {
		if k = strings.TrimSpace(k); k != "" {
			c.upstreamKeys = append(c.upstreamKeys, k)
		}
	}

	return c, nil
}

// Descriptor registers activity as a dependent consumer.
func Descriptor() indexer.Descriptor {
	return indexer.Descriptor{
		Type:        Type,
		Description: "running block, transaction and output totals; mirrors selected upstream keys",
		Factory:     New,
	}
}

func (c *Consumer) Name() string          { return c.name }
func (c *Consumer) GenesisHeight() uint64 { return c.genesis }

// IndexBlock adds the block's summary to the totals and refreshes mirrored upstream keys.
func (c *Consumer) IndexBlock(_ context.Context, bc *indexer.BlockContext) error {
	height := bc.Height()

	summary, ok, err := chainmeta.ReadSummary(bc.Store, height)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no chainmeta summary for height %d, a chainmeta consumer must run first", height)
	}

	var value uint64
	for _, tx := range bc.Block.Transactions {
		for _, out := range tx.TxOut {
			value += uint64(out.Value) //nolint:gosec
		}
	}

	for _, ctr := range []struct {
		key   []byte
		delta uint64
	}{
		{keyBlocks, 1},
		{keyTxs, uint64(summary.TxCount)},
		{keyInputs, uint64(summary.InputCount)},
		{keyOutputs, uint64(summary.OutputCount)},
		{keyValue, value},
	} {
		if err := addCounter(bc.Store, ctr.key, ctr.delta); err != nil {
			return err
		}
	}

	return c.mirrorUpstream(bc)
}

func (c *Consumer) mirrorUpstream(bc *indexer.BlockContext) error {
	if bc.Upstream == nil || len(c.upstreamKeys) == 0 {
		return nil
	}

	for _, key := range c.upstreamKeys {
		v, ok, err := bc.Upstream.GetAt([]byte(key), bc.Height())
		if err != nil {
			return fmt.Errorf("read upstream %s at %d: %w", key, bc.Height(), err)
		}

		if !ok {
			if err := bc.Store.Delete(MirrorKey(key)); err != nil {
				return err
			}
			continue
		}
		if err := bc.Store.Put(MirrorKey(key), v); err != nil {
			return err
		}
	}

	return nil
}
