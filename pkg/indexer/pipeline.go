package indexer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// ConsumerError reports a consumer failing on a block.
type ConsumerError struct {
	Consumer string
	Height   uint64
	Err      error
}

func (e *ConsumerError) Error() string {
	return fmt.Sprintf("consumer %s failed at height %d: %v", e.Consumer, e.Height, e.Err)
}

func (e *ConsumerError) Unwrap() error {
	return e.Err
}

// Pipeline is the closed, ordered collection of consumers run for every
// block. Foundational consumers always come first.
type Pipeline struct {
	consumers    []Consumer
	foundational int
}

// NewPipeline creates a pipeline running foundational consumers in the given
// order, followed by dependent consumers in the given order.
func NewPipeline(foundational, dependent []Consumer) (*Pipeline, error) {
	all := make([]Consumer, 0, len(foundational)+len(dependent))
	all = append(all, foundational...)
	all = append(all, dependent...)

	seen := make(map[string]struct{}, len(all))
	for _, c := range all {
		if _, dup := seen[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate consumer name %q", c.Name())
		}
		seen[c.Name()] = struct{}{}
	}

	return &Pipeline{consumers: all, foundational: len(foundational)}, nil
}

// BuildPipeline creates every configured consumer through the registry and
// orders them, foundational types first, each group keeping config order.
func BuildPipeline(reg *Registry, cfgs []config.ConsumerConfig, log *logger.Logger) (*Pipeline, error) {
	var foundational, dependent []Consumer

	for _, cfg := range cfgs {
		d, ok := reg.Get(cfg.Type)
		if !ok {
			return nil, fmt.Errorf("consumer %s: unknown type %s", cfg.Name, cfg.Type)
		}

		c, err := reg.Create(cfg, log)
		if err != nil {
			return nil, err
		}

		if d.Foundational {
			foundational = append(foundational, c)
		} else {
			dependent = append(dependent, c)
		}
	}

	return NewPipeline(foundational, dependent)
}

// Consumers returns the consumers in execution order.
func (p *Pipeline) Consumers() []Consumer {
	return append([]Consumer(nil), p.consumers...)
}

// IsFoundational reports whether the consumer at position i is foundational.
func (p *Pipeline) IsFoundational(i int) bool {
	return i < p.foundational
}

// Run applies one block through every consumer whose genesis height has
// been reached and advances each such consumer's indexed height.
func (p *Pipeline) Run(ctx context.Context, bc *BlockContext) error {
	height := bc.Height()
	if height > math.MaxUint32 {
		return fmt.Errorf("height %d exceeds the supported u32 range", height)
	}

	for _, c := range p.consumers {
		if height < c.GenesisHeight() {
			continue
		}

		start := time.Now()
		if err := c.IndexBlock(ctx, bc); err != nil {
			return &ConsumerError{Consumer: c.Name(), Height: height, Err: err}
		}

		if err := kvstore.PutUint32(bc.Store, common.ConsumerHeightKey(c.Name()), uint32(height)); err != nil {
			return &ConsumerError{Consumer: c.Name(), Height: height, Err: err}
		}

		metrics.ConsumerProcessingTimeLog(c.Name(), time.Since(start))
	}

	return nil
}

// ConsumerHeight reads the indexed height of the named consumer.
func ConsumerHeight(r kvstore.Reader, name string) (uint64, bool, error) {
	h, ok, err := kvstore.GetUint32(r, common.ConsumerHeightKey(name))
	return uint64(h), ok, err
}
