// Package indexer runs the indexing loop: it pulls the next block from the
// block source, applies it through the consumer pipeline inside one store
// block and keeps the store consistent with upstream across reorgs and
// crashes.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/blocksource"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/reorg"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
)

// Upstream is everything the loop needs from the upstream reader.
type Upstream interface {
	idx.Upstream
	reorg.Upstream
	TipHeight() (uint64, bool, error)
}

// State is the lifecycle state of the indexing loop.
type State string

const (
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateHalted   State = "halted"
	StateViewOnly State = "view-only"
	StateStopped  State = "stopped"
)

// Status is a point-in-time view of the loop for operators.
type Status struct {
	State         State     `json:"state"`
	IndexedHeight *uint64   `json:"indexed_height,omitempty"`
	UpstreamTip   *uint64   `json:"upstream_tip,omitempty"`
	SourceTip     *uint64   `json:"source_tip,omitempty"`
	LastBlockAt   time.Time `json:"last_block_at,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
}

// Coordinator is the single writer of the primary store.
type Coordinator struct {
	cfg      config.IndexingConfig
	store    *kvstore.Store
	upstream Upstream
	source   blocksource.BlockSource
	pipeline *idx.Pipeline
	reorg    *reorg.Coordinator
	policy   reorg.Policy
	log      *logger.Logger

	// target is the highest height both upstream and the block source have
	// reached. The tips are re-read only once next passes it, the upstream
	// snapshot is refreshed on every step.
	target      uint64
	targetKnown bool
	sinceCheck  uint64

	mu          sync.RWMutex
	state       State
	upstreamTip *uint64
	sourceTip   *uint64
	lastBlockAt time.Time
	lastErr     error
}

// NewCoordinator wires the indexing loop. The reorg search depth is the
// undo window of the store.
func NewCoordinator(
	cfg config.IndexingConfig,
	reorgCfg config.ReorgConfig,
	store *kvstore.Store,
	upstream Upstream,
	source blocksource.BlockSource,
	pipeline *idx.Pipeline,
	log *logger.Logger,
) *Coordinator {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Coordinator{
		cfg:      cfg,
		store:    store,
		upstream: upstream,
		source:   source,
		pipeline: pipeline,
		reorg:    reorg.NewCoordinator(upstream, store, store.Undo().Window(), log),
		policy:   reorg.NewPolicy(reorgCfg),
		log:      log.WithComponent(common.ComponentIndexer),
		state:    StateStarting,
		// force a check before the first block after a restart
		sinceCheck: reorgCfg.CheckInterval,
	}
}

// Run drives the loop until ctx is cancelled. Fatal errors halt indexing
// without returning, so readers keep serving the last committed state.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.setState(StateStopped)

	if c.cfg.ViewOnly {
		c.log.Info("view-only mode, indexing disabled")
		c.setState(StateViewOnly)
		<-ctx.Done()
		return nil
	}

	if err := c.Recover(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		c.halt(err)
		<-ctx.Done()
		return nil
	}

	c.setState(StateRunning)
	metrics.ComponentHealthSet(common.ComponentIndexer, true)
	c.log.Infow("indexing started", "start_height", c.cfg.StartHeight)

	for {
		if ctx.Err() != nil {
			c.log.Info("indexing stopped")
			return nil
		}

		advanced, err := c.Step(ctx)

		var wait time.Duration
		switch {
		case err != nil && ctx.Err() != nil:
			c.log.Info("indexing stopped")
			return nil
		case err != nil && IsFatal(err):
			c.halt(err)
			<-ctx.Done()
			return nil
		case err != nil:
			c.setError(err)
			metrics.ErrorsInc(common.ComponentIndexer, "transient")
			c.log.Warnw("indexing step failed, retrying", "error", err, "retry_in", c.cfg.PollInterval.Duration)
			wait = c.cfg.PollInterval.Duration
		case !advanced:
			wait = c.cfg.PollInterval.Duration
		default:
			wait = c.cfg.BlockDelay.Duration
		}

		if wait > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}
		}
	}
}

// Recover brings the store back to a block boundary after an unclean
// shutdown. Undo markers above the recorded height belong to a block whose
// primary batch never landed and are rolled back.
func (c *Coordinator) Recover(ctx context.Context) error {
	undoLog := c.store.Undo()

	indexed, ok, err := c.IndexedHeight()
	if err != nil {
		return err
	}

	var reverted int
	if ok {
		dangling, err := undoLog.CommittedAbove(indexed)
		if err != nil || !dangling {
			return err
		}
		c.log.Warnw("found uncommitted block above indexed height, rolling back", "indexed_height", indexed)
		reverted, err = c.store.RollbackTo(ctx, indexed)
		if err != nil {
			return fmt.Errorf("failed to recover to indexed height %d: %w", indexed, err)
		}
	} else {
		_, dangling, err := undoLog.Tip()
		if err != nil || !dangling {
			return err
		}
		c.log.Warn("found uncommitted block on an empty store, rolling back")
		reverted, err = c.store.RollbackAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to recover empty store: %w", err)
		}
	}

	c.log.Infow("crash recovery complete", "records_reverted", reverted)
	return nil
}

// IndexedHeight returns the last block committed by the loop.
func (c *Coordinator) IndexedHeight() (uint64, bool, error) {
	h, ok, err := kvstore.GetUint32(c.store, common.HeightKey())
	return uint64(h), ok, err
}

// Step indexes at most one block. It reports whether the store moved,
// either by committing a block or by rolling back a reorg.
func (c *Coordinator) Step(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	indexed, hasIndexed, err := c.IndexedHeight()
	if err != nil {
		return false, err
	}
	next := c.cfg.StartHeight
	if hasIndexed {
		next = indexed + 1
	}

	// every block resolves upstream data against a fresh snapshot
	if !c.targetKnown || next > c.target {
		if err := c.refreshTarget(ctx); err != nil {
			return false, err
		}
	} else if err := c.upstream.CatchUp(ctx); err != nil {
		return false, err
	}

	if hasIndexed && c.policy.ShouldCheck(next, c.checkTip(), c.sinceCheck) {
		c.sinceCheck = 0
		re, err := c.reorg.CheckAndRecover(ctx, indexed)
		if err != nil {
			return false, err
		}
		if re != nil {
			c.afterReorg()
			return true, nil
		}
	}

	if next > c.target {
		return false, nil
	}

	block, err := c.source.BlockAt(ctx, next)
	if errors.Is(err, blocksource.ErrBlockNotAvailable) {
		c.targetKnown = false
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch block %d: %w", next, err)
	}

	if ok, err := c.verifyContinuity(block, hasIndexed); err != nil || !ok {
		if err != nil {
			return false, err
		}
		re, err := c.reorg.CheckAndRecover(ctx, indexed)
		if err != nil {
			return false, err
		}
		if re != nil {
			c.afterReorg()
			return true, nil
		}
		c.targetKnown = false
		return false, fmt.Errorf("%w: block %d (%s) has parent %s",
			ErrChainDiscontinuity, next, block.Hash, block.PrevHash)
	}

	if err := c.indexBlock(ctx, block); err != nil {
		return false, err
	}

	c.sinceCheck++
	c.prune()
	return true, nil
}

// refreshTarget catches up with upstream and recomputes how far indexing
// may go. Consumers read upstream at the block height, so indexing never
// runs ahead of upstream's tip.
func (c *Coordinator) refreshTarget(ctx context.Context) error {
	if err := c.upstream.CatchUp(ctx); err != nil {
		return err
	}

	upTip, upKnown, err := c.upstream.TipHeight()
	if err != nil {
		return fmt.Errorf("failed to read upstream tip: %w", err)
	}

	srcTip, err := c.source.TipHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to read block source tip: %w", err)
	}

	target := srcTip
	if upKnown && upTip < target {
		target = upTip
	}

	c.target, c.targetKnown = target, true

	c.mu.Lock()
	c.sourceTip = &srcTip
	c.upstreamTip = nil
	if upKnown {
		c.upstreamTip = &upTip
	}
	c.mu.Unlock()

	return nil
}

func (c *Coordinator) checkTip() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.upstreamTip != nil {
		return *c.upstreamTip
	}
	return c.target
}

func (c *Coordinator) afterReorg() {
	c.targetKnown = false
	c.sinceCheck = 0
	if h, ok, err := c.IndexedHeight(); err == nil && ok {
		metrics.IndexedHeightSet(common.ComponentIndexer, h)
	}
}

// verifyContinuity checks the block against the local hash of its parent
// and against upstream's hash for the same height. Missing hashes are not
// treated as mismatches.
func (c *Coordinator) verifyContinuity(block *blocksource.Block, hasIndexed bool) (bool, error) {
	if hasIndexed && block.Height > 0 {
		parent, ok, err := c.store.Get(common.BlockHashKey(block.Height - 1))
		if err != nil {
			return false, err
		}
		if ok && string(parent) != block.PrevHash {
			c.log.Warnw("block does not extend local chain",
				"height", block.Height, "prev_hash", block.PrevHash, "local_parent", string(parent))
			return false, nil
		}
	}

	remote, ok, err := c.upstream.BlockHash(block.Height)
	if err != nil {
		return false, fmt.Errorf("failed to read upstream hash of %d: %w", block.Height, err)
	}
	if ok && remote != block.Hash {
		c.log.Warnw("block source and upstream disagree",
			"height", block.Height, "source_hash", block.Hash, "upstream_hash", remote)
		return false, nil
	}

	return true, nil
}

// indexBlock applies block inside one store block. Consumers run detached
// from ctx so shutdown is only observed between blocks.
func (c *Coordinator) indexBlock(ctx context.Context, block *blocksource.Block) error {
	start := time.Now()

	sb, err := c.store.BeginBlock(block.Height, block.Hash)
	if err != nil {
		return err
	}

	bc := &idx.BlockContext{
		Block:    block,
		Store:    sb,
		Upstream: c.upstream,
		Log:      c.log,
	}

	if err := c.pipeline.Run(context.WithoutCancel(ctx), bc); err != nil {
		c.abort(sb)
		return err
	}

	if err := recordBlock(sb, block); err != nil {
		c.abort(sb)
		return err
	}

	if err := sb.Commit(); err != nil {
		return err
	}

	metrics.BlocksProcessedInc()
	metrics.BlockProcessingTimeLog(time.Since(start))
	metrics.IndexedHeightSet(common.ComponentIndexer, block.Height)
	for _, cons := range c.pipeline.Consumers() {
		if block.Height >= cons.GenesisHeight() {
			metrics.IndexedHeightSet(cons.Name(), block.Height)
		}
	}

	c.mu.Lock()
	c.lastBlockAt = time.Now()
	c.lastErr = nil
	c.mu.Unlock()

	c.log.Debugw("indexed block", "height", block.Height, "hash", block.Hash,
		"txs", len(block.Transactions), "took", time.Since(start))

	return nil
}

// recordBlock writes the hash of the block and advances the loop height.
func recordBlock(w kvstore.Writer, block *blocksource.Block) error {
	if err := w.Put(common.BlockHashKey(block.Height), []byte(block.Hash)); err != nil {
		return err
	}
	return kvstore.PutUint32(w, common.HeightKey(), uint32(block.Height)) //nolint:gosec
}

func (c *Coordinator) abort(sb *kvstore.Block) {
	if err := sb.Abort(); err != nil {
		c.log.Errorw("failed to abort block", "height", sb.Height(), "error", err)
	}
}

func (c *Coordinator) prune() {
	if _, err := c.store.Undo().Prune(c.store.Undo().Window()); err != nil {
		metrics.ErrorsInc(common.ComponentUndoLog, "transient")
		c.log.Warnw("failed to prune undo log", "error", err)
	}
}

func (c *Coordinator) halt(err error) {
	c.setError(err)
	c.setState(StateHalted)
	metrics.ErrorsInc(common.ComponentIndexer, "fatal")
	metrics.ComponentHealthSet(common.ComponentIndexer, false)
	c.log.Errorw("indexing halted, reads keep serving the last committed block", "error", err)
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Coordinator) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// Status returns the current state of the loop.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	st := Status{
		State:       c.state,
		UpstreamTip: c.upstreamTip,
		SourceTip:   c.sourceTip,
		LastBlockAt: c.lastBlockAt,
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	c.mu.RUnlock()

	if h, ok, err := c.IndexedHeight(); err == nil && ok {
		st.IndexedHeight = &h
	}
	return st
}
