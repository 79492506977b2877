// Package reorg detects divergence between locally indexed history and
// upstream's height to hash index, and rewinds the primary store to the
// fork point.
package reorg

import (
	"context"
	"fmt"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
)

// Upstream is upstream's authoritative view of block hashes.
type Upstream interface {
	BlockHash(height uint64) (string, bool, error)
	CatchUp(ctx context.Context) error
}

// Store holds the locally recorded hashes and can be rewound.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	RollbackTo(ctx context.Context, target uint64) (int, error)
}

// Coordinator finds fork points and drives rollback.
type Coordinator struct {
	upstream Upstream
	store    Store
	window   uint64
	log      *logger.Logger
}

// NewCoordinator creates a reorg coordinator. window bounds how far back a
// fork point is searched and matches the undo log retention window.
func NewCoordinator(upstream Upstream, store Store, window uint64, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NewNopLogger()
	}

	metrics.ComponentHealthSet(common.ComponentReorg, true)

	return &Coordinator{
		upstream: upstream,
		store:    store,
		window:   window,
		log:      log.WithComponent(common.ComponentReorg),
	}
}

// Detect compares local and upstream hashes from tip downwards. It returns
// nil when they agree at tip, a *ReorgDetectedError naming the highest
// agreeing height otherwise, and undo.ErrRollbackWindowExceeded when no
// agreement exists within the window.
func (c *Coordinator) Detect(ctx context.Context, tip uint64) error {
	lowest := uint64(0)
	if tip > c.window {
		lowest = tip - c.window
	}

	var localAt, upstreamAt string

	for h := tip; ; h-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		local, ok, err := c.store.Get(common.BlockHashKey(h))
		if err != nil {
			return fmt.Errorf("failed to read local hash of %d: %w", h, err)
		}
		if !ok {
			// nothing indexed at or below h
			if h == tip {
				reorgCheckInc("empty")
				return nil
			}
			return c.detected(h, tip, localAt, upstreamAt)
		}

		remote, found, err := c.upstream.BlockHash(h)
		if err != nil {
			return fmt.Errorf("failed to read upstream hash of %d: %w", h, err)
		}
		if found && remote == string(local) {
			if h == tip {
				reorgCheckInc("match")
				return nil
			}
			return c.detected(h, tip, localAt, upstreamAt)
		}

		localAt, upstreamAt = string(local), remote
		c.log.Debugw("hash mismatch", "height", h, "local_hash", localAt, "upstream_hash", upstreamAt)

		if h == lowest {
			reorgCheckInc("too_deep")
			return fmt.Errorf("%w: no common ancestor within %d blocks of %d",
				undo.ErrRollbackWindowExceeded, c.window, tip)
		}
	}
}

func (c *Coordinator) detected(forkPoint, tip uint64, localHash, upstreamHash string) error {
	reorgCheckInc("reorg")
	ReorgDetectedLog(tip-forkPoint, forkPoint+1)

	c.log.Warnw("reorg detected",
		"fork_point", forkPoint,
		"tip", tip,
		"depth", tip-forkPoint,
		"local_hash", localHash,
		"upstream_hash", upstreamHash,
	)

	return NewReorgError(forkPoint, tip,
		fmt.Sprintf("local_hash=%s upstream_hash=%s", localHash, upstreamHash))
}

// Recover rewinds the store to the fork point of re and refreshes the
// upstream view so the next block is read from the corrected chain.
func (c *Coordinator) Recover(ctx context.Context, re *ReorgDetectedError) (int, error) {
	n, err := c.store.RollbackTo(ctx, re.ForkPoint)
	if err != nil {
		return 0, fmt.Errorf("failed to roll back to fork point %d: %w", re.ForkPoint, err)
	}

	if err := c.upstream.CatchUp(ctx); err != nil {
		return n, fmt.Errorf("failed to catch up after rollback to %d: %w", re.ForkPoint, err)
	}

	c.log.Infow("recovered from reorg",
		"fork_point", re.ForkPoint, "previous_tip", re.Tip, "records_reverted", n)

	return n, nil
}

// CheckAndRecover runs Detect and, on divergence, Recover. It returns the
// detected reorg or nil when the chains agree.
func (c *Coordinator) CheckAndRecover(ctx context.Context, tip uint64) (*ReorgDetectedError, error) {
	err := c.Detect(ctx, tip)
	if err == nil {
		return nil, nil
	}

	re, ok := AsReorg(err)
	if !ok {
		return nil, err
	}

	if _, err := c.Recover(ctx, re); err != nil {
		return re, err
	}
	return re, nil
}
