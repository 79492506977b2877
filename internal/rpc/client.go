// Package rpc is a bitcoind JSON-RPC client with retry and metrics.
package rpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/retry"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// Client wraps the btcd RPC client with convenience methods for indexing.
type Client struct {
	node    *rpcclient.Client
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewClient creates a client for the node described by cfg. The HTTP POST
// mode used here does not connect until the first call.
func NewClient(cfg config.BlockSourceConfig, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	host := strings.TrimPrefix(strings.TrimPrefix(cfg.Host, "http://"), "https://")

	node, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create node client for %s: %w", host, err)
	}

	c := &Client{node: node, log: log}
	c.retrier = retry.New(cfg.Retry, IsRetryable).OnRetry(func(method string, attempt int, err error) {
		RPCRetryInc(method)
		c.log.Debugw("retrying node call", "method", method, "attempt", attempt, "error", err)
	})

	return c, nil
}

// Close shuts the underlying client down.
func (c *Client) Close() {
	c.node.Shutdown()
	c.node.WaitForShutdown()
}

// GetBlockCount returns the height of the node's best chain.
func (c *Client) GetBlockCount(ctx context.Context) (uint64, error) {
	count, err := call(ctx, c, "getblockcount", c.node.GetBlockCount)
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("node reported negative block count %d", count)
	}
	return uint64(count), nil
}

// GetBlockHash returns the hash of the best chain block at height.
// Heights above the node's tip fail with ErrHeightOutOfRange.
func (c *Client) GetBlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error) {
	hash, err := call(ctx, c, "getblockhash", func() (*chainhash.Hash, error) {
		return c.node.GetBlockHash(int64(height)) //nolint:gosec
	})
	if err != nil {
		if IsHeightOutOfRange(err) {
			return nil, fmt.Errorf("%w: %d: %w", ErrHeightOutOfRange, height, err)
		}
		return nil, err
	}
	return hash, nil
}

// GetBlock returns the full block with the given hash.
func (c *Client) GetBlock(ctx context.Context, hash *chainhash.Hash) (*wire.MsgBlock, error) {
	return call(ctx, c, "getblock", func() (*wire.MsgBlock, error) {
		return c.node.GetBlock(hash)
	})
}

// call runs fn under the client's retry policy, recording request metrics
// for every attempt.
func call[T any](ctx context.Context, c *Client, method string, fn func() (T, error)) (T, error) {
	var out T

	err := c.retrier.Do(ctx, method, func() error {
		RPCMethodInc(method)
		start := time.Now()

		res, err := await(ctx, fn)
		RPCMethodDuration(method, time.Since(start))
		if err != nil {
			RPCMethodError(method, errorType(err))
			return err
		}

		out = res
		return nil
	})

	return out, err
}

// await runs a blocking node call and gives up waiting once ctx is done.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	done := make(chan result, 1)
	go func() {
		val, err := fn()
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
