// Package versioned reads the upstream append-only store. Every upstream
// key is a version list ("{key}/length" plus "{key}/{idx}") whose current
// value is the last entry. The reader works on a private read-only snapshot
// of the upstream directory and never writes into it.
package versioned

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/retry"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// maxDepth bounds how many levels of versioned indirection a length or
// entry may be stored behind.
const maxDepth = 2

// Reader resolves current values of upstream versioned keys. Reads see the
// snapshot taken by the last CatchUp.
type Reader struct {
	cfg     config.UpstreamConfig
	log     *logger.Logger
	retrier *retry.Retrier
	label   []byte

	mu   sync.RWMutex
	snap *snapshot
}

// Open takes the first snapshot of the upstream store. It fails with
// ErrUpstreamUnavailable once the configured retries are exhausted.
func Open(ctx context.Context, cfg config.UpstreamConfig, log *logger.Logger) (*Reader, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent(common.ComponentUpstream)

	if err := os.MkdirAll(cfg.SecondaryPath, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create secondary path %s: %w", cfg.SecondaryPath, err)
	}
	if err := removeStaleGenerations(cfg.SecondaryPath); err != nil {
		return nil, fmt.Errorf("failed to clean secondary path %s: %w", cfg.SecondaryPath, err)
	}

	r := &Reader{cfg: cfg, log: log}
	if cfg.Label != "" {
		r.label = []byte(cfg.Label + "://")
	}
	r.retrier = retry.New(cfg.Retry, isUnavailable).OnRetry(func(op string, attempt int, err error) {
		log.Warnw("retrying upstream snapshot", "operation", op, "attempt", attempt, "error", err)
	})

	if err := r.CatchUp(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// CatchUp replaces the reader's snapshot with a fresh one. On failure the
// previous snapshot stays in place.
func (r *Reader) CatchUp(ctx context.Context) error {
	start := time.Now()

	var next *snapshot
	err := r.retrier.Do(ctx, "catch up", func() error {
		var err error
		next, err = takeSnapshot(r.cfg.Path, r.cfg.SecondaryPath, r.Generation()+1, r.log)
		return err
	})
	metrics.CatchUpLog(err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to catch up with upstream %s: %w", r.cfg.Path, err)
	}

	r.mu.Lock()
	prev := r.snap
	r.snap = next
	r.mu.Unlock()

	if prev != nil {
		if err := prev.close(); err != nil {
			r.log.Warnw("failed to release previous upstream snapshot", "generation", prev.gen, "error", err)
		}
	}

	r.log.Debugw("caught up with upstream", "generation", next.gen, "took", time.Since(start))
	return nil
}

// Generation returns the number of snapshots taken so far.
func (r *Reader) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return 0
	}
	return r.snap.gen
}

// Close releases the current snapshot.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap == nil {
		return nil
	}
	err := r.snap.close()
	r.snap = nil
	return err
}

// view is the snapshot pinned for the duration of one read.
type view struct {
	snap  *snapshot
	label []byte
}

func (r *Reader) read(fn func(v view) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return unavailable("reader is closed")
	}
	return fn(view{snap: r.snap, label: r.label})
}

func (v view) raw(key []byte) ([]byte, bool, error) {
	if len(v.label) > 0 {
		key = append(append(make([]byte, 0, len(v.label)+len(key)), v.label...), key...)
	}
	val, ok, err := v.snap.get(key)
	if err != nil {
		return nil, false, fmt.Errorf("read upstream key %q: %w", key, err)
	}
	return val, ok, nil
}

// length resolves the version count of base. A length that is itself
// versioned is followed up to maxDepth levels.
func (v view) length(base []byte, depth int) (uint64, bool, error) {
	lengthKey := common.LengthKey(base)

	raw, ok, err := v.raw(lengthKey)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		if depth >= maxDepth {
			return 0, false, nil
		}
		raw, ok, err = v.resolve(lengthKey, depth+1)
		if err != nil || !ok {
			return 0, false, err
		}
	}

	n, valid := ParseLength(raw)
	if !valid {
		return 0, false, corrupt(lengthKey, "undecodable length %x", raw)
	}
	return n, true, nil
}

// resolve returns the last entry of base's version list. A key without a
// version list resolves to its own plain value.
func (v view) resolve(base []byte, depth int) ([]byte, bool, error) {
	n, versioned, err := v.length(base, depth)
	if err != nil {
		return nil, false, err
	}
	if !versioned {
		return v.raw(base)
	}
	if n == 0 {
		return nil, false, nil
	}

	idxKey := common.IndexKey(base, n-1)
	val, ok, err := v.raw(idxKey)
	if err != nil || ok {
		return val, ok, err
	}
	if depth < maxDepth {
		val, ok, err = v.resolve(idxKey, depth+1)
		if err != nil || ok {
			return val, ok, err
		}
	}
	return nil, false, corrupt(base, "entry %d of %d is missing", n-1, n)
}

// Get returns the normalized current value of key.
func (r *Reader) Get(key []byte) ([]byte, bool, error) {
	var (
		out []byte
		ok  bool
	)
	err := r.read(func(v view) error {
		raw, found, err := v.resolve(key, 0)
		if err != nil || !found {
			return err
		}
		out, _ = Normalize(key, raw)
		ok = true
		return nil
	})
	return out, ok, err
}

// GetList returns every version of key, oldest first.
func (r *Reader) GetList(key []byte) ([][]byte, error) {
	var out [][]byte
	err := r.read(func(v view) error {
		n, ok, err := v.length(key, 0)
		if err != nil || !ok {
			return err
		}
		out = make([][]byte, 0, n)
		for i := range n {
			idxKey := common.IndexKey(key, i)
			raw, found, err := v.raw(idxKey)
			if err != nil {
				return err
			}
			if !found {
				return corrupt(key, "entry %d of %d is missing", i, n)
			}
			val, _ := Normalize(idxKey, raw)
			out = append(out, val)
		}
		return nil
	})
	return out, err
}

// GetUint64 decodes the current value of key as a little-endian integer.
func (r *Reader) GetUint64(key []byte) (uint64, bool, error) {
	raw, ok, err := r.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, valid := DecodeUint(raw)
	if !valid {
		return 0, false, corrupt(key, "value %x is not a little-endian integer", raw)
	}
	return n, true, nil
}

// GetAt returns the value key had at height. Every entry must carry a
// "<height>:" prefix; the list is searched for the last entry written at
// or below height.
func (r *Reader) GetAt(key []byte, height uint64) ([]byte, bool, error) {
	var (
		out []byte
		ok  bool
	)
	err := r.read(func(v view) error {
		n, versioned, err := v.length(key, 0)
		if err != nil || !versioned || n == 0 {
			return err
		}

		var searchErr error
		entry := func(i uint64) ([]byte, uint64) {
			raw, found, err := v.raw(common.IndexKey(key, i))
			if err != nil {
				searchErr = err
				return nil, 0
			}
			if !found {
				searchErr = corrupt(key, "entry %d of %d is missing", i, n)
				return nil, 0
			}
			payload, h, prefixed := DecodeHeightPrefixed(raw)
			if !prefixed {
				searchErr = corrupt(key, "entry %d carries no height prefix", i)
				return nil, 0
			}
			return payload, h
		}

		// first index whose height is above the requested one
		above := sort.Search(int(n), func(i int) bool { //nolint:gosec
			if searchErr != nil {
				return true
			}
			_, h := entry(uint64(i)) //nolint:gosec
			return h > height
		})
		if searchErr != nil {
			return searchErr
		}
		if above == 0 {
			return nil
		}

		payload, _ := entry(uint64(above - 1)) //nolint:gosec
		if searchErr != nil {
			return searchErr
		}
		out, ok = payload, true
		return nil
	})
	return out, ok, err
}

// TipHeight returns the height upstream has indexed up to.
func (r *Reader) TipHeight() (uint64, bool, error) {
	tip, ok, err := r.GetUint64([]byte(r.cfg.TipKey))
	if err != nil || !ok {
		return 0, ok, err
	}
	metrics.UpstreamTipSet(tip)
	return tip, true, nil
}

// BlockHash returns upstream's current hash for height in display form.
func (r *Reader) BlockHash(height uint64) (string, bool, error) {
	key := strconv.AppendUint([]byte(r.cfg.HashNamespace), height, 10) //nolint:mnd
	raw, ok, err := r.Get(key)
	if err != nil || !ok {
		return "", false, err
	}
	hash, valid := DecodeBlockHash(raw)
	if !valid {
		return "", false, corrupt(key, "value %x is not a block hash", raw)
	}
	return hash, true, nil
}
