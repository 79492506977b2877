// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cockroachdb/pebble/v2"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

// LengthEncoding selects how Upstream writes "{key}/length" values.
type LengthEncoding int

const (
	LengthLE LengthEncoding = iota
	LengthASCII
)

// Upstream writes a pebble database laid out like the upstream append-only
// store. The database is closed between writes, the way an upstream writer
// leaves it after a clean shutdown.
type Upstream struct {
	t        *testing.T
	Dir      string
	Label    string
	Encoding LengthEncoding
}

// NewUpstream creates an empty upstream store in a temp dir.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{t: t, Dir: filepath.Join(t.TempDir(), "upstream")}
	u.update(func(*pebble.Batch) error { return nil })
	return u
}

// Config returns an upstream config pointing at this store with retries
// disabled.
func (u *Upstream) Config() config.UpstreamConfig {
	cfg := config.UpstreamConfig{
		Path:          u.Dir,
		SecondaryPath: filepath.Join(filepath.Dir(u.Dir), "secondary"),
		Label:         u.Label,
	}
	cfg.ApplyDefaults()
	cfg.Retry.MaxAttempts = 1
	return cfg
}

func (u *Upstream) key(k []byte) []byte {
	if u.Label == "" {
		return k
	}
	return append([]byte(u.Label+"://"), k...)
}

func (u *Upstream) update(fn func(b *pebble.Batch) error) {
	u.t.Helper()

	db, err := pebble.Open(u.Dir, &pebble.Options{})
	require.NoError(u.t, err)
	defer func() { require.NoError(u.t, db.Close()) }()

	b := db.NewIndexedBatch()
	require.NoError(u.t, fn(b))
	require.NoError(u.t, b.Commit(pebble.Sync))
}

func (u *Upstream) encodeLength(n uint64) []byte {
	if u.Encoding == LengthASCII {
		return []byte(strconv.FormatUint(n, 10))
	}
	return common.Uint32LE(uint32(n)) //nolint:gosec
}

func readLength(b *pebble.Batch, key []byte) (uint64, error) {
	v, closer, err := b.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	if n, ok := common.DecodeLE(v); ok {
		return n, nil
	}
	return strconv.ParseUint(string(v), 10, 64)
}

// Append adds values as new versions of key.
func (u *Upstream) Append(key string, values ...[]byte) {
	u.t.Helper()
	u.update(func(b *pebble.Batch) error {
		lengthKey := u.key(common.LengthKey([]byte(key)))
		n, err := readLength(b, lengthKey)
		if err != nil {
			return err
		}
		for _, v := range values {
			if err := b.Set(u.key(common.IndexKey([]byte(key), n)), v, nil); err != nil {
				return err
			}
			n++
		}
		return b.Set(lengthKey, u.encodeLength(n), nil)
	})
}

// AppendAt adds a "<height>:<hex>" version of key.
func (u *Upstream) AppendAt(key string, height uint64, value []byte) {
	u.t.Helper()
	u.Append(key, []byte(fmt.Sprintf("%d:%x", height, value)))
}

// SetRaw writes key verbatim.
func (u *Upstream) SetRaw(key, value []byte) {
	u.t.Helper()
	u.update(func(b *pebble.Batch) error {
		return b.Set(u.key(key), value, nil)
	})
}

// SetTip appends a new version of the upstream tip height.
func (u *Upstream) SetTip(height uint64) {
	u.t.Helper()
	u.Append(u.Config().TipKey, common.Uint32LE(uint32(height))) //nolint:gosec
}

// SetBlockHash appends a new version of the upstream hash of height.
func (u *Upstream) SetBlockHash(height uint64, hash string) {
	u.t.Helper()
	u.Append(u.Config().HashNamespace+strconv.FormatUint(height, 10), []byte(hash))
}
