package versioned

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/pebble/v2"
	"github.com/cockroachdb/pebble/v2/vfs"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
)

const generationPrefix = "gen-"

// snapshot is a read-only pebble handle over a private copy of the
// upstream directory. Immutable table and blob files are hard linked,
// everything else is copied, and the upstream lock file is never touched.
type snapshot struct {
	db  *pebble.DB
	dir string
	gen uint64
}

func (s *snapshot) get(key []byte) ([]byte, bool, error) {
	v, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	return append(make([]byte, 0, len(v)), v...), true, nil
}

func (s *snapshot) close() error {
	err := s.db.Close()
	if rmErr := os.RemoveAll(s.dir); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

func isImmutable(name string) bool {
	return strings.HasSuffix(name, ".sst") || strings.HasSuffix(name, ".blob")
}

// volatileFiles lists the files whose identity changes when upstream
// rotates its manifest or WAL.
func volatileFiles(fs vfs.FS, dir string) ([]string, error) {
	names, err := fs.List(dir)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, name := range names {
		if strings.HasPrefix(name, "marker.") || strings.HasPrefix(name, "MANIFEST-") ||
			name == "CURRENT" || strings.HasSuffix(name, ".log") {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}

// takeSnapshot copies upstream into secondary/gen-N and opens it read-only.
// When upstream rotates its manifest or WAL during the copy the attempt is
// reported as unavailable so the caller retries.
func takeSnapshot(upstream, secondary string, gen uint64, log *logger.Logger) (*snapshot, error) {
	fs := vfs.Default

	info, err := fs.Stat(upstream)
	if err != nil {
		return nil, unavailable("stat %s: %v", upstream, err)
	}
	if !info.IsDir() {
		return nil, unavailable("%s is not a directory", upstream)
	}

	before, err := volatileFiles(fs, upstream)
	if err != nil {
		return nil, unavailable("list %s: %v", upstream, err)
	}
	if len(before) == 0 {
		return nil, unavailable("%s holds no pebble manifest", upstream)
	}

	dir := filepath.Join(secondary, fmt.Sprintf("%s%06d", generationPrefix, gen))
	if err := fs.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear snapshot dir %s: %w", dir, err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}

	fail := func(err error) (*snapshot, error) {
		_ = fs.RemoveAll(dir)
		return nil, err
	}

	names, err := fs.List(upstream)
	if err != nil {
		return fail(unavailable("list %s: %v", upstream, err))
	}

	// mutable files first, so every table the copied manifest references
	// already exists when the manifest is read
	slices.SortStableFunc(names, func(a, b string) int {
		ia, ib := isImmutable(a), isImmutable(b)
		switch {
		case ia == ib:
			return 0
		case ib:
			return -1
		default:
			return 1
		}
	})

	for _, name := range names {
		if name == "LOCK" {
			continue
		}
		src := fs.PathJoin(upstream, name)
		st, err := fs.Stat(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fail(unavailable("stat %s: %v", src, err))
		}
		if st.IsDir() {
			continue
		}

		dst := fs.PathJoin(dir, name)
		if isImmutable(name) {
			err = vfs.LinkOrCopy(fs, src, dst)
		} else {
			err = vfs.Copy(fs, src, dst)
		}
		if err != nil {
			return fail(unavailable("copy %s: %v", name, err))
		}
	}

	after, err := volatileFiles(fs, upstream)
	if err != nil {
		return fail(unavailable("list %s: %v", upstream, err))
	}
	if !slices.Equal(before, after) {
		return fail(unavailable("upstream rotated its manifest or WAL during the copy"))
	}

	db, err := pebble.Open(dir, &pebble.Options{ReadOnly: true, Logger: log})
	if err != nil {
		return fail(unavailable("open snapshot of %s: %v", upstream, err))
	}

	return &snapshot{db: db, dir: dir, gen: gen}, nil
}

// removeStaleGenerations deletes snapshot dirs left behind by a previous process.
func removeStaleGenerations(secondary string) error {
	entries, err := os.ReadDir(secondary)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), generationPrefix) {
			if err := os.RemoveAll(filepath.Join(secondary, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
