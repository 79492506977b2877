package indexer

import (
	"errors"

	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/goran-ethernal/StateIndexor/internal/versioned"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
)

// ErrChainDiscontinuity is returned when the block source serves a block
// that does not extend the locally indexed chain, or that upstream does
// not know at that height, and no reorg could be confirmed against
// upstream. The block source is expected to converge, so it is retried.
var ErrChainDiscontinuity = errors.New("block does not extend the indexed chain")

// IsFatal reports whether err must halt indexing. Fatal errors leave the
// store at its last committed block and need operator action or a restart.
// A consumer failure is fatal unless upstream was merely unavailable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, versioned.ErrUpstreamUnavailable) {
		return false
	}

	var (
		ioErr       *undo.IOError
		consumerErr *idx.ConsumerError
	)
	switch {
	case versioned.IsCorrupt(err),
		errors.As(err, &ioErr),
		errors.Is(err, undo.ErrRollbackWindowExceeded),
		errors.Is(err, kvstore.ErrPrimaryCommit),
		errors.Is(err, kvstore.ErrBlockActive),
		errors.As(err, &consumerErr):
		return true
	}

	return false
}
