package undo

import (
	"errors"
	"fmt"

	"github.com/goran-ethernal/StateIndexor/internal/metrics"
)

var (
	// ErrRollbackWindowExceeded is returned when a rollback target precedes retained history.
	ErrRollbackWindowExceeded = errors.New("rollback window exceeded")

	// ErrScopeActive is returned by BeginBlock while another block scope is open.
	ErrScopeActive = errors.New("undo scope already active")

	// ErrScopeClosed is returned when a committed or aborted scope is used.
	ErrScopeClosed = errors.New("undo scope closed")

	// ErrHeightNotAfterTip is returned when a block is begun at or below the committed tip.
	ErrHeightNotAfterTip = errors.New("height is not above the undo log tip")

	// ErrWindowTooSmall is returned by Prune for windows below the minimum.
	ErrWindowTooSmall = errors.New("undo window below minimum")
)

// IOError wraps a failure to append to or flush the undo log.
// The block it belongs to is left uncommitted.
type IOError struct {
	Op     string
	Height uint64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("undo log %s at height %d: %v", e.Op, e.Height, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op string, height uint64, err error) error {
	metrics.DBErrorsInc(metricsDB, op)
	return &IOError{Op: op, Height: height, Err: err}
}
