package reorg

import (
	"errors"
	"fmt"
)

// ReorgDetectedError is returned when local and upstream hashes diverge.
type ReorgDetectedError struct {
	FirstReorgBlock uint64
	ForkPoint       uint64
	Tip             uint64
	Details         string
}

func (e *ReorgDetectedError) Error() string {
	return fmt.Sprintf("reorg detected at block %d (fork point %d, tip %d): %s",
		e.FirstReorgBlock, e.ForkPoint, e.Tip, e.Details)
}

// Depth is the number of blocks above the fork point that must be undone.
func (e *ReorgDetectedError) Depth() uint64 {
	return e.Tip - e.ForkPoint
}

// NewReorgError creates a new ReorgDetectedError.
func NewReorgError(forkPoint, tip uint64, details string) error {
	return &ReorgDetectedError{
		FirstReorgBlock: forkPoint + 1,
		ForkPoint:       forkPoint,
		Tip:             tip,
		Details:         details,
	}
}

// AsReorg extracts a ReorgDetectedError from err.
func AsReorg(err error) (*ReorgDetectedError, bool) {
	var re *ReorgDetectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
