package indexer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/goran-ethernal/StateIndexor/internal/versioned"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
	"github.com/stretchr/testify/require"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("connection refused"), want: false},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "discontinuity", err: fmt.Errorf("%w: block 5", ErrChainDiscontinuity), want: false},
		{name: "upstream unavailable", err: fmt.Errorf("catch up: %w", versioned.ErrUpstreamUnavailable), want: false},
		{name: "corrupt entry", err: fmt.Errorf("get: %w", &versioned.CorruptEntryError{Key: []byte("k"), Reason: "bad"}), want: true},
		{name: "undo io", err: &undo.IOError{Op: "commit", Height: 5, Err: errors.New("disk")}, want: true},
		{name: "window exceeded", err: fmt.Errorf("reorg: %w", undo.ErrRollbackWindowExceeded), want: true},
		{name: "primary commit", err: fmt.Errorf("%w: block 5", kvstore.ErrPrimaryCommit), want: true},
		{name: "consumer", err: &idx.ConsumerError{Consumer: "a", Height: 1, Err: errors.New("boom")}, want: true},
		{
			name: "consumer hit unavailable upstream",
			err:  &idx.ConsumerError{Consumer: "a", Height: 1, Err: versioned.ErrUpstreamUnavailable},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}
