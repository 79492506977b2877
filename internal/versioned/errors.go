package versioned

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable is returned when the upstream store cannot be
// opened or refreshed. It is transient and retried with backoff.
var ErrUpstreamUnavailable = errors.New("upstream store unavailable")

// CorruptEntryError reports a version list that cannot be resolved: a
// length that does not decode, or a missing entry below a positive length.
// It is never retried.
type CorruptEntryError struct {
	Key    []byte
	Reason string
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("corrupt versioned entry %q: %s", e.Key, e.Reason)
}

func corrupt(key []byte, format string, args ...any) error {
	return &CorruptEntryError{Key: append([]byte(nil), key...), Reason: fmt.Sprintf(format, args...)}
}

// IsCorrupt reports whether err carries a CorruptEntryError.
func IsCorrupt(err error) bool {
	var ce *CorruptEntryError
	return errors.As(err, &ce)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstreamUnavailable, fmt.Sprintf(format, args...))
}
