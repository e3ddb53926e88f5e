package snapshot

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is wrapped by every error caused by a snapshot tree the
// walker refuses to traverse.
var ErrMalformedInput = errors.New("malformed snapshot tree")

// MalformedInputError describes which snapshot of which VM was rejected.
type MalformedInputError struct {
	VM       string
	Snapshot string
	Reason   string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: vm %q snapshot %q: %s", ErrMalformedInput, e.VM, e.Snapshot, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
