package portal

import (
	"fmt"
	"strings"
)

// ValidationError carries every failed check on a submission so the
// portal can show the user all problems at once.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, ", ")
}

// MalformedAddressError indicates a hardware address that cannot be
// canonicalized into xx:xx:xx:xx:xx:xx form.
type MalformedAddressError struct {
	Address string
}

func (e *MalformedAddressError) Error() string {
	return fmt.Sprintf("malformed hardware address %q", e.Address)
}

// StorageError wraps a failed record-store unit of work. The caller may
// retry by resubmitting; nothing was persisted.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
