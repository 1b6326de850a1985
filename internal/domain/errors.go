package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the referenced reservation, customer or benefit
	// does not exist.
	ErrNotFound = errors.New("loyalty: not found")

	// ErrNoTiersConfigured: the tier catalog is empty, resolution has
	// no valid answer. Configuration error, never defaulted around.
	ErrNoTiersConfigured = errors.New("loyalty: no tiers configured")

	// ErrStorageUnavailable is matched (errors.Is) by every
	// *StorageError the persistence layer returns.
	ErrStorageUnavailable = errors.New("loyalty: storage unavailable")
)

// StorageError wraps a driver failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// PartialError reports a reservation mutation that took effect while
// the follow-up customer recompute/persist failed. Carries the ids a
// reconciliation pass needs to repair the customer later.
type PartialError struct {
	CustomerID    string
	ReservationID int64
	Err           error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("loyalty: reservation %d applied but recompute for customer %s failed: %v",
		e.ReservationID, e.CustomerID, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
