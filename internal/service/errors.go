package service

import (
	"errors"
	"fmt"
)

// ErrConflict reports that an item changed between the read and the
// conditional write more times than the transactor was willing to retry.
var ErrConflict = errors.New("item changed concurrently, retry")

// ValidationError reports rejected caller input (non-positive quantity,
// unrecognized storage value, empty name).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports an unknown food name, or an item id that does not
// belong to the named food.
type NotFoundError struct {
	Name   string
	ItemID int64 // zero when the lookup was by name only
}

func (e *NotFoundError) Error() string {
	if e.ItemID != 0 {
		return fmt.Sprintf("item %d not found for %q", e.ItemID, e.Name)
	}
	return fmt.Sprintf("%q not in inventory", e.Name)
}

// AmbiguousTargetError reports a consume-by-name that matched more than one
// item. CandidateIDs carries everything the caller needs to disambiguate.
type AmbiguousTargetError struct {
	Name         string
	CandidateIDs []int64
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("multiple items match %q, specify an item id from %v", e.Name, e.CandidateIDs)
}

// InsufficientQuantityError reports a consume amount larger than what the
// resolved item holds. The store is left untouched.
type InsufficientQuantityError struct {
	ItemID    int64
	Requested float64
	Available float64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("item %d holds %g, cannot consume %g", e.ItemID, e.Available, e.Requested)
}
