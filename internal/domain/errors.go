package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced declaration,
	// verification or match does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied is returned when the caller is neither the
	// owner nor an admin for a mutating operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidTransition is returned when submitting a claim on a
	// resolved declaration or deciding an already-terminal verification.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrDecisionConflict is returned to the loser of two racing verify
	// decisions; the declaration was already resolved by the winner.
	ErrDecisionConflict = errors.New("declaration already resolved by a concurrent decision")

	// ErrStorageFailure wraps blob storage errors. Non-fatal for the
	// declaration mutation they are attached to, but always reported.
	ErrStorageFailure = errors.New("blob storage failure")
)
