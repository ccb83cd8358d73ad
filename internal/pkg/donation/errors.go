package donation

import "errors"

var (
	// ErrValidation rejects a donation request before any record is created.
	ErrValidation = errors.New("donation: invalid request")

	// ErrInvalidAmount rejects amounts below one currency unit.
	ErrInvalidAmount = errors.New("donation: amount must be at least KES 1")

	// ErrDuplicateReference signals a reference collision on insert. Given
	// the generation scheme this is an invariant violation, not a retryable
	// condition.
	ErrDuplicateReference = errors.New("donation: duplicate reference")

	// ErrReconciliationMiss marks a well-formed success callback that matched
	// no pending intent. It is logged and acknowledged to the provider; the
	// fault is internal and the provider cannot act on it.
	ErrReconciliationMiss = errors.New("donation: no matching pending intent for callback")
)
