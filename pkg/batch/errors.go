package batch

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid batch request")
	ErrDuplicateItem     = errors.New("duplicate item in batch")
	ErrBatchExists       = errors.New("batch code already exists")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrBatchNotConfirmed = errors.New("batch is not confirmed on the ledger")
	ErrNotAuthorized     = errors.New("signer does not hold the required ledger role")

	// ErrRootConflict means the ledger already holds a different root for the
	// batch code. The batch cannot be committed again.
	ErrRootConflict = errors.New("ledger holds a different merkle root for this batch")

	// ErrIncompleteBatch means some products of the batch were never
	// persisted. Its root must not reach the ledger.
	ErrIncompleteBatch = errors.New("batch products were not all persisted")
)
