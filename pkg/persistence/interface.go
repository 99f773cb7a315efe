package persistence

import "github.com/chaintrack-labs/chaintrack-go/pkg/types"

// IBatchPersistence defines the interface for persisting batches, their
// products (with inclusion proofs) and custody movements.
// All implementations must be thread-safe as batch creation fans out product
// writes across goroutines.
//
// The interface supports:
// - Batch records and their ledger status
// - Products keyed by (batch code, product identifier)
// - Movements per batch
// - Lifecycle management (close, health check)
type IBatchPersistence interface {
	// Batches

	// SaveBatch persists a batch keyed by its batch code.
	// Overwrites any existing batch with the same code; used to move the
	// ledger status from pending to confirmed or failed.
	SaveBatch(batch *types.Batch) error

	// LoadBatch retrieves a batch by batch code.
	// Returns nil if the batch doesn't exist, error only on storage failure.
	LoadBatch(batchCode string) (*types.Batch, error)

	// ListBatches returns all batches sorted by creation time, then batch code.
	// Returns empty slice if no batches exist, error only on storage failure.
	ListBatches() ([]*types.Batch, error)

	// Products

	// SaveProduct persists a product keyed by (batch code, product identifier).
	// Overwrites any existing product with the same key.
	SaveProduct(product *types.Product) error

	// LoadProduct retrieves a product.
	// Returns nil if the product doesn't exist, error only on storage failure.
	LoadProduct(batchCode, productIdentifier string) (*types.Product, error)

	// ListProducts returns all products of a batch sorted by leaf index.
	ListProducts(batchCode string) ([]*types.Product, error)

	// Movements

	// SaveMovement persists a movement keyed by its ID.
	SaveMovement(movement *types.Movement) error

	// ListMovements returns all movements of a batch sorted by timestamp.
	ListMovements(batchCode string) ([]*types.Movement, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return ErrClosed.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	// Returns nil if healthy, error describing the problem if not.
	HealthCheck() error
}
