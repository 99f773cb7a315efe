package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// MemoryPersistence is an in-memory implementation of IBatchPersistence.
// This implementation is intended for tests and dry runs.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// batchCode -> Batch
	batches map[string]*types.Batch

	// batchCode -> productIdentifier -> Product
	products map[string]map[string]*types.Product

	// batchCode -> movementID -> Movement
	movements map[string]map[string]*types.Movement

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Logs a loud warning since nothing survives a restart.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory persistence - ALL DATA WILL BE LOST ON RESTART",
			"hint", "set CHAINTRACK_PERSISTENCE_TYPE=badger, redis or sqlite for production")
	}

	return &MemoryPersistence{
		batches:   make(map[string]*types.Batch),
		products:  make(map[string]map[string]*types.Product),
		movements: make(map[string]map[string]*types.Movement),
	}
}

// SaveBatch persists a batch.
func (m *MemoryPersistence) SaveBatch(batch *types.Batch) error {
	if err := persistence.ValidateBatch(batch); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.batches[batch.BatchCode] = batch.Copy()
	return nil
}

// LoadBatch retrieves a batch by code.
func (m *MemoryPersistence) LoadBatch(batchCode string) (*types.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	batch, exists := m.batches[batchCode]
	if !exists {
		return nil, nil // Not found is not an error
	}
	return batch.Copy(), nil
}

// ListBatches returns all batches ordered by creation time.
func (m *MemoryPersistence) ListBatches() ([]*types.Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	result := make([]*types.Batch, 0, len(m.batches))
	for _, b := range m.batches {
		result = append(result, b.Copy())
	}
	persistence.SortBatches(result)
	return result, nil
}

// SaveProduct persists a product and its proof.
func (m *MemoryPersistence) SaveProduct(product *types.Product) error {
	if err := persistence.ValidateProduct(product); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	byID, ok := m.products[product.BatchCode]
	if !ok {
		byID = make(map[string]*types.Product)
		m.products[product.BatchCode] = byID
	}
	byID[product.ProductIdentifier] = product.Copy()
	return nil
}

// LoadProduct retrieves a product of a batch.
func (m *MemoryPersistence) LoadProduct(batchCode, productIdentifier string) (*types.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	p, ok := m.products[batchCode][productIdentifier]
	if !ok {
		return nil, nil
	}
	return p.Copy(), nil
}

// ListProducts returns the products of a batch ordered by leaf index.
func (m *MemoryPersistence) ListProducts(batchCode string) ([]*types.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	byID := m.products[batchCode]
	result := make([]*types.Product, 0, len(byID))
	for _, p := range byID {
		result = append(result, p.Copy())
	}
	persistence.SortProducts(result)
	return result, nil
}

// SaveMovement persists a movement.
func (m *MemoryPersistence) SaveMovement(movement *types.Movement) error {
	if err := persistence.ValidateMovement(movement); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	byID, ok := m.movements[movement.BatchCode]
	if !ok {
		byID = make(map[string]*types.Movement)
		m.movements[movement.BatchCode] = byID
	}
	byID[movement.ID] = movement.Copy()
	return nil
}

// ListMovements returns the movements of a batch ordered by timestamp.
func (m *MemoryPersistence) ListMovements(batchCode string) ([]*types.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	byID := m.movements[batchCode]
	result := make([]*types.Movement, 0, len(byID))
	for _, mv := range byID {
		result = append(result, mv.Copy())
	}
	persistence.SortMovements(result)
	return result, nil
}

// Close marks the persistence layer as closed.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}
	return nil
}
