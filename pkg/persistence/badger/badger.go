package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// Key prefixes for namespacing. Product and movement keys embed the batch
// code followed by a NUL separator so a prefix scan never crosses batches.
const (
	keyPrefixBatch       = "batch:"
	keyPrefixProduct     = "product:"
	keyPrefixMovement    = "movement:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
	keySeparator         = "\x00"
)

// BadgerPersistence is a production-ready persistence implementation using Badger.
// Provides durable, disk-based storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence creates a new Badger-backed persistence layer.
// The database is opened at the specified path with SyncWrites enabled for durability.
// A background goroutine is started for garbage collection.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

func batchKey(batchCode string) []byte {
	return []byte(keyPrefixBatch + batchCode)
}

func productPrefix(batchCode string) []byte {
	return []byte(keyPrefixProduct + batchCode + keySeparator)
}

func productKey(batchCode, productIdentifier string) []byte {
	return append(productPrefix(batchCode), productIdentifier...)
}

func movementPrefix(batchCode string) []byte {
	return []byte(keyPrefixMovement + batchCode + keySeparator)
}

func movementKey(batchCode, id string) []byte {
	return append(movementPrefix(batchCode), id...)
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic value log garbage collection in the background
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (b *BadgerPersistence) set(key, value []byte) error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// get returns nil, nil for a missing key
func (b *BadgerPersistence) get(key []byte) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	return data, err
}

// scan calls fn with a copy of every value under prefix
func (b *BadgerPersistence) scan(prefix []byte, fn func(key string, data []byte)) error {
	return b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...)
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}
			fn(string(item.Key()), data)
		}
		return nil
	})
}

// SaveBatch persists a batch
func (b *BadgerPersistence) SaveBatch(batch *types.Batch) error {
	if err := persistence.ValidateBatch(batch); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal Batch: %w", err)
	}

	return b.set(batchKey(batch.BatchCode), data)
}

// LoadBatch retrieves a batch
func (b *BadgerPersistence) LoadBatch(batchCode string) (*types.Batch, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	data, err := b.get(batchKey(batchCode))
	if err != nil {
		return nil, fmt.Errorf("failed to load Batch: %w", err)
	}
	if data == nil {
		return nil, nil // Not found
	}

	batch, err := persistence.UnmarshalBatch(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Batch: %w", err)
	}
	return batch, nil
}

// ListBatches returns all batches ordered by creation time
func (b *BadgerPersistence) ListBatches() ([]*types.Batch, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	batches := make([]*types.Batch, 0)
	err := b.scan([]byte(keyPrefixBatch), func(key string, data []byte) {
		batch, err := persistence.UnmarshalBatch(data)
		if err != nil {
			b.logger.Sugar().Warnw("Failed to unmarshal Batch, skipping", "key", key, "error", err)
			return
		}
		batches = append(batches, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list Batches: %w", err)
	}

	persistence.SortBatches(batches)
	return batches, nil
}

// SaveProduct persists a product and its inclusion proof
func (b *BadgerPersistence) SaveProduct(product *types.Product) error {
	if err := persistence.ValidateProduct(product); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalProduct(product)
	if err != nil {
		return fmt.Errorf("failed to marshal Product: %w", err)
	}

	return b.set(productKey(product.BatchCode, product.ProductIdentifier), data)
}

// LoadProduct retrieves a product
func (b *BadgerPersistence) LoadProduct(batchCode, productIdentifier string) (*types.Product, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	data, err := b.get(productKey(batchCode, productIdentifier))
	if err != nil {
		return nil, fmt.Errorf("failed to load Product: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	product, err := persistence.UnmarshalProduct(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Product: %w", err)
	}
	return product, nil
}

// ListProducts returns the products of a batch ordered by leaf index
func (b *BadgerPersistence) ListProducts(batchCode string) ([]*types.Product, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	products := make([]*types.Product, 0)
	err := b.scan(productPrefix(batchCode), func(key string, data []byte) {
		product, err := persistence.UnmarshalProduct(data)
		if err != nil {
			b.logger.Sugar().Warnw("Failed to unmarshal Product, skipping", "key", key, "error", err)
			return
		}
		products = append(products, product)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list Products: %w", err)
	}

	persistence.SortProducts(products)
	return products, nil
}

// SaveMovement persists a movement
func (b *BadgerPersistence) SaveMovement(movement *types.Movement) error {
	if err := persistence.ValidateMovement(movement); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalMovement(movement)
	if err != nil {
		return fmt.Errorf("failed to marshal Movement: %w", err)
	}

	return b.set(movementKey(movement.BatchCode, movement.ID), data)
}

// ListMovements returns the movements of a batch ordered by timestamp
func (b *BadgerPersistence) ListMovements(batchCode string) ([]*types.Movement, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	movements := make([]*types.Movement, 0)
	err := b.scan(movementPrefix(batchCode), func(key string, data []byte) {
		movement, err := persistence.UnmarshalMovement(data)
		if err != nil {
			b.logger.Sugar().Warnw("Failed to unmarshal Movement, skipping", "key", key, "error", err)
			return
		}
		movements = append(movements, movement)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list Movements: %w", err)
	}

	persistence.SortMovements(movements)
	return movements, nil
}

// Close shuts down the persistence layer
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil // Already closed, idempotent
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
