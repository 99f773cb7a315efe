package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixBatch       = "chaintrack:batch:"
	keyPrefixProducts    = "chaintrack:products:"  // hash per batch: productIdentifier -> Product
	keyPrefixMovements   = "chaintrack:movements:" // hash per batch: movementID -> Movement
	keySchemaVersion     = "chaintrack:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Key set for listing batches (Redis doesn't support prefix iteration natively)
	keySetBatches = "chaintrack:batches:index"
)

// RedisPersistence is a persistence implementation using Redis.
// Provides durable, distributed storage suitable for cloud-native deployments.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string // Custom prefix for all keys
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix for all keys (for multi-tenant setups).
	// If set, this prefix is prepended to all keys, e.g., "myapp:" would result in
	// keys like "myapp:chaintrack:batch:BATCH-OLI-...".
	KeyPrefix string
}

// NewRedisPersistence creates a new Redis-backed persistence layer.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.KeyPrefix != "" {
		logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)
	} else {
		logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB)
	}

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveBatch persists a batch
func (r *RedisPersistence) SaveBatch(batch *types.Batch) error {
	if err := persistence.ValidateBatch(batch); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx := context.Background()

	data, err := persistence.MarshalBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal Batch: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.prefixKey(keyPrefixBatch+batch.BatchCode), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetBatches), batch.BatchCode)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save Batch: %w", err)
	}
	return nil
}

// LoadBatch retrieves a batch
func (r *RedisPersistence) LoadBatch(batchCode string) (*types.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx := context.Background()

	data, err := r.client.Get(ctx, r.prefixKey(keyPrefixBatch+batchCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Batch: %w", err)
	}

	batch, err := persistence.UnmarshalBatch(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Batch: %w", err)
	}
	return batch, nil
}

// ListBatches returns all batches ordered by creation time
func (r *RedisPersistence) ListBatches() ([]*types.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx := context.Background()
	indexKey := r.prefixKey(keySetBatches)

	codes, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list Batch codes: %w", err)
	}

	if len(codes) == 0 {
		return []*types.Batch{}, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = r.prefixKey(keyPrefixBatch + code)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Batches: %w", err)
	}

	batches := make([]*types.Batch, 0, len(values))
	for i, val := range values {
		if val == nil {
			// Key was in index but doesn't exist - clean up index
			r.client.SRem(ctx, indexKey, codes[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for Batch", "key", keys[i])
			continue
		}

		batch, err := persistence.UnmarshalBatch([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal Batch, skipping", "key", keys[i], "error", err)
			continue
		}
		batches = append(batches, batch)
	}

	persistence.SortBatches(batches)
	return batches, nil
}

// SaveProduct persists a product into its batch's hash
func (r *RedisPersistence) SaveProduct(product *types.Product) error {
	if err := persistence.ValidateProduct(product); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalProduct(product)
	if err != nil {
		return fmt.Errorf("failed to marshal Product: %w", err)
	}

	key := r.prefixKey(keyPrefixProducts + product.BatchCode)
	if err := r.client.HSet(context.Background(), key, product.ProductIdentifier, data).Err(); err != nil {
		return fmt.Errorf("failed to save Product: %w", err)
	}
	return nil
}

// LoadProduct retrieves a product
func (r *RedisPersistence) LoadProduct(batchCode, productIdentifier string) (*types.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	key := r.prefixKey(keyPrefixProducts + batchCode)
	data, err := r.client.HGet(context.Background(), key, productIdentifier).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Product: %w", err)
	}

	product, err := persistence.UnmarshalProduct(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Product: %w", err)
	}
	return product, nil
}

// ListProducts returns the products of a batch ordered by leaf index
func (r *RedisPersistence) ListProducts(batchCode string) ([]*types.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	key := r.prefixKey(keyPrefixProducts + batchCode)
	all, err := r.client.HGetAll(context.Background(), key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list Products: %w", err)
	}

	products := make([]*types.Product, 0, len(all))
	for field, data := range all {
		product, err := persistence.UnmarshalProduct([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal Product, skipping", "key", key, "field", field, "error", err)
			continue
		}
		products = append(products, product)
	}

	persistence.SortProducts(products)
	return products, nil
}

// SaveMovement persists a movement into its batch's hash
func (r *RedisPersistence) SaveMovement(movement *types.Movement) error {
	if err := persistence.ValidateMovement(movement); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalMovement(movement)
	if err != nil {
		return fmt.Errorf("failed to marshal Movement: %w", err)
	}

	key := r.prefixKey(keyPrefixMovements + movement.BatchCode)
	if err := r.client.HSet(context.Background(), key, movement.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save Movement: %w", err)
	}
	return nil
}

// ListMovements returns the movements of a batch ordered by timestamp
func (r *RedisPersistence) ListMovements(batchCode string) ([]*types.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	key := r.prefixKey(keyPrefixMovements + batchCode)
	all, err := r.client.HGetAll(context.Background(), key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list Movements: %w", err)
	}

	movements := make([]*types.Movement, 0, len(all))
	for field, data := range all {
		movement, err := persistence.UnmarshalMovement([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal Movement, skipping", "key", key, "field", field, "error", err)
			continue
		}
		movements = append(movements, movement)
	}

	persistence.SortMovements(movements)
	return movements, nil
}

// Close shuts down the persistence layer
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil // Already closed, idempotent
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}

	return nil
}
