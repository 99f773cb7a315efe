// Package factory opens the persistence backend selected by configuration.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/badger"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/memory"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/redis"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/sqlite"
)

// NewPersistence validates cfg and opens the matching backend
func NewPersistence(cfg *config.PersistenceConfig, logger *zap.Logger) (persistence.IBatchPersistence, error) {
	if cfg == nil {
		cfg = config.NewDefaultPersistenceConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid persistence config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Sugar().Infow("Opening persistence", "backend", cfg.String())

	switch cfg.Type {
	case config.PersistenceTypeMemory:
		return memory.NewMemoryPersistence(logger), nil
	case config.PersistenceTypeBadger:
		p, err := badger.NewBadgerPersistence(cfg.DataPath, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.PersistenceTypeSQLite:
		p, err := sqlite.NewSQLitePersistence(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.PersistenceTypeRedis:
		p, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported persistence type %q", cfg.Type)
	}
}
