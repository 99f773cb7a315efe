package config

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

type PersistenceType string

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
	PersistenceTypeSQLite PersistenceType = "sqlite"
)

var SupportedPersistenceTypes = []PersistenceType{
	PersistenceTypeMemory,
	PersistenceTypeBadger,
	PersistenceTypeRedis,
	PersistenceTypeSQLite,
}

// PersistenceConfig selects and configures the storage backend
type PersistenceConfig struct {
	Type PersistenceType `json:"type"`

	// badger
	DataPath string `json:"data_path"`

	// sqlite
	SQLitePath string `json:"sqlite_path"`

	// redis
	RedisAddress   string `json:"redis_address"`
	RedisPassword  string `json:"-"`
	RedisDB        int    `json:"redis_db"`
	RedisKeyPrefix string `json:"redis_key_prefix"`
}

// NewDefaultPersistenceConfig returns a badger store under ./chaintrack-data
func NewDefaultPersistenceConfig() *PersistenceConfig {
	return &PersistenceConfig{
		Type:     PersistenceTypeBadger,
		DataPath: "./chaintrack-data",
	}
}

func (p *PersistenceConfig) Validate() error {
	var allErrors field.ErrorList
	root := field.NewPath("persistence")

	switch p.Type {
	case PersistenceTypeMemory:
	case PersistenceTypeBadger:
		if p.DataPath == "" {
			allErrors = append(allErrors, field.Required(root.Child("dataPath"), "data path is required for badger persistence"))
		}
	case PersistenceTypeSQLite:
		if p.SQLitePath == "" {
			allErrors = append(allErrors, field.Required(root.Child("sqlitePath"), "sqlite path is required for sqlite persistence"))
		}
	case PersistenceTypeRedis:
		if p.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(root.Child("redisAddress"), "redis address is required for redis persistence"))
		}
		if p.RedisDB < 0 || p.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(root.Child("redisDb"), p.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(root.Child("type"), p.Type, SupportedPersistenceTypes))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func (p *PersistenceConfig) String() string {
	switch p.Type {
	case PersistenceTypeBadger:
		return fmt.Sprintf("badger(%s)", p.DataPath)
	case PersistenceTypeSQLite:
		return fmt.Sprintf("sqlite(%s)", p.SQLitePath)
	case PersistenceTypeRedis:
		return fmt.Sprintf("redis(%s/%d)", p.RedisAddress, p.RedisDB)
	default:
		return string(p.Type)
	}
}
