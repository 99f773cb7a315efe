package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/logger"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/persistencetest"
)

var _ persistence.IBatchPersistence = (*RedisPersistence)(nil)

// newTestRedis starts an in-process redis server and connects to it
func newTestRedis(t *testing.T, keyPrefix string) (*RedisPersistence, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	rp, err := NewRedisPersistence(&RedisConfig{
		Address:   srv.Addr(),
		DB:        0,
		KeyPrefix: keyPrefix,
	}, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rp.Close() })

	return rp, srv
}

func TestRedisPersistence_Conformance(t *testing.T) {
	persistencetest.RunConformance(t, func(t *testing.T) persistence.IBatchPersistence {
		rp, _ := newTestRedis(t, "")
		return rp
	})
}

func TestRedisPersistence_KeyPrefix(t *testing.T) {
	rp, srv := newTestRedis(t, "tenant-a:")

	batch := persistencetest.NewTestBatch(t, "BATCH-P", persistencetestTime, []string{"x"})
	require.NoError(t, rp.SaveBatch(batch))

	assert.True(t, srv.Exists("tenant-a:chaintrack:batch:BATCH-P"))
	assert.True(t, srv.Exists("tenant-a:chaintrack:batches:index"))
	assert.False(t, srv.Exists("chaintrack:batch:BATCH-P"))
}

func TestRedisPersistence_ListBatchesCleansStaleIndex(t *testing.T) {
	rp, srv := newTestRedis(t, "")

	require.NoError(t, rp.SaveBatch(persistencetest.NewTestBatch(t, "BATCH-1", persistencetestTime, []string{"x"})))
	require.NoError(t, rp.SaveBatch(persistencetest.NewTestBatch(t, "BATCH-2", persistencetestTime, []string{"y"})))
	srv.Del("chaintrack:batch:BATCH-2")

	batches, err := rp.ListBatches()
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "BATCH-1", batches[0].BatchCode)

	members, err := srv.Members("chaintrack:batches:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"BATCH-1"}, members)
}

func TestRedisPersistence_SchemaVersionMismatch(t *testing.T) {
	srv := miniredis.RunT(t)
	require.NoError(t, srv.Set(keySchemaVersion, "v0"))

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	_, err := NewRedisPersistence(&RedisConfig{Address: srv.Addr()}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestRedisPersistence_ConfigErrors(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisPersistence(nil, testLogger)
	assert.ErrorContains(t, err, "config cannot be nil")

	_, err = NewRedisPersistence(&RedisConfig{}, testLogger)
	assert.ErrorContains(t, err, "address cannot be empty")
}

func TestRedisPersistence_HealthCheckDetectsOutage(t *testing.T) {
	rp, srv := newTestRedis(t, "")
	require.NoError(t, rp.HealthCheck())

	srv.Close()
	assert.Error(t, rp.HealthCheck())
}

var persistencetestTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
