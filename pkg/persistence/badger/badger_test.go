package badger

import (
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/logger"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence/persistencetest"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

var _ persistence.IBatchPersistence = (*BadgerPersistence)(nil)

func TestBadgerPersistence_Conformance(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	persistencetest.RunConformance(t, func(t *testing.T) persistence.IBatchPersistence {
		bp, err := NewBadgerPersistence(t.TempDir(), testLogger)
		require.NoError(t, err)
		t.Cleanup(func() { _ = bp.Close() })
		return bp
	})
}

// TestBadgerPersistence_SurvivesRestart reopens the same directory and reads
// back a batch with its products
func TestBadgerPersistence_SurvivesRestart(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	items := []string{"P1", "P2", "P3"}
	batch := persistencetest.NewTestBatch(t, "BATCH-R", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), items)
	products := persistencetest.NewTestProducts(t, "BATCH-R", items)

	bp, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	require.NoError(t, bp.SaveBatch(batch))
	for _, p := range products {
		require.NoError(t, bp.SaveProduct(p))
	}
	require.NoError(t, bp.Close())

	bp2, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = bp2.Close() }()

	loaded, err := bp2.LoadBatch("BATCH-R")
	require.NoError(t, err)
	assert.Equal(t, batch, loaded)

	listed, err := bp2.ListProducts("BATCH-R")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for _, p := range listed {
		assert.True(t, merkle.VerifyProofAgainst(p.MerkleProof, loaded.MerkleRoot))
	}
}

// TestBadgerPersistence_PrefixIsolation makes sure a batch code that is a
// prefix of another does not leak products across batches
func TestBadgerPersistence_PrefixIsolation(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	bp, err := NewBadgerPersistence(t.TempDir(), testLogger)
	require.NoError(t, err)
	defer func() { _ = bp.Close() }()

	for _, p := range persistencetest.NewTestProducts(t, "BATCH-1", []string{"a", "b"}) {
		require.NoError(t, bp.SaveProduct(p))
	}
	for _, p := range persistencetest.NewTestProducts(t, "BATCH-10", []string{"c"}) {
		require.NoError(t, bp.SaveProduct(p))
	}

	listed, err := bp.ListProducts("BATCH-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestBadgerPersistence_SkipsCorruptEntries(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	bp, err := NewBadgerPersistence(t.TempDir(), testLogger)
	require.NoError(t, err)
	defer func() { _ = bp.Close() }()

	require.NoError(t, bp.SaveBatch(&types.Batch{BatchCode: "GOOD"}))
	require.NoError(t, bp.set(batchKey("BAD"), []byte("{not json")))

	batches, err := bp.ListBatches()
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "GOOD", batches[0].BatchCode)

	_, err = bp.LoadBatch("BAD")
	assert.Error(t, err)
}

func TestBadgerPersistence_SchemaVersionMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bp, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, bp.Close())

	_, err = NewBadgerPersistence(tmpDir, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
