// Package persistencetest holds the behavioural test suite every
// IBatchPersistence backend must pass.
package persistencetest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) persistence.IBatchPersistence

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// NewTestBatch returns a pending batch whose root commits to items.
func NewTestBatch(t *testing.T, batchCode string, createdAt time.Time, items []string) *types.Batch {
	tree, err := merkle.BuildMerkleTree(items)
	require.NoError(t, err)

	return &types.Batch{
		ID:                  "id-" + batchCode,
		BatchCode:           batchCode,
		ProductType:         "olive oil",
		ProductionDate:      baseTime,
		ExpiryDate:          baseTime.AddDate(1, 0, 0),
		Quantity:            len(items),
		ManufacturerAddress: common.HexToAddress("0x444607c3F4788e8cB1f8B29132c6Ea6F4cac01bc"),
		MerkleRoot:          tree.GetRoot(),
		LedgerStatus:        types.LedgerPending,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

// NewTestProducts returns products for items with valid inclusion proofs.
func NewTestProducts(t *testing.T, batchCode string, items []string) []*types.Product {
	tree, err := merkle.BuildMerkleTree(items)
	require.NoError(t, err)

	products := make([]*types.Product, len(items))
	for i, item := range items {
		proof, err := tree.GenerateProof(i)
		require.NoError(t, err)
		products[i] = &types.Product{
			ID:                fmt.Sprintf("%s-p%d", batchCode, i),
			BatchCode:         batchCode,
			ProductIdentifier: item,
			Index:             i,
			VerifyURL:         "http://localhost:8080/verify?productId=" + item,
			MerkleProof:       proof,
			CreatedAt:         baseTime,
		}
	}
	return products
}

func testItems(prefix string, n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("%s-%06d", prefix, i+1)
	}
	return items
}

// RunConformance exercises the full IBatchPersistence contract.
func RunConformance(t *testing.T, newStore Factory) {
	t.Run("SaveAndLoadBatch", func(t *testing.T) {
		store := newStore(t)
		batch := NewTestBatch(t, "BATCH-A", baseTime, testItems("A", 3))

		require.NoError(t, store.SaveBatch(batch))

		loaded, err := store.LoadBatch("BATCH-A")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, batch, loaded)
	})

	t.Run("LoadBatch_NotFound", func(t *testing.T) {
		store := newStore(t)
		loaded, err := store.LoadBatch("missing")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("SaveBatch_OverwritesStatus", func(t *testing.T) {
		store := newStore(t)
		batch := NewTestBatch(t, "BATCH-A", baseTime, testItems("A", 2))
		require.NoError(t, store.SaveBatch(batch))

		tx := common.HexToHash("0x1234")
		batch.LedgerStatus = types.LedgerConfirmed
		batch.LedgerTxHash = &tx
		batch.LedgerAttempts = 1
		batch.UpdatedAt = baseTime.Add(time.Minute)
		require.NoError(t, store.SaveBatch(batch))

		loaded, err := store.LoadBatch("BATCH-A")
		require.NoError(t, err)
		assert.Equal(t, types.LedgerConfirmed, loaded.LedgerStatus)
		require.NotNil(t, loaded.LedgerTxHash)
		assert.Equal(t, tx, *loaded.LedgerTxHash)

		all, err := store.ListBatches()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("SaveBatch_StoresCopy", func(t *testing.T) {
		store := newStore(t)
		batch := NewTestBatch(t, "BATCH-A", baseTime, testItems("A", 2))
		require.NoError(t, store.SaveBatch(batch))

		batch.LedgerStatus = types.LedgerFailed
		loaded, err := store.LoadBatch("BATCH-A")
		require.NoError(t, err)
		assert.Equal(t, types.LedgerPending, loaded.LedgerStatus)
	})

	t.Run("ListBatches_Ordered", func(t *testing.T) {
		store := newStore(t)

		empty, err := store.ListBatches()
		require.NoError(t, err)
		assert.Empty(t, empty)

		require.NoError(t, store.SaveBatch(NewTestBatch(t, "BATCH-C", baseTime.Add(2*time.Hour), testItems("C", 1))))
		require.NoError(t, store.SaveBatch(NewTestBatch(t, "BATCH-B", baseTime, testItems("B", 1))))
		require.NoError(t, store.SaveBatch(NewTestBatch(t, "BATCH-A", baseTime, testItems("A", 1))))

		all, err := store.ListBatches()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "BATCH-A", all[0].BatchCode)
		assert.Equal(t, "BATCH-B", all[1].BatchCode)
		assert.Equal(t, "BATCH-C", all[2].BatchCode)
	})

	t.Run("SaveAndLoadProduct", func(t *testing.T) {
		store := newStore(t)
		items := testItems("A", 5)
		products := NewTestProducts(t, "BATCH-A", items)
		for _, p := range products {
			require.NoError(t, store.SaveProduct(p))
		}

		loaded, err := store.LoadProduct("BATCH-A", items[3])
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, products[3], loaded)
		assert.True(t, merkle.VerifyProof(loaded.MerkleProof))

		missing, err := store.LoadProduct("BATCH-A", "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)

		otherBatch, err := store.LoadProduct("BATCH-B", items[3])
		require.NoError(t, err)
		assert.Nil(t, otherBatch)
	})

	t.Run("ListProducts_OrderedAndScoped", func(t *testing.T) {
		store := newStore(t)
		a := NewTestProducts(t, "BATCH-A", testItems("A", 4))
		b := NewTestProducts(t, "BATCH-B", testItems("B", 2))
		for i := len(a) - 1; i >= 0; i-- {
			require.NoError(t, store.SaveProduct(a[i]))
		}
		for _, p := range b {
			require.NoError(t, store.SaveProduct(p))
		}

		listed, err := store.ListProducts("BATCH-A")
		require.NoError(t, err)
		require.Len(t, listed, 4)
		for i, p := range listed {
			assert.Equal(t, i, p.Index)
			assert.Equal(t, "BATCH-A", p.BatchCode)
		}

		none, err := store.ListProducts("BATCH-Z")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Movements", func(t *testing.T) {
		store := newStore(t)
		tx := common.HexToHash("0xbeef")
		m1 := &types.Movement{
			ID:          "m-1",
			BatchCode:   "BATCH-A",
			FromAddress: common.HexToAddress("0x01"),
			ToAddress:   common.HexToAddress("0x02"),
			Location:    "Genoa",
			Status:      types.MovementInTransit,
			Timestamp:   baseTime.Add(time.Hour),
		}
		m2 := &types.Movement{
			ID:           "m-2",
			BatchCode:    "BATCH-A",
			FromAddress:  common.HexToAddress("0x02"),
			ToAddress:    common.HexToAddress("0x03"),
			Location:     "Rotterdam",
			Status:       types.MovementReceived,
			LedgerTxHash: &tx,
			Timestamp:    baseTime.Add(2 * time.Hour),
		}
		other := &types.Movement{ID: "m-3", BatchCode: "BATCH-B", Status: types.MovementCreated, Timestamp: baseTime}

		require.NoError(t, store.SaveMovement(m2))
		require.NoError(t, store.SaveMovement(m1))
		require.NoError(t, store.SaveMovement(other))

		listed, err := store.ListMovements("BATCH-A")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, m1, listed[0])
		assert.Equal(t, m2, listed[1])

		none, err := store.ListMovements("BATCH-Z")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("RejectsInvalidInput", func(t *testing.T) {
		store := newStore(t)
		assert.Error(t, store.SaveBatch(nil))
		assert.Error(t, store.SaveBatch(&types.Batch{}))
		assert.Error(t, store.SaveProduct(nil))
		assert.Error(t, store.SaveProduct(&types.Product{BatchCode: "B"}))
		assert.Error(t, store.SaveMovement(nil))
		assert.Error(t, store.SaveMovement(&types.Movement{BatchCode: "B"}))
	})

	t.Run("ConcurrentProductWrites", func(t *testing.T) {
		store := newStore(t)
		products := NewTestProducts(t, "BATCH-A", testItems("A", 32))

		var wg sync.WaitGroup
		errs := make(chan error, len(products))
		for _, p := range products {
			wg.Add(1)
			go func(p *types.Product) {
				defer wg.Done()
				errs <- store.SaveProduct(p)
			}(p)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		listed, err := store.ListProducts("BATCH-A")
		require.NoError(t, err)
		assert.Len(t, listed, len(products))
	})

	t.Run("HealthCheck", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.HealthCheck())
	})

	t.Run("Close", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close(), "close must be idempotent")

		assert.ErrorIs(t, store.HealthCheck(), persistence.ErrClosed)
		assert.ErrorIs(t, store.SaveBatch(NewTestBatch(t, "BATCH-A", baseTime, testItems("A", 1))), persistence.ErrClosed)
		_, err := store.LoadBatch("BATCH-A")
		assert.ErrorIs(t, err, persistence.ErrClosed)
		_, err = store.ListBatches()
		assert.ErrorIs(t, err, persistence.ErrClosed)
		_, err = store.LoadProduct("BATCH-A", "x")
		assert.ErrorIs(t, err, persistence.ErrClosed)
		_, err = store.ListProducts("BATCH-A")
		assert.ErrorIs(t, err, persistence.ErrClosed)
		_, err = store.ListMovements("BATCH-A")
		assert.ErrorIs(t, err, persistence.ErrClosed)
	})
}
