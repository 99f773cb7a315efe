package contractCaller

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

var (
	manufacturer = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	distributor  = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	retailer     = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

func newTestBatch(t *testing.T, code string, items []string) (*types.Batch, *merkle.MerkleTree) {
	tree, err := merkle.BuildMerkleTree(items)
	require.NoError(t, err)
	production := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &types.Batch{
		BatchCode:      code,
		ProductType:    "Olive Oil",
		ProductionDate: production,
		ExpiryDate:     production.AddDate(1, 0, 0),
		MerkleRoot:     tree.GetRoot(),
	}, tree
}

func TestInMemoryLedger_CreateBatch(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger(manufacturer)
	batch, tree := newTestBatch(t, "BATCH-1", []string{"P1", "P2", "P3"})

	t.Run("requires manufacturer role", func(t *testing.T) {
		_, err := ledger.CreateBatch(ctx, batch)
		assert.ErrorIs(t, err, ErrTransactionReverted)
		assert.Contains(t, err.Error(), "Only manufacturers")
	})

	ledger.Grant(types.RoleManufacturer, manufacturer)

	t.Run("commits root", func(t *testing.T) {
		receipt, err := ledger.CreateBatch(ctx, batch)
		require.NoError(t, err)
		assert.NotEqual(t, common.Hash{}, receipt.TxHash)

		root, err := ledger.GetBatchMerkleRoot(ctx, "BATCH-1")
		require.NoError(t, err)
		assert.Equal(t, tree.GetRoot(), root)

		b, err := ledger.GetBatch(ctx, "BATCH-1")
		require.NoError(t, err)
		assert.True(t, b.Exists)
		assert.Equal(t, manufacturer, b.Manufacturer)
		assert.Equal(t, batch.ProductionDate, b.ProductionDate)
	})

	t.Run("rejects duplicate batch code", func(t *testing.T) {
		_, err := ledger.CreateBatch(ctx, batch)
		assert.ErrorIs(t, err, ErrTransactionReverted)
		assert.Contains(t, err.Error(), "Batch code already exists")
	})

	t.Run("unknown batch", func(t *testing.T) {
		b, err := ledger.GetBatch(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, b.Exists)

		root, err := ledger.GetBatchMerkleRoot(ctx, "NOPE")
		require.NoError(t, err)
		assert.Equal(t, common.Hash{}, root)
	})
}

func TestInMemoryLedger_VerifyMerkleProof(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger(manufacturer)
	ledger.Grant(types.RoleManufacturer, manufacturer)

	items := []string{"P1", "P2", "P3", "P4", "P5"}
	batch, tree := newTestBatch(t, "BATCH-2", items)
	_, err := ledger.CreateBatch(ctx, batch)
	require.NoError(t, err)

	for _, item := range items {
		proof, err := tree.GetProof(item)
		require.NoError(t, err)
		ok, err := ledger.VerifyMerkleProof(ctx, "BATCH-2", proof)
		require.NoError(t, err)
		assert.True(t, ok, item)
	}

	proof, err := tree.GetProof("P1")
	require.NoError(t, err)
	forged := proof.Copy()
	forged.Leaf = merkle.HashLeaf("P6")
	ok, err := ledger.VerifyMerkleProof(ctx, "BATCH-2", forged)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.VerifyMerkleProof(ctx, "OTHER", proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryLedger_Movements(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)

	mfr := NewInMemoryLedger(manufacturer)
	mfr.Grant(types.RoleManufacturer, manufacturer)
	mfr.SetClock(func() time.Time { return fixed })
	batch, _ := newTestBatch(t, "BATCH-3", []string{"a", "b"})
	_, err := mfr.CreateBatch(ctx, batch)
	require.NoError(t, err)

	_, err = mfr.RecordMovement(ctx, "BATCH-3", manufacturer, distributor, "Porto")
	assert.ErrorIs(t, err, ErrTransactionReverted)

	mfr.Grant(types.RoleDistributor, manufacturer)
	_, err = mfr.RecordMovement(ctx, "BATCH-3", manufacturer, distributor, "Porto")
	require.NoError(t, err)

	_, err = mfr.RecordMovement(ctx, "MISSING", manufacturer, distributor, "Porto")
	assert.ErrorIs(t, err, ErrTransactionReverted)

	movements, err := mfr.GetMovements(ctx, "BATCH-3")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, distributor, movements[0].To)
	assert.Equal(t, fixed, movements[0].Timestamp)
}

func TestInMemoryLedger_Roles(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger(manufacturer)

	_, err := ledger.RegisterRole(ctx, types.RoleRetailer, retailer)
	require.NoError(t, err)

	ok, err := ledger.HasRole(ctx, types.RoleRetailer, retailer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.HasRole(ctx, types.RoleDistributor, retailer)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.HasRole(ctx, types.RoleConsumer, retailer)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = ledger.RegisterRole(ctx, types.RoleConsumer, retailer)
	assert.Error(t, err)
}

func TestInMemoryLedger_FailureInjection(t *testing.T) {
	ctx := context.Background()
	ledger := NewInMemoryLedger(manufacturer)
	ledger.Grant(types.RoleManufacturer, manufacturer)
	batch, _ := newTestBatch(t, "BATCH-4", []string{"x"})

	ledger.FailNextWrites(1)
	_, err := ledger.CreateBatch(ctx, batch)
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	_, err = ledger.CreateBatch(ctx, batch)
	require.NoError(t, err)

	ledger.FailNextReads(2)
	_, err = ledger.GetBatchMerkleRoot(ctx, "BATCH-4")
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	_, err = ledger.GetBatch(ctx, "BATCH-4")
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	_, err = ledger.GetBatch(ctx, "BATCH-4")
	assert.NoError(t, err)

	ledger.SetUnavailable(true)
	_, err = ledger.HasRole(ctx, types.RoleManufacturer, manufacturer)
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	ledger.SetUnavailable(false)
	_, err = ledger.HasRole(ctx, types.RoleManufacturer, manufacturer)
	assert.NoError(t, err)
}

func TestInMemoryLedger_ReadOnly(t *testing.T) {
	ledger := NewReadOnlyInMemoryLedger()
	_, err := ledger.RegisterRole(context.Background(), types.RoleManufacturer, manufacturer)
	assert.ErrorIs(t, err, ErrSignerRequired)

	_, err = ledger.GetFromAddress()
	assert.ErrorIs(t, err, ErrSignerRequired)
}

func TestInMemoryLedger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ledger := NewInMemoryLedger(manufacturer)
	_, err := ledger.GetBatch(ctx, "B")
	assert.ErrorIs(t, err, context.Canceled)
}
