package persistence

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// TestMarshalUnmarshalBatch_RoundTrip tests JSON marshaling/unmarshaling
func TestMarshalUnmarshalBatch_RoundTrip(t *testing.T) {
	tx := common.HexToHash("0xabc")
	original := &types.Batch{
		ID:                  "id-1",
		BatchCode:           "BATCH-OLI-1-AAAA",
		ProductType:         "olive oil",
		ProductionDate:      time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		ExpiryDate:          time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Quantity:            3,
		ManufacturerAddress: common.HexToAddress("0x444607c3F4788e8cB1f8B29132c6Ea6F4cac01bc"),
		MerkleRoot:          common.HexToHash("0x94bf8bb843242f4226f1d8bb54a9d56a27e42f291f3815f290c9c44810fb1219"),
		LedgerStatus:        types.LedgerConfirmed,
		LedgerTxHash:        &tx,
		CreatedAt:           time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:           time.Date(2025, 1, 2, 3, 4, 6, 0, time.UTC),
	}

	data, err := MarshalBatch(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"merkleRoot":"0x94bf8bb843242f4226f1d8bb54a9d56a27e42f291f3815f290c9c44810fb1219"`)

	restored, err := UnmarshalBatch(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestMarshalUnmarshalProduct_RoundTrip(t *testing.T) {
	tree, err := merkle.BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)
	proof, err := tree.GetProof("P2")
	require.NoError(t, err)

	original := &types.Product{
		ID:                "p-2",
		BatchCode:         "B",
		ProductIdentifier: "P2",
		Index:             1,
		VerifyURL:         "http://localhost/verify?productId=P2&batchCode=B",
		MerkleProof:       proof,
		CreatedAt:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := MarshalProduct(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"merkleProof":{"leaf":"0xdf50905b`)

	restored, err := UnmarshalProduct(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
	assert.True(t, merkle.VerifyProof(restored.MerkleProof))
}

func TestUnmarshalProduct_CorruptProof(t *testing.T) {
	data := []byte(`{"batchCode":"B","productIdentifier":"P","merkleProof":{"leaf":"0xABC","proof":[],"root":"0x00"}}`)
	_, err := UnmarshalProduct(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, merkle.ErrMalformedProof)
}

func TestMarshalUnmarshalMovement_RoundTrip(t *testing.T) {
	original := &types.Movement{
		ID:          "m-1",
		BatchCode:   "B",
		FromAddress: common.HexToAddress("0x01"),
		ToAddress:   common.HexToAddress("0x02"),
		Location:    "Rotterdam",
		Status:      types.MovementInTransit,
		Timestamp:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := MarshalMovement(original)
	require.NoError(t, err)
	restored, err := UnmarshalMovement(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSerialization_NilAndEmpty(t *testing.T) {
	_, err := MarshalBatch(nil)
	assert.ErrorContains(t, err, "nil Batch")
	_, err = MarshalProduct(nil)
	assert.ErrorContains(t, err, "nil Product")
	_, err = MarshalMovement(nil)
	assert.ErrorContains(t, err, "nil Movement")

	_, err = UnmarshalBatch(nil)
	assert.ErrorContains(t, err, "empty data")
	_, err = UnmarshalProduct([]byte{})
	assert.ErrorContains(t, err, "empty data")
	_, err = UnmarshalMovement(nil)
	assert.ErrorContains(t, err, "empty data")

	_, err = UnmarshalBatch([]byte(`{"quantity":"many"}`))
	assert.ErrorContains(t, err, "unmarshal")
}

func TestSortHelpers(t *testing.T) {
	t0 := time.Unix(100, 0)
	batches := []*types.Batch{
		{BatchCode: "c", CreatedAt: t0.Add(time.Second)},
		{BatchCode: "b", CreatedAt: t0},
		{BatchCode: "a", CreatedAt: t0},
	}
	SortBatches(batches)
	assert.Equal(t, []string{"a", "b", "c"}, []string{batches[0].BatchCode, batches[1].BatchCode, batches[2].BatchCode})

	products := []*types.Product{{Index: 2}, {Index: 0}, {Index: 1}}
	SortProducts(products)
	assert.Equal(t, 0, products[0].Index)
	assert.Equal(t, 2, products[2].Index)
}
