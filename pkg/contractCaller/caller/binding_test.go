package caller

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/middleware-bindings/ChainTrackSupplyChain"
)

// abiBackend answers eth_call by ABI-packing canned results, so the binding's
// encode and decode paths run for real
type abiBackend struct {
	abi     *abi.ABI
	results map[string][]interface{}
	calls   map[string][]interface{}
}

func (b *abiBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *abiBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	method, err := b.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	b.calls[method.Name] = args

	out, ok := b.results[method.Name]
	if !ok {
		return nil, fmt.Errorf("no result for %s", method.Name)
	}
	return method.Outputs.Pack(out...)
}

func newABIBackend(t *testing.T) *abiBackend {
	parsed, err := ChainTrackSupplyChain.ChainTrackSupplyChainMetaData.GetAbi()
	require.NoError(t, err)
	return &abiBackend{abi: parsed, results: map[string][]interface{}{}, calls: map[string][]interface{}{}}
}

func TestBinding_MethodSelectors(t *testing.T) {
	parsed, err := ChainTrackSupplyChain.ChainTrackSupplyChainMetaData.GetAbi()
	require.NoError(t, err)

	selectors := map[string]string{
		"createBatch":          "0xc0974162",
		"recordMovement":       "0x582ede2a",
		"getBatch":             "0xf9ca4274",
		"getMovements":         "0x6a3acfeb",
		"getBatchMerkleRoot":   "0xaee46d66",
		"verifyMerkleProof":    "0xa6832143",
		"isManufacturer":       "0x17d4a491",
		"isDistributor":        "0x8f0c86fa",
		"isRetailer":           "0x5da09b88",
		"registerManufacturer": "0x9adce32b",
		"registerDistributor":  "0x31ab0518",
		"registerRetailer":     "0xa83006da",
	}
	for name, sel := range selectors {
		m, ok := parsed.Methods[name]
		require.True(t, ok, name)
		assert.Equal(t, sel, fmt.Sprintf("0x%x", m.ID), name)
	}

	assert.Equal(t,
		common.HexToHash("0x12b014907291ffe8647562ce2c5a0ab162896ee0b02f8e3b990343ae49fb5469"),
		parsed.Events["BatchCreated"].ID)
	assert.Equal(t,
		common.HexToHash("0x20a6162badd334426d166b0111df0ac24b41ec05604dd17c99e6ba48a92c9664"),
		parsed.Events["MovementRecorded"].ID)
}

func TestBinding_RoundTripViews(t *testing.T) {
	backend := newABIBackend(t)
	root := common.HexToHash("0x94bf8bb843242f4226f1d8bb54a9d56a27e42f291f3815f290c9c44810fb1219")

	backend.results["getBatch"] = []interface{}{ChainTrackSupplyChain.ChainTrackSupplyChainBatch{
		BatchCode:      "B1",
		ProductType:    "Coffee",
		ProductionDate: big.NewInt(1740787200),
		ExpiryDate:     big.NewInt(1772323200),
		Manufacturer:   signerAddr,
		MerkleRoot:     root,
		CreatedAt:      big.NewInt(1740790800),
		Exists:         true,
	}}
	backend.results["getBatchMerkleRoot"] = []interface{}{[32]byte(root)}
	backend.results["verifyMerkleProof"] = []interface{}{true}

	contract, err := ChainTrackSupplyChain.NewChainTrackSupplyChainCaller(contractAddr, backend)
	require.NoError(t, err)
	opts := &bind.CallOpts{Context: context.Background()}

	b, err := contract.GetBatch(opts, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", b.ProductType)
	assert.Equal(t, signerAddr, b.Manufacturer)
	assert.Equal(t, [32]byte(root), b.MerkleRoot)
	assert.True(t, b.Exists)
	assert.Equal(t, []interface{}{"B1"}, backend.calls["getBatch"])

	r, err := contract.GetBatchMerkleRoot(opts, "B1")
	require.NoError(t, err)
	assert.Equal(t, [32]byte(root), r)

	sibling := common.HexToHash("0x7ccbaa9d10472a1c2ba3b0443c7c03902bc9fc5c0e49d19e763d7f17bb1282d7")
	ok, err := contract.VerifyMerkleProof(opts, "B1", [32]byte(root), [][32]byte{sibling})
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, backend.calls["verifyMerkleProof"], 3)
	assert.Equal(t, [][32]byte{sibling}, backend.calls["verifyMerkleProof"][2])
}
