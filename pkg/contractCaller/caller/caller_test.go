package caller

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/middleware-bindings/ChainTrackSupplyChain"
	"github.com/chaintrack-labs/chaintrack-go/pkg/transactionSigner"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

var (
	contractAddr = common.HexToAddress("0x444607c3F4788e8cB1f8B29132c6Ea6F4cac01bc")
	signerAddr   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	otherAddr    = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

type createBatchCall struct {
	batchCode      string
	productType    string
	productionDate *big.Int
	expiryDate     *big.Int
	root           [32]byte
}

// fakeContract records transactor calls and serves canned views
type fakeContract struct {
	mu          sync.Mutex
	createCalls []createBatchCall
	registered  map[string]common.Address
	txErr       error
	viewErr     error
	batch       ChainTrackSupplyChain.ChainTrackSupplyChainBatch
	movements   []ChainTrackSupplyChain.ChainTrackSupplyChainMovement
	proofArgs   [][32]byte
	verifyOK    bool
}

func newTx() *ethereumTypes.Transaction {
	return ethereumTypes.NewTx(&ethereumTypes.LegacyTx{To: &contractAddr, Gas: 21000, GasPrice: big.NewInt(1)})
}

func (f *fakeContract) CreateBatch(opts *bind.TransactOpts, code string, productType string, prod *big.Int, exp *big.Int, root [32]byte) (*ethereumTypes.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txErr != nil {
		return nil, f.txErr
	}
	f.createCalls = append(f.createCalls, createBatchCall{code, productType, prod, exp, root})
	return newTx(), nil
}

func (f *fakeContract) RecordMovement(opts *bind.TransactOpts, code string, from common.Address, to common.Address, location string) (*ethereumTypes.Transaction, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	return newTx(), nil
}

func (f *fakeContract) register(role string, addr common.Address) (*ethereumTypes.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registered == nil {
		f.registered = make(map[string]common.Address)
	}
	f.registered[role] = addr
	return newTx(), nil
}

func (f *fakeContract) RegisterManufacturer(opts *bind.TransactOpts, a common.Address) (*ethereumTypes.Transaction, error) {
	return f.register("manufacturer", a)
}

func (f *fakeContract) RegisterDistributor(opts *bind.TransactOpts, a common.Address) (*ethereumTypes.Transaction, error) {
	return f.register("distributor", a)
}

func (f *fakeContract) RegisterRetailer(opts *bind.TransactOpts, a common.Address) (*ethereumTypes.Transaction, error) {
	return f.register("retailer", a)
}

func (f *fakeContract) GetBatch(opts *bind.CallOpts, code string) (ChainTrackSupplyChain.ChainTrackSupplyChainBatch, error) {
	return f.batch, f.viewErr
}

func (f *fakeContract) GetBatchMerkleRoot(opts *bind.CallOpts, code string) ([32]byte, error) {
	return f.batch.MerkleRoot, f.viewErr
}

func (f *fakeContract) GetMovements(opts *bind.CallOpts, code string) ([]ChainTrackSupplyChain.ChainTrackSupplyChainMovement, error) {
	return f.movements, f.viewErr
}

func (f *fakeContract) VerifyMerkleProof(opts *bind.CallOpts, code string, leaf [32]byte, proof [][32]byte) (bool, error) {
	f.proofArgs = proof
	return f.verifyOK, f.viewErr
}

func (f *fakeContract) IsManufacturer(opts *bind.CallOpts, a common.Address) (bool, error) {
	return a == signerAddr, f.viewErr
}

func (f *fakeContract) IsDistributor(opts *bind.CallOpts, a common.Address) (bool, error) {
	return false, f.viewErr
}

func (f *fakeContract) IsRetailer(opts *bind.CallOpts, a common.Address) (bool, error) {
	return a == otherAddr, f.viewErr
}

type fakeSigner struct {
	sendErr error
}

func (s *fakeSigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: signerAddr, Context: ctx, NoSend: true}, nil
}

func (s *fakeSigner) SignAndSendTransaction(ctx context.Context, tx *ethereumTypes.Transaction) (*ethereumTypes.Receipt, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &ethereumTypes.Receipt{Status: 1, TxHash: tx.Hash(), GasUsed: 42000, BlockNumber: big.NewInt(7)}, nil
}

func (s *fakeSigner) GetFromAddress() common.Address {
	return signerAddr
}

func (s *fakeSigner) EstimateGasPriceAndLimit(ctx context.Context, tx *ethereumTypes.Transaction) (*big.Int, uint64, error) {
	return big.NewInt(1), 21000, nil
}

var _ transactionSigner.ITransactionSigner = (*fakeSigner)(nil)
var _ contractCaller.IContractCaller = (*ContractCaller)(nil)

func newTestCaller(contract *fakeContract, signer transactionSigner.ITransactionSigner) *ContractCaller {
	return newContractCaller(contract, &ContractCallerConfig{ContractAddress: contractAddr}, signer, zap.NewNop())
}

func TestContractCaller_CreateBatch(t *testing.T) {
	contract := &fakeContract{}
	cc := newTestCaller(contract, &fakeSigner{})

	tree, err := merkle.BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)

	production := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	batch := &types.Batch{
		BatchCode:      "BATCH-OLI-1740787200000-AB12",
		ProductType:    "Olive Oil",
		ProductionDate: production,
		ExpiryDate:     production.AddDate(1, 0, 0),
		MerkleRoot:     tree.GetRoot(),
	}

	receipt, err := cc.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), receipt.BlockNumber)
	assert.Equal(t, uint64(42000), receipt.GasUsed)

	require.Len(t, contract.createCalls, 1)
	call := contract.createCalls[0]
	assert.Equal(t, batch.BatchCode, call.batchCode)
	assert.Equal(t, production.Unix(), call.productionDate.Int64())
	assert.Equal(t, batch.ExpiryDate.Unix(), call.expiryDate.Int64())
	assert.Equal(t, [32]byte(tree.GetRoot()), call.root)
}

func TestContractCaller_ReadOnly(t *testing.T) {
	cc := newTestCaller(&fakeContract{}, nil)

	_, err := cc.CreateBatch(context.Background(), &types.Batch{BatchCode: "B"})
	assert.ErrorIs(t, err, contractCaller.ErrSignerRequired)

	_, err = cc.GetFromAddress()
	assert.ErrorIs(t, err, contractCaller.ErrSignerRequired)
}

func TestContractCaller_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name    string
		txErr   error
		sendErr error
		want    error
	}{
		{"revert during estimate", errors.New("execution reverted: Batch code already exists"), nil, contractCaller.ErrTransactionReverted},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), nil, contractCaller.ErrLedgerUnavailable},
		{"mined with failed status", nil, transactionSigner.ErrTransactionReverted, contractCaller.ErrTransactionReverted},
		{"send failure", nil, errors.New("timeout"), contractCaller.ErrLedgerUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cc := newTestCaller(&fakeContract{txErr: tc.txErr}, &fakeSigner{sendErr: tc.sendErr})
			_, err := cc.RecordMovement(context.Background(), "B", signerAddr, otherAddr, "Rotterdam")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestContractCaller_RegisterRole(t *testing.T) {
	contract := &fakeContract{}
	cc := newTestCaller(contract, &fakeSigner{})
	ctx := context.Background()

	for _, role := range []types.UserRole{types.RoleManufacturer, types.RoleDistributor, types.RoleRetailer} {
		_, err := cc.RegisterRole(ctx, role, otherAddr)
		require.NoError(t, err)
		assert.Equal(t, otherAddr, contract.registered[string(role)])
	}

	_, err := cc.RegisterRole(ctx, types.RoleConsumer, otherAddr)
	assert.Error(t, err)
}

func TestContractCaller_Views(t *testing.T) {
	root := common.HexToHash("0x94bf8bb843242f4226f1d8bb54a9d56a27e42f291f3815f290c9c44810fb1219")
	contract := &fakeContract{
		batch: ChainTrackSupplyChain.ChainTrackSupplyChainBatch{
			BatchCode:      "B1",
			ProductType:    "Coffee",
			ProductionDate: big.NewInt(1740787200),
			ExpiryDate:     big.NewInt(1772323200),
			Manufacturer:   signerAddr,
			MerkleRoot:     root,
			CreatedAt:      big.NewInt(1740790800),
			Exists:         true,
		},
		movements: []ChainTrackSupplyChain.ChainTrackSupplyChainMovement{
			{BatchCode: "B1", FromUser: signerAddr, ToUser: otherAddr, Location: "Hamburg", Timestamp: big.NewInt(1740800000)},
		},
		verifyOK: true,
	}
	cc := newTestCaller(contract, nil)
	ctx := context.Background()

	b, err := cc.GetBatch(ctx, "B1")
	require.NoError(t, err)
	assert.True(t, b.Exists)
	assert.Equal(t, root, b.MerkleRoot)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), b.ProductionDate)

	r, err := cc.GetBatchMerkleRoot(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, root, r)

	movements, err := cc.GetMovements(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, otherAddr, movements[0].To)
	assert.Equal(t, "Hamburg", movements[0].Location)

	tree, err := merkle.BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)
	proof, err := tree.GetProof("P3")
	require.NoError(t, err)
	ok, err := cc.VerifyMerkleProof(ctx, "B1", proof)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, contract.proofArgs, len(proof.Proof))
	assert.Equal(t, [32]byte(proof.Proof[0]), contract.proofArgs[0])

	isMfr, err := cc.HasRole(ctx, types.RoleManufacturer, signerAddr)
	require.NoError(t, err)
	assert.True(t, isMfr)
	isRetailer, err := cc.HasRole(ctx, types.RoleRetailer, signerAddr)
	require.NoError(t, err)
	assert.False(t, isRetailer)
	isConsumer, err := cc.HasRole(ctx, types.RoleConsumer, otherAddr)
	require.NoError(t, err)
	assert.True(t, isConsumer)
}

func TestContractCaller_ViewUnavailable(t *testing.T) {
	cc := newTestCaller(&fakeContract{viewErr: errors.New("502 Bad Gateway")}, nil)
	_, err := cc.GetBatchMerkleRoot(context.Background(), "B1")
	assert.ErrorIs(t, err, contractCaller.ErrLedgerUnavailable)
}

func TestContractCaller_RateLimit(t *testing.T) {
	cc := newContractCaller(&fakeContract{}, &ContractCallerConfig{ContractAddress: contractAddr, RateLimit: 1}, nil, nil)

	ctx := context.Background()
	_, err := cc.GetBatchMerkleRoot(ctx, "B1")
	require.NoError(t, err)

	// burst of one is spent, the next call cannot be admitted before the deadline
	shortCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = cc.GetBatchMerkleRoot(shortCtx, "B1")
	assert.ErrorIs(t, err, contractCaller.ErrLedgerUnavailable)
}
