package transactionSigner

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// fakeBackend mines every sent transaction immediately with a configurable
// status
type fakeBackend struct {
	mu       sync.Mutex
	chainID  *big.Int
	status   uint64
	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	sendErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID:  big.NewInt(31337),
		status:   types.ReceiptStatusSuccessful,
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &types.Receipt{
		Status:      f.status,
		TxHash:      tx.Hash(),
		GasUsed:     21000,
		BlockNumber: big.NewInt(int64(len(f.sent))),
	}
	return nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(30_000_000_000), nil
}

func (f *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func testTx() *types.Transaction {
	to := common.HexToAddress("0x444607c3F4788e8cB1f8B29132c6Ea6F4cac01bc")
	return types.NewTx(&types.LegacyTx{
		Nonce:    0,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      100_000,
		GasPrice: big.NewInt(1),
		Data:     []byte{0xc0, 0x97, 0x41, 0x62},
	})
}

func TestNewPrivateKeySigner(t *testing.T) {
	key, err := crypto.HexToECDSA(testPrivateKey[2:])
	require.NoError(t, err)
	expected := crypto.PubkeyToAddress(key.PublicKey)

	t.Run("with 0x prefix", func(t *testing.T) {
		s, err := NewPrivateKeySigner(testPrivateKey, newFakeBackend(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, expected, s.GetFromAddress())
	})

	t.Run("without prefix", func(t *testing.T) {
		s, err := NewPrivateKeySigner(testPrivateKey[2:], newFakeBackend(), nil)
		require.NoError(t, err)
		assert.Equal(t, expected, s.GetFromAddress())
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := NewPrivateKeySigner("", newFakeBackend(), nil)
		assert.ErrorIs(t, err, ErrEmptyPrivateKey)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := NewPrivateKeySigner("0xnothex", newFakeBackend(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse private key")
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewTransactionSigner(nil, newFakeBackend(), nil)
		assert.ErrorIs(t, err, ErrEmptyPrivateKey)
	})
}

func TestPrivateKeySigner_GetTransactOpts(t *testing.T) {
	s, err := NewPrivateKeySigner(testPrivateKey, newFakeBackend(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	opts, err := s.GetTransactOpts(ctx)
	require.NoError(t, err)
	assert.True(t, opts.NoSend)
	assert.Equal(t, s.GetFromAddress(), opts.From)

	signed, err := opts.Signer(opts.From, testTx())
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(31337)), signed)
	require.NoError(t, err)
	assert.Equal(t, s.GetFromAddress(), sender)
}

func TestPrivateKeySigner_SignAndSendTransaction(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("success", func(t *testing.T) {
		backend := newFakeBackend()
		s, err := NewPrivateKeySigner(testPrivateKey, backend, nil)
		require.NoError(t, err)

		receipt, err := s.SignAndSendTransaction(ctx, testTx())
		require.NoError(t, err)
		require.Len(t, backend.sent, 1)
		assert.Equal(t, backend.sent[0].Hash(), receipt.TxHash)

		sender, err := types.Sender(types.LatestSignerForChainID(backend.chainID), backend.sent[0])
		require.NoError(t, err)
		assert.Equal(t, s.GetFromAddress(), sender)
	})

	t.Run("reverted", func(t *testing.T) {
		backend := newFakeBackend()
		backend.status = types.ReceiptStatusFailed
		s, err := NewPrivateKeySigner(testPrivateKey, backend, nil)
		require.NoError(t, err)

		receipt, err := s.SignAndSendTransaction(ctx, testTx())
		assert.ErrorIs(t, err, ErrTransactionReverted)
		require.NotNil(t, receipt)
		assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)
	})

	t.Run("send failure", func(t *testing.T) {
		backend := newFakeBackend()
		backend.sendErr = errors.New("nonce too low")
		s, err := NewPrivateKeySigner(testPrivateKey, backend, nil)
		require.NoError(t, err)

		_, err = s.SignAndSendTransaction(ctx, testTx())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonce too low")
	})

	t.Run("nil transaction", func(t *testing.T) {
		s, err := NewPrivateKeySigner(testPrivateKey, newFakeBackend(), nil)
		require.NoError(t, err)
		_, err = s.SignAndSendTransaction(ctx, nil)
		assert.Error(t, err)
	})
}

func TestPrivateKeySigner_EstimateGasPriceAndLimit(t *testing.T) {
	s, err := NewPrivateKeySigner(testPrivateKey, newFakeBackend(), nil)
	require.NoError(t, err)

	price, limit, err := s.EstimateGasPriceAndLimit(context.Background(), testTx())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30_000_000_000), price)
	assert.Equal(t, uint64(120_000), limit)
}
