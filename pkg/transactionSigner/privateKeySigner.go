package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PrivateKeySigner signs transactions with a locally held ECDSA key
type PrivateKeySigner struct {
	backend     Backend
	logger      *zap.Logger
	chainID     *big.Int
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
}

// NewPrivateKeySigner parses a hex private key (with or without 0x) and
// resolves the chain id from the backend
func NewPrivateKeySigner(privateKeyHex string, backend Backend, logger *zap.Logger) (*PrivateKeySigner, error) {
	if privateKeyHex == "" {
		return nil, ErrEmptyPrivateKey
	}
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	chainID, err := backend.ChainID(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	return &PrivateKeySigner{
		backend:     backend,
		logger:      logger,
		chainID:     chainID,
		privateKey:  privateKey,
		fromAddress: crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// GetTransactOpts returns keyed options with NoSend set, so a binding builds
// and signs the transaction but leaves broadcasting to SignAndSendTransaction
func (s *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.privateKey, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create keyed transactor")
	}
	opts.Context = ctx
	opts.NoSend = true
	return opts, nil
}

// SignAndSendTransaction signs a transaction and sends it to the network
func (s *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction cannot be nil")
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	to := "<create>"
	if signedTx.To() != nil {
		to = signedTx.To().Hex()
	}
	s.logger.Info("SignAndSendTransaction: sending transaction",
		zap.String("to", to),
		zap.String("txHash", signedTx.Hash().Hex()),
		zap.Uint64("gasLimit", signedTx.Gas()),
		zap.Uint64("nonce", signedTx.Nonce()),
	)

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	receipt, err := bind.WaitMined(ctx, s.backend, signedTx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to wait for transaction receipt %s", signedTx.Hash().Hex())
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		s.logger.Error("SignAndSendTransaction: transaction failed",
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.Uint64("status", receipt.Status),
			zap.Uint64("gasUsed", receipt.GasUsed),
		)
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, receipt.TxHash.Hex())
	}

	blockNumber := uint64(0)
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	s.logger.Info("SignAndSendTransaction: transaction succeeded",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
		zap.Uint64("blockNumber", blockNumber),
	)
	return receipt, nil
}

// GetFromAddress returns the address that will be used for signing
func (s *PrivateKeySigner) GetFromAddress() common.Address {
	return s.fromAddress
}

// EstimateGasPriceAndLimit returns the suggested legacy gas price and a
// buffered gas limit for tx
func (s *PrivateKeySigner) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to suggest gas price")
	}

	gasLimit, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.fromAddress,
		To:    tx.To(),
		Value: tx.Value(),
		Data:  tx.Data(),
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gasPrice, addGasBuffer(gasLimit), nil
}
