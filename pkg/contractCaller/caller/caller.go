package caller

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/middleware-bindings/ChainTrackSupplyChain"
	"github.com/chaintrack-labs/chaintrack-go/pkg/transactionSigner"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// supplyChainContract is the part of the generated binding the caller uses
type supplyChainContract interface {
	CreateBatch(opts *bind.TransactOpts, _batchCode string, _productType string, _productionDate *big.Int, _expiryDate *big.Int, _merkleRoot [32]byte) (*ethereumTypes.Transaction, error)
	RecordMovement(opts *bind.TransactOpts, _batchCode string, _fromUser common.Address, _toUser common.Address, _location string) (*ethereumTypes.Transaction, error)
	RegisterManufacturer(opts *bind.TransactOpts, _manufacturer common.Address) (*ethereumTypes.Transaction, error)
	RegisterDistributor(opts *bind.TransactOpts, _distributor common.Address) (*ethereumTypes.Transaction, error)
	RegisterRetailer(opts *bind.TransactOpts, _retailer common.Address) (*ethereumTypes.Transaction, error)

	GetBatch(opts *bind.CallOpts, _batchCode string) (ChainTrackSupplyChain.ChainTrackSupplyChainBatch, error)
	GetBatchMerkleRoot(opts *bind.CallOpts, _batchCode string) ([32]byte, error)
	GetMovements(opts *bind.CallOpts, _batchCode string) ([]ChainTrackSupplyChain.ChainTrackSupplyChainMovement, error)
	VerifyMerkleProof(opts *bind.CallOpts, _batchCode string, _leaf [32]byte, _proof [][32]byte) (bool, error)
	IsManufacturer(opts *bind.CallOpts, _address common.Address) (bool, error)
	IsDistributor(opts *bind.CallOpts, _address common.Address) (bool, error)
	IsRetailer(opts *bind.CallOpts, _address common.Address) (bool, error)
}

// ContractCallerConfig configures a ContractCaller
type ContractCallerConfig struct {
	ContractAddress common.Address
	// RateLimit caps RPC requests per second. Zero disables limiting.
	RateLimit float64
}

type ContractCaller struct {
	logger          *zap.Logger
	contractAddress common.Address
	contract        supplyChainContract
	signer          transactionSigner.ITransactionSigner
	limiter         *rate.Limiter
}

// NewContractCaller binds the supply chain contract. signer may be nil for a
// read-only caller.
func NewContractCaller(
	ethclient *ethclient.Client,
	cfg *ContractCallerConfig,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("contract caller config cannot be nil")
	}
	if (cfg.ContractAddress == common.Address{}) {
		return nil, fmt.Errorf("contract address cannot be empty")
	}

	contract, err := ChainTrackSupplyChain.NewChainTrackSupplyChain(cfg.ContractAddress, ethclient)
	if err != nil {
		return nil, fmt.Errorf("failed to create supply chain contract instance: %w", err)
	}

	return newContractCaller(contract, cfg, signer, logger), nil
}

func newContractCaller(
	contract supplyChainContract,
	cfg *ContractCallerConfig,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) *ContractCaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
	}

	logger.Sugar().Infow("Using supply chain contract",
		zap.String("address", cfg.ContractAddress.Hex()),
		zap.Bool("readOnly", signer == nil),
		zap.Float64("rateLimit", cfg.RateLimit),
	)

	return &ContractCaller{
		logger:          logger,
		contractAddress: cfg.ContractAddress,
		contract:        contract,
		signer:          signer,
		limiter:         rate.NewLimiter(limit, burst),
	}
}

// GetFromAddress returns the signing address
func (cc *ContractCaller) GetFromAddress() (common.Address, error) {
	if cc.signer == nil {
		return common.Address{}, contractCaller.ErrSignerRequired
	}
	return cc.signer.GetFromAddress(), nil
}

// ContractAddress returns the bound contract address
func (cc *ContractCaller) ContractAddress() common.Address {
	return cc.contractAddress
}

// wait blocks until the limiter admits another RPC request
func (cc *ContractCaller) wait(ctx context.Context) error {
	if err := cc.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", contractCaller.ErrLedgerUnavailable, err)
	}
	return nil
}

func (cc *ContractCaller) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

// classifyError maps an RPC failure to the contractCaller sentinel errors.
// Contract reverts surface as ErrTransactionReverted, everything else that is
// not a context error is treated as the ledger being unreachable.
func classifyError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, contractCaller.ErrTransactionReverted) ||
		errors.Is(err, contractCaller.ErrLedgerUnavailable) ||
		errors.Is(err, contractCaller.ErrSignerRequired) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if isRevert(err) {
		return fmt.Errorf("%s: %w: %v", operation, contractCaller.ErrTransactionReverted, err)
	}
	return fmt.Errorf("%s: %w: %v", operation, contractCaller.ErrLedgerUnavailable, err)
}

func isRevert(err error) bool {
	var rpcErr rpc.Error
	// JSON-RPC code 3 is "execution reverted" with revert data
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == 3 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

func toReceipt(r *ethereumTypes.Receipt) *types.TxReceipt {
	out := &types.TxReceipt{TxHash: r.TxHash, GasUsed: r.GasUsed}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
