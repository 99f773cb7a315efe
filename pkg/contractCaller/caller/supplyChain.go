package caller

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/middleware-bindings/ChainTrackSupplyChain"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/util"
)

// CreateBatch submits createBatch with the batch's dates as unix seconds
func (cc *ContractCaller) CreateBatch(ctx context.Context, batch *types.Batch) (*types.TxReceipt, error) {
	if batch == nil {
		return nil, fmt.Errorf("batch cannot be nil")
	}

	cc.logger.Sugar().Infow("Submitting batch to ledger",
		"batchCode", batch.BatchCode,
		"merkleRoot", batch.MerkleRoot.Hex(),
	)

	return cc.sendTransaction(ctx, "CreateBatch", func(opts *bind.TransactOpts) (*ethereumTypes.Transaction, error) {
		return cc.contract.CreateBatch(opts,
			batch.BatchCode,
			batch.ProductType,
			big.NewInt(batch.ProductionDate.Unix()),
			big.NewInt(batch.ExpiryDate.Unix()),
			batch.MerkleRoot,
		)
	})
}

func (cc *ContractCaller) RecordMovement(ctx context.Context, batchCode string, from common.Address, to common.Address, location string) (*types.TxReceipt, error) {
	cc.logger.Sugar().Infow("Recording movement on ledger",
		"batchCode", batchCode,
		"from", util.ShortAddress(from),
		"to", util.ShortAddress(to),
	)

	return cc.sendTransaction(ctx, "RecordMovement", func(opts *bind.TransactOpts) (*ethereumTypes.Transaction, error) {
		return cc.contract.RecordMovement(opts, batchCode, from, to, location)
	})
}

// RegisterRole registers addr for a ledger role. Consumers have no ledger
// registration.
func (cc *ContractCaller) RegisterRole(ctx context.Context, role types.UserRole, addr common.Address) (*types.TxReceipt, error) {
	var register func(opts *bind.TransactOpts, addr common.Address) (*ethereumTypes.Transaction, error)
	switch role {
	case types.RoleManufacturer:
		register = cc.contract.RegisterManufacturer
	case types.RoleDistributor:
		register = cc.contract.RegisterDistributor
	case types.RoleRetailer:
		register = cc.contract.RegisterRetailer
	default:
		return nil, fmt.Errorf("role %q cannot be registered on the ledger", role)
	}

	return cc.sendTransaction(ctx, fmt.Sprintf("Register(%s)", role), func(opts *bind.TransactOpts) (*ethereumTypes.Transaction, error) {
		return register(opts, addr)
	})
}

func (cc *ContractCaller) GetBatch(ctx context.Context, batchCode string) (*types.LedgerBatch, error) {
	if err := cc.wait(ctx); err != nil {
		return nil, err
	}
	b, err := cc.contract.GetBatch(cc.callOpts(ctx), batchCode)
	if err != nil {
		return nil, classifyError(err, "GetBatch")
	}

	return &types.LedgerBatch{
		BatchCode:      b.BatchCode,
		ProductType:    b.ProductType,
		ProductionDate: unixToTime(b.ProductionDate),
		ExpiryDate:     unixToTime(b.ExpiryDate),
		Manufacturer:   b.Manufacturer,
		MerkleRoot:     common.Hash(b.MerkleRoot),
		CreatedAt:      unixToTime(b.CreatedAt),
		Exists:         b.Exists,
	}, nil
}

func (cc *ContractCaller) GetBatchMerkleRoot(ctx context.Context, batchCode string) (common.Hash, error) {
	if err := cc.wait(ctx); err != nil {
		return common.Hash{}, err
	}
	root, err := cc.contract.GetBatchMerkleRoot(cc.callOpts(ctx), batchCode)
	if err != nil {
		return common.Hash{}, classifyError(err, "GetBatchMerkleRoot")
	}
	return common.Hash(root), nil
}

func (cc *ContractCaller) VerifyMerkleProof(ctx context.Context, batchCode string, proof *merkle.InclusionProof) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("proof cannot be nil")
	}
	if err := cc.wait(ctx); err != nil {
		return false, err
	}

	siblings := util.Map(proof.Proof, func(h common.Hash, _ int) [32]byte {
		return h
	})
	ok, err := cc.contract.VerifyMerkleProof(cc.callOpts(ctx), batchCode, proof.Leaf, siblings)
	if err != nil {
		return false, classifyError(err, "VerifyMerkleProof")
	}
	return ok, nil
}

func (cc *ContractCaller) GetMovements(ctx context.Context, batchCode string) ([]*types.LedgerMovement, error) {
	if err := cc.wait(ctx); err != nil {
		return nil, err
	}
	movements, err := cc.contract.GetMovements(cc.callOpts(ctx), batchCode)
	if err != nil {
		return nil, classifyError(err, "GetMovements")
	}

	return util.Map(movements, func(m ChainTrackSupplyChain.ChainTrackSupplyChainMovement, _ int) *types.LedgerMovement {
		return &types.LedgerMovement{
			BatchCode: m.BatchCode,
			From:      m.FromUser,
			To:        m.ToUser,
			Location:  m.Location,
			Timestamp: unixToTime(m.Timestamp),
		}
	}), nil
}

func (cc *ContractCaller) HasRole(ctx context.Context, role types.UserRole, addr common.Address) (bool, error) {
	var check func(opts *bind.CallOpts, addr common.Address) (bool, error)
	switch role {
	case types.RoleManufacturer:
		check = cc.contract.IsManufacturer
	case types.RoleDistributor:
		check = cc.contract.IsDistributor
	case types.RoleRetailer:
		check = cc.contract.IsRetailer
	case types.RoleConsumer:
		// anyone can read
		return true, nil
	default:
		return false, fmt.Errorf("unsupported role %q", role)
	}

	if err := cc.wait(ctx); err != nil {
		return false, err
	}
	ok, err := check(cc.callOpts(ctx), addr)
	if err != nil {
		return false, classifyError(err, "HasRole")
	}
	return ok, nil
}

func unixToTime(v *big.Int) time.Time {
	if v == nil || v.Sign() == 0 {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}
