package contractCaller

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/transactionSigner"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

var (
	// ErrLedgerUnavailable marks infrastructure failures talking to the
	// ledger. Callers may retry.
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrSignerRequired is returned for writes on a read-only caller
	ErrSignerRequired = errors.New("signer required for write operations")

	// ErrTransactionReverted is returned when the contract rejected a write
	ErrTransactionReverted = transactionSigner.ErrTransactionReverted
)

// IContractCaller is the boundary to the supply chain contract
type IContractCaller interface {
	// CreateBatch commits a batch and its merkle root
	CreateBatch(ctx context.Context, batch *types.Batch) (*types.TxReceipt, error)

	// RecordMovement records custody of a batch passing from one wallet to another
	RecordMovement(ctx context.Context, batchCode string, from common.Address, to common.Address, location string) (*types.TxReceipt, error)

	// RegisterRole registers addr as a manufacturer, distributor or retailer
	RegisterRole(ctx context.Context, role types.UserRole, addr common.Address) (*types.TxReceipt, error)

	// GetBatch returns the ledger record of a batch. Unknown batches come
	// back with Exists set to false.
	GetBatch(ctx context.Context, batchCode string) (*types.LedgerBatch, error)

	// GetBatchMerkleRoot returns the committed root, or the zero hash for an
	// unknown batch
	GetBatchMerkleRoot(ctx context.Context, batchCode string) (common.Hash, error)

	// VerifyMerkleProof checks an inclusion proof against the committed root
	// on chain
	VerifyMerkleProof(ctx context.Context, batchCode string, proof *merkle.InclusionProof) (bool, error)

	GetMovements(ctx context.Context, batchCode string) ([]*types.LedgerMovement, error)

	HasRole(ctx context.Context, role types.UserRole, addr common.Address) (bool, error)

	// GetFromAddress returns the signing address, or ErrSignerRequired for a
	// read-only caller
	GetFromAddress() (common.Address, error)
}
