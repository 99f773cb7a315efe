// Package verification checks a product's authenticity claim: the product's
// identifier must hash to the leaf of its stored inclusion proof, the proof
// must reconstruct the batch root, and that root must be the one committed on
// the ledger.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/chaintrack-labs/chaintrack-go/pkg/config"
	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

var ErrInvalidRequest = errors.New("invalid verification request")

type Status string

const (
	StatusVerified    Status = "verified"
	StatusNotVerified Status = "not_verified"
	// StatusPending means the batch root is not committed on the ledger yet.
	// It is transient and the check should be retried later.
	StatusPending Status = "pending"
)

// Reasons reported with a not_verified or pending result
const (
	ReasonBatchNotFound   = "batch not found"
	ReasonProductNotFound = "product not found in batch"
	ReasonMissingProof    = "product has no inclusion proof"
	ReasonLeafMismatch    = "product identifier does not match the proof leaf"
	ReasonInvalidProof    = "inclusion proof does not reconstruct its root"
	ReasonRootMismatch    = "proof root does not match the batch root"
	ReasonLedgerMismatch  = "batch root does not match the root committed on the ledger"
	ReasonLedgerRejected  = "ledger rejected the inclusion proof"
	ReasonNotCommitted    = "batch root is not committed on the ledger yet"
)

type Result struct {
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
	BatchCode string `json:"batchCode"`
	ProductID string `json:"productId,omitempty"`

	Batch     *types.Batch      `json:"batch,omitempty"`
	Product   *types.Product    `json:"product,omitempty"`
	Movements []*types.Movement `json:"movements,omitempty"`

	// LocalProofValid is the result of the standalone proof check
	LocalProofValid bool         `json:"localProofValid"`
	LedgerRoot      *common.Hash `json:"ledgerRoot,omitempty"`
	// LedgerProofValid is set when the contract's verifier was consulted
	LedgerProofValid *bool `json:"ledgerProofValid,omitempty"`

	CheckedAt time.Time `json:"checkedAt"`
}

func (r *Result) Verified() bool {
	return r.Status == StatusVerified
}

type Config struct {
	Retry *config.LedgerRetryConfig
	// OnChainProofCheck also asks the contract to verify the proof
	OnChainProofCheck bool
}

type Verifier struct {
	store  persistence.IBatchPersistence
	ledger contractCaller.IContractCaller
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewVerifier(
	store persistence.IBatchPersistence,
	ledger contractCaller.IContractCaller,
	cfg *Config,
	logger *zap.Logger,
) *Verifier {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.Retry == nil {
		c.Retry = config.DefaultLedgerRetryConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		store:  store,
		ledger: ledger,
		cfg:    c,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// VerifyProduct checks that productID belongs to the batch committed on the
// ledger under batchCode. A mismatch is reported through the result status;
// an error is returned only when the check could not be carried out, e.g.
// because the ledger is unreachable.
func (v *Verifier) VerifyProduct(ctx context.Context, batchCode, productID string) (*Result, error) {
	if batchCode == "" || productID == "" {
		return nil, fmt.Errorf("%w: batch code and product id are required", ErrInvalidRequest)
	}
	res := &Result{BatchCode: batchCode, ProductID: productID, CheckedAt: v.now()}

	batch, err := v.store.LoadBatch(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchCode, err)
	}
	if batch == nil {
		return res.fail(ReasonBatchNotFound), nil
	}
	res.Batch = batch

	product, err := v.store.LoadProduct(batchCode, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	if product == nil {
		return res.fail(ReasonProductNotFound), nil
	}
	res.Product = product
	proof := product.MerkleProof
	if proof == nil {
		return res.fail(ReasonMissingProof), nil
	}

	if common.Hash(merkle.HashLeaf(productID)) != proof.Leaf {
		return res.fail(ReasonLeafMismatch), nil
	}
	res.LocalProofValid = merkle.VerifyProof(proof)
	if !res.LocalProofValid {
		return res.fail(ReasonInvalidProof), nil
	}
	if proof.Root != batch.MerkleRoot {
		return res.fail(ReasonRootMismatch), nil
	}

	if err := v.checkLedger(ctx, res, batchCode, proof); err != nil {
		return nil, err
	}
	if res.Status == StatusVerified {
		movements, err := v.store.ListMovements(batchCode)
		if err != nil {
			return nil, fmt.Errorf("failed to list movements of %s: %w", batchCode, err)
		}
		res.Movements = movements
	}

	v.logger.Sugar().Debugw("Product verification finished",
		"batchCode", batchCode,
		"productId", productID,
		"status", res.Status,
		"reason", res.Reason,
	)
	return res, nil
}

// VerifyProof checks a caller supplied proof. Without a batch code only the
// standalone check runs; otherwise the proof root must also be the batch
// root committed on the ledger.
func (v *Verifier) VerifyProof(ctx context.Context, batchCode string, proof *merkle.InclusionProof) (*Result, error) {
	if proof == nil {
		return nil, fmt.Errorf("%w: proof is required", ErrInvalidRequest)
	}
	res := &Result{BatchCode: batchCode, CheckedAt: v.now()}
	res.LocalProofValid = merkle.VerifyProof(proof)
	if !res.LocalProofValid {
		return res.fail(ReasonInvalidProof), nil
	}
	if batchCode == "" {
		res.Status = StatusVerified
		return res, nil
	}

	if err := v.checkLedger(ctx, res, batchCode, proof); err != nil {
		return nil, err
	}
	return res, nil
}

// checkLedger compares the proof root with the root committed on the ledger
// and sets the result status accordingly
func (v *Verifier) checkLedger(ctx context.Context, res *Result, batchCode string, proof *merkle.InclusionProof) error {
	ledgerRoot, err := v.ledgerRoot(ctx, batchCode)
	if err != nil {
		return err
	}

	if ledgerRoot == (common.Hash{}) {
		res.Status = StatusPending
		res.Reason = ReasonNotCommitted
		return nil
	}
	res.LedgerRoot = &ledgerRoot
	if ledgerRoot != proof.Root {
		res.fail(ReasonLedgerMismatch)
		return nil
	}

	if v.cfg.OnChainProofCheck {
		ok, err := v.withRetry(ctx, "verifyMerkleProof", func(ctx context.Context) (bool, error) {
			return v.ledger.VerifyMerkleProof(ctx, batchCode, proof)
		})
		if err != nil {
			return err
		}
		res.LedgerProofValid = &ok
		if !ok {
			res.fail(ReasonLedgerRejected)
			return nil
		}
	}

	res.Status = StatusVerified
	return nil
}

func (v *Verifier) ledgerRoot(ctx context.Context, batchCode string) (common.Hash, error) {
	var root common.Hash
	_, err := v.withRetry(ctx, "getBatchMerkleRoot", func(ctx context.Context) (bool, error) {
		r, err := v.ledger.GetBatchMerkleRoot(ctx, batchCode)
		root = r
		return true, err
	})
	return root, err
}

// withRetry runs a ledger view with exponential backoff. Only an unavailable
// ledger is retried.
func (v *Verifier) withRetry(
	ctx context.Context,
	operation string,
	call func(ctx context.Context) (bool, error),
) (bool, error) {
	var (
		out      bool
		lastErr  error
		attempts int
	)
	err := wait.ExponentialBackoffWithContext(ctx, v.cfg.Retry.Backoff(), func(ctx context.Context) (bool, error) {
		attempts++
		result, err := call(ctx)
		if err == nil {
			out = result
			return true, nil
		}
		if errors.Is(err, contractCaller.ErrLedgerUnavailable) {
			lastErr = err
			v.logger.Sugar().Debugw("Ledger view failed, retrying",
				"operation", operation,
				"attempt", attempts,
				"error", err,
			)
			return false, nil
		}
		return false, err
	})
	if err == nil {
		return out, nil
	}
	if ctx.Err() == nil && wait.Interrupted(err) && lastErr != nil {
		return false, fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
	}
	return false, fmt.Errorf("%s failed: %w", operation, err)
}

func (r *Result) fail(reason string) *Result {
	r.Status = StatusNotVerified
	r.Reason = reason
	return r
}
