// Package batch implements the batch lifecycle: committing a batch of product
// identifiers to the ledger by merkle root, issuing each product its
// inclusion proof, and recording custody movements.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chaintrack-labs/chaintrack-go/pkg/contractCaller"
	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
	"github.com/chaintrack-labs/chaintrack-go/pkg/util"
)

const (
	// MaxBatchSize bounds how many products a single batch may commit
	MaxBatchSize = 100_000

	defaultLedgerTimeout = 2 * time.Minute
)

type Config struct {
	// BaseURL prefixes the verify link of every product
	BaseURL string
	// ProofWorkers bounds concurrent proof generation. Defaults to NumCPU.
	ProofWorkers int
	// LedgerTimeout bounds a single ledger write
	LedgerTimeout time.Duration
}

type Manager struct {
	store  persistence.IBatchPersistence
	ledger contractCaller.IContractCaller
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(
	store persistence.IBatchPersistence,
	ledger contractCaller.IContractCaller,
	cfg *Config,
	logger *zap.Logger,
) *Manager {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.ProofWorkers <= 0 {
		c.ProofWorkers = runtime.NumCPU()
	}
	if c.LedgerTimeout <= 0 {
		c.LedgerTimeout = defaultLedgerTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		ledger: ledger,
		cfg:    c,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateBatchRequest struct {
	ProductType    string
	ProductionDate time.Time
	ExpiryDate     time.Time

	// Quantity of product identifiers to generate. Ignored when Items is set.
	Quantity int

	// BatchCode is generated when empty
	BatchCode string

	// Items are explicit product identifiers. They must be unique.
	Items []string
}

type CreateBatchResult struct {
	Batch    *types.Batch
	Products []*types.Product
	// Receipt is nil when the ledger commit failed
	Receipt *types.TxReceipt
}

func (r *CreateBatchRequest) validate() error {
	if r.ProductType == "" {
		return fmt.Errorf("%w: product type is required", ErrInvalidRequest)
	}
	if r.ProductionDate.IsZero() || r.ExpiryDate.IsZero() {
		return fmt.Errorf("%w: production and expiry dates are required", ErrInvalidRequest)
	}
	if r.ExpiryDate.Before(r.ProductionDate) {
		return fmt.Errorf("%w: expiry date is before production date", ErrInvalidRequest)
	}

	n := r.Quantity
	if len(r.Items) > 0 {
		n = len(r.Items)
		if r.Quantity != 0 && r.Quantity != len(r.Items) {
			return fmt.Errorf("%w: quantity %d does not match %d items", ErrInvalidRequest, r.Quantity, len(r.Items))
		}
	}
	if n <= 0 {
		return fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidRequest)
	}
	if n > MaxBatchSize {
		return fmt.Errorf("%w: batch of %d exceeds the maximum of %d", ErrInvalidRequest, n, MaxBatchSize)
	}

	seen := make(map[string]int, len(r.Items))
	for i, item := range r.Items {
		if item == "" {
			return fmt.Errorf("%w: item %d is empty", ErrInvalidRequest, i)
		}
		if first, ok := seen[item]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateItem, item, first, i)
		}
		seen[item] = i
	}
	return nil
}

// CreateBatch builds the merkle tree over the batch's product identifiers,
// persists the batch and its products with their proofs, then commits the
// root to the ledger. A ledger failure leaves the batch persisted with status
// failed and is returned alongside the result so it can be resubmitted.
func (m *Manager) CreateBatch(ctx context.Context, req *CreateBatchRequest) (*CreateBatchResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	manufacturer, err := m.ledger.GetFromAddress()
	if err != nil {
		return nil, err
	}
	isManufacturer, err := m.ledger.HasRole(ctx, types.RoleManufacturer, manufacturer)
	if err != nil {
		return nil, fmt.Errorf("failed to check manufacturer role: %w", err)
	}
	if !isManufacturer {
		return nil, fmt.Errorf("%w: %s is not a registered manufacturer", ErrNotAuthorized, manufacturer.Hex())
	}

	now := m.now()
	batchCode := req.BatchCode
	if batchCode == "" {
		batchCode = util.GenerateBatchCode(req.ProductType, now)
	}
	existing, err := m.store.LoadBatch(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to look up batch %s: %w", batchCode, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrBatchExists, batchCode)
	}

	items := req.Items
	if len(items) == 0 {
		items = make([]string, req.Quantity)
		for i := range items {
			items[i] = util.GenerateProductIdentifier(req.ProductType, batchCode, i)
		}
	}

	tree, err := merkle.BuildMerkleTree(items)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree: %w", err)
	}

	batch := &types.Batch{
		ID:                  uuid.NewString(),
		BatchCode:           batchCode,
		ProductType:         req.ProductType,
		ProductionDate:      req.ProductionDate.UTC(),
		ExpiryDate:          req.ExpiryDate.UTC(),
		Quantity:            len(items),
		ManufacturerAddress: manufacturer,
		MerkleRoot:          tree.GetRoot(),
		LedgerStatus:        types.LedgerPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := m.store.SaveBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to save batch %s: %w", batchCode, err)
	}

	m.logger.Sugar().Infow("Batch persisted",
		"batchCode", batchCode,
		"items", len(items),
		"merkleRoot", batch.MerkleRoot.Hex(),
		"depth", tree.Depth(),
	)

	products, err := m.issueProofs(ctx, batch, tree, items)
	if err != nil {
		return nil, m.abandon(batch, err)
	}

	result := &CreateBatchResult{Batch: batch, Products: products}
	receipt, err := m.commit(ctx, batch)
	result.Receipt = receipt
	if err != nil {
		return result, fmt.Errorf("batch %s persisted but ledger commit failed: %w", batchCode, err)
	}
	return result, nil
}

// issueProofs generates every product's inclusion proof by index and
// persists the products
func (m *Manager) issueProofs(ctx context.Context, batch *types.Batch, tree *merkle.MerkleTree, items []string) ([]*types.Product, error) {
	products := make([]*types.Product, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.ProofWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proof, err := tree.GenerateProof(i)
			if err != nil {
				return fmt.Errorf("failed to generate proof for %s: %w", item, err)
			}
			p := &types.Product{
				ID:                uuid.NewString(),
				BatchCode:         batch.BatchCode,
				ProductIdentifier: item,
				Index:             i,
				VerifyURL:         util.BuildVerifyURL(m.cfg.BaseURL, item, batch.BatchCode),
				MerkleProof:       proof,
				CreatedAt:         batch.CreatedAt,
			}
			if err := m.store.SaveProduct(p); err != nil {
				return fmt.Errorf("failed to save product %s: %w", item, err)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// abandon marks a batch whose products could not all be persisted as failed.
// ResubmitBatch refuses such a batch, so its root never reaches the ledger.
func (m *Manager) abandon(batch *types.Batch, cause error) error {
	err := fmt.Errorf("%w: %s: %w", ErrIncompleteBatch, batch.BatchCode, cause)
	batch.LedgerStatus = types.LedgerFailed
	batch.LastLedgerError = err.Error()
	batch.UpdatedAt = m.now()
	m.logger.Sugar().Errorw("Batch abandoned before ledger commit",
		"batchCode", batch.BatchCode,
		"error", cause,
	)
	if saveErr := m.store.SaveBatch(batch); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	return err
}

// commit submits the batch root to the ledger and records the outcome on the
// stored batch
func (m *Manager) commit(ctx context.Context, batch *types.Batch) (*types.TxReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.LedgerTimeout)
	defer cancel()

	batch.LedgerAttempts++
	receipt, err := m.ledger.CreateBatch(ctx, batch)
	batch.UpdatedAt = m.now()
	if err != nil {
		batch.LedgerStatus = types.LedgerFailed
		batch.LastLedgerError = err.Error()
		m.logger.Sugar().Warnw("Ledger commit failed",
			"batchCode", batch.BatchCode,
			"attempt", batch.LedgerAttempts,
			"error", err,
		)
	} else {
		m.markConfirmed(batch, &receipt.TxHash)
		m.logger.Sugar().Infow("Batch committed to ledger",
			"batchCode", batch.BatchCode,
			"txHash", receipt.TxHash.Hex(),
			"blockNumber", receipt.BlockNumber,
		)
	}

	if saveErr := m.store.SaveBatch(batch); saveErr != nil {
		if err != nil {
			return nil, errors.Join(err, saveErr)
		}
		return receipt, fmt.Errorf("batch %s committed but status update failed: %w", batch.BatchCode, saveErr)
	}
	return receipt, err
}

func (m *Manager) markConfirmed(batch *types.Batch, txHash *common.Hash) {
	batch.LedgerStatus = types.LedgerConfirmed
	batch.LastLedgerError = ""
	if txHash != nil {
		h := *txHash
		batch.LedgerTxHash = &h
	}
	batch.UpdatedAt = m.now()
}

// ResubmitBatch retries the ledger commit of a pending or failed batch. If
// the ledger already holds the batch's root, the batch is marked confirmed
// without a new transaction. Confirmed batches are returned unchanged. A batch
// missing stored products is refused with ErrIncompleteBatch.
func (m *Manager) ResubmitBatch(ctx context.Context, batchCode string) (*types.Batch, error) {
	batch, err := m.store.LoadBatch(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchCode, err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchCode)
	}
	if batch.LedgerStatus == types.LedgerConfirmed {
		return batch, nil
	}

	products, err := m.store.ListProducts(batchCode)
	if err != nil {
		return batch, fmt.Errorf("failed to list products of %s: %w", batchCode, err)
	}
	if len(products) != batch.Quantity {
		return batch, fmt.Errorf("%w: %s has %d of %d products", ErrIncompleteBatch, batchCode, len(products), batch.Quantity)
	}

	onChain, err := m.ledger.GetBatchMerkleRoot(ctx, batchCode)
	if err != nil {
		return batch, fmt.Errorf("failed to read ledger root for %s: %w", batchCode, err)
	}

	switch {
	case onChain == batch.MerkleRoot:
		m.markConfirmed(batch, nil)
		m.logger.Sugar().Infow("Batch already committed on ledger", "batchCode", batchCode)
		if err := m.store.SaveBatch(batch); err != nil {
			return nil, fmt.Errorf("failed to save batch %s: %w", batchCode, err)
		}
		return batch, nil
	case onChain != (common.Hash{}):
		batch.LedgerStatus = types.LedgerFailed
		batch.LastLedgerError = ErrRootConflict.Error()
		batch.UpdatedAt = m.now()
		if err := m.store.SaveBatch(batch); err != nil {
			return nil, fmt.Errorf("failed to save batch %s: %w", batchCode, err)
		}
		return batch, fmt.Errorf("%w: %s has %s on chain, %s locally", ErrRootConflict, batchCode, onChain.Hex(), batch.MerkleRoot.Hex())
	}

	if _, err := m.commit(ctx, batch); err != nil {
		return batch, fmt.Errorf("resubmit of %s failed: %w", batchCode, err)
	}
	return batch, nil
}

type MovementRequest struct {
	BatchCode   string
	FromAddress string
	ToAddress   string
	Location    string
	Status      string
}

// RecordMovement records a custody hand-off on the ledger, then stores it.
// The batch must be confirmed and the signer must be a distributor or
// retailer.
func (m *Manager) RecordMovement(ctx context.Context, req *MovementRequest) (*types.Movement, error) {
	if req == nil || req.BatchCode == "" {
		return nil, fmt.Errorf("%w: batch code is required", ErrInvalidRequest)
	}
	from, err := util.NormalizeAddress(req.FromAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: from address: %v", ErrInvalidRequest, err)
	}
	to, err := util.NormalizeAddress(req.ToAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: to address: %v", ErrInvalidRequest, err)
	}
	status, err := types.ParseMovementStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	batch, err := m.store.LoadBatch(req.BatchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", req.BatchCode, err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, req.BatchCode)
	}
	if batch.LedgerStatus != types.LedgerConfirmed {
		return nil, fmt.Errorf("%w: %s is %s", ErrBatchNotConfirmed, req.BatchCode, batch.LedgerStatus)
	}

	sender, err := m.ledger.GetFromAddress()
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, role := range []types.UserRole{types.RoleDistributor, types.RoleRetailer} {
		ok, err := m.ledger.HasRole(ctx, role, sender)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s role: %w", role, err)
		}
		if ok {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s is not a registered distributor or retailer", ErrNotAuthorized, sender.Hex())
	}

	ledgerCtx, cancel := context.WithTimeout(ctx, m.cfg.LedgerTimeout)
	defer cancel()
	receipt, err := m.ledger.RecordMovement(ledgerCtx, req.BatchCode, from, to, req.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to record movement for %s: %w", req.BatchCode, err)
	}

	txHash := receipt.TxHash
	movement := &types.Movement{
		ID:           uuid.NewString(),
		BatchCode:    req.BatchCode,
		FromAddress:  from,
		ToAddress:    to,
		Location:     req.Location,
		Status:       status,
		LedgerTxHash: &txHash,
		Timestamp:    m.now(),
	}
	if err := m.store.SaveMovement(movement); err != nil {
		return nil, fmt.Errorf("movement recorded on ledger (%s) but not saved: %w", txHash.Hex(), err)
	}

	m.logger.Sugar().Infow("Movement recorded",
		"batchCode", req.BatchCode,
		"from", util.ShortAddress(from),
		"to", util.ShortAddress(to),
		"txHash", txHash.Hex(),
	)
	return movement, nil
}

type BatchDetails struct {
	Batch     *types.Batch      `json:"batch"`
	Products  []*types.Product  `json:"products"`
	Movements []*types.Movement `json:"movements"`
}

// GetBatchDetails returns a batch with its products and movements
func (m *Manager) GetBatchDetails(batchCode string) (*BatchDetails, error) {
	batch, err := m.store.LoadBatch(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchCode, err)
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchCode)
	}
	products, err := m.store.ListProducts(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list products of %s: %w", batchCode, err)
	}
	movements, err := m.store.ListMovements(batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements of %s: %w", batchCode, err)
	}
	return &BatchDetails{Batch: batch, Products: products, Movements: movements}, nil
}

// ListBatches returns all stored batches
func (m *Manager) ListBatches() ([]*types.Batch, error) {
	return m.store.ListBatches()
}
