package contractCaller

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// InMemoryLedger is an in-process stand-in for the supply chain contract. It
// applies the contract's rules: only manufacturers create batches, batch codes
// are unique, only distributors and retailers record movements, and proofs
// are checked against the committed root with the sorted-pair rule.
type InMemoryLedger struct {
	mu sync.Mutex

	sender    common.Address
	readOnly  bool
	roles     map[types.UserRole]map[common.Address]bool
	batches   map[string]*types.LedgerBatch
	movements map[string][]*types.LedgerMovement
	block     uint64
	now       func() time.Time

	unavailable   bool
	failNextWrite int
	failNextReads int
}

// NewInMemoryLedger returns a ledger whose writes are sent from sender
func NewInMemoryLedger(sender common.Address) *InMemoryLedger {
	return &InMemoryLedger{
		sender:    sender,
		roles:     make(map[types.UserRole]map[common.Address]bool),
		batches:   make(map[string]*types.LedgerBatch),
		movements: make(map[string][]*types.LedgerMovement),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewReadOnlyInMemoryLedger returns a ledger that rejects every write with
// ErrSignerRequired
func NewReadOnlyInMemoryLedger() *InMemoryLedger {
	l := NewInMemoryLedger(common.Address{})
	l.readOnly = true
	return l
}

// SetUnavailable makes every call fail with ErrLedgerUnavailable until reset
func (l *InMemoryLedger) SetUnavailable(unavailable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unavailable = unavailable
}

// FailNextWrites makes the next n writes fail with ErrLedgerUnavailable
func (l *InMemoryLedger) FailNextWrites(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNextWrite = n
}

// FailNextReads makes the next n views fail with ErrLedgerUnavailable
func (l *InMemoryLedger) FailNextReads(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNextReads = n
}

// SetClock overrides the block timestamp source
func (l *InMemoryLedger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Grant assigns a role without a transaction, for seeding
func (l *InMemoryLedger) Grant(role types.UserRole, addr common.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.grant(role, addr)
}

func (l *InMemoryLedger) grant(role types.UserRole, addr common.Address) {
	if l.roles[role] == nil {
		l.roles[role] = make(map[common.Address]bool)
	}
	l.roles[role][addr] = true
}

func (l *InMemoryLedger) hasRole(role types.UserRole, addr common.Address) bool {
	return l.roles[role][addr]
}

// beginWrite must be called with the lock held
func (l *InMemoryLedger) beginWrite(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.readOnly {
		return ErrSignerRequired
	}
	if l.unavailable {
		return fmt.Errorf("%w: in-memory ledger offline", ErrLedgerUnavailable)
	}
	if l.failNextWrite > 0 {
		l.failNextWrite--
		return fmt.Errorf("%w: injected write failure", ErrLedgerUnavailable)
	}
	return nil
}

// beginRead must be called with the write lock held because it consumes
// injected failures
func (l *InMemoryLedger) beginRead(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.unavailable {
		return fmt.Errorf("%w: in-memory ledger offline", ErrLedgerUnavailable)
	}
	if l.failNextReads > 0 {
		l.failNextReads--
		return fmt.Errorf("%w: injected read failure", ErrLedgerUnavailable)
	}
	return nil
}

func (l *InMemoryLedger) revert(reason string) error {
	return fmt.Errorf("%w: %s", ErrTransactionReverted, reason)
}

// mine produces a receipt with a deterministic transaction hash
func (l *InMemoryLedger) mine(operation string) *types.TxReceipt {
	l.block++
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], l.block)
	return &types.TxReceipt{
		TxHash:      crypto.Keccak256Hash([]byte(operation), n[:]),
		BlockNumber: l.block,
		GasUsed:     21000,
	}
}

func (l *InMemoryLedger) CreateBatch(ctx context.Context, batch *types.Batch) (*types.TxReceipt, error) {
	if batch == nil {
		return nil, fmt.Errorf("batch cannot be nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginWrite(ctx); err != nil {
		return nil, err
	}
	if !l.hasRole(types.RoleManufacturer, l.sender) {
		return nil, l.revert("Only manufacturers can create batches")
	}
	if _, exists := l.batches[batch.BatchCode]; exists {
		return nil, l.revert("Batch code already exists")
	}

	l.batches[batch.BatchCode] = &types.LedgerBatch{
		BatchCode:      batch.BatchCode,
		ProductType:    batch.ProductType,
		ProductionDate: time.Unix(batch.ProductionDate.Unix(), 0).UTC(),
		ExpiryDate:     time.Unix(batch.ExpiryDate.Unix(), 0).UTC(),
		Manufacturer:   l.sender,
		MerkleRoot:     batch.MerkleRoot,
		CreatedAt:      time.Unix(l.now().Unix(), 0).UTC(),
		Exists:         true,
	}
	return l.mine("createBatch:" + batch.BatchCode), nil
}

func (l *InMemoryLedger) RecordMovement(ctx context.Context, batchCode string, from common.Address, to common.Address, location string) (*types.TxReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginWrite(ctx); err != nil {
		return nil, err
	}
	if !l.hasRole(types.RoleDistributor, l.sender) && !l.hasRole(types.RoleRetailer, l.sender) {
		return nil, l.revert("Only distributors or retailers can record movements")
	}
	if _, exists := l.batches[batchCode]; !exists {
		return nil, l.revert("Batch does not exist")
	}

	l.movements[batchCode] = append(l.movements[batchCode], &types.LedgerMovement{
		BatchCode: batchCode,
		From:      from,
		To:        to,
		Location:  location,
		Timestamp: time.Unix(l.now().Unix(), 0).UTC(),
	})
	return l.mine("recordMovement:" + batchCode), nil
}

func (l *InMemoryLedger) RegisterRole(ctx context.Context, role types.UserRole, addr common.Address) (*types.TxReceipt, error) {
	if !role.IsLedgerRole() {
		return nil, fmt.Errorf("role %q cannot be registered on the ledger", role)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginWrite(ctx); err != nil {
		return nil, err
	}
	l.grant(role, addr)
	return l.mine("register:" + string(role) + ":" + addr.Hex()), nil
}

func (l *InMemoryLedger) GetBatch(ctx context.Context, batchCode string) (*types.LedgerBatch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginRead(ctx); err != nil {
		return nil, err
	}
	b, ok := l.batches[batchCode]
	if !ok {
		return &types.LedgerBatch{}, nil
	}
	out := *b
	return &out, nil
}

func (l *InMemoryLedger) GetBatchMerkleRoot(ctx context.Context, batchCode string) (common.Hash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginRead(ctx); err != nil {
		return common.Hash{}, err
	}
	b, ok := l.batches[batchCode]
	if !ok {
		return common.Hash{}, nil
	}
	return b.MerkleRoot, nil
}

func (l *InMemoryLedger) VerifyMerkleProof(ctx context.Context, batchCode string, proof *merkle.InclusionProof) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("proof cannot be nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginRead(ctx); err != nil {
		return false, err
	}
	b, ok := l.batches[batchCode]
	if !ok {
		return false, nil
	}
	return merkle.ComputeRoot(proof.Leaf, proof.Proof) == b.MerkleRoot, nil
}

func (l *InMemoryLedger) GetMovements(ctx context.Context, batchCode string) ([]*types.LedgerMovement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginRead(ctx); err != nil {
		return nil, err
	}
	out := make([]*types.LedgerMovement, 0, len(l.movements[batchCode]))
	for _, m := range l.movements[batchCode] {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (l *InMemoryLedger) HasRole(ctx context.Context, role types.UserRole, addr common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.beginRead(ctx); err != nil {
		return false, err
	}
	switch role {
	case types.RoleConsumer:
		return true, nil
	case types.RoleManufacturer, types.RoleDistributor, types.RoleRetailer:
		return l.hasRole(role, addr), nil
	default:
		return false, fmt.Errorf("unsupported role %q", role)
	}
}

func (l *InMemoryLedger) GetFromAddress() (common.Address, error) {
	if l.readOnly {
		return common.Address{}, ErrSignerRequired
	}
	return l.sender, nil
}

var _ IContractCaller = (*InMemoryLedger)(nil)
