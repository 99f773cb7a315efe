package types

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
)

// UserRole is the role a wallet holds in the supply chain.
type UserRole string

const (
	RoleManufacturer UserRole = "manufacturer"
	RoleDistributor  UserRole = "distributor"
	RoleRetailer     UserRole = "retailer"
	RoleConsumer     UserRole = "consumer"
)

var SupportedRoles = []UserRole{RoleManufacturer, RoleDistributor, RoleRetailer, RoleConsumer}

// ParseUserRole parses a role name.
func ParseUserRole(s string) (UserRole, error) {
	for _, r := range SupportedRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unsupported user role %q", s)
}

// IsLedgerRole reports whether the role is registered on chain. Consumers
// only read.
func (r UserRole) IsLedgerRole() bool {
	return r == RoleManufacturer || r == RoleDistributor || r == RoleRetailer
}

// MovementStatus tracks a batch hand-off between two parties.
type MovementStatus string

const (
	MovementCreated   MovementStatus = "created"
	MovementInTransit MovementStatus = "in_transit"
	MovementReceived  MovementStatus = "received"
)

// ParseMovementStatus parses a movement status, defaulting to in_transit when
// empty.
func ParseMovementStatus(s string) (MovementStatus, error) {
	switch MovementStatus(s) {
	case "":
		return MovementInTransit, nil
	case MovementCreated, MovementInTransit, MovementReceived:
		return MovementStatus(s), nil
	}
	return "", fmt.Errorf("unsupported movement status %q", s)
}

// LedgerStatus tracks whether a batch root has been committed to the ledger.
type LedgerStatus string

const (
	// LedgerPending means the batch is persisted locally but the ledger has
	// not confirmed the root yet.
	LedgerPending   LedgerStatus = "pending"
	LedgerConfirmed LedgerStatus = "confirmed"
	LedgerFailed    LedgerStatus = "failed"
)

// Batch is a production batch committed to the ledger by its merkle root.
type Batch struct {
	ID                  string         `json:"id"`
	BatchCode           string         `json:"batchCode"`
	ProductType         string         `json:"productType"`
	ProductionDate      time.Time      `json:"productionDate"`
	ExpiryDate          time.Time      `json:"expiryDate"`
	Quantity            int            `json:"quantity"`
	ManufacturerAddress common.Address `json:"manufacturerAddress"`
	MerkleRoot          common.Hash    `json:"merkleRoot"`
	LedgerStatus        LedgerStatus   `json:"ledgerStatus"`
	LedgerTxHash        *common.Hash   `json:"ledgerTxHash,omitempty"`
	LedgerAttempts      int            `json:"ledgerAttempts"`
	LastLedgerError     string         `json:"lastLedgerError,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// Copy returns a deep copy of the batch.
func (b *Batch) Copy() *Batch {
	if b == nil {
		return nil
	}
	out := *b
	if b.LedgerTxHash != nil {
		h := *b.LedgerTxHash
		out.LedgerTxHash = &h
	}
	return &out
}

// Product is a single item of a batch together with its inclusion proof.
type Product struct {
	ID                string                 `json:"id"`
	BatchCode         string                 `json:"batchCode"`
	ProductIdentifier string                 `json:"productIdentifier"`
	Index             int                    `json:"index"`
	VerifyURL         string                 `json:"verifyUrl"`
	MerkleProof       *merkle.InclusionProof `json:"merkleProof"`
	CreatedAt         time.Time              `json:"createdAt"`
}

// Copy returns a deep copy of the product.
func (p *Product) Copy() *Product {
	if p == nil {
		return nil
	}
	out := *p
	out.MerkleProof = p.MerkleProof.Copy()
	return &out
}

// Movement records custody of a batch passing between two wallets.
type Movement struct {
	ID           string         `json:"id"`
	BatchCode    string         `json:"batchCode"`
	FromAddress  common.Address `json:"fromAddress"`
	ToAddress    common.Address `json:"toAddress"`
	Location     string         `json:"location"`
	Status       MovementStatus `json:"status"`
	LedgerTxHash *common.Hash   `json:"ledgerTxHash,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Copy returns a deep copy of the movement.
func (m *Movement) Copy() *Movement {
	if m == nil {
		return nil
	}
	out := *m
	if m.LedgerTxHash != nil {
		h := *m.LedgerTxHash
		out.LedgerTxHash = &h
	}
	return &out
}

// LedgerBatch is the batch record as stored by the supply chain contract.
type LedgerBatch struct {
	BatchCode      string
	ProductType    string
	ProductionDate time.Time
	ExpiryDate     time.Time
	Manufacturer   common.Address
	MerkleRoot     common.Hash
	CreatedAt      time.Time
	Exists         bool
}

// LedgerMovement is a movement as stored by the supply chain contract.
type LedgerMovement struct {
	BatchCode string
	From      common.Address
	To        common.Address
	Location  string
	Timestamp time.Time
}

// TxReceipt is the outcome of a mined ledger write.
type TxReceipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}
