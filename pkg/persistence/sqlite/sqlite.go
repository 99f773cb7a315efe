package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
	"github.com/chaintrack-labs/chaintrack-go/pkg/persistence"
	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// SQLitePersistence stores batches, products and movements in relational
// tables, one row per record. Inclusion proofs are kept as their JSON wire
// form in products.merkle_proof. Times are stored in UTC.
type SQLitePersistence struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewSQLitePersistence opens (or creates) the database at dbPath and brings
// its schema up to date. ":memory:" gives a private in-memory database.
func NewSQLitePersistence(dbPath string, logger *zap.Logger) (*SQLitePersistence, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", dbPath, err)
	}
	// sqlite serializes writers anyway; one connection also keeps ":memory:"
	// databases from splitting per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("create table if not exists chaintrack_version (version int)"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating version table: %w", err)
	}

	for i, migrateFn := range migrations {
		applied, err := dbMigrate(db, i, migrateFn)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration %d failed: %w", i, err)
		}
		if applied {
			logger.Sugar().Infow("Applied sqlite migration", "version", i)
		}
	}

	version, err := dbGetVersion(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if version != len(migrations)-1 {
		_ = db.Close()
		return nil, fmt.Errorf("unsupported schema version: %d (expected: %d)", version, len(migrations)-1)
	}

	logger.Sugar().Infow("SQLite persistence initialized", "path", dbPath, "schema_version", version)

	return &SQLitePersistence{db: db, logger: logger}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func formatHashPtr(h *common.Hash) sql.NullString {
	if h == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: h.Hex(), Valid: true}
}

func parseHashPtr(s sql.NullString) *common.Hash {
	if !s.Valid {
		return nil
	}
	h := common.HexToHash(s.String)
	return &h
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

const batchColumns = `batch_code, id, product_type, production_date, expiry_date, quantity, manufacturer,
	merkle_root, ledger_status, ledger_tx_hash, ledger_attempts, last_ledger_error, created_at, updated_at`

func scanBatch(row scanner) (*types.Batch, error) {
	var (
		b                                    types.Batch
		production, expiry, created, updated string
		manufacturer, root, status           string
		txHash                               sql.NullString
	)
	err := row.Scan(&b.BatchCode, &b.ID, &b.ProductType, &production, &expiry, &b.Quantity, &manufacturer,
		&root, &status, &txHash, &b.LedgerAttempts, &b.LastLedgerError, &created, &updated)
	if err != nil {
		return nil, err
	}

	times := []struct {
		src string
		dst *time.Time
	}{
		{production, &b.ProductionDate},
		{expiry, &b.ExpiryDate},
		{created, &b.CreatedAt},
		{updated, &b.UpdatedAt},
	}
	for _, tm := range times {
		if *tm.dst, err = parseTime(tm.src); err != nil {
			return nil, fmt.Errorf("invalid time in batch %s: %w", b.BatchCode, err)
		}
	}

	b.ManufacturerAddress = common.HexToAddress(manufacturer)
	b.MerkleRoot = common.HexToHash(root)
	b.LedgerStatus = types.LedgerStatus(status)
	b.LedgerTxHash = parseHashPtr(txHash)
	return &b, nil
}

// SaveBatch upserts a batch row
func (s *SQLitePersistence) SaveBatch(batch *types.Batch) error {
	if err := persistence.ValidateBatch(batch); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return persistence.ErrClosed
	}

	_, err := s.db.Exec(`INSERT INTO batches (`+batchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(batch_code) DO UPDATE SET
			id = excluded.id,
			product_type = excluded.product_type,
			production_date = excluded.production_date,
			expiry_date = excluded.expiry_date,
			quantity = excluded.quantity,
			manufacturer = excluded.manufacturer,
			merkle_root = excluded.merkle_root,
			ledger_status = excluded.ledger_status,
			ledger_tx_hash = excluded.ledger_tx_hash,
			ledger_attempts = excluded.ledger_attempts,
			last_ledger_error = excluded.last_ledger_error,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		batch.BatchCode, batch.ID, batch.ProductType,
		formatTime(batch.ProductionDate), formatTime(batch.ExpiryDate),
		batch.Quantity, batch.ManufacturerAddress.Hex(), batch.MerkleRoot.Hex(),
		string(batch.LedgerStatus), formatHashPtr(batch.LedgerTxHash),
		batch.LedgerAttempts, batch.LastLedgerError,
		formatTime(batch.CreatedAt), formatTime(batch.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save Batch: %w", err)
	}
	return nil
}

// LoadBatch retrieves a batch
func (s *SQLitePersistence) LoadBatch(batchCode string) (*types.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.ErrClosed
	}

	row := s.db.QueryRow("SELECT "+batchColumns+" FROM batches WHERE batch_code = ?", batchCode)
	batch, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Batch: %w", err)
	}
	return batch, nil
}

// ListBatches returns all batches ordered by creation time
func (s *SQLitePersistence) ListBatches() ([]*types.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.ErrClosed
	}

	rows, err := s.db.Query("SELECT " + batchColumns + " FROM batches")
	if err != nil {
		return nil, fmt.Errorf("failed to list Batches: %w", err)
	}
	defer rows.Close()

	batches := make([]*types.Batch, 0)
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to scan Batch row, skipping", "error", err)
			continue
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list Batches: %w", err)
	}

	persistence.SortBatches(batches)
	return batches, nil
}

const productColumns = `batch_code, product_identifier, id, leaf_index, verify_url, merkle_proof, created_at`

func scanProduct(row scanner) (*types.Product, error) {
	var (
		p       types.Product
		proof   sql.NullString
		created string
	)
	if err := row.Scan(&p.BatchCode, &p.ProductIdentifier, &p.ID, &p.Index, &p.VerifyURL, &proof, &created); err != nil {
		return nil, err
	}

	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("invalid created_at for product %s: %w", p.ProductIdentifier, err)
	}
	if proof.Valid {
		if p.MerkleProof, err = merkle.ParseInclusionProof([]byte(proof.String)); err != nil {
			return nil, fmt.Errorf("stored proof for product %s: %w", p.ProductIdentifier, err)
		}
	}
	return &p, nil
}

// SaveProduct upserts a product row
func (s *SQLitePersistence) SaveProduct(product *types.Product) error {
	if err := persistence.ValidateProduct(product); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return persistence.ErrClosed
	}

	var proof sql.NullString
	if product.MerkleProof != nil {
		data, err := json.Marshal(product.MerkleProof)
		if err != nil {
			return fmt.Errorf("failed to marshal merkle proof: %w", err)
		}
		proof = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(batch_code, product_identifier) DO UPDATE SET
			id = excluded.id,
			leaf_index = excluded.leaf_index,
			verify_url = excluded.verify_url,
			merkle_proof = excluded.merkle_proof,
			created_at = excluded.created_at`,
		product.BatchCode, product.ProductIdentifier, product.ID, product.Index,
		product.VerifyURL, proof, formatTime(product.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save Product: %w", err)
	}
	return nil
}

// LoadProduct retrieves a product
func (s *SQLitePersistence) LoadProduct(batchCode, productIdentifier string) (*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.ErrClosed
	}

	row := s.db.QueryRow("SELECT "+productColumns+" FROM products WHERE batch_code = ? AND product_identifier = ?",
		batchCode, productIdentifier)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Product: %w", err)
	}
	return product, nil
}

// ListProducts returns the products of a batch ordered by leaf index
func (s *SQLitePersistence) ListProducts(batchCode string) ([]*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.ErrClosed
	}

	rows, err := s.db.Query("SELECT "+productColumns+" FROM products WHERE batch_code = ? ORDER BY leaf_index", batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list Products: %w", err)
	}
	defer rows.Close()

	products := make([]*types.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to scan Product row, skipping", "batch_code", batchCode, "error", err)
			continue
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list Products: %w", err)
	}
	return products, nil
}

const movementColumns = `id, batch_code, from_address, to_address, location, status, ledger_tx_hash, timestamp`

func scanMovement(row scanner) (*types.Movement, error) {
	var (
		m                types.Movement
		from, to, status string
		txHash           sql.NullString
		ts               string
	)
	if err := row.Scan(&m.ID, &m.BatchCode, &from, &to, &m.Location, &status, &txHash, &ts); err != nil {
		return nil, err
	}

	var err error
	if m.Timestamp, err = parseTime(ts); err != nil {
		return nil, fmt.Errorf("invalid timestamp for movement %s: %w", m.ID, err)
	}
	m.FromAddress = common.HexToAddress(from)
	m.ToAddress = common.HexToAddress(to)
	m.Status = types.MovementStatus(status)
	m.LedgerTxHash = parseHashPtr(txHash)
	return &m, nil
}

// SaveMovement upserts a movement row
func (s *SQLitePersistence) SaveMovement(movement *types.Movement) error {
	if err := persistence.ValidateMovement(movement); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return persistence.ErrClosed
	}

	_, err := s.db.Exec(`INSERT INTO movements (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			batch_code = excluded.batch_code,
			from_address = excluded.from_address,
			to_address = excluded.to_address,
			location = excluded.location,
			status = excluded.status,
			ledger_tx_hash = excluded.ledger_tx_hash,
			timestamp = excluded.timestamp`,
		movement.ID, movement.BatchCode, movement.FromAddress.Hex(), movement.ToAddress.Hex(),
		movement.Location, string(movement.Status), formatHashPtr(movement.LedgerTxHash),
		formatTime(movement.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to save Movement: %w", err)
	}
	return nil
}

// ListMovements returns the movements of a batch ordered by timestamp
func (s *SQLitePersistence) ListMovements(batchCode string) ([]*types.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.ErrClosed
	}

	rows, err := s.db.Query("SELECT "+movementColumns+" FROM movements WHERE batch_code = ?", batchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list Movements: %w", err)
	}
	defer rows.Close()

	movements := make([]*types.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to scan Movement row, skipping", "batch_code", batchCode, "error", err)
			continue
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list Movements: %w", err)
	}

	persistence.SortMovements(movements)
	return movements, nil
}

// Close shuts down the persistence layer
func (s *SQLitePersistence) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite database: %w", err)
	}

	s.logger.Sugar().Info("SQLite persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (s *SQLitePersistence) HealthCheck() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return persistence.ErrClosed
	}

	version, err := dbGetVersion(s.db)
	if err != nil {
		return err
	}
	if version < 0 {
		return fmt.Errorf("schema version not found - database may be corrupted")
	}
	return nil
}
