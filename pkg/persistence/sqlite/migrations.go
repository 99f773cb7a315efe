package sqlite

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; migration i brings the schema to version i.
var migrations = []func(tx *sql.Tx) error{
	// v0: core tables
	func(tx *sql.Tx) error {
		_, err := tx.Exec(`create table batches (
			batch_code TEXT PRIMARY KEY,
			id TEXT,
			product_type TEXT,
			production_date TEXT,
			expiry_date TEXT,
			quantity INTEGER,
			manufacturer TEXT,
			merkle_root TEXT,
			ledger_status TEXT,
			ledger_tx_hash TEXT,
			ledger_attempts INTEGER,
			last_ledger_error TEXT,
			created_at TEXT,
			updated_at TEXT
		)`)
		if err != nil {
			return fmt.Errorf("error creating 'batches' table: %w", err)
		}

		_, err = tx.Exec(`create table products (
			batch_code TEXT,
			product_identifier TEXT,
			id TEXT,
			leaf_index INTEGER,
			verify_url TEXT,
			merkle_proof TEXT,
			created_at TEXT,
			primary key (batch_code, product_identifier)
		)`)
		if err != nil {
			return fmt.Errorf("error creating 'products' table: %w", err)
		}

		_, err = tx.Exec(`create table movements (
			id TEXT PRIMARY KEY,
			batch_code TEXT,
			from_address TEXT,
			to_address TEXT,
			location TEXT,
			status TEXT,
			ledger_tx_hash TEXT,
			timestamp TEXT
		)`)
		if err != nil {
			return fmt.Errorf("error creating 'movements' table: %w", err)
		}
		return nil
	},

	// v1: lookup indexes
	func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE INDEX idx_movements_batch_code ON movements (batch_code);
			CREATE INDEX idx_batches_ledger_status ON batches (ledger_status);
		`)
		if err != nil {
			return fmt.Errorf("error creating indexes: %w", err)
		}
		return nil
	},
}

func dbGetVersion(db *sql.DB) (int, error) {
	row := db.QueryRow("SELECT version FROM chaintrack_version ORDER BY version DESC LIMIT 1")
	databaseVersion := -1
	if err := row.Scan(&databaseVersion); err != nil && err != sql.ErrNoRows {
		return -1, fmt.Errorf("error checking database version: %w", err)
	}
	return databaseVersion, nil
}

func dbMigrate(db *sql.DB, migrationIndex int, migrateFn func(tx *sql.Tx) error) (bool, error) {
	version, err := dbGetVersion(db)
	if err != nil {
		return false, err
	}

	// Skip migration if the database is already at the target version.
	if migrationIndex <= version {
		return false, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	if err := migrateFn(tx); err != nil {
		_ = tx.Rollback()
		return false, err
	}

	if _, err := tx.Exec("insert into chaintrack_version (version) values (?)", migrationIndex); err != nil {
		_ = tx.Rollback()
		return false, err
	}

	return true, tx.Commit()
}
