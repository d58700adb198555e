package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) the billing SQLite database at the given path
// and ensures all required tables exist. Pass ":memory:" for an in-memory
// database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tblgatewayconfig (
			gateway TEXT NOT NULL,
			setting TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (gateway, setting)
		)`,

		`CREATE TABLE IF NOT EXISTS tblcurrencies (
			code TEXT PRIMARY KEY,
			rate REAL NOT NULL,
			decimals INTEGER NOT NULL DEFAULT 2
		)`,

		`CREATE TABLE IF NOT EXISTS tblinvoices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			userid INTEGER NOT NULL,
			invoicenum TEXT NOT NULL,
			currency TEXT NOT NULL,
			total TEXT NOT NULL,
			balance TEXT NOT NULL,
			status TEXT NOT NULL,
			paymentmethod TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_paymentmethod ON tblinvoices(paymentmethod)`,

		// The UNIQUE transid column is the duplicate-transaction guard:
		// concurrent inserts for one reference serialize here.
		`CREATE TABLE IF NOT EXISTS tblpayments (
			id TEXT PRIMARY KEY,
			invoiceid INTEGER NOT NULL,
			transid TEXT UNIQUE NOT NULL,
			amount TEXT NOT NULL,
			fees TEXT NOT NULL,
			gateway TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (invoiceid) REFERENCES tblinvoices(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_invoice ON tblpayments(invoiceid)`,

		`CREATE TABLE IF NOT EXISTS tblgatewaylog (
			id TEXT PRIMARY KEY,
			gateway TEXT NOT NULL,
			data TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gatewaylog_gateway ON tblgatewaylog(gateway)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
