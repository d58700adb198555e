package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one gateway log line as stored by the billing system.
type AuditEntry struct {
	ID      string
	Gateway string
	Message string
	Outcome string
}

// AuditRepo appends to the billing system's gateway log.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// AppendAuditLog records one gateway log entry with its outcome.
func (r *AuditRepo) AppendAuditLog(ctx context.Context, module, message, outcome string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tblgatewaylog (id, gateway, data, result, created_at)
		 VALUES (?,?,?,?,?)`,
		uuid.NewString(), module, message, outcome,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append gateway log: %w", err)
	}
	return nil
}

// ListByModule returns log entries for a module, oldest first.
func (r *AuditRepo) ListByModule(ctx context.Context, module string) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, gateway, data, result FROM tblgatewaylog
		 WHERE gateway = ? ORDER BY created_at, rowid`,
		module,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Gateway, &e.Message, &e.Outcome); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
