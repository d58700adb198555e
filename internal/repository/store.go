package repository

import (
	"database/sql"

	"github.com/billaxle/paygate/internal/billing"
)

// Store bundles the per-table repositories into the billing.System
// collaborator interface consumed by the gateway.
type Store struct {
	*ConfigRepo
	*InvoiceRepo
	*CurrencyRepo
	*AuditRepo
}

var _ billing.System = (*Store)(nil)

// NewStore wires all repositories over one database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		ConfigRepo:   NewConfigRepo(db),
		InvoiceRepo:  NewInvoiceRepo(db),
		CurrencyRepo: NewCurrencyRepo(db),
		AuditRepo:    NewAuditRepo(db),
	}
}
