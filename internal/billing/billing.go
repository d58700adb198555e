// Package billing defines the narrow interface through which the gateway
// talks to the billing system. Invoice state is owned by the billing side;
// the gateway only resolves invoices, records payments and appends audit
// entries through it.
package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/domain"
)

// Invoice is the billing system's view of an invoice as exposed to the
// gateway module.
type Invoice struct {
	ID       int
	Number   string
	UserID   int
	Currency string
	Total    decimal.Decimal
	Balance  decimal.Decimal
	Status   string
}

// Payment is one applied payment entry.
type Payment struct {
	InvoiceID int
	Reference string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Gateway   string
}

// System is the collaborator interface onto the billing system.
//
// RecordPayment must behave as a serializable insert-if-absent on the
// transaction reference: concurrent deliveries of the same reference result
// in exactly one applied payment and domain.ErrDuplicateTransaction for the
// rest.
type System interface {
	// GatewayConfig loads the configured variables for a gateway module.
	GatewayConfig(ctx context.Context, module string) (domain.GatewayConfig, error)

	// ResolveInvoice maps a gateway invoice token to an invoice owned by
	// the given module. Misses return domain.ErrInvalidInvoice.
	ResolveInvoice(ctx context.Context, token, module string) (Invoice, error)

	// CheckDuplicateTransaction returns domain.ErrDuplicateTransaction if
	// the reference has already been applied to any invoice.
	CheckDuplicateTransaction(ctx context.Context, reference string) error

	// RecordPayment atomically credits the invoice with one payment entry.
	RecordPayment(ctx context.Context, p Payment) error

	// ConvertCurrency converts an amount between two billing currencies.
	ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)

	// CurrencyDecimals returns the display precision for a currency code.
	CurrencyDecimals(ctx context.Context, code string) (int32, error)

	// AppendAuditLog records one gateway log entry with its outcome.
	AppendAuditLog(ctx context.Context, module, message, outcome string) error
}
