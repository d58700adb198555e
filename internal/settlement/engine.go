// Package settlement applies verified successful transactions to invoices
// exactly once.
package settlement

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/billing"
	"github.com/billaxle/paygate/internal/domain"
	"github.com/billaxle/paygate/internal/paystack"
)

const trackerTimeout = 5 * time.Second

// TransactionVerifier confirms a transaction's outcome with the processor.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, secretKey, reference string) (*paystack.Transaction, error)
}

// Tracker receives best-effort notifications of successful charges.
type Tracker interface {
	LogChargeSuccess(ctx context.Context, reference, publicKey string) error
}

// Applied describes a payment that was credited to an invoice.
type Applied struct {
	InvoiceID int
	Reference string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Currency  string
}

// Engine verifies transactions and settles them against invoices through
// the billing system.
type Engine struct {
	verifier TransactionVerifier
	billing  billing.System
	tracker  Tracker
	module   string
}

// NewEngine wires a settlement engine for one gateway module.
func NewEngine(verifier TransactionVerifier, bs billing.System, tracker Tracker, module string) *Engine {
	return &Engine{
		verifier: verifier,
		billing:  bs,
		tracker:  tracker,
		module:   module,
	}
}

// ProcessReference runs the full verify-then-settle flow shared by the
// browser-return and webhook paths. Every attempt is audit-logged with
// reference, invoice token and outcome before the error (if any) is
// returned to the transport layer.
func (e *Engine) ProcessReference(ctx context.Context, reference, invoiceToken string, cfg domain.GatewayConfig) (Applied, error) {
	tx, err := e.verifier.VerifyTransaction(ctx, cfg.SecretKey(), reference)
	if err != nil {
		e.audit(ctx, cfg,
			fmt.Sprintf("Transaction ref: %s\nInvoice ID: %s\nStatus: failed\nReason: %v", reference, invoiceToken, err),
			"Unsuccessful")
		return Applied{}, err
	}

	if status := tx.Outcome(); status != domain.StatusSucceeded {
		e.audit(ctx, cfg,
			fmt.Sprintf("Transaction ref: %s\nInvoice ID: %s\nStatus: %s", reference, invoiceToken, status),
			"Unsuccessful")
		return Applied{}, fmt.Errorf("transaction %s status %s: %w", reference, status, domain.ErrTransactionNotSuccessful)
	}

	applied, err := e.Settle(ctx, reference, invoiceToken, tx, cfg)
	if err != nil {
		e.audit(ctx, cfg,
			fmt.Sprintf("Transaction ref: %s\nInvoice ID: %s\nStatus: failed\nReason: %v", reference, invoiceToken, err),
			"Unsuccessful")
		return Applied{}, err
	}

	e.audit(ctx, cfg,
		fmt.Sprintf("Transaction ref: %s\nInvoice ID: %d\nStatus: succeeded", reference, applied.InvoiceID),
		"Successful")
	return applied, nil
}

// Settle applies one verified successful transaction to an invoice. The
// duplicate check runs before currency conversion so duplicates never cost
// a rate lookup; RecordPayment's insert-if-absent still closes the race
// between the two notification channels.
func (e *Engine) Settle(ctx context.Context, reference, invoiceToken string, tx *paystack.Transaction, cfg domain.GatewayConfig) (Applied, error) {
	inv, err := e.billing.ResolveInvoice(ctx, invoiceToken, e.module)
	if err != nil {
		return Applied{}, err
	}

	if err := e.billing.CheckDuplicateTransaction(ctx, reference); err != nil {
		return Applied{}, err
	}

	amount := tx.SettlementAmount()
	fee := tx.SettlementFees()

	if cfg.ConvertTo != "" {
		amount, fee, err = e.convert(ctx, amount, fee, cfg.ConvertTo, inv.Currency)
		if err != nil {
			return Applied{}, err
		}
	}

	payment := billing.Payment{
		InvoiceID: inv.ID,
		Reference: reference,
		Amount:    amount,
		Fee:       fee,
		Gateway:   e.module,
	}
	if err := e.billing.RecordPayment(ctx, payment); err != nil {
		return Applied{}, err
	}

	e.notifyTracker(reference, cfg.PublicKey())

	return Applied{
		InvoiceID: inv.ID,
		Reference: reference,
		Amount:    amount,
		Fee:       fee,
		Currency:  inv.Currency,
	}, nil
}

// convert moves amount and fee from the processor's settlement currency to
// the invoice currency and rounds both to the currency's display precision.
func (e *Engine) convert(ctx context.Context, amount, fee decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	converted, err := e.billing.ConvertCurrency(ctx, amount, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	convertedFee, err := e.billing.ConvertCurrency(ctx, fee, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	decimals, err := e.billing.CurrencyDecimals(ctx, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return converted.Round(decimals), convertedFee.Round(decimals), nil
}

// notifyTracker delivers the charge notification on a detached goroutine
// with its own deadline so tracker latency or failure never touches the
// settlement outcome.
func (e *Engine) notifyTracker(reference, publicKey string) {
	if e.tracker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackerTimeout)
		defer cancel()
		if err := e.tracker.LogChargeSuccess(ctx, reference, publicKey); err != nil {
			log.Printf("[settlement] tracker notification for %s failed: %v", reference, err)
		}
	}()
}

func (e *Engine) audit(ctx context.Context, cfg domain.GatewayConfig, message, outcome string) {
	if !cfg.GatewayLogs {
		return
	}
	if err := e.billing.AppendAuditLog(ctx, e.module, message, outcome); err != nil {
		log.Printf("[settlement] audit log append failed: %v", err)
	}
}
