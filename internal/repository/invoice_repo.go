package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/billing"
	"github.com/billaxle/paygate/internal/domain"
)

type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// ResolveInvoice maps a gateway invoice token to an invoice owned by the
// given module. Tokens are the numeric invoice ID carried through the
// gateway round trip.
func (r *InvoiceRepo) ResolveInvoice(ctx context.Context, token, module string) (billing.Invoice, error) {
	id, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return billing.Invoice{}, fmt.Errorf("invoice token %q: %w", token, domain.ErrInvalidInvoice)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, userid, invoicenum, currency, total, balance, status
		 FROM tblinvoices WHERE id = ? AND paymentmethod = ?`,
		id, module,
	)

	var inv billing.Invoice
	var total, balance string
	err = row.Scan(&inv.ID, &inv.UserID, &inv.Number, &inv.Currency, &total, &balance, &inv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return billing.Invoice{}, fmt.Errorf("invoice %d: %w", id, domain.ErrInvalidInvoice)
	}
	if err != nil {
		return billing.Invoice{}, fmt.Errorf("resolve invoice %d: %w", id, err)
	}

	if inv.Total, err = decimal.NewFromString(total); err != nil {
		return billing.Invoice{}, fmt.Errorf("invoice %d total: %w", id, err)
	}
	if inv.Balance, err = decimal.NewFromString(balance); err != nil {
		return billing.Invoice{}, fmt.Errorf("invoice %d balance: %w", id, err)
	}

	return inv, nil
}

// CheckDuplicateTransaction reports whether a reference has already been
// applied. The insert in RecordPayment still enforces the constraint for
// races between the two notification channels.
func (r *InvoiceRepo) CheckDuplicateTransaction(ctx context.Context, reference string) error {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tblpayments WHERE transid = ?", reference,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check duplicate %s: %w", reference, err)
	}
	if count > 0 {
		return fmt.Errorf("transaction %s: %w", reference, domain.ErrDuplicateTransaction)
	}
	return nil
}

// RecordPayment credits the invoice with one payment entry and adjusts its
// balance in a single transaction. The UNIQUE transid constraint turns a
// concurrent duplicate into domain.ErrDuplicateTransaction.
func (r *InvoiceRepo) RecordPayment(ctx context.Context, p billing.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var balanceStr string
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM tblinvoices WHERE id = ?", p.InvoiceID,
	).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("invoice %d: %w", p.InvoiceID, domain.ErrInvalidInvoice)
	}
	if err != nil {
		return fmt.Errorf("load invoice %d: %w", p.InvoiceID, err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("invoice %d balance: %w", p.InvoiceID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tblpayments (id, invoiceid, transid, amount, fees, gateway, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		uuid.NewString(), p.InvoiceID, p.Reference,
		p.Amount.String(), p.Fee.String(), p.Gateway,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", p.Reference, domain.ErrDuplicateTransaction)
		}
		return fmt.Errorf("insert payment %s: %w", p.Reference, err)
	}

	newBalance := balance.Sub(p.Amount)
	status := "Unpaid"
	if newBalance.LessThanOrEqual(decimal.Zero) {
		status = "Paid"
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE tblinvoices SET balance = ?, status = ? WHERE id = ?",
		newBalance.String(), status, p.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("update invoice %d: %w", p.InvoiceID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CreateInvoice inserts an invoice and returns its ID. Used by the seed
// tool; invoices otherwise belong to the billing side.
func (r *InvoiceRepo) CreateInvoice(ctx context.Context, inv billing.Invoice, module string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tblinvoices (userid, invoicenum, currency, total, balance, status, paymentmethod)
		 VALUES (?,?,?,?,?,?,?)`,
		inv.UserID, inv.Number, inv.Currency, inv.Total.String(), inv.Balance.String(), inv.Status, module,
	)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("invoice id: %w", err)
	}
	return int(id), nil
}

// PaymentsByInvoice lists payments applied to an invoice, oldest first.
func (r *InvoiceRepo) PaymentsByInvoice(ctx context.Context, invoiceID int) ([]billing.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT invoiceid, transid, amount, fees, gateway
		 FROM tblpayments WHERE invoiceid = ? ORDER BY created_at, rowid`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []billing.Payment
	for rows.Next() {
		var p billing.Payment
		var amount, fee string
		if err := rows.Scan(&p.InvoiceID, &p.Reference, &amount, &fee, &p.Gateway); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("payment %s amount: %w", p.Reference, err)
		}
		if p.Fee, err = decimal.NewFromString(fee); err != nil {
			return nil, fmt.Errorf("payment %s fee: %w", p.Reference, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
