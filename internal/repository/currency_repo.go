package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/domain"
)

// CurrencyRepo exposes the billing system's exchange-rate table. Rates are
// stored as units of local currency per one unit of the base currency.
type CurrencyRepo struct {
	db *sql.DB
}

func NewCurrencyRepo(db *sql.DB) *CurrencyRepo {
	return &CurrencyRepo{db: db}
}

// UpsertRate sets the rate and display precision for a currency.
func (r *CurrencyRepo) UpsertRate(ctx context.Context, code string, rate float64, decimals int32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tblcurrencies (code, rate, decimals) VALUES (?,?,?)
		 ON CONFLICT(code) DO UPDATE SET rate = excluded.rate, decimals = excluded.decimals`,
		code, rate, decimals,
	)
	if err != nil {
		return fmt.Errorf("upsert currency %s: %w", code, err)
	}
	return nil
}

// ConvertCurrency converts an amount from one billing currency to another by
// way of the base currency. Unknown codes surface as a conversion failure.
func (r *CurrencyRepo) ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, _, err := r.rate(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, _, err := r.rate(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Div(fromRate).Mul(toRate), nil
}

// CurrencyDecimals returns the display precision for a currency code.
func (r *CurrencyRepo) CurrencyDecimals(ctx context.Context, code string) (int32, error) {
	_, decimals, err := r.rate(ctx, code)
	return decimals, err
}

func (r *CurrencyRepo) rate(ctx context.Context, code string) (decimal.Decimal, int32, error) {
	var rate float64
	var decimals int32
	err := r.db.QueryRowContext(ctx,
		"SELECT rate, decimals FROM tblcurrencies WHERE code = ?", code,
	).Scan(&rate, &decimals)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, 0, fmt.Errorf("unsupported currency %s: %w", code, domain.ErrCurrencyConversion)
	}
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("load currency %s: %w", code, err)
	}
	if rate <= 0 {
		return decimal.Zero, 0, fmt.Errorf("currency %s has no usable rate: %w", code, domain.ErrCurrencyConversion)
	}
	return decimal.NewFromFloat(rate), decimals, nil
}
