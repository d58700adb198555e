package paystack

import (
	"github.com/shopspring/decimal"

	"github.com/billaxle/paygate/internal/domain"
)

// apiEnvelope is the top-level shape of every Paystack response. Status is
// the success flag; on a falsy flag Message carries the error detail.
type apiEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Transaction is the verified transaction payload returned by the verify
// endpoint. All amounts are in minor units (kobo).
type Transaction struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	RequestedAmount int64  `json:"requested_amount"`
	Fees            int64  `json:"fees"`
	Currency        string `json:"currency"`
}

// Outcome maps the processor's status string onto the domain status.
// Anything that is neither success nor failed is still in flight.
func (t *Transaction) Outcome() domain.TransactionStatus {
	switch t.Status {
	case "success":
		return domain.StatusSucceeded
	case "failed":
		return domain.StatusFailed
	default:
		return domain.StatusPending
	}
}

var minorUnitFactor = decimal.NewFromInt(100)

// SettlementAmount converts the paid amount to major units, preferring the
// requested amount when present and positive. The requested amount reflects
// any processor-side surcharge the payer actually paid.
func (t *Transaction) SettlementAmount() decimal.Decimal {
	minor := t.Amount
	if t.RequestedAmount > 0 {
		minor = t.RequestedAmount
	}
	return decimal.NewFromInt(minor).Div(minorUnitFactor)
}

// SettlementFees converts the processor fees to major units.
func (t *Transaction) SettlementFees() decimal.Decimal {
	return decimal.NewFromInt(t.Fees).Div(minorUnitFactor)
}

// InitializeRequest is the payload for starting a hosted-checkout
// transaction.
type InitializeRequest struct {
	AmountKobo  int64  `json:"amount"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

// InitializeResult carries the hosted-checkout handoff returned by the
// initialize endpoint.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}
