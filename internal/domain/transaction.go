package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TransactionStatus string

const (
	StatusSucceeded TransactionStatus = "succeeded"
	StatusFailed    TransactionStatus = "failed"
	StatusPending   TransactionStatus = "pending"
)

// NewTransactionReference builds the reference for a fresh payment attempt.
// The invoice ID prefix lets the webhook path recover the invoice without a
// lookup, and the timestamp keeps retries for the same invoice distinct.
func NewTransactionReference(invoiceID int, now time.Time) string {
	return fmt.Sprintf("%d_%d", invoiceID, now.Unix())
}

// InvoiceTokenFromReference recovers the invoice token embedded in a
// transaction reference. Returns an empty token if the reference does not
// carry a numeric prefix.
func InvoiceTokenFromReference(reference string) string {
	prefix, _, _ := strings.Cut(reference, "_")
	if _, err := strconv.Atoi(prefix); err != nil {
		return ""
	}
	return prefix
}

// VerificationError reports a failed attempt to confirm a transaction with
// the processor. Reason distinguishes transport failures from remote
// rejections.
type VerificationError struct {
	Reference string
	Reason    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s: %s", e.Reference, e.Reason)
}
