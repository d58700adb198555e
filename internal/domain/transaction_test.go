package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTransactionReference(t *testing.T) {
	at := time.Unix(1700000000, 0)
	require.Equal(t, "12_1700000000", NewTransactionReference(12, at))
}

func TestInvoiceTokenFromReference(t *testing.T) {
	cases := map[string]string{
		"12_1700000000":   "12",
		"7_1700000000_re": "7",
		"bogus":           "",
		"_1700000000":     "",
		"":                "",
	}
	for ref, want := range cases {
		require.Equal(t, want, InvoiceTokenFromReference(ref), "reference %q", ref)
	}
}
