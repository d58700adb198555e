package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/billaxle/paygate/internal/domain"
)

func TestVerifyTransactionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/12_1700000000", r.URL.Path)
		require.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
			"status":"success","reference":"12_1700000000",
			"amount":10000,"requested_amount":10000,"fees":150,"currency":"NGN"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	tx, err := client.VerifyTransaction(context.Background(), "sk_test_abc", "12_1700000000")
	require.NoError(t, err)
	require.Equal(t, domain.StatusSucceeded, tx.Outcome())
	require.Equal(t, "100", tx.SettlementAmount().String())
	require.Equal(t, "1.5", tx.SettlementFees().String())
}

func TestVerifyTransactionRemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.VerifyTransaction(context.Background(), "sk_test_abc", "nope")
	require.Error(t, err)

	var verr *domain.VerificationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "remote API said: Transaction reference not found", verr.Reason)
}

func TestVerifyTransactionTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, nil)
	_, err := client.VerifyTransaction(context.Background(), "sk_test_abc", "12_1700000000")
	require.Error(t, err)

	var verr *domain.VerificationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, "transport said: ")
}

func TestVerifyTransactionNonSuccessStatuses(t *testing.T) {
	cases := map[string]domain.TransactionStatus{
		"failed":    domain.StatusFailed,
		"abandoned": domain.StatusPending,
		"ongoing":   domain.StatusPending,
	}

	for remote, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"message":"ok","data":{"status":"` + remote + `","reference":"r","amount":100,"fees":0,"currency":"NGN"}}`))
		}))

		client := NewClient(srv.URL, nil)
		tx, err := client.VerifyTransaction(context.Background(), "sk", "r")
		srv.Close()
		require.NoError(t, err)
		require.Equal(t, want, tx.Outcome(), "remote status %q", remote)
	}
}

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{
			"authorization_url":"https://checkout.paystack.com/abc123",
			"access_code":"abc123","reference":"12_1700000000"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.InitializeTransaction(context.Background(), "sk_test_abc", InitializeRequest{
		AmountKobo:  10000,
		Email:       "payer@example.com",
		Reference:   "12_1700000000",
		CallbackURL: "https://billing.example.com/callback?invoiceid=12",
	})
	require.NoError(t, err)
	require.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	require.Equal(t, "12_1700000000", result.Reference)
}

func TestInitializeTransactionRemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid amount"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.InitializeTransaction(context.Background(), "sk_test_abc", InitializeRequest{
		AmountKobo: -5,
		Email:      "payer@example.com",
	})
	require.EqualError(t, err, "remote API said: Invalid amount")
}

func TestAmountPrecedence(t *testing.T) {
	tx := &Transaction{Amount: 5000, RequestedAmount: 4800, Fees: 75}
	require.Equal(t, "48", tx.SettlementAmount().String())

	// Without a requested amount the raw amount stands.
	tx = &Transaction{Amount: 5000, Fees: 75}
	require.Equal(t, "50", tx.SettlementAmount().String())
}
