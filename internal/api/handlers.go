package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/billaxle/paygate/internal/billing"
	"github.com/billaxle/paygate/internal/domain"
	"github.com/billaxle/paygate/internal/paystack"
	"github.com/billaxle/paygate/internal/settlement"
	"github.com/billaxle/paygate/internal/webhook"
)

const maxWebhookBody = 1 << 20

// Handlers groups the callback HTTP handlers and their collaborators.
type Handlers struct {
	billing    billing.System
	client     *paystack.Client
	engine     *settlement.Engine
	dispatcher *webhook.Dispatcher
	module     string
}

// HandleWebhook receives asynchronous processor notifications. The raw body
// must authenticate against the signature header before the event is
// trusted; after that every parsed event is acknowledged with 200 so the
// processor stops redelivering, whatever settlement itself does.
func (h *Handlers) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.billing.GatewayConfig(ctx, h.module)
	if err != nil {
		log.Printf("[api] load gateway config: %v", err)
		writeText(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !cfg.Active {
		writeText(w, http.StatusForbidden, "Module Not Activated")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeText(w, http.StatusBadRequest, "unreadable body")
		return
	}

	// Forged notifications are dropped without detail.
	sig := r.Header.Get(paystack.SignatureHeader)
	if !paystack.VerifySignature(raw, sig, cfg.SecretKey()) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil || event.Event == "" {
		writeText(w, http.StatusBadRequest, "malformed event")
		return
	}

	h.dispatcher.Dispatch(ctx, event, cfg)
	w.WriteHeader(http.StatusOK)
}

// HandleReturn serves the synchronous browser leg: either the initiation
// sub-flow (go=standard) that redirects the payer to hosted checkout, or
// the post-payment return that verifies and settles the transaction.
func (h *Handlers) HandleReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := h.billing.GatewayConfig(ctx, h.module)
	if err != nil {
		log.Printf("[api] load gateway config: %v", err)
		writeText(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !cfg.Active {
		writeText(w, http.StatusForbidden, "Module Not Activated")
		return
	}

	q := r.URL.Query()
	if strings.EqualFold(q.Get("go"), "standard") {
		h.initiate(w, r, cfg)
		return
	}

	h.settleReturn(w, r, cfg)
}

// initiate starts a hosted-checkout transaction and redirects the payer to
// it. Failure is terminal and shown to the payer.
func (h *Handlers) initiate(w http.ResponseWriter, r *http.Request, cfg domain.GatewayConfig) {
	ctx := r.Context()
	q := r.URL.Query()

	invoiceID, err := strconv.Atoi(strings.TrimSpace(q.Get("invoiceid")))
	if err != nil {
		writeText(w, http.StatusBadRequest, "invoiceid is required")
		return
	}
	amountKobo, err := strconv.ParseInt(strings.TrimSpace(q.Get("amountinkobo")), 10, 64)
	if err != nil || amountKobo <= 0 {
		writeText(w, http.StatusBadRequest, "amountinkobo must be a positive integer")
		return
	}
	email := strings.TrimSpace(q.Get("email"))
	if email == "" {
		writeText(w, http.StatusBadRequest, "email is required")
		return
	}

	reference := domain.NewTransactionReference(invoiceID, time.Now())
	callbackURL := requestScheme(r) + "://" + r.Host + r.URL.Path +
		"?invoiceid=" + url.QueryEscape(strconv.Itoa(invoiceID))

	result, err := h.client.InitializeTransaction(ctx, cfg.SecretKey(), paystack.InitializeRequest{
		AmountKobo:  amountKobo,
		Email:       email,
		Phone:       strings.TrimSpace(q.Get("phone")),
		Reference:   reference,
		CallbackURL: callbackURL,
	})
	if err != nil {
		if cfg.GatewayLogs {
			msg := "Transaction Initialize failed\nReason: " + err.Error()
			if auditErr := h.billing.AppendAuditLog(ctx, h.module, msg, "Unsuccessful"); auditErr != nil {
				log.Printf("[api] audit log append failed: %v", auditErr)
			}
		}
		writeText(w, http.StatusBadGateway, err.Error())
		return
	}

	http.Redirect(w, r, result.AuthorizationURL, http.StatusFound)
}

// settleReturn verifies the returned transaction reference and settles it.
// The invoice redirect is decided on a single deferred exit path; failures
// surface as a plain-text body instead.
func (h *Handlers) settleReturn(w http.ResponseWriter, r *http.Request, cfg domain.GatewayConfig) {
	ctx := r.Context()
	q := r.URL.Query()

	reference := strings.TrimSpace(q.Get("trxref"))
	if reference == "" {
		writeText(w, http.StatusBadRequest, "trxref is required")
		return
	}

	token := strings.TrimSpace(q.Get("invoiceid"))
	if token == "" {
		token = domain.InvoiceTokenFromReference(reference)
	}

	settled := false
	defer func() {
		if settled {
			http.Redirect(w, r, viewInvoiceURL(r, token), http.StatusFound)
		}
	}()

	if _, err := h.engine.ProcessReference(ctx, reference, token, cfg); err != nil {
		writeText(w, settlementStatus(err), err.Error())
		return
	}

	settled = true
}

func settlementStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInvoice):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTransaction):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransactionNotSuccessful):
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}

func viewInvoiceURL(r *http.Request, token string) string {
	return requestScheme(r) + "://" + r.Host + "/viewinvoice.php?id=" + url.QueryEscape(token)
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, msg); err != nil {
		log.Printf("[api] write response: %v", err)
	}
}
