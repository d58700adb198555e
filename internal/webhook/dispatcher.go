// Package webhook routes asynchronous processor notifications to their
// handlers.
package webhook

import (
	"context"
	"encoding/json"
	"log"

	"github.com/billaxle/paygate/internal/domain"
	"github.com/billaxle/paygate/internal/settlement"
)

// Settler is the slice of the settlement engine the dispatcher drives.
type Settler interface {
	ProcessReference(ctx context.Context, reference, invoiceToken string, cfg domain.GatewayConfig) (settlement.Applied, error)
}

// Dispatcher routes webhook events by type. Only charge.success carries a
// side effect; every other event is acknowledged as a no-op so the
// processor stops redelivering.
type Dispatcher struct {
	settler Settler
}

func NewDispatcher(settler Settler) *Dispatcher {
	return &Dispatcher{settler: settler}
}

// Dispatch handles one signature-verified event. It never propagates
// settlement failures: the caller always acknowledges delivery, and
// failures are logged here instead of triggering webhook retry storms.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.WebhookEvent, cfg domain.GatewayConfig) {
	switch event.Event {
	case domain.EventChargeSuccess:
		d.handleChargeSuccess(ctx, event, cfg)
	case domain.EventSubscriptionCreate, domain.EventSubscriptionDisable,
		domain.EventInvoiceCreate, domain.EventInvoiceUpdate:
		// Acknowledged without side effects.
	default:
		log.Printf("[webhook] ignoring unrecognized event %q", event.Event)
	}
}

func (d *Dispatcher) handleChargeSuccess(ctx context.Context, event domain.WebhookEvent, cfg domain.GatewayConfig) {
	var charge domain.ChargeData
	if err := json.Unmarshal(event.Data, &charge); err != nil || charge.Reference == "" {
		log.Printf("[webhook] charge.success payload missing reference: %v", err)
		return
	}

	token := domain.InvoiceTokenFromReference(charge.Reference)
	if token == "" {
		log.Printf("[webhook] reference %q carries no invoice token", charge.Reference)
		return
	}

	if _, err := d.settler.ProcessReference(ctx, charge.Reference, token, cfg); err != nil {
		log.Printf("[webhook] settlement for %s failed: %v", charge.Reference, err)
	}
}
