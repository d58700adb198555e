package domain

import "encoding/json"

// Webhook event types delivered by the processor. Only charge.success
// triggers settlement; the rest are acknowledged without side effects.
const (
	EventChargeSuccess       = "charge.success"
	EventSubscriptionCreate  = "subscription.create"
	EventSubscriptionDisable = "subscription.disable"
	EventInvoiceCreate       = "invoice.create"
	EventInvoiceUpdate       = "invoice.update"
)

// WebhookEvent is the parsed body of an asynchronous processor notification.
// It must not be trusted until the raw body's signature has been verified.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChargeData is the payload of a charge.success event. Only the reference is
// used; the authoritative outcome always comes from transaction verification.
type ChargeData struct {
	Reference string `json:"reference"`
}
