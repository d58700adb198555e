package webhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/billaxle/paygate/internal/domain"
	"github.com/billaxle/paygate/internal/settlement"
)

type settleCall struct {
	reference string
	token     string
}

type fakeSettler struct {
	calls []settleCall
	err   error
}

func (f *fakeSettler) ProcessReference(ctx context.Context, reference, invoiceToken string, cfg domain.GatewayConfig) (settlement.Applied, error) {
	f.calls = append(f.calls, settleCall{reference: reference, token: invoiceToken})
	return settlement.Applied{Reference: reference}, f.err
}

func event(t *testing.T, name string, data any) domain.WebhookEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return domain.WebhookEvent{Event: name, Data: raw}
}

func TestDispatchChargeSuccess(t *testing.T) {
	settler := &fakeSettler{}
	d := NewDispatcher(settler)

	d.Dispatch(context.Background(), event(t, domain.EventChargeSuccess, map[string]string{"reference": "12_1700000000"}), domain.GatewayConfig{})

	require.Len(t, settler.calls, 1)
	require.Equal(t, "12_1700000000", settler.calls[0].reference)
	require.Equal(t, "12", settler.calls[0].token)
}

func TestDispatchOtherEventsNeverSettle(t *testing.T) {
	events := []string{
		domain.EventSubscriptionCreate,
		domain.EventSubscriptionDisable,
		domain.EventInvoiceCreate,
		domain.EventInvoiceUpdate,
		"transfer.success",
		"charge.dispute.create",
	}

	for _, name := range events {
		settler := &fakeSettler{}
		d := NewDispatcher(settler)
		d.Dispatch(context.Background(), event(t, name, map[string]string{"reference": "12_1700000000"}), domain.GatewayConfig{})
		require.Empty(t, settler.calls, "event %q must not settle", name)
	}
}

func TestDispatchChargeSuccessWithoutReference(t *testing.T) {
	settler := &fakeSettler{}
	d := NewDispatcher(settler)

	d.Dispatch(context.Background(), event(t, domain.EventChargeSuccess, map[string]string{}), domain.GatewayConfig{})
	require.Empty(t, settler.calls)
}

func TestDispatchChargeSuccessWithMalformedReference(t *testing.T) {
	settler := &fakeSettler{}
	d := NewDispatcher(settler)

	// No numeric invoice prefix to recover.
	d.Dispatch(context.Background(), event(t, domain.EventChargeSuccess, map[string]string{"reference": "bogus"}), domain.GatewayConfig{})
	require.Empty(t, settler.calls)
}

func TestDispatchSwallowsSettlementFailure(t *testing.T) {
	settler := &fakeSettler{err: context.DeadlineExceeded}
	d := NewDispatcher(settler)

	// Must not panic or propagate; delivery is acknowledged regardless.
	d.Dispatch(context.Background(), event(t, domain.EventChargeSuccess, map[string]string{"reference": "12_1700000000"}), domain.GatewayConfig{})
	require.Len(t, settler.calls, 1)
}
