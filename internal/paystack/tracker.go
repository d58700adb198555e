package paystack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTrackerURL     = "https://plugin-tracker.paystackintegrations.com/log/charge_success"
	defaultTrackerTimeout = 5 * time.Second
)

// Tracker reports successful charges to the plugin-tracker analytics
// endpoint. Delivery is best effort: callers must treat any error as
// log-only and never let it affect settlement.
type Tracker struct {
	httpClient *http.Client
	url        string
	pluginName string
}

// NewTracker builds a tracker sink. An empty endpoint selects the production
// tracker; a nil httpClient gets a bounded default.
func NewTracker(pluginName, endpoint string, httpClient *http.Client) *Tracker {
	if endpoint == "" {
		endpoint = defaultTrackerURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTrackerTimeout}
	}
	return &Tracker{
		httpClient: httpClient,
		url:        endpoint,
		pluginName: pluginName,
	}
}

// LogChargeSuccess posts the charge notification. The response body is
// ignored; only transport-level failures are reported.
func (t *Tracker) LogChargeSuccess(ctx context.Context, reference, publicKey string) error {
	form := url.Values{
		"plugin_name":           {t.pluginName},
		"transaction_reference": {reference},
		"public_key":            {publicKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build tracker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post tracker: %w", err)
	}
	resp.Body.Close()

	return nil
}
