package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/billaxle/paygate/internal/domain"
)

const (
	defaultBaseURL = "https://api.paystack.co"

	// The original integration left outbound calls unbounded; we cap them
	// so a slow processor cannot hold a request handler indefinitely.
	defaultTimeout = 10 * time.Second
)

// Client talks to the Paystack transaction API. The secret key is supplied
// per call because credentials are resolved from billing configuration on
// every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a Paystack API client. An empty baseURL selects the
// production endpoint; a nil httpClient gets a bounded default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// VerifyTransaction confirms a transaction's final status with the
// processor. This is the single source of truth for the outcome; webhook
// payloads and redirect parameters are never trusted for it. Failures are
// reported as *domain.VerificationError with the transport/remote reason.
func (c *Client) VerifyTransaction(ctx context.Context, secretKey, reference string) (*Transaction, error) {
	path := "/transaction/verify/" + url.PathEscape(reference)

	body, err := c.do(ctx, http.MethodGet, path, secretKey, nil)
	if err != nil {
		return nil, &domain.VerificationError{Reference: reference, Reason: err.Error()}
	}

	var resp struct {
		apiEnvelope
		Data Transaction `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.VerificationError{
			Reference: reference,
			Reason:    "remote API said: " + unexpectedBody(body),
		}
	}
	if !resp.Status {
		return nil, &domain.VerificationError{
			Reference: reference,
			Reason:    "remote API said: " + resp.Message,
		}
	}

	return &resp.Data, nil
}

// InitializeTransaction starts a hosted-checkout transaction and returns the
// authorization URL to redirect the payer to.
func (c *Client) InitializeTransaction(ctx context.Context, secretKey string, req InitializeRequest) (*InitializeResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/transaction/initialize/", secretKey, req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		apiEnvelope
		Data InitializeResult `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.New("remote API said: " + unexpectedBody(body))
	}
	if !resp.Status {
		return nil, errors.New("remote API said: " + resp.Message)
	}
	if resp.Data.AuthorizationURL == "" {
		return nil, errors.New("remote API said: initialize response missing authorization_url")
	}

	return &resp.Data, nil
}

// do performs one bounded request. Transport failures come back with a
// "transport said:" reason so callers can tell them apart from remote
// rejections.
func (c *Client) do(ctx context.Context, method, path, secretKey string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(secretKey))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New("transport said: " + err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New("transport said: " + err.Error())
	}

	return data, nil
}

func unexpectedBody(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max]
	}
	return "unexpected response body: " + s
}
