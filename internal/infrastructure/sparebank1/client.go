package sparebank1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.sparebank1.no/personal/banking"
	defaultTimeout   = 30 * time.Second
	accountsPath     = "/accounts"
	transactionsPath = "/transactions"
	acceptHeader     = "application/vnd.sparebank1.v1+json; charset=utf-8"
	maxErrorBody     = 512
)

// Client handles communication with the SpareBank1 personal banking API
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// MinRequestInterval spaces consecutive upstream calls; zero disables pacing
	MinRequestInterval time.Duration
}

// NewClient creates a new SpareBank1 API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.MinRequestInterval > 0 {
		limit = rate.Every(cfg.MinRequestInterval)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// HTTPClient exposes the instrumented client so the OAuth token exchange shares it
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// GetAccounts fetches all accounts visible to the access token. The API
// answers with either a bare array or an object wrapping "accounts".
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	body, err := c.get(ctx, accountsPath, nil, accessToken)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var accounts []Account
		if err := json.Unmarshal(trimmed, &accounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		return accounts, nil
	}

	var env accountsEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}
	return env.Accounts, nil
}

// GetTransactions fetches transactions for the given accounts and date range.
// The API groups transactions per account in an array, or returns a single
// object; both shapes are flattened.
func (c *Client) GetTransactions(ctx context.Context, accessToken string, query TransactionQuery) ([]Transaction, error) {
	params := url.Values{}
	for _, key := range query.AccountKeys {
		params.Add("accountKey", key)
	}
	if query.From != "" {
		params.Set("fromDate", query.From)
	}
	if query.To != "" {
		params.Set("toDate", query.To)
	}
	if query.RowLimit > 0 {
		params.Set("rowLimit", strconv.Itoa(query.RowLimit))
	}
	if query.Source != "" {
		params.Set("source", query.Source)
	}

	body, err := c.get(ctx, transactionsPath, params, accessToken)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var groups []transactionsEnvelope
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		var all []Transaction
		for _, g := range groups {
			all = append(all, g.Transactions...)
		}
		return all, nil
	}

	var env transactionsEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	return env.Transactions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, accessToken string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed waiting for request slot: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, snippet)
	}

	return body, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return DefaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
