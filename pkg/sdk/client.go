// Package copilot provides a typed HTTP client for the AYO Co-Pilot API.
//
// Usage:
//
//	client := copilot.New(
//	    copilot.WithBaseURL("https://api.example.com"),
//	    copilot.WithAPIKey("secret"),
//	)
//	result, err := client.Explain(ctx, "gross margin", "Nike")
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second

	dateLayout = "2006-01-02"
)

// Client is an AYO Co-Pilot API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	cfg := clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    cfg.baseURL,
		apiKey:     cfg.apiKey,
		httpClient: hc,
	}
}

// Explain generates an explanation of a financial term. brand is an optional
// hint that skips server-side brand detection when set.
func (c *Client) Explain(ctx context.Context, term, brand string) (*ExplainResult, error) {
	body := map[string]string{"term": term}
	if brand != "" {
		body["brand"] = brand
	}

	var (
		explanation Explanation
		metadata    ExplainMetadata
	)
	if err := c.post(ctx, "/api/v1/explain", body, &explanation, &metadata); err != nil {
		return nil, err
	}
	return &ExplainResult{Explanation: explanation, Metadata: metadata}, nil
}

// Brands lists the full brand catalog with live quote fields.
func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := c.get(ctx, "/api/v1/brands", nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// Brand fetches a single brand with extended quote fields.
func (c *Client) Brand(ctx context.Context, ticker string) (*BrandDetail, error) {
	var detail BrandDetail
	if err := c.get(ctx, "/api/v1/brands/"+url.PathEscape(ticker), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Prices fetches the daily price history for a named period (1y, 2y, 3y, 5y).
func (c *Client) Prices(ctx context.Context, ticker, period string) ([]PricePoint, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	return c.prices(ctx, ticker, q)
}

// PricesRange fetches the daily price history for an explicit date range.
func (c *Client) PricesRange(ctx context.Context, ticker string, from, to time.Time) ([]PricePoint, error) {
	q := url.Values{}
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))
	return c.prices(ctx, ticker, q)
}

func (c *Client) prices(ctx context.Context, ticker string, q url.Values) ([]PricePoint, error) {
	var points []PricePoint
	path := "/api/v1/brands/" + url.PathEscape(ticker) + "/prices"
	if err := c.get(ctx, path, q, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Calculate runs the what-if return calculator for a hypothetical investment
// of amount dollars entered on date.
func (c *Client) Calculate(ctx context.Context, ticker string, amount float64, date time.Time) (*Investment, error) {
	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("date", date.Format(dateLayout))

	var inv Investment
	path := "/api/v1/brands/" + url.PathEscape(ticker) + "/calculate"
	if err := c.get(ctx, path, q, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Events fetches the social, key, and forecast event timeline for a brand.
func (c *Client) Events(ctx context.Context, ticker string) (*Timeline, error) {
	var tl Timeline
	path := "/api/v1/brands/" + url.PathEscape(ticker) + "/events"
	if err := c.get(ctx, path, nil, &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

// Social fetches the social-buzz snapshot and daily history for a brand.
// days <= 0 requests the server default window.
func (c *Client) Social(ctx context.Context, ticker string, days int) (*SocialSignals, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var sig SocialSignals
	path := "/api/v1/brands/" + url.PathEscape(ticker) + "/social"
	if err := c.get(ctx, path, q, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// Health reports the service health. A degraded service returns the report
// alongside an *APIError with status 503.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("copilot: read response: %w", err)
	}

	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("copilot: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &h, &APIError{Status: resp.StatusCode, Message: h.Status}
	}
	return &h, nil
}

// envelope is the {success, data, metadata} wrapper around every API payload.
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    string          `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out, metadata any) error {
	return c.call(ctx, http.MethodPost, path, nil, body, out, metadata)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out, metadata any) error {
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("copilot: decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("copilot: decode data: %w", err)
		}
	}
	if metadata != nil && len(env.Metadata) > 0 {
		if err := json.Unmarshal(env.Metadata, metadata); err != nil {
			return fmt.Errorf("copilot: decode metadata: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("copilot: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("copilot: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("copilot: request failed: %w", err)
	}
	return resp, nil
}
