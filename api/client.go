package api

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
)

const (
	defaultBaseURL             = "http://localhost:8080"
	apiPrefix                  = "/api/v1"
	errorBodyReadLimit   int64 = 4096
	defaultClientTimeout       = 10 * time.Second
)

var errBaseURLRequired = errors.New("api: base url is required")

// TokenSource supplies the bearer token for a request. Token storage lives
// outside this package.
type TokenSource func(ctx context.Context) (string, error)

// Client is the HTTP client for the storefront backend. Entity operations are
// grouped per resource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource

	Stores     *StoresService
	Products   *ProductsService
	Categories *CategoriesService
	Metrics    *MetricsService
	Billing    *BillingService
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource authenticates every request with a bearer token.
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.token = source
	}
}

// NewClient builds a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.Stores = &StoresService{client: c}
	c.Products = &ProductsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Metrics = &MetricsService{client: c}
	c.Billing = &BillingService{client: c}
	return c, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + apiPrefix + "/" + strings.Join(escaped, "/")
}

// do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("api: token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	apiErr := &Error{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	apiErr.StatusCode = resp.StatusCode
	if apiErr.Path == "" && resp.Request != nil {
		apiErr.Path = resp.Request.URL.Path
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
