package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

type stubBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	response any
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.RawQuery,
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})
	status, response := b.status, b.response
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if response != nil {
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (b *stubBackend) last(t *testing.T) recordedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, backend *stubBackend, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestClient_Paths(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		response any
		call     func(c *Client) error
		method   string
		path     string
		query    string
	}{
		{
			name:     "user stores",
			response: []StoreUser{},
			call:     func(c *Client) error { _, err := c.Stores.ListByUser(ctx, "u1"); return err },
			method:   http.MethodGet,
			path:     "/api/v1/stores/user/u1",
		},
		{
			name:     "public store",
			response: PublicStore{},
			call:     func(c *Client) error { _, err := c.Stores.GetPublic(ctx, "my-shop"); return err },
			method:   http.MethodGet,
			path:     "/api/v1/stores/public/my-shop",
		},
		{
			name:     "theme",
			response: Store{},
			call: func(c *Client) error {
				_, err := c.Stores.UpdateTheme(ctx, "s1", UpdateThemeConfigRequest{})
				return err
			},
			method: http.MethodPut,
			path:   "/api/v1/stores/s1/theme",
		},
		{
			name:     "products by category",
			response: []Product{},
			call:     func(c *Client) error { _, err := c.Products.ListByCategory(ctx, "c1"); return err },
			method:   http.MethodGet,
			path:     "/api/v1/products/category/c1",
		},
		{
			name:     "toggle",
			response: Product{},
			call:     func(c *Client) error { _, err := c.Products.ToggleAvailability(ctx, "p1"); return err },
			method:   http.MethodPatch,
			path:     "/api/v1/products/p1/toggle-availability",
		},
		{
			name:   "reorder",
			call:   func(c *Client) error { return c.Products.Reorder(ctx, "c1", []string{"p2", "p1"}) },
			method: http.MethodPut,
			path:   "/api/v1/products/category/c1/order",
		},
		{
			name:   "delete category",
			call:   func(c *Client) error { return c.Categories.Delete(ctx, "c1") },
			method: http.MethodDelete,
			path:   "/api/v1/categories/c1",
		},
		{
			name:     "metrics",
			response: StoreMetrics{},
			call:     func(c *Client) error { _, err := c.Metrics.StoreMetrics(ctx, "s1", 7); return err },
			method:   http.MethodGet,
			path:     "/api/v1/metrics/store/s1",
			query:    "days=7",
		},
		{
			name:   "conversion",
			call:   func(c *Client) error { return c.Metrics.RecordProductConversion(ctx, "s1", "p1") },
			method: http.MethodPost,
			path:   "/api/v1/metrics/events/product-conversion/s1/p1",
		},
		{
			name:     "billing",
			response: Billing{},
			call: func(c *Client) error {
				_, err := c.Billing.Create(ctx, "s1", CreateBillingRequest{PayingPlan: PlanPro, PlanDuration: DurationYearly})
				return err
			},
			method: http.MethodPost,
			path:   "/api/v1/billing/s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &stubBackend{response: tt.response}
			client := newTestClient(t, backend)

			require.NoError(t, tt.call(client))
			req := backend.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.Query)
		})
	}
}

func TestClient_PathSegmentsAreEscaped(t *testing.T) {
	backend := &stubBackend{response: PublicStore{}}
	client := newTestClient(t, backend)

	_, err := client.Stores.GetPublic(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/stores/public/a%2Fb", backend.last(t).Path)
}

func TestClient_ReorderSendsIDArray(t *testing.T) {
	backend := &stubBackend{status: http.StatusNoContent}
	client := newTestClient(t, backend)

	require.NoError(t, client.Products.Reorder(context.Background(), "c1", []string{"p3", "p1", "p2"}))
	assert.JSONEq(t, `["p3","p1","p2"]`, backend.last(t).Body)
}

func TestClient_DecodesProduct(t *testing.T) {
	promo := int64(1500)
	backend := &stubBackend{response: Product{ID: "p2", Title: "Mug", Price: 2000, PromotionalPrice: &promo, Available: true}}
	client := newTestClient(t, backend)

	p, err := client.Products.Get(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), p.EffectivePrice())
	assert.True(t, p.Available)
}

func TestClient_ErrorBody(t *testing.T) {
	backend := &stubBackend{
		status: http.StatusNotFound,
		response: map[string]any{
			"timestamp": "2024-05-01T10:00:00Z",
			"status":    404,
			"error":     "Not Found",
			"message":   "Product not found",
			"path":      "/api/v1/products/p9",
		},
	}
	client := newTestClient(t, backend)

	_, err := client.Products.Get(context.Background(), "p9")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
	assert.Equal(t, "Not Found", apiErr.Code)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))
}

func TestClient_ErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = client.Categories.Delete(context.Background(), "c1")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.Equal(t, "/api/v1/categories/c1", apiErr.Path)
}

func TestClient_TokenSource(t *testing.T) {
	backend := &stubBackend{response: Store{ID: "s1"}}
	client := newTestClient(t, backend, WithTokenSource(func(ctx context.Context) (string, error) {
		return "secret", nil
	}))

	_, err := client.Stores.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", backend.last(t).Auth)

	failing := newTestClient(t, &stubBackend{}, WithTokenSource(func(ctx context.Context) (string, error) {
		return "", errors.New("logged out")
	}))
	_, err = failing.Stores.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "logged out")
}

func TestClient_ValidatesPayloadsBeforeSending(t *testing.T) {
	backend := &stubBackend{}
	client := newTestClient(t, backend)
	ctx := context.Background()

	_, err := client.Products.Create(ctx, CreateProductRequest{Title: "Mug", Price: 100})
	require.Error(t, err)
	_, err = client.Billing.Create(ctx, "s1", CreateBillingRequest{PayingPlan: PlanFree, PlanDuration: DurationMonthly})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "payingPlan")
	assert.NotContains(t, verrs, "planDuration")

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.requests)
}
