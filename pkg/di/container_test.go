package di

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/logger"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		API:      config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Log:      config.LogConfig{Level: "error", Format: "json"},
		Cache:    cache.DefaultConfig(),
		Checkout: config.CheckoutConfig{ConversionConcurrency: 2},
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig("http://localhost:8080")
	cfg.Cache.Capacity = 500

	container, err := NewContainer(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Queries() == nil {
		t.Error("Container should have a non-nil query layer")
	}
	if got := container.Client().BaseURL(); got != "http://localhost:8080" {
		t.Errorf("Expected client base url %q, got %q", "http://localhost:8080", got)
	}
	if got := container.Config().Cache.Capacity; got != 500 {
		t.Errorf("Expected capacity 500, got %d", got)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "zero cache capacity",
			mutate: func(c *config.Config) { c.Cache.Capacity = 0 },
		},
		{
			name:   "missing base url",
			mutate: func(c *config.Config) { c.API.BaseURL = "" },
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.Log.Format = "xml" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig("http://localhost:8080")
			tc.mutate(&cfg)
			if _, err := NewContainer(cfg); err == nil {
				t.Error("NewContainer() should fail with invalid config")
			}
		})
	}
}

func TestNewContainerFromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "http://api.example.com")
	t.Setenv("STOREFRONT_CACHE_CAPACITY", "42")
	t.Setenv("STOREFRONT_LOG_LEVEL", "error")

	container, err := NewContainerFromEnv("does-not-exist.env")
	if err != nil {
		t.Fatalf("NewContainerFromEnv() failed: %v", err)
	}
	if got := container.Client().BaseURL(); got != "http://api.example.com" {
		t.Errorf("Expected base url from env, got %q", got)
	}
	if got := container.Config().Cache.Capacity; got != 42 {
		t.Errorf("Expected capacity 42, got %d", got)
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainer(testConfig("http://localhost:8080"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.CacheService() != container.CacheService() {
		t.Error("CacheService() should return the same instance")
	}
	if container.KeySerializer() != container.KeySerializer() {
		t.Error("KeySerializer() should return the same instance")
	}
	if container.Queries() != container.Queries() {
		t.Error("Queries() should return the same instance")
	}
}

func TestKeySerializerIntegration(t *testing.T) {
	container, err := NewContainer(testConfig("http://localhost:8080"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	keys := container.Queries().Keys()
	testCases := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "store products", got: keys.StoreProducts("s1"), expected: "products::s1"},
		{name: "category products", got: keys.CategoryProducts("c1"), expected: "products::category::c1"},
		{name: "single product", got: keys.Product("p1"), expected: "product::p1"},
		{name: "store categories", got: keys.StoreCategories("s1"), expected: "categories::s1"},
		{name: "public store", got: keys.PublicStore("loja"), expected: "store::public::loja"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("Expected key %q, got %q", tc.expected, tc.got)
			}
		})
	}

	if got := container.KeySerializer().SerializeKey("metrics", "s1", 30); got != keys.StoreMetrics("s1", 30) {
		t.Errorf("Expected container serializer to match layer keys, got %q", got)
	}
}

func TestMetricsHandler_ExposesCacheCounters(t *testing.T) {
	container, err := NewContainer(testConfig("http://localhost:8080"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	ctx := context.Background()
	fetch := func(context.Context) ([]api.Product, error) { return []api.Product{}, nil }
	for i := 0; i < 3; i++ {
		if _, err := cache.GetOrFetch(ctx, container.CacheService(), "products::s1", fetch); err != nil {
			t.Fatalf("GetOrFetch() failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	container.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`storefront_cache_misses_total{kind="products"} 1`,
		`storefront_cache_hits_total{kind="products"} 2`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected metrics output to contain %q", want)
		}
	}
}

func TestNewCheckoutSession_UsesStoreContact(t *testing.T) {
	container, err := NewContainer(testConfig("http://localhost:8080"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	session := container.NewCheckoutSession(cart.New(), api.Store{ID: "s1"}, cart.LinkOpenerFunc(func(context.Context, string) error {
		return nil
	}))
	if session.Available() {
		t.Error("Session for a store without phone should be unavailable")
	}

	session = container.NewCheckoutSession(cart.New(), api.Store{ID: "s1", PhoneNumber: "(11) 90000-0000"}, nil)
	if !session.Available() {
		t.Error("Session for a store with phone should be available")
	}
}
