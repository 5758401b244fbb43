package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Cache.TTL != 5*time.Minute || cfg.Cache.Capacity != 10000 {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Checkout.ConversionConcurrency != 4 {
		t.Fatalf("unexpected conversion concurrency %d", cfg.Checkout.ConversionConcurrency)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "https://api.example.com")
	t.Setenv("STOREFRONT_CACHE_TTL", "30s")
	t.Setenv("STOREFRONT_CACHE_CAPACITY", "500")
	t.Setenv("STOREFRONT_LOG_FORMAT", "console")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Cache.TTL != 30*time.Second || cfg.Cache.Capacity != 500 {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Log.Format != "console" {
		t.Fatalf("unexpected log format %q", cfg.Log.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"STOREFRONT_CACHE_EVICTION_PERCENTAGE": "150",
		"STOREFRONT_API_BASE_URL":              "not a url",
		"STOREFRONT_LOG_FORMAT":                "xml",
		"STOREFRONT_CACHE_TTL":                 "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected %s=%q to be rejected", key, value)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	const key = "STOREFRONT_DEVSERVER_ADDR"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(key+"=127.0.0.1:9999\n"), 0o600); err != nil {
		t.Fatalf("failed to write dotenv: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DevServer.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected dotenv value, got %q", cfg.DevServer.Addr)
	}
}
