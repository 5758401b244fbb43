package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/cart"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/logger"
	"github.com/goliatone/go-storefront/pkg/metrics"
	"github.com/goliatone/go-storefront/querycache"
)

const serviceName = "storefront"

// Container wires the storefront components from a Config. It owns one cache
// service, one API client and one query layer; every accessor returns the
// same instance.
type Container struct {
	config          config.Config
	logger          *logger.Logger
	registry        *prometheus.Registry
	checkoutMetrics *metrics.CheckoutMetrics
	cacheService    cache.CacheService
	keySerializer   cache.KeySerializer
	client          *api.Client
	queries         *querycache.Layer
}

type options struct {
	logger      *logger.Logger
	httpClient  *http.Client
	tokenSource api.TokenSource
	policies    *querycache.Policies
}

// Option customizes NewContainer.
type Option func(*options)

// WithLogger replaces the logger built from the log config.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithHTTPClient replaces the HTTP client built from the API config.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTokenSource authenticates API calls. It takes precedence over the
// static token in the API config.
func WithTokenSource(source api.TokenSource) Option {
	return func(o *options) {
		o.tokenSource = source
	}
}

// WithPolicies overrides the query layer's reconciliation policies.
func WithPolicies(p querycache.Policies) Option {
	return func(o *options) {
		o.policies = &p
	}
}

// NewContainer validates cfg and builds every component.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	log := o.logger
	if log == nil {
		log = logger.New(logger.Options{
			ServiceName: serviceName,
			Level:       logger.ParseLevel(cfg.Log.Level),
			Format:      cfg.Log.Format,
		})
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cacheMetrics := metrics.NewCacheMetrics(registry)

	cacheService, err := cache.NewCacheService(cfg.Cache, cache.WithObserver(cacheMetrics))
	if err != nil {
		return nil, fmt.Errorf("cache service: %w", err)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}
	clientOpts := []api.Option{api.WithHTTPClient(httpClient)}
	switch {
	case o.tokenSource != nil:
		clientOpts = append(clientOpts, api.WithTokenSource(o.tokenSource))
	case cfg.API.Token != "":
		token := cfg.API.Token
		clientOpts = append(clientOpts, api.WithTokenSource(func(context.Context) (string, error) {
			return token, nil
		}))
	}
	client, err := api.NewClient(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	keySerializer := cache.NewDefaultKeySerializer()
	layerOpts := []querycache.Option{querycache.WithLogger(log)}
	if o.policies != nil {
		layerOpts = append(layerOpts, querycache.WithPolicies(*o.policies))
	}

	return &Container{
		config:          cfg,
		logger:          log,
		registry:        registry,
		checkoutMetrics: metrics.NewCheckoutMetrics(registry),
		cacheService:    cacheService,
		keySerializer:   keySerializer,
		client:          client,
		queries:         querycache.New(querycache.RemoteFromClient(client), cacheService, keySerializer, layerOpts...),
	}, nil
}

// NewContainerFromEnv loads the config from dotenv files and the environment.
func NewContainerFromEnv(dotenvFiles ...string) (*Container, error) {
	cfg, err := config.Load(dotenvFiles...)
	if err != nil {
		return nil, err
	}
	return NewContainer(*cfg)
}

func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *logger.Logger {
	return c.logger
}

// CacheService returns the shared cache for advanced use cases.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Client returns the raw backend client, bypassing the cache.
func (c *Container) Client() *api.Client {
	return c.client
}

// Queries returns the cached entity query layer.
func (c *Container) Queries() *querycache.Layer {
	return c.queries
}

// Gatherer exposes the container's metrics registry.
func (c *Container) Gatherer() prometheus.Gatherer {
	return c.registry
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (c *Container) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// NewCheckoutSession builds a checkout session for store. Conversion events
// go straight to the backend; they never touch the cache.
func (c *Container) NewCheckoutSession(items *cart.Cart, store api.Store, opener cart.LinkOpener) *cart.Session {
	return cart.NewSession(items, store.ID, store.PhoneNumber, opener, c.client.Metrics,
		cart.WithLogger(c.logger),
		cart.WithCheckoutRecorder(c.checkoutMetrics),
		cart.WithConversionConcurrency(c.config.Checkout.ConversionConcurrency),
	)
}
