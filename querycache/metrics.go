package querycache

import (
	"context"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
)

// DefaultMetricsDays is the period used when StoreMetrics is called without one.
const DefaultMetricsDays = 30

// StoreMetrics returns aggregated metrics for the last days days, cached per period.
func (l *Layer) StoreMetrics(ctx context.Context, storeID string, days int) (api.StoreMetrics, error) {
	if err := requireScope("StoreMetrics", "store id", storeID); err != nil {
		return api.StoreMetrics{}, err
	}
	if days <= 0 {
		days = DefaultMetricsDays
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.StoreMetrics(storeID, days), func(ctx context.Context) (api.StoreMetrics, error) {
		return deref(l.remote.Metrics.StoreMetrics(ctx, storeID, days))
	})
}

// RecordStoreAccess reports a storefront visit. Failures are logged, never returned.
func (l *Layer) RecordStoreAccess(ctx context.Context, storeID string) {
	if storeID == "" {
		return
	}
	if err := l.remote.Metrics.RecordStoreAccess(ctx, storeID); err != nil {
		l.logger.Warn(l.logger.WithStoreID(ctx, storeID), "record store access failed", err)
	}
}

// RecordProductClick reports a product detail view. Failures are logged, never returned.
func (l *Layer) RecordProductClick(ctx context.Context, storeID, productID string) {
	if storeID == "" || productID == "" {
		return
	}
	if err := l.remote.Metrics.RecordProductClick(ctx, storeID, productID); err != nil {
		l.logger.Warn(l.logger.WithFields(ctx, map[string]any{"store_id": storeID, "product_id": productID}), "record product click failed", err)
	}
}
