package api

import (
	"context"
	"net/http"
	"strconv"
)

// MetricsService wraps the /metrics endpoints. Event endpoints are public.
type MetricsService struct {
	client *Client
}

// StoreMetrics returns aggregated metrics for the last days days.
func (s *MetricsService) StoreMetrics(ctx context.Context, storeID string, days int) (*StoreMetrics, error) {
	var out StoreMetrics
	endpoint := s.client.buildURL("metrics", "store", storeID) + "?days=" + strconv.Itoa(days)
	if err := s.client.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MetricsService) RecordStoreAccess(ctx context.Context, storeID string) error {
	return s.client.do(ctx, http.MethodPost, s.client.buildURL("metrics", "events", "store-access", storeID), nil, nil)
}

func (s *MetricsService) RecordProductClick(ctx context.Context, storeID, productID string) error {
	return s.client.do(ctx, http.MethodPost, s.client.buildURL("metrics", "events", "product-click", storeID, productID), nil, nil)
}

// RecordProductConversion reports that productID was part of a completed checkout.
func (s *MetricsService) RecordProductConversion(ctx context.Context, storeID, productID string) error {
	return s.client.do(ctx, http.MethodPost, s.client.buildURL("metrics", "events", "product-conversion", storeID, productID), nil, nil)
}
