package api

import (
	"context"
	"net/http"
)

// BillingService wraps the /billing endpoints.
type BillingService struct {
	client *Client
}

// Create opens a payment request for upgrading storeID to req.PayingPlan.
func (s *BillingService) Create(ctx context.Context, storeID string, req CreateBillingRequest) (*Billing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Billing
	if err := s.client.do(ctx, http.MethodPost, s.client.buildURL("billing", storeID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
