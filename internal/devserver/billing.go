package devserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/api"
)

const paymentLinkTTL = 24 * time.Hour

// planPrices are in cents.
var planPrices = map[api.PayingPlan]map[api.PlanDuration]int64{
	api.PlanBasic: {api.DurationMonthly: 2990, api.DurationYearly: 29900},
	api.PlanPro:   {api.DurationMonthly: 5990, api.DurationYearly: 59900},
}

// handleCreateBilling opens a payment request. The plan itself only changes
// once the payment provider confirms, which this server never does.
func (s *Server) handleCreateBilling(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateBillingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	store, err := s.findStore(ctx, s.db, chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	billing, err := s.createBilling(ctx, store.ID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, billing.toAPI())
}

func (s *Server) createBilling(ctx context.Context, storeID string, req api.CreateBillingRequest) (*billingRow, error) {
	now := s.timestamp()
	id := uuid.NewString()
	row := &billingRow{
		ID:           id,
		StoreID:      storeID,
		PaymentURL:   s.paymentBaseURL + "/" + id,
		Price:        planPrices[req.PayingPlan][req.PlanDuration],
		PayingPlan:   req.PayingPlan,
		PlanDuration: req.PlanDuration,
		ExpiresAt:    now.Add(paymentLinkTTL),
		ExternalID:   "bill_" + strings.ReplaceAll(id, "-", "")[:16],
		CreatedAt:    now,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, err
	}
	return row, nil
}
