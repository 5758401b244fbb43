package querycache

import (
	"context"

	"github.com/goliatone/go-storefront/api"
)

// CreateBilling opens a payment request. The plan change itself arrives later
// through the backend, so nothing is reconciled here.
func (l *Layer) CreateBilling(ctx context.Context, storeID string, req api.CreateBillingRequest) (api.Billing, error) {
	if err := requireScope("CreateBilling", "store id", storeID); err != nil {
		return api.Billing{}, err
	}
	return deref(l.remote.Billing.Create(ctx, storeID, req))
}
