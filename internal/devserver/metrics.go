package devserver

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-storefront/api"
)

const (
	defaultMetricsDays = 30
	maxMetricsDays     = 365
	topLimit           = 10
)

func (s *Server) handleRecordEvent(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID := chi.URLParam(r, "storeID")
		productID := chi.URLParam(r, "productID")

		if _, err := s.findStore(ctx, s.db, storeID); err != nil {
			s.writeError(w, r, err)
			return
		}
		if productID != "" {
			product, err := s.findProduct(ctx, s.db, productID)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			if product.StoreID != storeID {
				s.writeError(w, r, notFound("product"))
				return
			}
		}

		event := &eventRow{StoreID: storeID, Kind: kind, EntityID: productID, OccurredAt: s.timestamp()}
		if _, err := s.db.NewInsert().Model(event).Exec(ctx); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleStoreMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := defaultMetricsDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMetricsDays {
			s.writeError(w, r, badRequest("days must be between 1 and %d", maxMetricsDays))
			return
		}
		days = n
	}

	store, err := s.findStore(ctx, s.db, chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	end := s.timestamp()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	var events []eventRow
	if err := s.db.NewSelect().Model(&events).
		Where("store_id = ?", store.ID).
		Where("occurred_at >= ?", start).
		Where("occurred_at <= ?", end).
		Scan(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}

	var products []productRow
	if err := s.db.NewSelect().Model(&products).Column("id", "title").Where("store_id = ?", store.ID).Scan(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	titles := make(map[string]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}

	metrics := aggregateMetrics(events, titles)
	metrics.StoreID = store.ID
	metrics.StoreName = store.Name
	metrics.StartDate = start
	metrics.EndDate = end
	s.writeJSON(w, http.StatusOK, metrics)
}

// aggregateMetrics folds raw events into totals, UTC daily buckets and top products.
func aggregateMetrics(events []eventRow, titles map[string]string) api.StoreMetrics {
	out := api.StoreMetrics{
		DailyMetrics:             []api.DailyMetrics{},
		TopProductsByClicks:      []api.ProductMetrics{},
		TopProductsByConversions: []api.ProductMetrics{},
		TopCategoriesByClicks:    []api.CategoryMetrics{},
		TopCategoriesByAccesses:  []api.CategoryMetrics{},
	}

	daily := make(map[time.Time]*api.DailyMetrics)
	perProduct := make(map[string]*api.ProductMetrics)

	for _, e := range events {
		day := e.OccurredAt.UTC().Truncate(24 * time.Hour)
		bucket, ok := daily[day]
		if !ok {
			bucket = &api.DailyMetrics{Date: day}
			daily[day] = bucket
		}

		var pm *api.ProductMetrics
		if e.EntityID != "" {
			pm, ok = perProduct[e.EntityID]
			if !ok {
				title, known := titles[e.EntityID]
				if !known {
					title = "Produto não encontrado"
				}
				pm = &api.ProductMetrics{ProductID: e.EntityID, ProductTitle: title}
				perProduct[e.EntityID] = pm
			}
		}

		switch e.Kind {
		case eventStoreAccess:
			out.TotalAccesses++
			bucket.Accesses++
		case eventProductClick:
			out.TotalProductClicks++
			bucket.ProductClicks++
			if pm != nil {
				pm.Clicks++
			}
		case eventProductConversion:
			out.TotalProductConversions++
			bucket.ProductConversions++
			if pm != nil {
				pm.Conversions++
			}
		}
	}

	for _, bucket := range daily {
		out.DailyMetrics = append(out.DailyMetrics, *bucket)
	}
	sort.Slice(out.DailyMetrics, func(i, j int) bool {
		return out.DailyMetrics[i].Date.Before(out.DailyMetrics[j].Date)
	})

	all := make([]api.ProductMetrics, 0, len(perProduct))
	for _, pm := range perProduct {
		pm.ConversionRate = conversionRate(pm.Conversions, pm.Clicks)
		all = append(all, *pm)
	}
	out.TopProductsByClicks = topProducts(all, func(p api.ProductMetrics) int64 { return p.Clicks })
	out.TopProductsByConversions = topProducts(all, func(p api.ProductMetrics) int64 { return p.Conversions })
	return out
}

// conversionRate is conversions per click as a percentage with two decimals.
func conversionRate(conversions, clicks int64) float64 {
	if clicks == 0 {
		return 0
	}
	return decimal.NewFromInt(conversions).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(clicks)).
		Round(2).
		InexactFloat64()
}

func topProducts(all []api.ProductMetrics, score func(api.ProductMetrics) int64) []api.ProductMetrics {
	ranked := make([]api.ProductMetrics, 0, len(all))
	for _, p := range all {
		if score(p) > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if si, sj := score(ranked[i]), score(ranked[j]); si != sj {
			return si > sj
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > topLimit {
		ranked = ranked[:topLimit]
	}
	return ranked
}
