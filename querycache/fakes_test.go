package querycache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
)

var errOffline = errors.New("network unreachable")

// fakeBackend implements every remote interface over in-memory data and
// counts the calls it receives.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	products   map[string][]api.Product // by store id
	categories map[string][]api.Category
	stores     map[string]api.Store

	failWith     error
	toggleResult func(api.Product) api.Product
	fetchGate    chan struct{}
	fetchStarted chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:      make(map[string]int),
		products:   make(map[string][]api.Product),
		categories: make(map[string][]api.Category),
		stores:     make(map[string]api.Store),
	}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.failWith
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeBackend) remote() Remote {
	return Remote{
		Stores:     fakeStores{f},
		Products:   fakeProducts{f},
		Categories: fakeCategories{f},
		Metrics:    fakeMetrics{f},
		Billing:    fakeBilling{f},
	}
}

type fakeStores struct{ f *fakeBackend }

func (s fakeStores) ListByUser(ctx context.Context, userID string) ([]api.StoreUser, error) {
	if err := s.f.record("stores.ListByUser"); err != nil {
		return nil, err
	}
	return []api.StoreUser{{UserID: userID, StoreID: "s1", Role: api.RoleOwner}}, nil
}

func (s fakeStores) Get(ctx context.Context, storeID string) (*api.Store, error) {
	if err := s.f.record("stores.Get"); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	st := s.f.stores[storeID]
	return &st, nil
}

func (s fakeStores) GetPublic(ctx context.Context, slug string) (*api.PublicStore, error) {
	if err := s.f.record("stores.GetPublic"); err != nil {
		return nil, err
	}
	return &api.PublicStore{Store: api.Store{Slug: slug}}, nil
}

func (s fakeStores) Create(ctx context.Context, req api.CreateStoreRequest) (*api.Store, error) {
	if err := s.f.record("stores.Create"); err != nil {
		return nil, err
	}
	return &api.Store{ID: "s-new", Name: req.Name, Slug: req.Slug}, nil
}

func (s fakeStores) Update(ctx context.Context, storeID string, req api.UpdateStoreRequest) (*api.Store, error) {
	if err := s.f.record("stores.Update"); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	st := s.f.stores[storeID]
	if req.Name != nil {
		st.Name = *req.Name
	}
	s.f.stores[storeID] = st
	return &st, nil
}

func (s fakeStores) UpdateTheme(ctx context.Context, storeID string, req api.UpdateThemeConfigRequest) (*api.Store, error) {
	if err := s.f.record("stores.UpdateTheme"); err != nil {
		return nil, err
	}
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	st := s.f.stores[storeID]
	if req.PrimaryColor != nil {
		st.PrimaryColor = *req.PrimaryColor
	}
	s.f.stores[storeID] = st
	return &st, nil
}

type fakeProducts struct{ f *fakeBackend }

func (p fakeProducts) ListByStore(ctx context.Context, storeID string) ([]api.Product, error) {
	if p.f.fetchStarted != nil {
		close(p.f.fetchStarted)
	}
	if p.f.fetchGate != nil {
		select {
		case <-p.f.fetchGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := p.f.record("products.ListByStore"); err != nil {
		return nil, err
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	return append([]api.Product(nil), p.f.products[storeID]...), nil
}

func (p fakeProducts) ListByCategory(ctx context.Context, categoryID string) ([]api.Product, error) {
	if err := p.f.record("products.ListByCategory"); err != nil {
		return nil, err
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	var out []api.Product
	for _, list := range p.f.products {
		for _, prod := range list {
			if prod.CategoryID() == categoryID {
				out = append(out, prod)
			}
		}
	}
	return out, nil
}

func (p fakeProducts) Get(ctx context.Context, productID string) (*api.Product, error) {
	if err := p.f.record("products.Get"); err != nil {
		return nil, err
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, list := range p.f.products {
		for _, prod := range list {
			if prod.ID == productID {
				return &prod, nil
			}
		}
	}
	return nil, &api.Error{StatusCode: 404, Message: "Product not found"}
}

func (p fakeProducts) Create(ctx context.Context, req api.CreateProductRequest) (*api.Product, error) {
	if err := p.f.record("products.Create"); err != nil {
		return nil, err
	}
	prod := api.Product{
		ID:       "p-new",
		Title:    req.Title,
		Price:    req.Price,
		StoreID:  req.StoreID,
		Category: &api.Category{ID: req.CategoryID},
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	p.f.products[req.StoreID] = append([]api.Product{prod}, p.f.products[req.StoreID]...)
	return &prod, nil
}

func (p fakeProducts) Update(ctx context.Context, productID string, req api.UpdateProductRequest) (*api.Product, error) {
	if err := p.f.record("products.Update"); err != nil {
		return nil, err
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for storeID, list := range p.f.products {
		for i, prod := range list {
			if prod.ID != productID {
				continue
			}
			if req.Title != nil {
				prod.Title = *req.Title
			}
			if req.Price != nil {
				prod.Price = *req.Price
			}
			p.f.products[storeID][i] = prod
			return &prod, nil
		}
	}
	return nil, &api.Error{StatusCode: 404}
}

func (p fakeProducts) Delete(ctx context.Context, productID string) error {
	return p.f.record("products.Delete")
}

func (p fakeProducts) ToggleAvailability(ctx context.Context, productID string) (*api.Product, error) {
	if err := p.f.record("products.ToggleAvailability"); err != nil {
		return nil, err
	}
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for storeID, list := range p.f.products {
		for i, prod := range list {
			if prod.ID != productID {
				continue
			}
			prod.Available = !prod.Available
			if p.f.toggleResult != nil {
				prod = p.f.toggleResult(prod)
			}
			p.f.products[storeID][i] = prod
			return &prod, nil
		}
	}
	return nil, &api.Error{StatusCode: 404}
}

func (p fakeProducts) Reorder(ctx context.Context, categoryID string, productIDs []string) error {
	return p.f.record("products.Reorder")
}

type fakeCategories struct{ f *fakeBackend }

func (c fakeCategories) ListByStore(ctx context.Context, storeID string) ([]api.Category, error) {
	if err := c.f.record("categories.ListByStore"); err != nil {
		return nil, err
	}
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	return append([]api.Category(nil), c.f.categories[storeID]...), nil
}

func (c fakeCategories) Create(ctx context.Context, req api.CreateCategoryRequest) (*api.Category, error) {
	if err := c.f.record("categories.Create"); err != nil {
		return nil, err
	}
	return &api.Category{ID: "c-new", Name: req.Name, StoreID: req.StoreID}, nil
}

func (c fakeCategories) Update(ctx context.Context, categoryID string, req api.UpdateCategoryRequest) (*api.Category, error) {
	if err := c.f.record("categories.Update"); err != nil {
		return nil, err
	}
	cat := api.Category{ID: categoryID, StoreID: "s1"}
	if req.Name != nil {
		cat.Name = *req.Name
	}
	return &cat, nil
}

func (c fakeCategories) Delete(ctx context.Context, categoryID string) error {
	return c.f.record("categories.Delete")
}

type fakeMetrics struct{ f *fakeBackend }

func (m fakeMetrics) StoreMetrics(ctx context.Context, storeID string, days int) (*api.StoreMetrics, error) {
	if err := m.f.record("metrics.StoreMetrics"); err != nil {
		return nil, err
	}
	return &api.StoreMetrics{StoreID: storeID, TotalAccesses: int64(days)}, nil
}

func (m fakeMetrics) RecordStoreAccess(ctx context.Context, storeID string) error {
	return m.f.record("metrics.RecordStoreAccess")
}

func (m fakeMetrics) RecordProductClick(ctx context.Context, storeID, productID string) error {
	return m.f.record("metrics.RecordProductClick")
}

type fakeBilling struct{ f *fakeBackend }

func (b fakeBilling) Create(ctx context.Context, storeID string, req api.CreateBillingRequest) (*api.Billing, error) {
	if err := b.f.record("billing.Create"); err != nil {
		return nil, err
	}
	return &api.Billing{ID: "b1", PayingPlan: req.PayingPlan, PaymentURL: "https://pay.example/b1"}, nil
}

// spyCache counts writes reaching the underlying cache service.
type spyCache struct {
	cache.CacheService
	mu     sync.Mutex
	writes map[string]int
}

func (s *spyCache) note(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes[op]++
}

func (s *spyCache) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.writes {
		n += v
	}
	return n
}

func (s *spyCache) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	s.note("GetOrFetch")
	return s.CacheService.GetOrFetch(ctx, key, fetchFn)
}

func (s *spyCache) Set(ctx context.Context, key string, value any) error {
	s.note("Set")
	return s.CacheService.Set(ctx, key, value)
}

func (s *spyCache) Update(ctx context.Context, key string, fn cache.UpdateFn) error {
	s.note("Update")
	return s.CacheService.Update(ctx, key, fn)
}

type fixture struct {
	backend *fakeBackend
	cache   *spyCache
	layer   *Layer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	svc, err := cache.NewCacheService(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	spy := &spyCache{CacheService: svc, writes: make(map[string]int)}
	backend := newFakeBackend()
	return &fixture{
		backend: backend,
		cache:   spy,
		layer:   New(backend.remote(), spy, cache.NewDefaultKeySerializer(), opts...),
	}
}

func (fx *fixture) cached(key string) (any, bool) {
	return fx.cache.Get(context.Background(), key)
}

func ptr[T any](v T) *T { return &v }
