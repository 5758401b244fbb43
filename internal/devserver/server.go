package devserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/pkg/logger"
)

const (
	defaultAssetBaseURL   = "https://cdn.storefront.local"
	defaultPaymentBaseURL = "https://pay.storefront.local/checkout"
)

// Options configures a Server. The zero value serves a private in-memory database.
type Options struct {
	// DSN is a go-sqlite3 data source name.
	DSN            string
	Logger         *logger.Logger
	Now            func() time.Time
	AssetBaseURL   string
	PaymentBaseURL string
}

// Server is a reference implementation of the storefront REST backend. It
// exists for integration tests and the demo, not for production traffic.
type Server struct {
	db             *bun.DB
	router         chi.Router
	logger         *logger.Logger
	now            func() time.Time
	assetBaseURL   string
	paymentBaseURL string
}

func New(ctx context.Context, opts Options) (*Server, error) {
	db, err := openDB(ctx, opts.DSN)
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:             db,
		logger:         opts.Logger,
		now:            opts.Now,
		assetBaseURL:   strings.TrimRight(opts.AssetBaseURL, "/"),
		paymentBaseURL: strings.TrimRight(opts.PaymentBaseURL, "/"),
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.assetBaseURL == "" {
		s.assetBaseURL = defaultAssetBaseURL
	}
	if s.paymentBaseURL == "" {
		s.paymentBaseURL = defaultPaymentBaseURL
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		s.requestLogging,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Post("/", s.handleCreateStore)
			r.Get("/user/{userID}", s.handleListUserStores)
			r.Get("/public/{slug}", s.handleGetPublicStore)
			r.Get("/{storeID}", s.handleGetStore)
			r.Put("/{storeID}", s.handleUpdateStore)
			r.Put("/{storeID}/theme", s.handleUpdateTheme)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/store/{storeID}", s.handleListCategories)
			r.Get("/{categoryID}", s.handleGetCategory)
			r.Put("/{categoryID}", s.handleUpdateCategory)
			r.Delete("/{categoryID}", s.handleDeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.handleCreateProduct)
			r.Get("/store/{storeID}", s.handleListStoreProducts)
			r.Get("/category/{categoryID}", s.handleListCategoryProducts)
			r.Put("/category/{categoryID}/order", s.handleReorderProducts)
			r.Get("/{productID}", s.handleGetProduct)
			r.Put("/{productID}", s.handleUpdateProduct)
			r.Delete("/{productID}", s.handleDeleteProduct)
			r.Patch("/{productID}/toggle-availability", s.handleToggleAvailability)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/store/{storeID}", s.handleStoreMetrics)
			r.Post("/events/store-access/{storeID}", s.handleRecordEvent(eventStoreAccess))
			r.Post("/events/product-click/{storeID}/{productID}", s.handleRecordEvent(eventProductClick))
			r.Post("/events/product-conversion/{storeID}/{productID}", s.handleRecordEvent(eventProductConversion))
		})

		r.Post("/billing/{storeID}", s.handleCreateBilling)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, &statusError{status: http.StatusMethodNotAllowed, message: "method not allowed"})
	})
	return r
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := s.logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = s.logger.WithFields(ctx, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		ctx = s.logger.WithFields(ctx, map[string]any{
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		s.logger.Debug(ctx, "request.complete")
	})
}

// userFromRequest treats the bearer token as the user id.
func userFromRequest(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) timestamp() time.Time {
	return s.now().UTC()
}
