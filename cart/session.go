package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-storefront/pkg/logger"
)

var (
	// ErrCheckoutUnavailable is returned when the store has no contact phone.
	ErrCheckoutUnavailable = errors.New("cart: checkout unavailable without a contact phone")
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart: cart is empty")
)

// DefaultConversionConcurrency bounds the conversion events sent at once.
const DefaultConversionConcurrency = 4

// Checkout results reported to the CheckoutRecorder.
const (
	ResultOpened      = "opened"
	ResultUnavailable = "unavailable"
	ResultEmptyCart   = "empty_cart"
	ResultOpenFailed  = "open_failed"
)

// LinkOpener hands the checkout deep link to the messaging app. The result of
// the conversation is never observed.
type LinkOpener interface {
	OpenLink(ctx context.Context, link string) error
}

// LinkOpenerFunc adapts a function to LinkOpener.
type LinkOpenerFunc func(ctx context.Context, link string) error

func (f LinkOpenerFunc) OpenLink(ctx context.Context, link string) error {
	return f(ctx, link)
}

// ConversionRecorder sends one conversion event per product. *api.MetricsService
// satisfies it.
type ConversionRecorder interface {
	RecordProductConversion(ctx context.Context, storeID, productID string) error
}

// CheckoutRecorder counts checkout outcomes. *metrics.CheckoutMetrics satisfies it.
type CheckoutRecorder interface {
	CheckoutAttempt(result string)
	ConversionRecorded(err error)
}

// Handoff describes a completed checkout.
type Handoff struct {
	SessionID string
	Link      string
	Message   string
	Total     int64
	Items     int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithLogger(log *logger.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

func WithCheckoutRecorder(r CheckoutRecorder) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithConversionConcurrency bounds the conversion events in flight. Values
// below 1 keep the default.
func WithConversionConcurrency(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Session is one opening of the cart sheet for a store. Conversion events are
// sent at most once per session; Open starts a new session and re-arms them.
type Session struct {
	cart        *Cart
	storeID     string
	phone       string
	opener      LinkOpener
	conversions ConversionRecorder
	recorder    CheckoutRecorder
	logger      *logger.Logger
	concurrency int

	mu      sync.Mutex
	id      string
	open    bool
	fired   bool
	pending sync.WaitGroup
}

// NewSession creates a closed session for cart. phone is the store's contact
// number and may be empty, in which case checkout is unavailable.
func NewSession(cart *Cart, storeID, phone string, opener LinkOpener, conversions ConversionRecorder, opts ...SessionOption) *Session {
	s := &Session{
		cart:        cart,
		storeID:     storeID,
		phone:       phone,
		opener:      opener,
		conversions: conversions,
		recorder:    nopRecorder{},
		logger:      logger.Nop(),
		concurrency: DefaultConversionConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open starts a new session. It is the only place the conversion guard is reset.
func (s *Session) Open() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.open = true
	s.fired = false
	return s.id
}

// IsOpen reports whether the session is open. Checkout closes it.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Available reports whether checkout can be offered at all.
func (s *Session) Available() bool {
	return PhoneDigits(s.phone) != ""
}

// Checkout hands the cart to the merchant: the conversion batch is started in
// the background, the deep link is opened right away, then the cart is cleared
// and the session closed.
//
// If the link cannot be opened the cart is kept so the buyer can retry; the
// conversion batch is not sent again within the same session.
func (s *Session) Checkout(ctx context.Context) (Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Available() {
		s.recorder.CheckoutAttempt(ResultUnavailable)
		return Handoff{}, ErrCheckoutUnavailable
	}
	items := s.cart.Items()
	if len(items) == 0 {
		s.recorder.CheckoutAttempt(ResultEmptyCart)
		return Handoff{}, ErrEmptyCart
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	ctx = s.logger.WithFields(ctx, map[string]any{"store_id": s.storeID, "session_id": s.id})

	if !s.fired {
		s.fired = true
		s.sendConversions(ctx, items)
	}

	message := FormatMessage(items)
	handoff := Handoff{
		SessionID: s.id,
		Link:      DeepLink(s.phone, message),
		Message:   message,
		Total:     s.cart.TotalPrice(),
		Items:     s.cart.TotalItems(),
	}

	if err := s.opener.OpenLink(ctx, handoff.Link); err != nil {
		s.recorder.CheckoutAttempt(ResultOpenFailed)
		s.logger.Error(ctx, "checkout link could not be opened", err)
		return Handoff{}, fmt.Errorf("cart: open checkout link: %w", err)
	}

	s.cart.Clear()
	s.open = false
	s.recorder.CheckoutAttempt(ResultOpened)
	s.logger.Info(ctx, "checkout handed off")
	return handoff, nil
}

// Wait blocks until every conversion batch started by this session finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

// sendConversions fires one event per distinct product without blocking the
// caller. Failures are logged and counted, never returned.
func (s *Session) sendConversions(ctx context.Context, items []LineItem) {
	if s.conversions == nil || s.storeID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)

	seen := make(map[string]struct{}, len(items))
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Product.ID]; dup {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		productIDs = append(productIDs, item.Product.ID)
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for _, productID := range productIDs {
			g.Go(func() error {
				err := s.conversions.RecordProductConversion(ctx, s.storeID, productID)
				s.recorder.ConversionRecorded(err)
				if err != nil {
					s.logger.Warn(s.logger.WithField(ctx, "product_id", productID), "product conversion not recorded", err)
				}
				// never cancel sibling events
				return nil
			})
		}
		_ = g.Wait()
	}()
}

type nopRecorder struct{}

func (nopRecorder) CheckoutAttempt(string)   {}
func (nopRecorder) ConversionRecorded(error) {}
