package cart

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-storefront/api"
)

type recordingOpener struct {
	mu    sync.Mutex
	links []string
	fail  error
}

func (o *recordingOpener) OpenLink(ctx context.Context, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.links = append(o.links, link)
	return nil
}

func (o *recordingOpener) opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.links)
}

type recordingConversions struct {
	mu       sync.Mutex
	products []string
	failFor  map[string]error
	release  chan struct{}
}

func (r *recordingConversions) RecordProductConversion(ctx context.Context, storeID, productID string) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, storeID+"/"+productID)
	return r.failFor[productID]
}

func (r *recordingConversions) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.products...)
	sort.Strings(out)
	return out
}

type countingRecorder struct {
	mu          sync.Mutex
	results     map[string]int
	conversions int
	failures    int
}

func (c *countingRecorder) CheckoutAttempt(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		c.results = make(map[string]int)
	}
	c.results[result]++
}

func (c *countingRecorder) ConversionRecorded(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversions++
	if err != nil {
		c.failures++
	}
}

func filledCart() *Cart {
	c := New()
	c.Add(api.Product{ID: "P1", Title: "Caneca", Price: 1200})
	c.Add(api.Product{ID: "P1", Title: "Caneca", Price: 1200})
	c.Add(api.Product{ID: "P2", Title: "Camiseta", Price: 2000, PromotionalPrice: ptr(int64(1500))})
	return c
}

func TestSession_Checkout(t *testing.T) {
	c := filledCart()
	opener := &recordingOpener{}
	conversions := &recordingConversions{}
	recorder := &countingRecorder{}
	s := NewSession(c, "s1", "(11) 98765-4321", opener, conversions, WithCheckoutRecorder(recorder))
	id := s.Open()

	handoff, err := s.Checkout(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Wait()

	if handoff.SessionID != id || handoff.Total != 3900 || handoff.Items != 3 {
		t.Errorf("unexpected handoff %+v", handoff)
	}
	if !strings.HasPrefix(handoff.Link, "https://wa.me/5511987654321?text=") {
		t.Errorf("unexpected link %q", handoff.Link)
	}
	if !strings.HasSuffix(handoff.Message, "Total: R$ 39,00") {
		t.Errorf("unexpected message %q", handoff.Message)
	}
	if opener.opened() != 1 {
		t.Errorf("expected link opened once, got %d", opener.opened())
	}

	got := conversions.sent()
	if len(got) != 2 || got[0] != "s1/P1" || got[1] != "s1/P2" {
		t.Errorf("expected one conversion per distinct product, got %v", got)
	}
	if c.Len() != 0 {
		t.Error("cart should be cleared after checkout")
	}
	if s.IsOpen() {
		t.Error("session should be closed after checkout")
	}
	if recorder.results[ResultOpened] != 1 || recorder.conversions != 2 {
		t.Errorf("unexpected recorder state %+v", recorder)
	}
}

func TestSession_ConversionsFireOncePerSession(t *testing.T) {
	c := filledCart()
	opener := &recordingOpener{fail: errors.New("no handler for link")}
	conversions := &recordingConversions{}
	s := NewSession(c, "s1", "11987654321", opener, conversions)
	s.Open()
	ctx := context.Background()

	if _, err := s.Checkout(ctx); err == nil {
		t.Fatal("expected open failure")
	}
	if c.Len() != 2 {
		t.Fatal("cart must be kept when the link could not be opened")
	}

	opener.mu.Lock()
	opener.fail = nil
	opener.mu.Unlock()

	if _, err := s.Checkout(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	s.Wait()

	if got := conversions.sent(); len(got) != 2 {
		t.Errorf("conversion batch must fire exactly once, got %v", got)
	}
}

func TestSession_ConcurrentCheckoutFiresOneBatch(t *testing.T) {
	conversions := &recordingConversions{}
	s := NewSession(filledCart(), "s1", "11987654321", &recordingOpener{}, conversions)
	s.Open()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Checkout(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	s.Wait()

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, ErrEmptyCart):
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected one successful checkout, got %d", succeeded)
	}
	if got := conversions.sent(); len(got) != 2 {
		t.Errorf("expected a single batch, got %v", got)
	}
}

func TestSession_OpenRearmsGuard(t *testing.T) {
	c := New()
	conversions := &recordingConversions{}
	s := NewSession(c, "s1", "11987654321", &recordingOpener{}, conversions)
	ctx := context.Background()

	first := s.Open()
	c.Add(api.Product{ID: "P1", Price: 100})
	if _, err := s.Checkout(ctx); err != nil {
		t.Fatal(err)
	}

	// no Open: the guard stays armed
	c.Add(api.Product{ID: "P2", Price: 100})
	if _, err := s.Checkout(ctx); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if got := conversions.sent(); len(got) != 1 {
		t.Fatalf("guard must only reset on Open, got %v", got)
	}

	second := s.Open()
	if first == second {
		t.Error("Open should start a new session id")
	}
	c.Add(api.Product{ID: "P3", Price: 100})
	if _, err := s.Checkout(ctx); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if got := conversions.sent(); len(got) != 2 || got[1] != "s1/P3" {
		t.Errorf("reopened session should fire again, got %v", got)
	}
}

func TestSession_CheckoutDoesNotWaitForConversions(t *testing.T) {
	conversions := &recordingConversions{release: make(chan struct{})}
	opener := &recordingOpener{}
	s := NewSession(filledCart(), "s1", "11987654321", opener, conversions, WithConversionConcurrency(1))
	s.Open()

	if _, err := s.Checkout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if opener.opened() != 1 {
		t.Error("link must open while conversions are still pending")
	}
	if len(conversions.sent()) != 0 {
		t.Error("conversions should still be blocked")
	}

	close(conversions.release)
	s.Wait()
	if len(conversions.sent()) != 2 {
		t.Error("conversions should complete after release")
	}
}

func TestSession_ConversionFailuresAreSwallowed(t *testing.T) {
	conversions := &recordingConversions{failFor: map[string]error{"P1": errors.New("503")}}
	recorder := &countingRecorder{}
	s := NewSession(filledCart(), "s1", "11987654321", &recordingOpener{}, conversions, WithCheckoutRecorder(recorder))
	s.Open()

	if _, err := s.Checkout(context.Background()); err != nil {
		t.Fatalf("conversion failures must not surface, got %v", err)
	}
	s.Wait()

	if len(conversions.sent()) != 2 {
		t.Error("a failing event must not stop the others")
	}
	if recorder.failures != 1 {
		t.Errorf("expected one failure counted, got %d", recorder.failures)
	}
}

func TestSession_Preconditions(t *testing.T) {
	t.Run("no phone", func(t *testing.T) {
		opener := &recordingOpener{}
		conversions := &recordingConversions{}
		s := NewSession(filledCart(), "s1", "", opener, conversions)
		s.Open()

		if s.Available() {
			t.Error("checkout should be unavailable without a phone")
		}
		if _, err := s.Checkout(context.Background()); !errors.Is(err, ErrCheckoutUnavailable) {
			t.Errorf("expected ErrCheckoutUnavailable, got %v", err)
		}
		s.Wait()
		if opener.opened() != 0 || len(conversions.sent()) != 0 {
			t.Error("nothing may be opened or sent")
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		opener := &recordingOpener{}
		conversions := &recordingConversions{}
		s := NewSession(New(), "s1", "11987654321", opener, conversions)
		s.Open()

		if _, err := s.Checkout(context.Background()); !errors.Is(err, ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
		s.Wait()
		if opener.opened() != 0 || len(conversions.sent()) != 0 {
			t.Error("nothing may be opened or sent")
		}
	})
}
