package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "storefront"

// Conversion outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CheckoutMetrics records checkout handoffs and the conversion events they fire.
type CheckoutMetrics struct {
	checkouts   *prometheus.CounterVec
	conversions *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout collectors on reg.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "handoffs_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "conversion_events_total",
		Help:      "Product conversion events sent, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(checkouts, conversions)
	return &CheckoutMetrics{checkouts: checkouts, conversions: conversions}
}

// CheckoutAttempt counts a checkout by result ("opened", "empty_cart", ...).
func (c *CheckoutMetrics) CheckoutAttempt(result string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ConversionRecorded counts one conversion event; err decides the outcome.
func (c *CheckoutMetrics) ConversionRecorded(err error) {
	if c == nil || c.conversions == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.conversions.WithLabelValues(outcome).Inc()
}
