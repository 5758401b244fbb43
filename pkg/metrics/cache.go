package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const keySeparator = "::"

// CacheMetrics counts cache activity per key kind ("products", "store", ...).
// It satisfies cache.Observer.
type CacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	cancellations *prometheus.CounterVec
}

// NewCacheMetrics registers the cache collectors on reg. A nil reg returns a
// recorder that drops every observation.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	newVec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, []string{"kind"})
	}
	m := &CacheMetrics{
		hits:          newVec("hits_total", "Cache reads served from storage."),
		misses:        newVec("misses_total", "Cache reads that required a fetch."),
		invalidations: newVec("invalidations_total", "Cache keys invalidated."),
		cancellations: newVec("fetch_cancellations_total", "In-flight fetches cancelled before commit."),
	}
	reg.MustRegister(m.hits, m.misses, m.invalidations, m.cancellations)
	return m
}

func (m *CacheMetrics) CacheHit(key string) {
	if m != nil {
		count(m.hits, key)
	}
}

func (m *CacheMetrics) CacheMiss(key string) {
	if m != nil {
		count(m.misses, key)
	}
}

func (m *CacheMetrics) CacheInvalidated(key string) {
	if m != nil {
		count(m.invalidations, key)
	}
}

func (m *CacheMetrics) FetchCancelled(key string) {
	if m != nil {
		count(m.cancellations, key)
	}
}

func count(vec *prometheus.CounterVec, key string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(KeyKind(key)).Inc()
}

// KeyKind returns the leading segment of a cache key, used as the metric label
// so per-store keys do not explode label cardinality.
func KeyKind(key string) string {
	kind, _, _ := strings.Cut(key, keySeparator)
	return normalizeLabel(kind)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
