package catalog

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the events operators watch: which discovery path served a
// request, how often the index degraded, and how often a sync was lost.
type Metrics interface {
	IncDiscover(path string)         // "browse" or "search"
	IncSearchFallback(reason string) // "index_error" or "zero_hits"
	IncIndexSyncFailure(op string)   // "upsert" or "delete"
	IncIndexSyncDropped(op string)   // queue overflow
}

// NoopMetrics discards all counts.
type NoopMetrics struct{}

func (NoopMetrics) IncDiscover(string)         {}
func (NoopMetrics) IncSearchFallback(string)   {}
func (NoopMetrics) IncIndexSyncFailure(string) {}
func (NoopMetrics) IncIndexSyncDropped(string) {}

// PromMetrics implements Metrics on Prometheus counters.
type PromMetrics struct {
	discover     *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	syncFailures *prometheus.CounterVec
	syncDropped  *prometheus.CounterVec
}

// NewPromMetrics registers the catalog counters with the given registerer.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		discover: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhive_discover_requests_total",
			Help: "Discovery requests by serving path.",
		}, []string{"path"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhive_search_fallbacks_total",
			Help: "Discovery requests that fell back to the primary store.",
		}, []string{"reason"}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhive_index_sync_failures_total",
			Help: "Index sync operations that failed.",
		}, []string{"op"}),
		syncDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhive_index_sync_dropped_total",
			Help: "Index sync operations dropped because the queue was full.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.discover, m.fallbacks, m.syncFailures, m.syncDropped)
	return m
}

func (m *PromMetrics) IncDiscover(path string) { m.discover.WithLabelValues(path).Inc() }
func (m *PromMetrics) IncSearchFallback(reason string) {
	m.fallbacks.WithLabelValues(reason).Inc()
}
func (m *PromMetrics) IncIndexSyncFailure(op string) { m.syncFailures.WithLabelValues(op).Inc() }
func (m *PromMetrics) IncIndexSyncDropped(op string) { m.syncDropped.WithLabelValues(op).Inc() }
