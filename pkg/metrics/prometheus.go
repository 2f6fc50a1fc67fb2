package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric the service exports.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	feedPages        *prometheus.CounterVec
	feedPageItems    prometheus.Histogram
	searchRequests   prometheus.Counter
	searchResults    prometheus.Histogram
	postsCreated     prometheus.Counter
	translations     *prometheus.CounterVec
	translationTime  *prometheus.HistogramVec
	llmRequests      *prometheus.CounterVec
	highlightsStored prometheus.Counter
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record helpers

func init() { //nolint:gochecknoinits // register process metrics once
	customRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a Manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "basetopia",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.feedPages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "pages_total",
		Help:      "Feed pages served by feed kind",
	}, []string{"kind"})

	m.feedPageItems = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "page_items",
		Help:      "Posts returned per feed page",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	m.searchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Entity search requests",
	})

	m.searchResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "search",
		Name:      "results",
		Help:      "Results returned per entity search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50},
	})

	m.postsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "posts",
		Name:      "created_total",
		Help:      "Posts created",
	})

	m.translations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "translate",
		Name:      "requests_total",
		Help:      "Backend translation calls by backend and outcome",
	}, []string{"backend", "outcome"})

	m.translationTime = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "translate",
		Name:      "latency_milliseconds",
		Help:      "Backend translation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"backend"})

	m.llmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "agent",
		Name:      "llm_requests_total",
		Help:      "LLM calls by pipeline stage and outcome",
	}, []string{"stage", "outcome"})

	m.highlightsStored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "highlights_stored_total",
		Help:      "Highlight clips inserted or refreshed by ingestion",
	})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordHTTPRequest records one finished HTTP request.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(route, method).Observe(durationMs)
}

// RecordFeedPage records a served feed page.
func RecordFeedPage(kind string, items int) {
	globalManager.feedPages.WithLabelValues(kind).Inc()
	globalManager.feedPageItems.Observe(float64(items))
}

// RecordSearch records an entity search and its result count.
func RecordSearch(results int) {
	globalManager.searchRequests.Inc()
	globalManager.searchResults.Observe(float64(results))
}

// RecordPostCreated increments the created posts counter.
func RecordPostCreated() {
	globalManager.postsCreated.Inc()
}

// RecordTranslation records one backend translation call.
func RecordTranslation(backend string, err error, latencyMs float64) {
	globalManager.translations.WithLabelValues(backend, outcome(err)).Inc()
	globalManager.translationTime.WithLabelValues(backend).Observe(latencyMs)
}

// RecordLLMRequest records one model call of the agent pipeline.
func RecordLLMRequest(stage string, err error) {
	globalManager.llmRequests.WithLabelValues(stage, outcome(err)).Inc()
}

// RecordHighlightsStored adds n ingested clips.
func RecordHighlightsStored(n int64) {
	globalManager.highlightsStored.Add(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
