package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncInjections(result string)
	SetReadyReceivers(count int)
	SetWatchListSize(count int)
	SetPaused(paused bool)
}

const (
	InjectionSucceeded = "success"
	InjectionFailed    = "failure"
	InjectionSkipped   = "skipped"
)

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	injectionsTotal     *prometheus.CounterVec
	readyReceivers      prometheus.Gauge
	watchListSize       prometheus.Gauge
	paused              prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncInjections(result string) {
	m.injectionsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetReadyReceivers(count int) {
	m.readyReceivers.Set(float64(count))
}

func (m *MetricsProvider) SetWatchListSize(count int) {
	m.watchListSize.Set(float64(count))
}

func (m *MetricsProvider) SetPaused(paused bool) {
	if paused {
		m.paused.Set(1)
		return
	}
	m.paused.Set(0)
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "injector_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "injector_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "injector_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "injector_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "injector_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		injectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "injector_injections_total",
			Help: "Injection attempts by result",
		}, []string{"result"}),

		readyReceivers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "injector_ready_receivers",
			Help: "Receivers found ready by the last readiness evaluation",
		}),

		watchListSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "injector_watch_list_size",
			Help: "Number of receivers in the current schedule generation",
		}),

		paused: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "injector_paused",
			Help: "1 while injections are paused",
		}),
	}
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncInjections(_ string)                           {}
func (n *noopMetrics) SetReadyReceivers(_ int)                          {}
func (n *noopMetrics) SetWatchListSize(_ int)                           {}
func (n *noopMetrics) SetPaused(_ bool)                                 {}
