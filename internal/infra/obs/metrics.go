package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casacueto/internal/domain/availability"
)

// Metrics owns the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	bookingsCreated prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	loadResults     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings accepted by POST /api/bookings.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits observed.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses observed.",
		}),
		loadResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_loads_total",
			Help: "Availability loads by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.cacheHits,
		m.cacheMisses,
		m.loadResults,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) BookingCreated() { m.bookingsCreated.Inc() }

func (m *Metrics) CacheHit(string)  { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss(string) { m.cacheMisses.Inc() }

func (m *Metrics) LoadSucceeded(availability.RoomID, int) {
	m.loadResults.WithLabelValues("ok").Inc()
}

func (m *Metrics) LoadFailed(availability.RoomID) {
	m.loadResults.WithLabelValues("failed").Inc()
}

var _ availability.Observer = (*Metrics)(nil)
