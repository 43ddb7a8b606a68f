// Package metrics exposes Prometheus collectors for race loading, the lap
// cache, comparisons and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "f1sustain"

// Metrics owns a private registry so tests and multiple servers do not clash.
type Metrics struct {
	registry *prometheus.Registry

	racesLoaded   prometheus.Counter
	rowsLoaded    prometheus.Counter
	loadDuration  prometheus.Histogram
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	comparisons   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		racesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_loaded_total",
			Help:      "Race lap files parsed and enriched.",
		}),
		rowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lap_rows_loaded_total",
			Help:      "Lap rows accepted across all loaded races.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "race_load_duration_seconds",
			Help:      "Time to parse and enrich one race file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Lap cache lookups served from memory.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Lap cache lookups that required a load.",
		}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Driver comparisons served, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.racesLoaded,
		m.rowsLoaded,
		m.loadDuration,
		m.cacheHits,
		m.cacheMisses,
		m.comparisons,
		m.httpRequests,
		m.httpDurations,
	)
	return m
}

// CacheHit implements lapdata.Observer.
func (m *Metrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss implements lapdata.Observer.
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// RaceLoaded implements lapdata.Observer.
func (m *Metrics) RaceLoaded(rows int, elapsed time.Duration) {
	m.racesLoaded.Inc()
	m.rowsLoaded.Add(float64(rows))
	m.loadDuration.Observe(elapsed.Seconds())
}

// ComparisonServed counts one comparison with the given outcome.
func (m *Metrics) ComparisonServed(outcome string) {
	m.comparisons.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDurations.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
