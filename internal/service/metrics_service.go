package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/univ-registry-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides
// lightweight snapshots for the admin dashboard endpoint.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	stateLatency    prometheus.Observer
	stateHitRatio   prometheus.Gauge
	stateHits       prometheus.Counter
	stateMisses     prometheus.Counter

	stateHitCount        uint64
	stateMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	stateLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "state_latency_seconds",
		Help:    "Latency for registry state store operations",
		Buckets: prometheus.DefBuckets,
	})

	stateHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "state_hit_ratio",
		Help: "Ratio of state store hits to total lookups",
	})

	stateHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "state_hits_total",
		Help: "Total state store hits",
	})

	stateMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "state_misses_total",
		Help: "Total state store misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, stateLatency, stateHitRatio, stateHits, stateMisses, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		stateLatency:    stateLatency,
		stateHitRatio:   stateHitRatio,
		stateHits:       stateHits,
		stateMisses:     stateMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordStateLookup records state store hit/miss metrics and updates the hit ratio.
func (m *MetricsService) RecordStateLookup(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.stateLatency != nil {
		m.stateLatency.Observe(duration.Seconds())
	}
	if hit {
		m.stateHits.Inc()
		atomic.AddUint64(&m.stateHitCount, 1)
	} else {
		m.stateMisses.Inc()
		atomic.AddUint64(&m.stateMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.stateHitCount)
	misses := atomic.LoadUint64(&m.stateMissCount)
	total := hits + misses
	if total > 0 {
		m.stateHitRatio.Set(float64(hits) / float64(total))
	}
}

// Snapshot returns aggregated metrics for the admin system endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.stateHitCount)
	misses := atomic.LoadUint64(&m.stateMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var stateRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		stateRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StateHits:                hits,
		StateMisses:              misses,
		StateHitRatio:            stateRatio,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
