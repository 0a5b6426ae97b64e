package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "multiboard"

// Prometheus implements every hook interface by recording metrics.
type Prometheus struct {
	plans          *prometheus.CounterVec
	planTiles      prometheus.Histogram
	compiles       *prometheus.CounterVec
	compileSeconds *prometheus.HistogramVec
	compileBytes   *prometheus.CounterVec
	drawings       *prometheus.CounterVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
}

// NewPrometheus creates the metrics and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "plans_total",
			Help: "Plans computed, by outcome.",
		}, []string{"result"}),
		planTiles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "plan_tiles",
			Help:    "Tiles per successful plan.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "compiles_total",
			Help: "Model compilations, by format and outcome.",
		}, []string{"format", "result"}),
		compileSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "compile_duration_seconds",
			Help:    "Model compilation time.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"format"}),
		compileBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "compile_bytes_total",
			Help: "Bytes of compiled models.",
		}, []string{"format"}),
		drawings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pipeline", Name: "drawings_total",
			Help: "2D drawings rendered, by format and outcome.",
		}, []string{"format", "result"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "operations_total",
			Help: "Cache lookups and writes.",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_in_flight",
			Help: "Requests currently being served.",
		}),
	}
	reg.MustRegister(
		m.plans, m.planTiles, m.compiles, m.compileSeconds, m.compileBytes, m.drawings,
		m.cacheOps, m.cacheBytes, m.httpRequests, m.httpDuration, m.httpInFlight,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Prometheus) OnPlanComplete(_ context.Context, tiles, _ int, _ time.Duration, err error) {
	m.plans.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.planTiles.Observe(float64(tiles))
	}
}

func (m *Prometheus) OnCompileStart(context.Context, string, string) {}

func (m *Prometheus) OnCompileComplete(_ context.Context, _, format string, size int, d time.Duration, err error) {
	m.compiles.WithLabelValues(format, result(err)).Inc()
	m.compileSeconds.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		m.compileBytes.WithLabelValues(format).Add(float64(size))
	}
}

func (m *Prometheus) OnDrawingComplete(_ context.Context, format string, _ time.Duration, err error) {
	m.drawings.WithLabelValues(format, result(err)).Inc()
}

func (m *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Prometheus) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	label := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, label).Inc()
	m.httpDuration.WithLabelValues(method, route, label).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
