package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics.
type PrometheusHooks struct {
	LoadsTotal      *prometheus.CounterVec
	LoadDuration    prometheus.Histogram
	LoadedNodes     prometheus.Gauge
	RenderDuration  *prometheus.HistogramVec
	DeriveDuration  prometheus.Histogram
	VisibleNodes    prometheus.Gauge
	VisibleEdges    prometheus.Gauge
	CacheOperations *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ ViewHooks     = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the ontoview metrics and registers them with
// reg. Pass prometheus.NewRegistry() in tests to avoid global state.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		LoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ontoview_tree_loads_total",
				Help: "Tree loads by outcome",
			},
			[]string{"status"},
		),
		LoadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ontoview_tree_load_duration_seconds",
				Help:    "Time spent reading and validating tree files",
				Buckets: prometheus.DefBuckets,
			},
		),
		LoadedNodes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ontoview_tree_nodes",
				Help: "Classes in the most recently loaded tree",
			},
		),
		RenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ontoview_render_duration_seconds",
				Help:    "Time spent rendering outputs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		DeriveDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ontoview_derive_duration_seconds",
				Help:    "Time spent deriving visible set, layout and edges",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		VisibleNodes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ontoview_visible_nodes",
				Help: "Visible nodes and groups after the last derivation",
			},
		),
		VisibleEdges: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "ontoview_visible_edges",
				Help: "Visible edges after the last derivation",
			},
		),
		CacheOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ontoview_cache_operations_total",
				Help: "Cache operations by kind and key type",
			},
			[]string{"op", "key_type"},
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ontoview_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLoadStart(context.Context, string) {}

func (h *PrometheusHooks) OnLoadComplete(_ context.Context, _ string, nodeCount int, d time.Duration, err error) {
	h.LoadsTotal.WithLabelValues(status(err)).Inc()
	h.LoadDuration.Observe(d.Seconds())
	if err == nil {
		h.LoadedNodes.Set(float64(nodeCount))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.RenderDuration.WithLabelValues(status(err)).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnDerive(nodeCount, edgeCount int, d time.Duration) {
	h.DeriveDuration.Observe(d.Seconds())
	h.VisibleNodes.Set(float64(nodeCount))
	h.VisibleEdges.Set(float64(edgeCount))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheOperations.WithLabelValues("hit", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheOperations.WithLabelValues("miss", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheOperations.WithLabelValues("set", keyType).Inc()
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}
