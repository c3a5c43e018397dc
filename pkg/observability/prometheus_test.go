package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	ctx := context.Background()

	h.OnDerive(12, 11, 3*time.Millisecond)
	if got := testutil.ToFloat64(h.VisibleNodes); got != 12 {
		t.Errorf("visible nodes = %v, want 12", got)
	}
	if got := testutil.ToFloat64(h.VisibleEdges); got != 11 {
		t.Errorf("visible edges = %v, want 11", got)
	}

	h.OnCacheHit(ctx, "tree")
	h.OnCacheHit(ctx, "tree")
	h.OnCacheMiss(ctx, "snapshot")
	h.OnCacheSet(ctx, "snapshot", 512)
	if got := testutil.ToFloat64(h.CacheOperations.WithLabelValues("hit", "tree")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.CacheOperations.WithLabelValues("miss", "snapshot")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.CacheBytes.WithLabelValues("snapshot")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}

	h.OnLoadComplete(ctx, "tree.json", 40, time.Millisecond, nil)
	h.OnLoadComplete(ctx, "bad.json", 0, time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(h.LoadedNodes); got != 40 {
		t.Errorf("loaded nodes = %v, want 40 from the last successful load", got)
	}
	if got := testutil.ToFloat64(h.LoadsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed loads = %v, want 1", got)
	}

	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	if got := testutil.CollectAndCount(h.RenderDuration); got != 1 {
		t.Errorf("render series = %d, want 1", got)
	}
}

func TestPrometheusHooksExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	h.OnDerive(3, 2, time.Millisecond)

	expected := `
# HELP ontoview_visible_nodes Visible nodes and groups after the last derivation
# TYPE ontoview_visible_nodes gauge
ontoview_visible_nodes 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "ontoview_visible_nodes"); err != nil {
		t.Error(err)
	}
}
