package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoview/pkg/cache"
	"github.com/matzehuels/ontoview/pkg/observability"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, keyer and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → derive → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	reg, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Registry = reg
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = reg.Len()
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded hierarchy",
		"root", reg.Root(),
		"nodes", reg.Len(),
		"truncated", reg.Truncated(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Derive
	deriveStart := time.Now()
	snap, deriveHit, err := r.DeriveWithCacheInfo(ctx, reg, opts)
	if err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	result.Snapshot = snap
	result.Stats.DeriveTime = time.Since(deriveStart)
	result.Stats.VisibleCount = len(snap.Nodes)
	result.Stats.EdgeCount = len(snap.Edges)
	result.CacheInfo.DeriveHit = deriveHit
	if data, err := view.MarshalSnapshot(snap); err == nil {
		result.SnapshotHash = cache.Hash(data)
	}

	r.Logger.Info("derived view",
		"visible", len(snap.Nodes),
		"edges", len(snap.Edges),
		"duration", result.Stats.DeriveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the input tree with caching and reports whether
// the cache was hit. The key hashes the file content, so an edited file is
// never served stale.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (reg *ontology.Registry, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()
	defer func() {
		hooks.OnLoadComplete(ctx, opts.Input, reg.Len(), time.Since(start), err)
	}()

	data, err := readInput(opts.Input)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.TreeKey(cache.Hash(data), opts.TreeKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.get(ctx, cacheKey); ok {
			if reg, err := ontology.ParseTree(cached, ontology.FormatJSON); err == nil {
				return reg, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached tree", "key", cacheKey)
		}
	}

	reg, err = loadData(data, opts)
	if err != nil {
		return nil, false, err
	}

	if encoded, err := ontology.MarshalTree(reg, ontology.FormatJSON); err == nil {
		r.set(ctx, cacheKey, encoded, opts.ttl(cache.TTLTree))
	}
	return reg, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*ontology.Registry, error) {
	reg, _, err := r.LoadWithCacheInfo(ctx, opts)
	return reg, err
}

// DeriveWithCacheInfo derives the initial snapshot with caching and reports
// whether the cache was hit.
func (r *Runner) DeriveWithCacheInfo(ctx context.Context, reg *ontology.Registry, opts Options) (view.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForDerive(); err != nil {
		return view.Snapshot{}, false, err
	}

	treeData, err := ontology.MarshalTree(reg, ontology.FormatJSON)
	if err != nil {
		return view.Snapshot{}, false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	cacheKey := r.Keyer.SnapshotKey(cache.Hash(treeData), opts.SnapshotKeyOpts())

	if cached, ok := r.get(ctx, cacheKey); ok {
		if snap, err := view.UnmarshalSnapshot(cached); err == nil {
			return snap, true, nil
		}
	}

	snap, err := Derive(reg, opts)
	if err != nil {
		return view.Snapshot{}, false, err
	}

	if data, err := view.MarshalSnapshot(snap); err == nil {
		r.set(ctx, cacheKey, data, opts.ttl(cache.TTLSnapshot))
	}
	return snap, false, nil
}

// Derive is a convenience wrapper that calls DeriveWithCacheInfo and discards the cache hit info.
func (r *Runner) Derive(ctx context.Context, reg *ontology.Registry, opts Options) (view.Snapshot, error) {
	snap, _, err := r.DeriveWithCacheInfo(ctx, reg, opts)
	return snap, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s view.Snapshot, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	snapData, err := view.MarshalSnapshot(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	snapHash := cache.Hash(snapData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.get(ctx, r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.set(ctx, r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format)), data, opts.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s view.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key from the cache, reporting hits and misses to the cache
// hooks. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	keyType := cache.KeyType(key)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set writes key to the cache. Failures are logged and otherwise ignored.
func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	keyType := cache.KeyType(key)
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
