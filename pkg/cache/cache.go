// Package cache provides the byte-level caches used by the ontoview pipeline.
//
// Three backends implement [Cache]:
//
//   - [FileCache] stores snappy-compressed entries under a directory (CLI default)
//   - [RedisCache] stores entries in Redis, for sharing across machines
//   - [NullCache] stores nothing (--no-cache)
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes every option that
// influences a stage's output into the key, so changing a layout setting
// never returns a stale snapshot.
package cache

import (
	"context"
	"time"
)

// TTLs for each cached stage.
const (
	// TTLTree applies to loaded (and possibly depth-limited) hierarchies.
	TTLTree = 24 * time.Hour

	// TTLSnapshot applies to derived view snapshots.
	TTLSnapshot = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key-value store for pipeline stage outputs.
//
// Get reports a miss with hit=false and a nil error. Errors are reserved for
// backend failures; callers in the pipeline treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
