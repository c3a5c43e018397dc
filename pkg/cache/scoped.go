package cache

// ScopedKeyer wraps a Keyer with a prefix so that several ontologies or
// users can share one Redis instance without their keys colliding.
//
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:pizza:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(sourceHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(sourceHash, opts)
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(treeHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(treeHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}
