package cache

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// TreeKey identifies a loaded hierarchy: a source file's content hash
	// plus the subtree options applied to it.
	TreeKey(sourceHash string, opts TreeKeyOpts) string

	// SnapshotKey identifies a derived view of a tree.
	SnapshotKey(treeHash string, opts SnapshotKeyOpts) string

	// ArtifactKey identifies a rendered output of a snapshot.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts are the load options that change a tree.
type TreeKeyOpts struct {
	Root     string `json:"root,omitempty"`
	MaxDepth int    `json:"max_depth"`
}

// SnapshotKeyOpts are the view options that change a snapshot.
type SnapshotKeyOpts struct {
	NodeWidth       float64  `json:"node_width"`
	HorizontalGap   float64  `json:"horizontal_gap"`
	VerticalSpacing float64  `json:"vertical_spacing"`
	GroupThreshold  int      `json:"group_threshold"`
	InitialDepth    int      `json:"initial_depth"`
	ExpandAll       bool     `json:"expand_all,omitempty"`
	Selected        string   `json:"selected,omitempty"`
	Expanded        []string `json:"expanded,omitempty"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Detailed    bool   `json:"detailed,omitempty"`
	Free        bool   `json:"free,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
//
// Key layout:
//
//	tree:<hash(sourceHash, opts)>
//	snapshot:<hash(treeHash, opts)>
//	artifact:<hash(snapshotHash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(sourceHash string, opts TreeKeyOpts) string {
	return hashKey("tree", sourceHash, opts)
}

// SnapshotKey implements [Keyer].
func (DefaultKeyer) SnapshotKey(treeHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", treeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

// KeyType returns the stage prefix of a key produced by [DefaultKeyer]
// ("tree", "snapshot" or "artifact"), ignoring any scope prefix. Unknown
// keys report "other".
func KeyType(key string) string {
	for _, t := range []string{"tree", "snapshot", "artifact"} {
		if hasStage(key, t) {
			return t
		}
	}
	return "other"
}

// hasStage reports whether key contains "<stage>:" followed by a 64-char hash.
func hasStage(key, stage string) bool {
	suffix := len(stage) + 1 + 64
	if len(key) < suffix {
		return false
	}
	tail := key[len(key)-suffix:]
	return tail[:len(stage)+1] == stage+":"
}

var _ Keyer = DefaultKeyer{}
