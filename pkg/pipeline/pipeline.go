// Package pipeline provides the load → derive → render pipeline behind the
// ontoview commands.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a tree file and optionally cut it to a subtree
//  2. Derive: build the interactive state (expansion, selection) and derive
//     a positioned [view.Snapshot]
//  3. Render: produce artifacts from the snapshot (JSON, SVG, DOT, Graphviz
//     SVG, PDF, PNG)
//
// Each stage is cached through a [cache.Cache]; keys hash the stage input
// together with every option that changes its output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "pizza.json",
//	    Select:  "http://www.co-ode.org/ontologies/pizza#Margherita",
//	    Formats: []string{"svg", "dot"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoview/pkg/cache"
	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/view"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultInitialDepth expands the root only.
	DefaultInitialDepth = 1

	// DefaultPNGScale is the PNG rasterization scale.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON     = "json"     // snapshot
	FormatSVG      = "svg"      // native SVG at computed positions
	FormatDOT      = "dot"      // Graphviz source with pinned positions
	FormatGraphviz = "graphviz" // SVG rendered by Graphviz
	FormatPDF      = "pdf"
	FormatPNG      = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatGraphviz, FormatPDF, FormatPNG}

// FormatExtension returns the file extension for a format.
func FormatExtension(format string) string {
	if format == FormatGraphviz {
		return "graphviz.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	Input    string `json:"input"`
	Root     string `json:"root,omitempty"`      // subtree root; empty keeps the file's root
	MaxDepth int    `json:"max_depth,omitempty"` // subtree depth limit; 0 means unlimited
	Refresh  bool   `json:"refresh,omitempty"`

	// View options
	Layout         layout.Config `json:"layout"`
	GroupThreshold int           `json:"group_threshold,omitempty"`
	InitialDepth   int           `json:"initial_depth,omitempty"`
	ExpandAll      bool          `json:"expand_all,omitempty"`
	Expanded       []string      `json:"expanded,omitempty"` // extra ids to expand, group ids included
	Select         string        `json:"select,omitempty"`   // class to reveal, select and highlight

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`    // comments and child counts in DOT labels
	Free        bool     `json:"free,omitempty"`        // let Graphviz place nodes
	Interactive bool     `json:"interactive,omitempty"` // hover script in native SVG
	Title       string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	TTL    time.Duration `json:"-"` // overrides the per-stage cache TTLs when > 0

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Registry is the loaded hierarchy.
	Registry *ontology.Registry

	// Snapshot is the derived view.
	Snapshot view.Snapshot

	// SnapshotHash is the content hash of the serialized snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	VisibleCount int
	EdgeCount    int
	LoadTime     time.Duration
	DeriveTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool
	DeriveHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForDerive(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load options.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if err := errors.ValidatePath(o.Input); err != nil {
		return err
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative, got %d", o.MaxDepth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetViewDefaults fills unset view options.
func (o *Options) SetViewDefaults() {
	d := layout.DefaultConfig()
	if o.Layout.NodeWidth == 0 {
		o.Layout.NodeWidth = d.NodeWidth
	}
	if o.Layout.VerticalSpacing == 0 {
		o.Layout.VerticalSpacing = d.VerticalSpacing
	}
	if o.GroupThreshold == 0 {
		o.GroupThreshold = hierarchy.DefaultGroupThreshold
	}
	if o.InitialDepth == 0 {
		o.InitialDepth = DefaultInitialDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForDerive sets view defaults and checks the result.
func (o *Options) ValidateForDerive() error {
	o.SetViewDefaults()
	switch {
	case o.Layout.NodeWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node width must be positive")
	case o.Layout.HorizontalGap < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "horizontal gap must not be negative")
	case o.Layout.VerticalSpacing < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "vertical spacing must be positive")
	case o.GroupThreshold < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "group threshold must be positive")
	case o.InitialDepth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "initial depth must not be negative")
	}
	for _, s := range o.Expanded {
		if _, err := hierarchy.ParseID(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "expand %q", s)
		}
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ttl returns the override TTL or the stage default.
func (o *Options) ttl(stage time.Duration) time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return stage
}

// TreeKeyOpts returns cache key options for the load stage.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{Root: o.Root, MaxDepth: o.MaxDepth}
}

// SnapshotKeyOpts returns cache key options for the derive stage.
func (o *Options) SnapshotKeyOpts() cache.SnapshotKeyOpts {
	expanded := slices.Clone(o.Expanded)
	slices.Sort(expanded)
	return cache.SnapshotKeyOpts{
		NodeWidth:       o.Layout.NodeWidth,
		HorizontalGap:   o.Layout.HorizontalGap,
		VerticalSpacing: o.Layout.VerticalSpacing,
		GroupThreshold:  o.GroupThreshold,
		InitialDepth:    o.InitialDepth,
		ExpandAll:       o.ExpandAll,
		Selected:        o.Select,
		Expanded:        slices.Compact(expanded),
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		opts.Interactive = o.Interactive
	case FormatDOT, FormatGraphviz:
		opts.Detailed = o.Detailed
		opts.Free = o.Free
	case FormatPDF, FormatPNG:
		opts.Interactive = o.Interactive
	}
	return opts
}
