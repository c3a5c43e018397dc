package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"graphviz", false},
		{"pdf", false},
		{"png", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil {
			assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	assert.NoError(t, ValidateFormats([]string{"svg", "dot"}))
	assert.Error(t, ValidateFormats([]string{"svg", "tower"}))
	assert.NoError(t, ValidateFormats(nil), "empty formats should pass")
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "tree.json"}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, layout.DefaultNodeWidth, opts.Layout.NodeWidth)
	assert.Equal(t, layout.DefaultVerticalSpacing, opts.Layout.VerticalSpacing)
	assert.Equal(t, hierarchy.DefaultGroupThreshold, opts.GroupThreshold)
	assert.Equal(t, DefaultInitialDepth, opts.InitialDepth)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.NotNil(t, opts.Logger)

	// Idempotent
	opts.Formats = []string{"bogus"}
	assert.NoError(t, opts.ValidateAndSetDefaults())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"MissingInput", Options{}, errors.ErrCodeInvalidInput},
		{"ControlCharInPath", Options{Input: "a\x00b"}, errors.ErrCodeInvalidPath},
		{"NegativeDepth", Options{Input: "t.json", MaxDepth: -1}, errors.ErrCodeInvalidInput},
		{"NegativeWidth", Options{Input: "t.json", Layout: layout.Config{NodeWidth: -1}}, errors.ErrCodeInvalidConfig},
		{"NegativeGap", Options{Input: "t.json", Layout: layout.Config{HorizontalGap: -5}}, errors.ErrCodeInvalidConfig},
		{"NegativeThreshold", Options{Input: "t.json", GroupThreshold: -1}, errors.ErrCodeInvalidConfig},
		{"BadExpandedID", Options{Input: "t.json", Expanded: []string{""}}, errors.ErrCodeInvalidInput},
		{"BadFormat", Options{Input: "t.json", Formats: []string{"tower"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestSnapshotKeyOptsNormalizesExpanded(t *testing.T) {
	a := Options{Expanded: []string{"B", "A", "B"}}
	b := Options{Expanded: []string{"A", "B"}}
	assert.Equal(t, a.SnapshotKeyOpts(), b.SnapshotKeyOpts())
	assert.Equal(t, []string{"B", "A", "B"}, a.Expanded, "options are not mutated")
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true, Free: true, Interactive: true}

	dot := opts.ArtifactKeyOpts(FormatDOT)
	assert.True(t, dot.Detailed)
	assert.True(t, dot.Free)
	assert.False(t, dot.Interactive)

	svg := opts.ArtifactKeyOpts(FormatSVG)
	assert.False(t, svg.Detailed, "DOT options do not split native SVG keys")
	assert.True(t, svg.Interactive)

	assert.Equal(t, FormatJSON, opts.ArtifactKeyOpts(FormatJSON).Format)
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "svg", FormatExtension(FormatSVG))
	assert.Equal(t, "graphviz.svg", FormatExtension(FormatGraphviz))
}
