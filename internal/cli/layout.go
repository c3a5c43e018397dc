package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoview/pkg/pipeline"
	"github.com/matzehuels/ontoview/pkg/render"
)

// layoutFlags holds the command-line state of the layout command that does
// not map directly onto pipeline options.
type layoutFlags struct {
	output  string
	formats string
	noCache bool
}

// layoutCommand creates the layout command, which lays out a view of a tree
// file and exports it.
func (c *CLI) layoutCommand() *cobra.Command {
	var lf layoutFlags
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Lay out a view of a tree file and export it",
		Long: `Lay out a view of a tree file and export it.

The view starts with every class above --initial-depth expanded (or
everything with --expand-all). --expand adds classes or letter groups
such as "group:<parent>:P", and --select reveals a class, marks it and
highlights its path to the root.

Formats: json (view snapshot), svg, dot, graphviz (SVG laid out by
Graphviz), pdf and png. PDF and PNG need rsvg-convert on the PATH.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFileArg(treeFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(lf.formats)
			c.applyConfig(cmd, &opts)
			return c.runLayout(cmd.Context(), opts, lf)
		},
	}

	cmd.Flags().StringVarP(&lf.output, "output", "o", "", "output file for a single format, or base path (default: <input>.<format>)")
	cmd.Flags().StringVarP(&lf.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().BoolVar(&lf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "reload the tree file even if cached")

	// Load flags
	cmd.Flags().StringVar(&opts.Root, "root", "", "lay out only the hierarchy below this class")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "depth limit below the root (0: unlimited)")

	// View flags
	cmd.Flags().IntVar(&opts.InitialDepth, "initial-depth", opts.InitialDepth, "expand classes above this depth")
	cmd.Flags().BoolVar(&opts.ExpandAll, "expand-all", false, "expand every class and group")
	cmd.Flags().StringSliceVar(&opts.Expanded, "expand", nil, "additional classes or groups to expand")
	cmd.Flags().StringVarP(&opts.Select, "select", "s", "", "class to reveal, select and highlight")
	cmd.Flags().IntVar(&opts.GroupThreshold, "group-threshold", opts.GroupThreshold, "group children by first letter above this count")
	cmd.Flags().Float64Var(&opts.Layout.NodeWidth, "node-width", opts.Layout.NodeWidth, "node width")
	cmd.Flags().Float64Var(&opts.Layout.HorizontalGap, "gap", opts.Layout.HorizontalGap, "horizontal gap between sibling subtrees")
	cmd.Flags().Float64Var(&opts.Layout.VerticalSpacing, "spacing", opts.Layout.VerticalSpacing, "vertical distance between levels")

	// Render flags
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include comments and child counts in DOT labels")
	cmd.Flags().BoolVar(&opts.Free, "free", false, "let Graphviz place nodes instead of pinning them")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "add hover tooltips to SVG output")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title of the SVG document")

	return cmd
}

// runLayout runs the pipeline and writes one file per format.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, lf layoutFlags) error {
	if needsConverter(opts.Formats) && !render.HasConverter() {
		return fmt.Errorf("pdf and png output need rsvg-convert (install librsvg)")
	}

	runner, err := c.newRunner(ctx, lf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(opts.Input, lf.output, opts.Formats)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	ci := result.CacheInfo
	printSuccess("Layout complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(viewStats{
		Classes: result.Stats.NodeCount,
		Visible: result.Stats.VisibleCount,
		Edges:   result.Stats.EdgeCount,
		Cached:  ci.LoadHit && ci.DeriveHit && ci.RenderHit,
	})
	if result.Registry.Truncated() {
		printDetail("tree is truncated: %d of %d classes loaded", result.Registry.Len(), result.Registry.TotalNodes())
	}
	return nil
}

// outputPaths maps each format to its output file. A single format writes
// to output when given; several formats use output (or the input) as the
// base name and append the format extension.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = input
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".tree")
	for _, f := range formats {
		paths[f] = base + "." + pipeline.FormatExtension(f)
	}
	return paths
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPDF || f == pipeline.FormatPNG {
			return true
		}
	}
	return false
}
