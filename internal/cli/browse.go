package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/pipeline"
)

// browseCommand creates the browse command, an interactive tree explorer.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		noCache bool
		chunk   int
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "browse [tree.json]",
		Short: "Explore a tree file interactively",
		Long: `Explore a tree file interactively.

Classes with many children are grouped by first letter. Press / to search:
choosing a result expands its path, selects it and highlights the path to
the root.

With --chunk-depth, only that many levels are loaded at first and deeper
levels are loaded as classes are expanded.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFileArg(treeFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			c.applyConfig(cmd, &opts)
			return c.runBrowse(cmd.Context(), opts, noCache, chunk)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&chunk, "chunk-depth", 0, "levels to load at a time (0: load everything)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "browse only the hierarchy below this class")
	cmd.Flags().IntVar(&opts.InitialDepth, "initial-depth", opts.InitialDepth, "expand classes above this depth")
	cmd.Flags().StringSliceVar(&opts.Expanded, "expand", nil, "additional classes or groups to expand")
	cmd.Flags().StringVarP(&opts.Select, "select", "s", "", "class to reveal and select on start")
	cmd.Flags().IntVar(&opts.GroupThreshold, "group-threshold", opts.GroupThreshold, "group children by first letter above this count")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache bool, chunk int) error {
	if chunk < 0 {
		return fmt.Errorf("chunk depth must not be negative, got %d", chunk)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	full, err := runner.Load(ctx, opts)
	runner.Close()
	if err != nil {
		return err
	}

	reg := full
	var loader SubtreeLoader
	if chunk > 0 {
		wanted := []string{opts.Select}
		for _, s := range opts.Expanded {
			if id, err := hierarchy.ParseID(s); err == nil {
				wanted = append(wanted, id.Node)
			}
		}
		reg = preload(full, chunk, wanted)
		loader = registryLoader{reg: full}
		commandLogger(ctx, c.Logger).Debug("loading lazily", "loaded", reg.Len(), "total", full.Len(), "chunk", chunk)
	}

	// The terminal belongs to the TUI; controller logging would corrupt it.
	opts.Logger = log.New(io.Discard)
	ctrl, err := pipeline.NewController(reg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewBrowserModel(ctrl, loader, chunk), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("browse: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if m, ok := final.(BrowserModel); ok {
		if sel, ok := m.ctrl.Selected(); ok {
			printSuccess("Selected %s", StyleHighlight.Render(m.label(sel)))
			printDetail("%s", sel)
		}
	}
	return nil
}

// preload cuts full to chunk levels and adds the children of every class on
// the paths to wanted, so those classes can be shown and expanded.
func preload(full *ontology.Registry, chunk int, wanted []string) *ontology.Registry {
	reg := full.Subtree(full.Root(), chunk)
	paths := hierarchy.NewPathResolver(full)
	done := make(map[string]bool)
	for _, target := range wanted {
		if target == "" {
			continue
		}
		for _, id := range paths.PathToRoot(target) {
			if done[id] {
				continue
			}
			done[id] = true
			reg = reg.Merge(full.Subtree(id, 1))
		}
	}
	return reg
}
