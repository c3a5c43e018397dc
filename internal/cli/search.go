package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/pipeline"
)

const defaultSearchLimit = 20

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "search [tree.json] [query]",
		Short: "Find classes by name or label",
		Long: `Find classes whose name or label contains the query, ignoring case.
Results are ordered by label.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFileArg(treeFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadTree(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			printSearchResults(reg, args[1], reg.Search(args[1], limit))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultSearchLimit, "maximum number of results (0: all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func printSearchResults(reg *ontology.Registry, query string, results []ontology.SearchResult) {
	if len(results) == 0 {
		printInfo("No classes match %q", query)
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		depth := ""
		if n, ok := reg.Node(r.ID); ok {
			depth = strconv.Itoa(n.Depth)
		}
		rows[i] = []string{r.DisplayLabel(), depth, r.ID}
	}
	fmt.Println(renderTable([]string{"Class", "Depth", "ID"}, rows))
	printDetail("%d of %d classes", len(results), reg.Len())
}

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:               "path [tree.json] [class]",
		Short:             "Print the path from the root to a class",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFileArg(treeFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadTree(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			path := hierarchy.NewPathResolver(reg).PathToRoot(args[1])
			if len(path) == 0 {
				return errors.New(errors.ErrCodeNodeNotFound, "class %q is not reachable from the root", args[1])
			}
			fmt.Println(formatPath(reg, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// formatPath renders a root-first path as an indented list of labels, the
// target highlighted.
func formatPath(reg *ontology.Registry, path []string) string {
	var b strings.Builder
	for i, id := range path {
		label := id
		if n, ok := reg.Node(id); ok {
			label = n.DisplayLabel()
		}
		prefix := strings.Repeat("  ", i)
		if i > 0 {
			prefix += StyleDim.Render("└ ")
		}
		if i == len(path)-1 {
			label = StyleHighlight.Render(label)
		}
		b.WriteString(prefix + label + "  " + StyleDim.Render(id))
		if i < len(path)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// loadTree reads a tree file through the cached load stage.
func (c *CLI) loadTree(ctx context.Context, input string, noCache bool) (*ontology.Registry, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Input: input, Logger: commandLogger(ctx, c.Logger), TTL: c.Config.Cache.TTL.Duration}
	reg, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return reg, nil
}
