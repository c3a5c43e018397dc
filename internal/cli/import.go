package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/ontology"
)

// importCommand creates the import command, which turns a flat class list
// into a tree file.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output   string
		root     string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "import [classes.json|classes.yaml]",
		Short: "Build a tree file from a flat class list",
		Long: `Build a tree file from a flat class list.

The input is a JSON or YAML array of classes, each naming its direct
superclasses:

  - url: http://example.org/Person
    label: Person
    parents: [http://example.org/Agent]

The class without parents becomes the root. When there are several, a
virtual owl:Thing root adopts them. The output is a tree file that the
layout, browse, search and path commands read.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFileArg(treeFileExts...),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], output, root, maxDepth)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .yaml (default: <input>.tree.json)")
	cmd.Flags().StringVar(&root, "root", "", "keep only the hierarchy below this class")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "depth limit below the root (0: unlimited)")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, input, output, root string, maxDepth int) error {
	logger := commandLogger(ctx, c.Logger)
	stage := startStage(logger)

	classes, err := readClasses(input)
	if err != nil {
		return err
	}
	reg := ontology.Build(classes)
	logger.Debug("built hierarchy", "classes", reg.Len(), "root", reg.Root())

	if root != "" && !reg.Has(root) {
		return errors.New(errors.ErrCodeNodeNotFound, "class %q not found", root)
	}
	if maxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth must not be negative, got %d", maxDepth)
	}
	if root != "" || maxDepth > 0 {
		depth := maxDepth
		if depth == 0 {
			depth = -1
		}
		reg = reg.Subtree(root, depth)
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".tree.json"
	}
	if err := ontology.WriteTreeFile(reg, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	stage.done("Imported", "classes", reg.Len(), "output", output)

	printSuccess("Import complete")
	printFile(output)
	printStats(viewStats{Classes: reg.Len(), Edges: edgeCount(reg)})
	printNewline()
	printNextStep("Browse", appName+" browse "+output)
	return nil
}

// readClasses decodes a JSON or YAML class list, choosing the decoder from
// the file extension.
func readClasses(path string) ([]ontology.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var classes []ontology.Class
	switch ontology.FormatFromPath(path) {
	case ontology.FormatYAML:
		err = yaml.Unmarshal(data, &classes)
	default:
		err = json.Unmarshal(data, &classes)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	return classes, nil
}

// edgeCount counts parent-child links in reg.
func edgeCount(reg *ontology.Registry) int {
	n := 0
	for _, id := range reg.IDs() {
		n += len(reg.Children(id))
	}
	return n
}
