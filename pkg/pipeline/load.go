package pipeline

import (
	"os"

	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/ontology"
)

// Load reads the tree file named by opts.Input and applies the subtree
// options. A Root that is not in the tree is an error here, unlike
// [ontology.Registry.Subtree], which falls back to the tree root.
func Load(opts Options) (*ontology.Registry, error) {
	data, err := readInput(opts.Input)
	if err != nil {
		return nil, err
	}
	return loadData(data, opts)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

func loadData(data []byte, opts Options) (*ontology.Registry, error) {
	reg, err := ontology.ParseTree(data, ontology.FormatFromPath(opts.Input))
	if err != nil {
		return nil, err
	}
	return applySubtree(reg, opts)
}

func applySubtree(reg *ontology.Registry, opts Options) (*ontology.Registry, error) {
	if opts.Root == "" && opts.MaxDepth == 0 {
		return reg, nil
	}
	if opts.Root != "" && !reg.Has(opts.Root) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "root %q is not in %s", opts.Root, opts.Input)
	}
	depth := opts.MaxDepth
	if depth == 0 {
		depth = -1
	}
	return reg.Subtree(opts.Root, depth), nil
}
