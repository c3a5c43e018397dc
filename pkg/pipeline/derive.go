package pipeline

import (
	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/view"
)

// NewController creates a controller configured from opts and brings it
// into the requested initial state:
//
//  1. expand to InitialDepth, or everything when ExpandAll is set
//  2. expand the ids in Expanded
//  3. reveal, select and highlight Select
//
// Extra options are applied after those derived from opts.
func NewController(reg *ontology.Registry, opts Options, extra ...view.Option) (*view.Controller, error) {
	if err := opts.ValidateForDerive(); err != nil {
		return nil, err
	}

	vopts := []view.Option{
		view.WithLayout(opts.Layout),
		view.WithGroupThreshold(opts.GroupThreshold),
		view.WithLogger(opts.Logger),
	}
	c := view.New(reg, append(vopts, extra...)...)

	if opts.ExpandAll {
		c.ExpandAll()
	} else {
		c.ExpandToDepth(opts.InitialDepth)
	}

	if len(opts.Expanded) > 0 {
		ids := make([]hierarchy.ID, 0, len(opts.Expanded))
		for _, s := range opts.Expanded {
			id, err := hierarchy.ParseID(s)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "expand %q", s)
			}
			ids = append(ids, id)
		}
		c.Expand(ids...)
	}

	if opts.Select != "" {
		if !c.Reveal(opts.Select) {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "class %q is not reachable from the root", opts.Select)
		}
		c.SetHighlightedPath(c.PathToRoot(opts.Select))
	}
	return c, nil
}

// Derive returns the snapshot of the initial state described by opts.
func Derive(reg *ontology.Registry, opts Options) (view.Snapshot, error) {
	c, err := NewController(reg, opts)
	if err != nil {
		return view.Snapshot{}, err
	}
	return c.Snapshot(), nil
}
