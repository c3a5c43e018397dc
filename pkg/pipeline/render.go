package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ontoview/pkg/render"
	"github.com/matzehuels/ontoview/pkg/render/nodelink"
	"github.com/matzehuels/ontoview/pkg/render/svg"
	"github.com/matzehuels/ontoview/pkg/view"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s view.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var native []byte
	nativeSVG := func() []byte {
		if native == nil {
			native = svg.Render(s, svgOptions(opts)...)
		}
		return native
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = view.MarshalSnapshot(s)
		case FormatSVG:
			data = nativeSVG()
		case FormatDOT:
			data = []byte(nodelink.ToDOT(s, dotOptions(opts)))
		case FormatGraphviz:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(s, dotOptions(opts)))
		case FormatPDF:
			data, err = render.ToPDF(ctx, nativeSVG())
		case FormatPNG:
			data, err = render.ToPNG(ctx, nativeSVG(), DefaultPNGScale)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func svgOptions(opts Options) []svg.Option {
	var o []svg.Option
	if opts.Interactive {
		o = append(o, svg.WithInteraction())
	}
	if opts.Title != "" {
		o = append(o, svg.WithTitle(opts.Title))
	}
	return o
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Free: opts.Free}
}
