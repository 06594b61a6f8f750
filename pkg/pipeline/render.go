package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/recompile/pkg/depgraph"
	pkgio "github.com/matzehuels/recompile/pkg/io"
	"github.com/matzehuels/recompile/pkg/render/nodelink"
)

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	// Format is one of FormatJSON, FormatDOT, FormatSVG.
	Format string

	// Highlight marks a recompilation order in DOT and SVG output.
	// It is ignored for JSON.
	Highlight *depgraph.Order

	// Detailed adds out-degree to node labels in DOT and SVG output.
	Detailed bool
}

// Render exports g in the requested format.
func (r *Runner) Render(ctx context.Context, g *depgraph.Graph, opts RenderOptions) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatJSON:
		var buf bytes.Buffer
		err = pkgio.WriteJSON(g, &buf)
		data = buf.Bytes()
	case FormatDOT:
		data = []byte(nodelink.ToDOT(g, nodelinkOptions(opts)))
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelinkOptions(opts)))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	r.Logger.Debug("rendered graph",
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))
	return data, nil
}

func nodelinkOptions(opts RenderOptions) nodelink.Options {
	return nodelink.Options{Highlight: opts.Highlight, Detailed: opts.Detailed}
}
