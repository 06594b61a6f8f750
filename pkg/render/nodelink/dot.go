package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Highlight marks the vertices of a recompilation order. Highlighted
	// nodes are filled and labeled with their position in the order.
	Highlight *depgraph.Order

	// Detailed adds out-degree to each node label.
	Detailed bool
}

// ToDOT converts a dependency graph to Graphviz DOT format.
// Vertices appear in registration order and edges in adjacency order,
// so the output is stable for a given graph.
func ToDOT(g *depgraph.Graph, opts Options) string {
	positions := orderPositions(opts.Highlight)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, label := range g.Labels() {
		pos, highlighted := positions[label]
		attrs := fmtAttrs(fmtLabel(g, i, label, pos, highlighted, opts.Detailed), highlighted)
		fmt.Fprintf(&buf, "  %s [%s];\n", quoteID(label), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		_, from := positions[e.From]
		_, to := positions[e.To]
		if from && to {
			fmt.Fprintf(&buf, "  %s -> %s [penwidth=2];\n", quoteID(e.From), quoteID(e.To))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", quoteID(e.From), quoteID(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteID quotes s as a DOT string. Only backslash and double quote are
// escaped; other bytes are emitted as is.
func quoteID(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func orderPositions(o *depgraph.Order) map[string]int {
	if o == nil {
		return nil
	}
	m := make(map[string]int, o.Len())
	for i, l := range o.Labels {
		if _, ok := m[l]; !ok {
			m[l] = i + 1
		}
	}
	return m
}

func fmtLabel(g *depgraph.Graph, idx int, label string, pos int, highlighted, detailed bool) string {
	var parts []string
	if highlighted {
		parts = append(parts, fmt.Sprintf("#%d", pos))
	}
	if detailed {
		parts = append(parts, fmt.Sprintf("deps: %d", len(g.Neighbors(idx))))
	}
	// DOT's \n escape breaks the label line.
	return strings.Join(append([]string{dotEscaper.Replace(label)}, parts...), `\n`)
}

// fmtAttrs takes a label already escaped by fmtLabel.
func fmtAttrs(label string, highlighted bool) []string {
	attrs := []string{`label="` + label + `"`}
	if highlighted {
		attrs = append(attrs, "fillcolor=\"#7AA2F7\"", "fontcolor=white")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
