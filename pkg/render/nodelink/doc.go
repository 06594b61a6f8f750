// Package nodelink renders class dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, optionally highlighting a recompilation order,
// then render to SVG:
//
//	order, _ := depgraph.Walk(g, "ClassA")
//	dot := nodelink.ToDOT(g, nodelink.Options{Highlight: order})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Highlighted nodes are filled and labeled with their 1-based position in
// the order; edges between two highlighted nodes are drawn thicker.
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. It can be rendered in-process via [RenderSVG] or saved and fed to
// external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
