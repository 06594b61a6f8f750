// Package pkg provides the libraries behind recompile.
//
// # Overview
//
// recompile answers one question about a set of classes: when class X
// changes, which classes must be recompiled, and in what order? The pkg
// directory is organized leaves-first:
//
//  1. [depgraph] - Graph store and the depth-first traversal engine
//  2. [records] - Text dependency files into records
//  3. [io] - JSON import and export of built graphs
//  4. [render/nodelink] - Graphviz DOT and SVG output
//  5. [pipeline] - Orchestration (load → build → order → render)
//
// Supporting packages: [errors] (coded application errors), [config] (TOML
// configuration), [observability] (hooks), [buildinfo] (version).
//
// # Data Flow
//
//	dependency file (text or JSON)
//	         ↓
//	    [records] / [io]
//	         ↓
//	    [depgraph] Graph
//	         ↓
//	    [depgraph] Walk from a class
//	         ↓
//	    Order, or an unknown-class / cycle error
//
// # Quick Start
//
//	recs, _ := records.ReadFile("classes.txt")
//	g := depgraph.FromRecords(recs)
//	order, err := depgraph.Walk(g, "ClassA")
//	if errors.Is(err, depgraph.ErrCycle) {
//	    // circular class dependency
//	}
//	fmt.Println(order) // "ClassA ClassC ClassE ClassB ClassD ClassG ClassF ClassH "
//
// [depgraph]: github.com/matzehuels/recompile/pkg/depgraph
// [records]: github.com/matzehuels/recompile/pkg/records
// [io]: github.com/matzehuels/recompile/pkg/io
// [render/nodelink]: github.com/matzehuels/recompile/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/recompile/pkg/pipeline
// [errors]: github.com/matzehuels/recompile/pkg/errors
// [config]: github.com/matzehuels/recompile/pkg/config
// [observability]: github.com/matzehuels/recompile/pkg/observability
// [buildinfo]: github.com/matzehuels/recompile/pkg/buildinfo
package pkg
