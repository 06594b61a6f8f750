// Package io provides JSON import and export for class dependency graphs.
//
// # Overview
//
// A built [depgraph.Graph] can be saved as JSON and loaded back without
// re-reading the original dependency file. The format keeps everything a
// walk depends on: vertex indices (the order of "vertices") and adjacency
// order (the order of "edges" per source), so a walk over an imported graph
// produces the same output as a walk over the original.
//
// # JSON Format
//
//	{
//	  "vertices": ["ClassA", "ClassC", "ClassE"],
//	  "edges": [
//	    {"from": "ClassA", "to": "ClassC"},
//	    {"from": "ClassA", "to": "ClassE"}
//	  ]
//	}
//
// Vertices are listed by index. Edges are grouped by source index and keep
// insertion order within a group; duplicate edges are written as often as
// they occur.
//
// # Import
//
// Use [ImportJSON] to read a file or [ReadJSON] to read from any io.Reader.
// Import rejects empty or whitespace-containing labels, duplicate vertices,
// and edges whose endpoints are not listed in "vertices". Errors name the
// offending vertex or edge.
//
// # Export
//
// Use [ExportJSON] to write a file or [WriteJSON] to write to any io.Writer.
package io
