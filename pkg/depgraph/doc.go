// Package depgraph builds a directed graph of class dependencies and walks
// it to produce a recompilation order.
//
// # Overview
//
// When one class changes, every class reachable from it through dependency
// edges has to be reconsidered. This package stores the dependency relation
// as adjacency lists over dense integer vertex indices and answers
// "what, in which order" with a depth-first walk from the changed class.
//
// # Building
//
// A [Record] is one dependency line: a class followed by the classes it
// depends on. [FromRecords] (or [Graph.Build]) registers every label as a
// vertex and adds an edge from the first label to each of the others:
//
//	g := depgraph.FromRecords([]depgraph.Record{
//	    {"ClassA", "ClassC", "ClassE"},
//	    {"ClassB", "ClassD", "ClassG"},
//	})
//
// Vertex indices are assigned in first-seen order and never change. Edge
// insertion order is preserved and duplicate edges are kept, since both
// influence the walk.
//
// # Walking
//
// [Walk] returns the labels reachable from a start vertex in depth-first
// preorder, start first:
//
//	order, err := depgraph.Walk(g, "ClassA")
//	switch {
//	case errors.Is(err, depgraph.ErrUnknownVertex):
//	    // start was never registered
//	case errors.Is(err, depgraph.ErrCycle):
//	    // no valid order
//	}
//	fmt.Println(order) // "ClassA ClassC ClassE "
//
// # Cycle Rules
//
// By default ([RuleShared]) the walk keeps one visited set for the whole
// traversal, so reaching any vertex a second time is reported as a cycle,
// including vertices reached along two different branches of an acyclic
// diamond. [RulePath], selected with [WithRule], uses white/gray/black
// coloring and only reports edges back into the current path.
//
// # Concurrency
//
// A Graph must not be mutated while it is walked. Walks only read the graph
// and keep their state on their own stack, so concurrent walks over a
// built graph are safe.
package depgraph
