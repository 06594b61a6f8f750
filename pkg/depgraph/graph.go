package depgraph

import (
	"slices"
	"strings"
	"unicode"
)

// Record is one dependency line: a class followed by the classes it
// depends on. The first label is the dependent; the rest are its
// dependencies, in the order they were listed.
type Record []string

// Source returns the dependent class, or "" for an empty record.
func (r Record) Source() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Deps returns the dependencies listed after the source.
func (r Record) Deps() []string {
	if len(r) < 2 {
		return nil
	}
	return r[1:]
}

// Edge is a directed dependency relation: From depends on To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph of class names. Each distinct label is assigned
// a dense integer index in first-seen order; indices are never reassigned.
// Adjacency lists keep insertion order and duplicate edges, which is what
// determines the order a [Walk] visits neighbors.
//
// The zero value is not usable - use New or FromRecords. Graph is not safe
// for concurrent mutation, but any number of walks may read the same graph
// once it is built.
type Graph struct {
	index  map[string]int // label -> index
	labels []string       // index -> label
	adj    [][]int        // index -> target indices
	edges  int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// FromRecords creates a graph and ingests records with [Graph.Build].
func FromRecords(records []Record) *Graph {
	g := New()
	g.Build(records)
	return g
}

// AddVertex registers label and returns its index. If the label is already
// known the existing index is returned and nothing changes.
func (g *Graph) AddVertex(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.index[label] = i
	g.labels = append(g.labels, label)
	g.adj = append(g.adj, nil)
	return i
}

// AddEdge appends an edge from -> to. Endpoints that are not yet vertices
// are registered first (from before to), so adjacency lists only ever hold
// valid indices. Repeated edges between the same pair are kept.
func (g *Graph) AddEdge(from, to string) {
	src := g.AddVertex(from)
	dst := g.AddVertex(to)
	g.adj[src] = append(g.adj[src], dst)
	g.edges++
}

// Build ingests dependency records. Every label of a record becomes a
// vertex, then an edge is added from the record's source to each of its
// dependencies in listed order. Empty records are skipped.
func (g *Graph) Build(records []Record) {
	for _, r := range records {
		if len(r) == 0 {
			continue
		}
		for _, label := range r {
			g.AddVertex(label)
		}
		for _, dep := range r.Deps() {
			g.AddEdge(r.Source(), dep)
		}
	}
}

// Index returns the index of label and whether it is a vertex.
func (g *Graph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Label returns the label assigned to index i, or "" and false if i is out
// of range.
func (g *Graph) Label(i int) (string, bool) {
	if i < 0 || i >= len(g.labels) {
		return "", false
	}
	return g.labels[i], true
}

// Neighbors returns the target indices of i's outgoing edges in insertion
// order. The returned slice is a read-only view.
func (g *Graph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.adj) {
		return nil
	}
	return g.adj[i]
}

// Dependencies returns the labels label depends on, in insertion order.
// Returns nil for unknown labels.
func (g *Graph) Dependencies(label string) []string {
	i, ok := g.index[label]
	if !ok {
		return nil
	}
	deps := make([]string, len(g.adj[i]))
	for k, t := range g.adj[i] {
		deps[k] = g.labels[t]
	}
	return deps
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.labels) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return g.edges }

// Labels returns a copy of all labels ordered by index.
func (g *Graph) Labels() []string { return slices.Clone(g.labels) }

// Edges returns all edges grouped by source index, each group in adjacency
// order. Re-adding them to an empty graph after registering [Graph.Labels]
// reproduces the same graph.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for src, targets := range g.adj {
		for _, dst := range targets {
			out = append(out, Edge{From: g.labels[src], To: g.labels[dst]})
		}
	}
	return out
}

// ValidLabel reports whether s can name a class: non-empty and free of
// whitespace.
func ValidLabel(s string) bool {
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}
