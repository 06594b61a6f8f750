package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

var (
	// ErrInvalidLabel is returned when a vertex label is empty or contains
	// whitespace.
	ErrInvalidLabel = errors.New("invalid class name")

	// ErrDuplicateVertex is returned when a label is listed twice in
	// "vertices".
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrUnknownEndpoint is returned when an edge references a label that is
	// not listed in "vertices".
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
)

// ReadJSON decodes a JSON graph from r.
//
// Vertices are registered in listed order, so their indices match the
// exporting graph; edges are then added in listed order. ReadJSON returns
// an error if the JSON is malformed, a label is invalid or duplicated, or
// an edge references an undeclared vertex. Errors are wrapped with the
// vertex or edge that caused them.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*depgraph.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := depgraph.New()
	for _, v := range data.Vertices {
		if !depgraph.ValidLabel(v) {
			return nil, fmt.Errorf("vertex %q: %w", v, ErrInvalidLabel)
		}
		if _, exists := g.Index(v); exists {
			return nil, fmt.Errorf("vertex %s: %w", v, ErrDuplicateVertex)
		}
		g.AddVertex(v)
	}
	for _, e := range data.Edges {
		if _, ok := g.Index(e.From); !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrUnknownEndpoint)
		}
		if _, ok := g.Index(e.To); !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, ErrUnknownEndpoint)
		}
		g.AddEdge(e.From, e.To)
	}

	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
// It returns the same validation errors as [ReadJSON], wrapped with path.
func ImportJSON(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
