package depgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVertex matches any *UnknownVertexError via errors.Is.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrCycle matches any *CycleError via errors.Is.
	ErrCycle = errors.New("graph contains a cycle")
)

// UnknownVertexError is returned by [Walk] when the start label was never
// registered as a vertex. No traversal is performed.
type UnknownVertexError struct {
	Label string
}

func (e *UnknownVertexError) Error() string {
	return fmt.Sprintf("unknown vertex %q", e.Label)
}

// Is reports whether target is [ErrUnknownVertex].
func (e *UnknownVertexError) Is(target error) bool { return target == ErrUnknownVertex }

// CycleError is returned by [Walk] when the traversal re-encounters a
// vertex. From -> To is the edge that led back to the already-visited
// vertex.
type CycleError struct {
	Start string
	From  string
	To    string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle reachable from %q: edge %s -> %s revisits a visited vertex", e.Start, e.From, e.To)
}

// Is reports whether target is [ErrCycle].
func (e *CycleError) Is(target error) bool { return target == ErrCycle }
