package depgraph

import (
	"fmt"
	"strings"
)

// Rule selects how [Walk] decides that it has found a cycle.
type Rule int

const (
	// RuleShared treats any second encounter of a vertex during the walk
	// as a cycle. The visited set is shared by every branch and never
	// shrinks on backtrack, so reconvergent (diamond) graphs are reported
	// as cyclic. This is the default.
	RuleShared Rule = iota

	// RulePath reports a cycle only when an edge leads back to a vertex on
	// the current path (white/gray/black coloring). Finished vertices are
	// skipped and appear once in the order.
	RulePath
)

// String returns the rule name as accepted by [ParseRule].
func (r Rule) String() string {
	switch r {
	case RuleShared:
		return "shared"
	case RulePath:
		return "path"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}

// ParseRule converts "shared" or "path" into a Rule. The empty string
// yields RuleShared.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shared":
		return RuleShared, nil
	case "path":
		return RulePath, nil
	default:
		return RuleShared, fmt.Errorf("unknown cycle rule %q (want shared or path)", s)
	}
}

// Option configures a [Walk].
type Option func(*walkOptions)

type walkOptions struct {
	rule Rule
}

// WithRule sets the cycle rule. The default is RuleShared.
func WithRule(r Rule) Option {
	return func(o *walkOptions) { o.rule = r }
}

// Order is the result of a successful walk: the labels visited, in
// depth-first preorder, starting with Start.
type Order struct {
	Start  string
	Labels []string
}

// Len returns the number of visited labels.
func (o *Order) Len() int { return len(o.Labels) }

// String renders the labels separated by single spaces, with a separator
// after the final label as well ("A B C ").
func (o *Order) String() string {
	var b strings.Builder
	for _, l := range o.Labels {
		b.WriteString(l)
		b.WriteByte(' ')
	}
	return b.String()
}

// frame is one level of the explicit DFS stack: a vertex and the position
// of the next neighbor to examine.
type frame struct {
	v    int
	next int
}

// Walk performs a depth-first traversal of g from start and returns the
// visited labels in preorder. Neighbors are explored in adjacency order.
//
// Walk returns *UnknownVertexError if start is not a vertex, and
// *CycleError if the traversal re-encounters a vertex under the selected
// [Rule]. On error no partial order is returned. The graph is only read.
//
// The walk uses an explicit stack, so its depth is bounded by memory
// rather than by the goroutine stack.
func Walk(g *Graph, start string, opts ...Option) (*Order, error) {
	o := walkOptions{rule: RuleShared}
	for _, fn := range opts {
		fn(&o)
	}

	root, ok := g.Index(start)
	if !ok {
		return nil, &UnknownVertexError{Label: start}
	}

	w := walker{g: g, start: start}
	var err error
	switch o.rule {
	case RulePath:
		err = w.colored(root)
	default:
		err = w.shared(root)
	}
	if err != nil {
		return nil, err
	}
	return &Order{Start: start, Labels: w.out}, nil
}

// walker holds the per-walk output. It is owned by a single call to Walk.
type walker struct {
	g     *Graph
	start string
	out   []string
}

func (w *walker) cycle(from, to int) error {
	return &CycleError{Start: w.start, From: w.g.labels[from], To: w.g.labels[to]}
}

// shared walks with one visited set for the whole traversal. The root is
// not marked up front; it only becomes visited when an edge reaches it.
func (w *walker) shared(root int) error {
	visited := make([]bool, w.g.VertexCount())
	w.out = append(w.out, w.g.labels[root])
	stack := []frame{{v: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nbrs := w.g.adj[top.v]
		if top.next == len(nbrs) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := nbrs[top.next]
		top.next++

		if visited[n] {
			return w.cycle(top.v, n)
		}
		visited[n] = true
		w.out = append(w.out, w.g.labels[n])
		stack = append(stack, frame{v: n})
	}
	return nil
}

// colored walks with white/gray/black coloring: gray vertices are on the
// current path, black ones are finished and skipped.
func (w *walker) colored(root int) error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, w.g.VertexCount())
	color[root] = gray
	w.out = append(w.out, w.g.labels[root])
	stack := []frame{{v: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nbrs := w.g.adj[top.v]
		if top.next == len(nbrs) {
			color[top.v] = black
			stack = stack[:len(stack)-1]
			continue
		}
		n := nbrs[top.next]
		top.next++

		switch color[n] {
		case gray:
			return w.cycle(top.v, n)
		case white:
			color[n] = gray
			w.out = append(w.out, w.g.labels[n])
			stack = append(stack, frame{v: n})
		}
	}
	return nil
}
