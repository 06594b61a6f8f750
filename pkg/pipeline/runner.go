package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recompile/pkg/depgraph"
	apperr "github.com/matzehuels/recompile/pkg/errors"
	pkgio "github.com/matzehuels/recompile/pkg/io"
	"github.com/matzehuels/recompile/pkg/observability"
	"github.com/matzehuels/recompile/pkg/records"
)

// Runner executes pipeline stages with logging and hooks.
//
// The Runner holds no graph: every call receives the graph it works on, so
// one Runner can serve concurrent callers as long as nobody mutates a graph
// while it is being walked.
type Runner struct {
	Logger *log.Logger
	Rule   depgraph.Rule
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger, rule depgraph.Rule) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Rule: rule}
}

// Load reads the dependency file at path and builds its graph.
// Paths ending in .json are read as JSON graph exports.
func (r *Runner) Load(ctx context.Context, path string) (*depgraph.Graph, error) {
	if err := apperr.ValidateInputPath(path); err != nil {
		return nil, err
	}

	hooks := observability.Graph()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, err := r.load(path)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, elapsed, err)
		r.Logger.Warn("load failed", "file", path, "error", err)
		return nil, err
	}

	hooks.OnLoadComplete(ctx, path, g.VertexCount(), g.EdgeCount(), elapsed, nil)
	r.Logger.Info("built graph",
		"file", path,
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"duration", elapsed)
	return g, nil
}

func (r *Runner) load(path string) (*depgraph.Graph, error) {
	if IsJSONGraph(path) {
		g, err := pkgio.ImportJSON(path)
		if err != nil {
			return nil, classifyLoadError(err)
		}
		return g, nil
	}

	recs, err := records.ReadFile(path)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	r.Logger.Debug("parsed records", "file", path, "records", len(recs))
	return depgraph.FromRecords(recs), nil
}

// Build parses dependency text from rd and builds its graph. The source
// names the input in logs and hooks.
func (r *Runner) Build(ctx context.Context, source string, rd io.Reader) (*depgraph.Graph, error) {
	hooks := observability.Graph()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	recs, err := records.Parse(rd)
	if err != nil {
		err = apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "cannot read dependency records")
		hooks.OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
		r.Logger.Warn("build failed", "source", source, "error", err)
		return nil, err
	}

	g := depgraph.FromRecords(recs)
	elapsed := time.Since(start)
	hooks.OnLoadComplete(ctx, source, g.VertexCount(), g.EdgeCount(), elapsed, nil)
	r.Logger.Info("built graph",
		"source", source,
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"duration", elapsed)
	return g, nil
}

// Order walks g from class using the runner's rule.
func (r *Runner) Order(ctx context.Context, g *depgraph.Graph, class string) (*depgraph.Order, error) {
	return r.OrderWith(ctx, g, class, r.Rule)
}

// OrderWith walks g from class using rule.
//
// An unknown class yields ErrCodeInvalidClass and a cycle yields
// ErrCodeCycleDetected; both are expected outcomes and logged at warn.
func (r *Runner) OrderWith(ctx context.Context, g *depgraph.Graph, class string, rule depgraph.Rule) (*depgraph.Order, error) {
	if g == nil {
		return nil, apperr.New(apperr.ErrCodeGraphNotBuilt, "Please build the graph first.")
	}
	if err := apperr.ValidateClassName(class); err != nil {
		return nil, err
	}

	hooks := observability.Graph()
	hooks.OnQueryStart(ctx, class)
	start := time.Now()

	order, err := depgraph.Walk(g, class, depgraph.WithRule(rule))
	elapsed := time.Since(start)
	if err != nil {
		err = classifyWalkError(class, err)
		hooks.OnQueryComplete(ctx, class, 0, elapsed, err)
		r.Logger.Warn("no recompilation order",
			"class", class,
			"rule", rule,
			"code", apperr.GetCode(err),
			"cause", errors.Unwrap(err))
		return nil, err
	}

	hooks.OnQueryComplete(ctx, class, order.Len(), elapsed, nil)
	r.Logger.Debug("computed order",
		"class", class,
		"rule", rule,
		"visited", order.Len(),
		"duration", elapsed)
	return order, nil
}

func classifyLoadError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return apperr.Wrap(apperr.ErrCodeFileNotFound, err, MsgFileNotOpened)
	}
	return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "cannot read dependency file")
}

func classifyWalkError(class string, err error) error {
	switch {
	case errors.Is(err, depgraph.ErrUnknownVertex):
		return apperr.Wrap(apperr.ErrCodeInvalidClass, err, msgInvalidClass, class)
	case errors.Is(err, depgraph.ErrCycle):
		return apperr.Wrap(apperr.ErrCodeCycleDetected, err, MsgCycle)
	default:
		return apperr.Wrap(apperr.ErrCodeInternal, err, "walk failed")
	}
}
