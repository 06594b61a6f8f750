package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recompile/pkg/depgraph"
	apperr "github.com/matzehuels/recompile/pkg/errors"
	"github.com/matzehuels/recompile/pkg/observability"
)

const classFile = `ClassA ClassC ClassE
ClassB ClassD ClassG
ClassE ClassB ClassF ClassH
ClassI ClassC
`

func testRunner() *Runner {
	return NewRunner(log.New(io.Discard), depgraph.RuleShared)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestIsJSONGraph(t *testing.T) {
	tests := map[string]bool{
		"graph.json":     true,
		"out/GRAPH.JSON": true,
		"classes.txt":    false,
		"classes":        false,
		"json":           false,
	}
	for path, want := range tests {
		if got := IsJSONGraph(path); got != want {
			t.Errorf("IsJSONGraph(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRunnerLoadAndOrder(t *testing.T) {
	r := testRunner()
	ctx := context.Background()

	g, err := r.Load(ctx, writeFile(t, "classes.txt", classFile))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if g.VertexCount() != 9 {
		t.Errorf("VertexCount() = %d, want 9", g.VertexCount())
	}

	order, err := r.Order(ctx, g, "ClassA")
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want := "ClassA ClassC ClassE ClassB ClassD ClassG ClassF ClassH "
	if got := order.String(); got != want {
		t.Errorf("Order() = %q, want %q", got, want)
	}
}

func TestRunnerLoadJSON(t *testing.T) {
	r := testRunner()
	ctx := context.Background()

	g, err := r.Build(ctx, "inline", strings.NewReader(classFile))
	if err != nil {
		t.Fatal(err)
	}
	data, err := r.Render(ctx, g, RenderOptions{Format: FormatJSON})
	if err != nil {
		t.Fatal(err)
	}

	imported, err := r.Load(ctx, writeFile(t, "graph.json", string(data)))
	if err != nil {
		t.Fatalf("Load(json) error: %v", err)
	}
	a, _ := r.Order(ctx, g, "ClassE")
	b, err := r.Order(ctx, imported, "ClassE")
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("imported order = %q, want %q", b, a)
	}
}

func TestRunnerLoadErrors(t *testing.T) {
	r := testRunner()
	ctx := context.Background()

	tests := []struct {
		name    string
		path    string
		code    apperr.Code
		message string
	}{
		{"empty path", "", apperr.ErrCodeInvalidInput, "Please enter a File Name."},
		{"missing file", filepath.Join(t.TempDir(), "nope.txt"), apperr.ErrCodeFileNotFound, MsgFileNotOpened},
		{"missing json", filepath.Join(t.TempDir(), "nope.json"), apperr.ErrCodeFileNotFound, MsgFileNotOpened},
		{"malformed json", writeFile(t, "bad.json", "{"), apperr.ErrCodeInvalidFormat, ""},
		{"line too long", writeFile(t, "long.txt", strings.Repeat("x", 1<<20+1)), apperr.ErrCodeInvalidFormat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := r.Load(ctx, tt.path)
			if g != nil {
				t.Error("Load() returned a graph on error")
			}
			if !apperr.Is(err, tt.code) {
				t.Fatalf("Load() error = %v, want code %s", err, tt.code)
			}
			if tt.message != "" && apperr.UserMessage(err) != tt.message {
				t.Errorf("UserMessage() = %q, want %q", apperr.UserMessage(err), tt.message)
			}
		})
	}
}

func TestRunnerOrderErrors(t *testing.T) {
	r := testRunner()
	ctx := context.Background()
	g, err := r.Build(ctx, "inline", strings.NewReader("A B\nB C\nC B\nX Y\n"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		class   string
		code    apperr.Code
		message string
		cause   error
	}{
		{"empty", "", apperr.ErrCodeInvalidInput, "Please enter a Class Name.", nil},
		{"unknown", "Nope", apperr.ErrCodeInvalidClass, "Invalid Class Name: Nope. Please try again.", depgraph.ErrUnknownVertex},
		{"inner space", "A B", apperr.ErrCodeInvalidClass, "Invalid Class Name: A B. Please try again.", depgraph.ErrUnknownVertex},
		{"cycle", "A", apperr.ErrCodeCycleDetected, MsgCycle, depgraph.ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := r.Order(ctx, g, tt.class)
			if order != nil {
				t.Error("Order() returned an order on error")
			}
			if !apperr.Is(err, tt.code) {
				t.Fatalf("Order() error = %v, want code %s", err, tt.code)
			}
			if got := apperr.UserMessage(err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error %v does not wrap %v", err, tt.cause)
			}
		})
	}

	// The graph stays usable after failed queries.
	order, err := r.Order(ctx, g, "X")
	if err != nil || order.String() != "X Y " {
		t.Errorf("Order(X) = %v, %v; want \"X Y \"", order, err)
	}
}

func TestRunnerOrderWithoutGraph(t *testing.T) {
	_, err := testRunner().Order(context.Background(), nil, "A")
	if !apperr.Is(err, apperr.ErrCodeGraphNotBuilt) {
		t.Errorf("Order(nil graph) error = %v, want GRAPH_NOT_BUILT", err)
	}
}

func TestRunnerOrderAnyParsedLabel(t *testing.T) {
	r := testRunner()
	ctx := context.Background()

	long := strings.Repeat("L", 1100)
	tests := []struct {
		name  string
		class string
	}{
		{"long label", long},
		{"control rune", "Odd\x01Class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := r.Build(ctx, "inline", strings.NewReader(tt.class+" B\n"))
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := g.Index(tt.class); !ok {
				t.Fatalf("label %q not registered", tt.class)
			}
			order, err := r.Order(ctx, g, tt.class)
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if want := tt.class + " B "; order.String() != want {
				t.Errorf("Order() = %q, want %q", order.String(), want)
			}
		})
	}
}

func TestRunnerOrderWithRule(t *testing.T) {
	r := testRunner()
	ctx := context.Background()
	g, err := r.Build(ctx, "diamond", strings.NewReader("A B C\nB D\nC D\n"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Order(ctx, g, "A"); !apperr.Is(err, apperr.ErrCodeCycleDetected) {
		t.Errorf("shared rule: error = %v, want CYCLE_DETECTED", err)
	}
	order, err := r.OrderWith(ctx, g, "A", depgraph.RulePath)
	if err != nil {
		t.Fatalf("path rule: %v", err)
	}
	if got := order.String(); got != "A B D C " {
		t.Errorf("path rule order = %q, want %q", got, "A B D C ")
	}
}

func TestRunnerLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.New(&buf), depgraph.RuleShared)
	g := depgraph.FromRecords([]depgraph.Record{{"A", "A"}})

	_, _ = r.Order(context.Background(), g, "A")

	out := buf.String()
	if !strings.Contains(out, "no recompilation order") || !strings.Contains(out, "CYCLE_DETECTED") {
		t.Errorf("expected a warn line with the error code, got %q", out)
	}
}

func TestRender(t *testing.T) {
	r := testRunner()
	ctx := context.Background()
	g := depgraph.FromRecords([]depgraph.Record{{"A", "B"}})
	order, _ := depgraph.Walk(g, "A")

	dot, err := r.Render(ctx, g, RenderOptions{Format: FormatDOT, Highlight: order})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"A" -> "B" [penwidth=2];`) {
		t.Errorf("DOT output missing highlighted edge:\n%s", dot)
	}

	if _, err := r.Render(ctx, g, RenderOptions{Format: "png"}); err == nil {
		t.Error("Render(png) should fail")
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.add("load-start") }
func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, v, e int, _ time.Duration, err error) {
	if err != nil {
		h.add("load-error")
		return
	}
	h.add("load-ok")
}
func (h *recordingHooks) OnQueryStart(context.Context, string) { h.add("query-start") }
func (h *recordingHooks) OnQueryComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	if err != nil {
		h.add("query-error")
		return
	}
	h.add("query-ok")
}

func TestRunnerFiresHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetGraphHooks(hooks)
	t.Cleanup(observability.Reset)

	r := testRunner()
	ctx := context.Background()
	g, err := r.Build(ctx, "inline", strings.NewReader("A B\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = r.Order(ctx, g, "A")
	_, _ = r.Order(ctx, g, "Missing")

	want := []string{"load-start", "load-ok", "query-start", "query-ok", "query-start", "query-error"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("hook events = %v, want %v", hooks.events, want)
	}
}

func TestExampleFiles(t *testing.T) {
	r := testRunner()
	ctx := context.Background()

	g, err := r.Load(ctx, filepath.Join("..", "..", "examples", "classes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	order, err := r.Order(ctx, g, "ClassA")
	if err != nil {
		t.Fatal(err)
	}
	if got := order.String(); got != "ClassA ClassC ClassE ClassB ClassD ClassG ClassF ClassH " {
		t.Errorf("classes.txt order = %q", got)
	}

	g, err = r.Load(ctx, filepath.Join("..", "..", "examples", "cycle.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Order(ctx, g, "ClassA"); !apperr.Is(err, apperr.ErrCodeCycleDetected) {
		t.Errorf("cycle.txt error = %v, want CYCLE_DETECTED", err)
	}
}
