package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/recompile/pkg/errors"
)

const classFile = `ClassA ClassC ClassE
ClassB ClassD ClassG
ClassE ClassB ClassF ClassH
ClassI ClassC
`

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Keep a real config file in the user's home out of the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOrderCommand(t *testing.T) {
	file := writeFile(t, "classes.txt", classFile)

	out, err := runCLI(t, "order", file, "ClassA")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}
	want := "ClassA ClassC ClassE ClassB ClassD ClassG ClassF ClassH \n"
	if out != want {
		t.Errorf("order output = %q, want %q", out, want)
	}
}

func TestOrderCommandJSON(t *testing.T) {
	file := writeFile(t, "classes.txt", "A B C\nB D\nC D\n")

	out, err := runCLI(t, "order", file, "A", "--rule", "path", "--json")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}

	var got orderOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Rule != "path" || got.Text != "A B D C " || len(got.Order) != 4 {
		t.Errorf("order JSON = %+v", got)
	}
}

func TestOrderCommandErrors(t *testing.T) {
	file := writeFile(t, "classes.txt", "A B\nB C\nC B\n")

	tests := []struct {
		name string
		args []string
		code apperr.Code
		msg  string
	}{
		{"unknown class", []string{"order", file, "Nope"}, apperr.ErrCodeInvalidClass, "Invalid Class Name: Nope. Please try again."},
		{"cycle", []string{"order", file, "A"}, apperr.ErrCodeCycleDetected, "This Directed Graph contains a Cycle due to circular class dependency."},
		{"missing file", []string{"order", filepath.Join(t.TempDir(), "nope.txt"), "A"}, apperr.ErrCodeFileNotFound, "File Did Not Open"},
		{"bad rule", []string{"order", file, "A", "--rule", "bogus"}, apperr.ErrCodeInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !apperr.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if tt.msg != "" && apperr.UserMessage(err) != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", apperr.UserMessage(err), tt.msg)
			}
		})
	}
}

func TestConfigRuleApplies(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte(`rule = "path"`), 0644); err != nil {
		t.Fatal(err)
	}
	file := writeFile(t, "diamond.txt", "A B C\nB D\nC D\n")

	out, err := runCLI(t, "--config", cfg, "order", file, "A")
	if err != nil {
		t.Fatalf("order with config failed: %v", err)
	}
	if out != "A B D C \n" {
		t.Errorf("output = %q", out)
	}

	// An explicit flag wins over the config file.
	if _, err := runCLI(t, "--config", cfg, "order", file, "A", "--rule", "shared"); !apperr.Is(err, apperr.ErrCodeCycleDetected) {
		t.Errorf("--rule shared error = %v, want CYCLE_DETECTED", err)
	}
}

func TestBadConfigFails(t *testing.T) {
	cfg := writeFile(t, "config.toml", "unknown_key = 1\n")
	file := writeFile(t, "classes.txt", "A B\n")

	if _, err := runCLI(t, "--config", cfg, "order", file, "A"); err == nil {
		t.Error("expected an error for an unknown config key")
	}
}

func TestGraphCommand(t *testing.T) {
	file := writeFile(t, "classes.txt", classFile)

	out, err := runCLI(t, "graph", file)
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}
	for _, want := range []string{"ClassA", "ClassC, ClassE", "ClassB, ClassF, ClassH", "9 classes", "8 dependencies"} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand(t *testing.T) {
	file := writeFile(t, "classes.txt", classFile)
	jsonOut := filepath.Join(t.TempDir(), "graph.json")

	if _, err := runCLI(t, "export", file, "-f", "json", "-o", jsonOut); err != nil {
		t.Fatalf("export json failed: %v", err)
	}

	// The exported file is a valid input and yields the same order.
	out, err := runCLI(t, "order", jsonOut, "ClassA")
	if err != nil {
		t.Fatalf("order on exported json failed: %v", err)
	}
	if out != "ClassA ClassC ClassE ClassB ClassD ClassG ClassF ClassH \n" {
		t.Errorf("order on exported json = %q", out)
	}

	dot, err := runCLI(t, "export", file, "-f", "dot", "--class", "ClassE")
	if err != nil {
		t.Fatalf("export dot failed: %v", err)
	}
	if !strings.HasPrefix(dot, "digraph G {") || !strings.Contains(dot, `"ClassE" -> "ClassB" [penwidth=2];`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}

	if _, err := runCLI(t, "export", file, "-f", "png"); err == nil {
		t.Error("export -f png should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "recompile") {
		t.Error("bash completion should mention the command name")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, apperr.New(apperr.ErrCodeCycleDetected, "This Directed Graph contains a Cycle due to circular class dependency."))

	out := buf.String()
	if !strings.Contains(out, "contains a Cycle") || !strings.Contains(out, "CYCLE_DETECTED") {
		t.Errorf("PrintError output = %q", out)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	file := writeFile(t, "classes.txt", classFile)
	c := New(io.Discard, LogInfo)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := c.runServe(ctx, &out, file, serveOptions{addr: "127.0.0.1:0", watch: true})
	if err != nil {
		t.Fatalf("runServe() error = %v, want nil after cancel", err)
	}
	if !strings.Contains(out.String(), "127.0.0.1:0") {
		t.Errorf("serve output should name the address, got %q", out.String())
	}
}
