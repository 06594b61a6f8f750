package records

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

func TestParse(t *testing.T) {
	content := `# project classes
ClassA ClassC ClassE
ClassB	ClassD   ClassG

ClassE ClassB ClassF ClassH
   ClassI ClassC
ClassJ
`
	got, err := ParseString(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []depgraph.Record{
		{"ClassA", "ClassC", "ClassE"},
		{"ClassB", "ClassD", "ClassG"},
		{"ClassE", "ClassB", "ClassF", "ClassH"},
		{"ClassI", "ClassC"},
		{"ClassJ"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseNoTrailingNewline(t *testing.T) {
	got, err := ParseString("A B\nB C")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Source() != "B" {
		t.Errorf("Parse() = %v, want two records", got)
	}
}

func TestParseCRLF(t *testing.T) {
	got, err := ParseString("A B\r\nB C\r\n")
	if err != nil {
		t.Fatal(err)
	}
	want := []depgraph.Record{{"A", "B"}, {"B", "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n", "# only a comment\n", "   \t  \n"} {
		got, err := ParseString(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want no records", in, got)
		}
	}
}

func TestParseLineTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxLineSize+1)
	_, err := ParseString("A B\n" + long + "\n")
	if err == nil {
		t.Fatal("expected error for oversized line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestParseLabelsAreValid(t *testing.T) {
	recs, err := ParseString("A  B\t\tC\n\n D E \n")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		for _, l := range r {
			if !depgraph.ValidLabel(l) {
				t.Errorf("invalid label %q in %v", l, r)
			}
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.txt")
	if err := os.WriteFile(path, []byte("A B C\nB D\n"), 0644); err != nil {
		t.Fatal(err)
	}

	recs, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	g := depgraph.FromRecords(recs)
	order, err := depgraph.Walk(g, "A")
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if got := order.String(); got != "A B D C " {
		t.Errorf("order = %q, want %q", got, "A B D C ")
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want fs.ErrNotExist", err)
	}
}
