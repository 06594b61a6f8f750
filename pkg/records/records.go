// Package records reads class dependency files.
//
// A dependency file holds one record per line: a class name followed by the
// names of the classes it depends on, separated by whitespace.
//
//	ClassA ClassC ClassE
//	ClassB ClassD ClassG
//	ClassE ClassB ClassF ClassH
//
// Blank lines are ignored, and so are lines whose first token starts
// with '#'. Runs of spaces and tabs count as a single separator, so no
// record ever contains an empty class name.
package records

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

// MaxLineSize is the longest line Parse accepts.
const MaxLineSize = 1 << 20

// Parse reads dependency records from r, one per non-blank line.
func Parse(r io.Reader) ([]depgraph.Record, error) {
	var out []depgraph.Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		out = append(out, depgraph.Record(fields))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	return out, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) ([]depgraph.Record, error) {
	return Parse(strings.NewReader(s))
}

// ReadFile opens path and parses its records.
func ReadFile(path string) ([]depgraph.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}
