// Package pipeline runs the load → build → order flow shared by the CLI,
// the TUI, and the HTTP API.
//
// Centralizing it here keeps the user-facing behavior identical across
// entry points: the same error codes and messages, the same log lines, and
// the same observability hooks.
//
// # Stages
//
//  1. Load: read a dependency file (text records, or a JSON graph when the
//     path ends in .json) and build a [depgraph.Graph].
//  2. Order: walk the graph from a class and return the recompilation order.
//  3. Render: optionally export the graph as JSON, DOT, or SVG.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, depgraph.RuleShared)
//	g, err := runner.Load(ctx, "classes.txt")
//	if err != nil {
//	    return err
//	}
//	order, err := runner.Order(ctx, g, "ClassA")
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	    return err
//	}
//	fmt.Println(order)
//
// Errors returned by the Runner are *[errors.Error] values carrying one of
// the codes in [github.com/matzehuels/recompile/pkg/errors]; the original
// cause stays reachable through errors.Is and errors.As.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format constants for export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Messages shown to users for expected failures.
const (
	MsgBuilt         = "Graph Built Successfully"
	MsgFileNotOpened = "File Did Not Open"
	MsgCycle         = "This Directed Graph contains a Cycle due to circular class dependency."
	msgInvalidClass  = "Invalid Class Name: %s. Please try again."
)

// ValidateFormat checks if format is a supported export format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %s (must be json, dot, or svg)", format)
	}
	return nil
}

// IsJSONGraph reports whether path names a JSON graph export rather than a
// text dependency file.
func IsJSONGraph(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
