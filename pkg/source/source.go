// Package source captures where a group or test was declared.
//
// Locations are reporting-only tokens: the tree stores them and the report
// prints them, nothing else interprets them.
package source

import (
	"fmt"
	"runtime"
	"strings"
)

// Location points at the line that declared a node.
type Location struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Function string `json:"function,omitempty"`
}

// IsZero reports whether the location is unknown.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Locator produces the location of the current declaration.
type Locator interface {
	Locate() Location
}

// DefaultIgnore lists the function prefixes skipped by CallerLocator when no
// Ignore list is given. Frames inside these packages are the DSL itself, not
// the user's declaration.
var DefaultIgnore = []string{
	"github.com/roach88/suitetree/pkg/tree.",
	"github.com/roach88/suitetree/pkg/source.",
	"github.com/roach88/suitetree/pkg/discovery.",
	"github.com/roach88/suitetree/pkg/fixture.",
	"github.com/roach88/suitetree/pkg/suitetest.",
	"runtime.",
}

// CallerLocator returns the first stack frame whose function is outside the
// ignored package prefixes.
type CallerLocator struct {
	// Skip is passed to runtime.Callers on top of the locator's own frames.
	Skip int
	// Ignore overrides DefaultIgnore.
	Ignore []string
}

// maxDepth bounds the stack walk.
const maxDepth = 64

// Locate implements Locator.
func (c CallerLocator) Locate() Location {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2+c.Skip, pcs)
	if n == 0 {
		return Location{}
	}

	ignore := c.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isIgnored(frame.Function, ignore) {
			return Location{File: frame.File, Line: frame.Line, Function: frame.Function}
		}
		if !more {
			return Location{}
		}
	}
}

func isIgnored(function string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}

// Nop is a Locator that never knows the location.
type Nop struct{}

// Locate implements Locator.
func (Nop) Locate() Location { return Location{} }
