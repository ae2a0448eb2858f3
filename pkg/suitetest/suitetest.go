// Package suitetest runs a suite tree inside go test.
//
// The tree is executed by the engine first; its results are then replayed as
// nested subtests so that go test output, -run filters on the reported names
// and IDE integrations show every group and test.
//
//	func TestCalculator(t *testing.T) {
//		suitetest.Run(t, "Calculator", func(g *tree.Group) {
//			g.Test("adds", func() error { ... })
//		})
//	}
//
// Bodies and hooks should report problems by returning an error. A body that
// calls t.FailNow (directly or through require) marks t failed and ends only
// that body: the node is reported with engine.ErrExited and the remaining
// hooks and tests still run.
package suitetest

import (
	"log/slog"
	"testing"

	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/report"
	"github.com/roach88/suitetree/pkg/tree"
)

type config struct {
	engineOpts []engine.Option
	treeOpts   []tree.Option
}

// Option configures Run.
type Option func(*config)

// WithLogger passes a logger to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, engine.WithLogger(l))
	}
}

// WithTreeOptions passes options to tree.Build.
func WithTreeOptions(opts ...tree.Option) Option {
	return func(c *config) {
		c.treeOpts = append(c.treeOpts, opts...)
	}
}

// Run builds the tree named name, executes it and reports every node as a
// subtest of t. The root group maps onto t itself.
//
// A construction error fails t immediately. A failed node reports its
// primary error and every suppressed error; a skipped node is skipped with
// the engine's reason.
func Run(t *testing.T, name string, block func(*tree.Group), opts ...Option) *report.Collector {
	t.Helper()

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := tree.Build(name, block, cfg.treeOpts...)
	if err != nil {
		t.Fatalf("suitetree: build %q: %v", name, err)
	}

	col := report.NewCollector()
	if err := engine.New(cfg.engineOpts...).Run(root, col); err != nil {
		t.Fatalf("suitetree: run %q: %v", name, err)
	}

	replay(testingT{t}, col.Entries())
	return col
}

// runner is the part of *testing.T replay needs.
type runner interface {
	Helper()
	Error(args ...any)
	Skip(args ...any)
	Run(name string, f func(runner)) bool
}

type testingT struct{ *testing.T }

func (t testingT) Run(name string, f func(runner)) bool {
	return t.T.Run(name, func(t *testing.T) { f(testingT{t}) })
}

// replay reports entries on t. entries must be one tree in pre-order, as a
// Collector records it.
func replay(t runner, entries []report.Entry) {
	if len(entries) == 0 {
		return
	}
	children := make(map[string][]report.Entry)
	for _, e := range entries[1:] {
		key := e.Parent.String()
		children[key] = append(children[key], e)
	}
	replayEntry(t, entries[0], children)
}

func replayEntry(t runner, e report.Entry, children map[string][]report.Entry) {
	t.Helper()

	// Children first: Skip ends the current test, so a skipped group must
	// have reported its descendants before it skips itself.
	for _, child := range children[e.ID.String()] {
		t.Run(child.Name, func(t runner) {
			replayEntry(t, child, children)
		})
	}

	switch e.Status {
	case report.StatusFailed, report.StatusBuildFailed:
		t.Error(e.Failure.Primary())
		for _, s := range e.Failure.Suppressed() {
			t.Error("suppressed: " + s.Error())
		}
	case report.StatusSkipped:
		t.Skip(e.Reason)
	}
}
