package suitetest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/report"
	"github.com/roach88/suitetree/pkg/source"
	"github.com/roach88/suitetree/pkg/tree"
)

// fakeT records what replay does, one line per call, prefixed by the
// subtest path.
type fakeT struct {
	path string
	log  *[]string
}

func (f *fakeT) Helper() {}

func (f *fakeT) Error(args ...any) {
	*f.log = append(*f.log, f.path+" error: "+fmt.Sprint(args...))
}

func (f *fakeT) Skip(args ...any) {
	*f.log = append(*f.log, f.path+" skip: "+fmt.Sprint(args...))
}

func (f *fakeT) Run(name string, fn func(runner)) bool {
	child := &fakeT{path: f.path + "/" + name, log: f.log}
	*f.log = append(*f.log, child.path+" run")
	fn(child)
	return true
}

func collect(t *testing.T, name string, block func(*tree.Group)) []report.Entry {
	t.Helper()
	root, err := tree.Build(name, block, tree.WithLocator(source.Nop{}))
	require.NoError(t, err)
	col := report.NewCollector()
	require.NoError(t, engine.New().Run(root, col))
	return col.Entries()
}

func TestReplay(t *testing.T) {
	entries := collect(t, "Calc", func(g *tree.Group) {
		g.Test("adds", func() error { return nil })
		g.Group("division", func(g *tree.Group) {
			g.AfterEach(func(tree.Outcome) error { return errors.New("cleanup") })
			g.Test("by zero", func() error { return errors.New("boom") })
		})
		g.XGroup("later", func(g *tree.Group) {
			g.Test("pow", func() error { return nil })
		})
	})

	var log []string
	replay(&fakeT{path: "Calc", log: &log}, entries)

	assert.Equal(t, []string{
		"Calc/adds run",
		"Calc/division run",
		"Calc/division/by zero run",
		"Calc/division/by zero error: boom",
		"Calc/division/by zero error: suppressed: cleanup",
		"Calc/later run",
		"Calc/later/pow run",
		"Calc/later/pow skip: disabled",
		"Calc/later skip: disabled",
	}, log)
}

func TestReplay_BlockedChildren(t *testing.T) {
	entries := collect(t, "G", func(g *tree.Group) {
		g.BeforeGroup(func() error { return errors.New("setup failed") })
		g.Test("t", func() error { return nil })
	})

	var log []string
	replay(&fakeT{path: "G", log: &log}, entries)

	assert.Equal(t, []string{
		"G/t run",
		`G/t skip: beforeGroup of "G" failed`,
		"G error: setup failed",
	}, log)
}

func TestReplay_Empty(t *testing.T) {
	var log []string
	replay(&fakeT{log: &log}, nil)
	assert.Empty(t, log)
}

func TestRun_PassingSuite(t *testing.T) {
	var ran []string
	col := Run(t, "passing", func(g *tree.Group) {
		g.BeforeEach(func() error { ran = append(ran, "before"); return nil })
		g.Test("one", func() error { ran = append(ran, "one"); return nil })
		g.Group("nested", func(g *tree.Group) {
			g.Test("two", func() error { ran = append(ran, "two"); return nil })
		})
		g.XTest("skipped", func() error { ran = append(ran, "skipped"); return nil })
	})

	assert.Equal(t, []string{"before", "one", "before", "two"}, ran)
	assert.False(t, col.Failed())
	assert.Equal(t, 1, col.Summary().Skipped)
}
