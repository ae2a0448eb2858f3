package tree_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitetree/pkg/source"
	"github.com/roach88/suitetree/pkg/tree"
)

func noop() error { return nil }

func noopAfter(tree.Outcome) error { return nil }

func names(nodes []tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func TestBuild_ChildrenInDeclarationOrder(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("b", noop)
		g.Group("a", func(g *tree.Group) {
			g.Test("inner", noop)
		})
		g.Test("c", noop)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, names(root.Children()))
	assert.Equal(t, tree.Constructing, root.Phase())

	a, ok := root.Child("a")
	require.True(t, ok)
	assert.Equal(t, tree.KindGroup, a.Kind())
	assert.Equal(t, []string{"inner"}, names(a.(*tree.Group).Children()))
}

func TestBuild_BlockRunsSynchronously(t *testing.T) {
	var order []string
	_, err := tree.Build("root", func(g *tree.Group) {
		order = append(order, "root-start")
		g.Group("outer", func(g *tree.Group) {
			order = append(order, "outer")
			g.Group("inner", func(g *tree.Group) {
				order = append(order, "inner")
			})
		})
		order = append(order, "root-end")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root-start", "outer", "inner", "root-end"}, order)
}

func TestEnablement_PropagatesDown(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("on", noop)
		g.XTest("off", noop)
		g.XGroup("disabled", func(g *tree.Group) {
			g.Test("declared-enabled", noop)
			g.Group("nested", func(g *tree.Group) {
				g.Test("deep", noop)
			})
		})
		g.GroupIf("conditional", true, func(g *tree.Group) {
			g.TestIf("maybe", false, noop)
		})
	})
	require.NoError(t, err)

	on, _ := root.Child("on")
	off, _ := root.Child("off")
	assert.True(t, on.Enabled())
	assert.False(t, off.Enabled())

	disabled, _ := root.Child("disabled")
	dg := disabled.(*tree.Group)
	assert.False(t, dg.Enabled())
	child, _ := dg.Child("declared-enabled")
	assert.False(t, child.Enabled(), "child of a disabled group is disabled")
	nested, _ := dg.Child("nested")
	deep, _ := nested.(*tree.Group).Child("deep")
	assert.False(t, deep.Enabled())

	cond, _ := root.Child("conditional")
	assert.True(t, cond.Enabled())
	maybe, _ := cond.(*tree.Group).Child("maybe")
	assert.False(t, maybe.Enabled())
}

func TestBuild_DisabledRoot(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("t", noop)
	}, tree.Disabled())
	require.NoError(t, err)

	assert.False(t, root.Enabled())
	tc, _ := root.Child("t")
	assert.False(t, tc.Enabled())
}

func TestDuplicateName_TestRejectedBeforeLinking(t *testing.T) {
	var dupErr error
	root, err := tree.New("root")
	require.NoError(t, err)

	require.NoError(t, root.Test("same", noop))
	dupErr = root.Test("same", noop)

	require.Error(t, dupErr)
	assert.True(t, tree.IsDuplicateName(dupErr))
	assert.True(t, errors.Is(dupErr, tree.ErrDuplicateName))
	assert.Contains(t, dupErr.Error(), `"same"`)
	assert.Len(t, root.Children(), 1, "duplicate must not be linked")
}

func TestDuplicateName_GroupVersusTest(t *testing.T) {
	_, err := tree.Build("root", func(g *tree.Group) {
		g.Test("x", noop)
		g.Group("x", nil)
	})
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateName(err))

	var ce *tree.ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "x", ce.Name)
	assert.Equal(t, "root", ce.Group)
	assert.Equal(t, "group", ce.Op)
}

func TestDuplicateName_CaseSensitive(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("Name", noop)
		g.Test("name", noop)
	})
	require.NoError(t, err)
	assert.Len(t, root.Children(), 2)
}

func TestDuplicateName_SameNameInDifferentGroups(t *testing.T) {
	_, err := tree.Build("root", func(g *tree.Group) {
		g.Group("a", func(g *tree.Group) { g.Test("t", noop) })
		g.Group("b", func(g *tree.Group) { g.Test("t", noop) })
	})
	require.NoError(t, err)
}

func TestDuplicateName_RegisteredFromNestedBlock(t *testing.T) {
	var root *tree.Group
	_, err := tree.Build("root", func(g *tree.Group) {
		root = g
		g.Group("clash", func(inner *tree.Group) {
			// Register a sibling with the same name through the captured root.
			root.Test("clash", noop)
		})
	})
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateName(err))
	assert.Equal(t, []string{"clash"}, names(root.Children()))
	only, _ := root.Child("clash")
	assert.Equal(t, tree.KindTest, only.Kind(), "the group arriving second is rejected")
}

func TestBuild_StickyErrorWhenReturnIgnored(t *testing.T) {
	_, err := tree.Build("root", func(g *tree.Group) {
		g.Test("", noop)
		g.Test("fine", noop)
	})
	require.Error(t, err)

	var ce *tree.ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, tree.ErrCodeEmptyName, ce.Code)
	assert.True(t, errors.Is(err, tree.ErrInvalidNode))
}

func TestBuild_ReturnsFirstError(t *testing.T) {
	root, err := tree.New("root")
	require.NoError(t, err)

	root.Test("a", noop)
	root.Test("a", noop)
	root.BeforeEach(nil)

	require.Len(t, root.Errs(), 2)
	assert.True(t, tree.IsDuplicateName(root.Err()))
}

func TestNilCallables(t *testing.T) {
	tests := []struct {
		name string
		call func(g *tree.Group) error
	}{
		{"test body", func(g *tree.Group) error { return g.Test("t", nil) }},
		{"beforeEach", func(g *tree.Group) error { return g.BeforeEach(nil) }},
		{"afterEach", func(g *tree.Group) error { return g.AfterEach(nil) }},
		{"beforeGroup", func(g *tree.Group) error { return g.BeforeGroup(nil) }},
		{"afterGroup", func(g *tree.Group) error { return g.AfterGroup(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tree.New("root")
			require.NoError(t, err)

			err = tt.call(g)
			require.Error(t, err)
			var ce *tree.ConstructionError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tree.ErrCodeNilCallable, ce.Code)
			assert.Empty(t, g.Children())
		})
	}
}

func TestNew_EmptyRootName(t *testing.T) {
	_, err := tree.New("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrInvalidNode))
}

func TestHooks_RegisteredInOrder(t *testing.T) {
	var calls []string
	root, err := tree.Build("root", func(g *tree.Group) {
		g.BeforeEach(func() error { calls = append(calls, "be1"); return nil })
		g.BeforeEach(func() error { calls = append(calls, "be2"); return nil })
		g.AfterEach(func(tree.Outcome) error { calls = append(calls, "ae1"); return nil })
		g.BeforeGroup(func() error { calls = append(calls, "bg1"); return nil })
		g.AfterGroup(func(tree.Outcome) error { calls = append(calls, "ag1"); return nil })
	})
	require.NoError(t, err)
	assert.Empty(t, calls, "registration must not invoke hooks")

	for _, fn := range root.BeforeEachHooks() {
		require.NoError(t, fn())
	}
	for _, fn := range root.AfterEachHooks() {
		require.NoError(t, fn(tree.Outcome{}))
	}
	for _, fn := range root.BeforeGroupHooks() {
		require.NoError(t, fn())
	}
	for _, fn := range root.AfterGroupHooks() {
		require.NoError(t, fn(tree.Outcome{}))
	}
	assert.Equal(t, []string{"be1", "be2", "ae1", "bg1", "ag1"}, calls)
}

func TestLock_RecursiveAndIdempotent(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Group("a", func(g *tree.Group) {
			g.Group("b", nil)
		})
	})
	require.NoError(t, err)

	root.Lock()
	root.Lock()

	a, _ := root.Child("a")
	b, _ := a.(*tree.Group).Child("b")
	assert.Equal(t, tree.Locked, root.Phase())
	assert.Equal(t, tree.Locked, a.(*tree.Group).Phase())
	assert.Equal(t, tree.Locked, b.(*tree.Group).Phase())
}

func TestLocked_EveryMutationFails(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Group("inner", nil)
	})
	require.NoError(t, err)
	root.Lock()

	inner, _ := root.Child("inner")
	g := inner.(*tree.Group)

	calls := map[string]func() error{
		"test":        func() error { return g.Test("late", noop) },
		"xtest":       func() error { return g.XTest("late", noop) },
		"group":       func() error { return g.Group("late", nil) },
		"xgroup":      func() error { return g.XGroup("late", nil) },
		"beforeEach":  func() error { return g.BeforeEach(noop) },
		"afterEach":   func() error { return g.AfterEach(noopAfter) },
		"beforeGroup": func() error { return g.BeforeGroup(noop) },
		"afterGroup":  func() error { return g.AfterGroup(noopAfter) },
	}

	for op, call := range calls {
		err := call()
		require.Error(t, err, op)
		assert.True(t, tree.IsNotConstructing(err), op)
		assert.True(t, errors.Is(err, tree.ErrNotConstructing), op)
		assert.Contains(t, err.Error(), "root/inner", op)
	}

	assert.Empty(t, g.Children())
	assert.Empty(t, g.BeforeEachHooks())
	assert.Len(t, root.Violations(), len(calls))
	assert.NoError(t, root.Err(), "violations after locking are not construction errors")
}

func TestPathAndAncestors(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Group("a", func(g *tree.Group) {
			g.Group("b", func(g *tree.Group) {
				g.Test("t", noop)
			})
		})
	})
	require.NoError(t, err)

	a, _ := root.Child("a")
	b, _ := a.(*tree.Group).Child("b")
	leaf, _ := b.(*tree.Group).Child("t")

	assert.Equal(t, []string{"root", "a", "b", "t"}, tree.Path(leaf))
	assert.Equal(t, "root/a/b/t", tree.PathString(leaf))
	assert.Equal(t, "root", tree.PathString(root))

	chain := tree.Ancestors(leaf)
	require.Len(t, chain, 3)
	assert.Equal(t, "root", chain[0].Name())
	assert.Equal(t, "b", chain[2].Name())

	assert.Len(t, tree.Ancestors(b), 3, "a group is its own innermost scope")
	assert.Same(t, root, tree.Root(leaf))
	assert.Nil(t, root.Parent())
}

func TestSource_CapturesDeclarationSite(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("here", noop)
	})
	require.NoError(t, err)

	here, _ := root.Child("here")
	assert.Equal(t, "group_test.go", filepath.Base(here.Source().File))
	assert.Greater(t, here.Source().Line, 0)
}

func TestSource_CustomLocator(t *testing.T) {
	root, err := tree.Build("root", func(g *tree.Group) {
		g.Test("t", noop)
	}, tree.WithLocator(source.Nop{}))
	require.NoError(t, err)

	tc, _ := root.Child("t")
	assert.True(t, tc.Source().IsZero())
}

func TestOutcome(t *testing.T) {
	ok := tree.Outcome{Subject: "t"}
	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())

	failed := tree.Outcome{Cause: errors.New("boom")}
	assert.False(t, failed.IsSuccess())
	assert.True(t, failed.IsFailure())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "constructing", tree.Constructing.String())
	assert.Equal(t, "locked", tree.Locked.String())
}
