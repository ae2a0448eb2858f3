package tree

import (
	"github.com/roach88/suitetree/pkg/source"
)

// Group is a named scope holding child nodes and lifecycle hooks.
//
// A Group exclusively owns its children and hook lists. Children run in
// insertion order.
type Group struct {
	name    string
	enabled bool
	src     source.Location
	parent  *Group
	phase   Phase
	shared  *shared

	children    []Node
	beforeGroup []Func
	afterGroup  []AfterFunc
	beforeEach  []Func
	afterEach   []AfterFunc
}

func (g *Group) Name() string            { return g.name }
func (g *Group) Kind() Kind              { return KindGroup }
func (g *Group) Enabled() bool           { return g.enabled }
func (g *Group) Source() source.Location { return g.src }
func (g *Group) Parent() *Group          { return g.parent }
func (g *Group) sealed()                 {}

// Phase returns the group's construction phase.
func (g *Group) Phase() Phase { return g.phase }

// Children returns a copy of the child list in declaration order.
func (g *Group) Children() []Node {
	out := make([]Node, len(g.children))
	copy(out, g.children)
	return out
}

// Child returns the direct child with the given name.
func (g *Group) Child(name string) (Node, bool) {
	for _, c := range g.children {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// BeforeGroupHooks returns a copy of the beforeGroup list.
func (g *Group) BeforeGroupHooks() []Func { return append([]Func(nil), g.beforeGroup...) }

// AfterGroupHooks returns a copy of the afterGroup list.
func (g *Group) AfterGroupHooks() []AfterFunc { return append([]AfterFunc(nil), g.afterGroup...) }

// BeforeEachHooks returns a copy of the beforeEach list.
func (g *Group) BeforeEachHooks() []Func { return append([]Func(nil), g.beforeEach...) }

// AfterEachHooks returns a copy of the afterEach list.
func (g *Group) AfterEachHooks() []AfterFunc { return append([]AfterFunc(nil), g.afterEach...) }

// Test registers an enabled test. The body is not run now; the engine runs
// it later.
func (g *Group) Test(name string, body Func) error {
	return g.addTest("test", name, true, body)
}

// XTest registers a disabled test. It shows up in reports as skipped.
func (g *Group) XTest(name string, body Func) error {
	return g.addTest("xtest", name, false, body)
}

// TestIf registers a test that is enabled only when enabled is true.
func (g *Group) TestIf(name string, enabled bool, body Func) error {
	return g.addTest("test", name, enabled, body)
}

// Group creates a nested group and runs block against it immediately.
// A nil block creates an empty group.
func (g *Group) Group(name string, block func(*Group)) error {
	return g.addGroup("group", name, true, block)
}

// XGroup creates a disabled nested group. The block still runs so the
// disabled subtree is known and reported; nothing in it executes.
func (g *Group) XGroup(name string, block func(*Group)) error {
	return g.addGroup("xgroup", name, false, block)
}

// GroupIf creates a nested group that is enabled only when enabled is true.
func (g *Group) GroupIf(name string, enabled bool, block func(*Group)) error {
	return g.addGroup("group", name, enabled, block)
}

// BeforeEach registers fn to run before every test in this group and all
// nested groups. Outer groups' beforeEach hooks run first.
func (g *Group) BeforeEach(fn Func) error {
	if err := g.checkHook("beforeEach", fn == nil); err != nil {
		return err
	}
	g.beforeEach = append(g.beforeEach, fn)
	return nil
}

// AfterEach registers fn to run after every test in this group and all
// nested groups, even when the test or a beforeEach failed. Inner groups'
// afterEach hooks run first.
func (g *Group) AfterEach(fn AfterFunc) error {
	if err := g.checkHook("afterEach", fn == nil); err != nil {
		return err
	}
	g.afterEach = append(g.afterEach, fn)
	return nil
}

// BeforeGroup registers fn to run once before anything in this group runs.
// It runs even when the group has no children.
func (g *Group) BeforeGroup(fn Func) error {
	if err := g.checkHook("beforeGroup", fn == nil); err != nil {
		return err
	}
	g.beforeGroup = append(g.beforeGroup, fn)
	return nil
}

// AfterGroup registers fn to run once after everything in this group ran,
// even when a beforeGroup hook or a descendant failed.
func (g *Group) AfterGroup(fn AfterFunc) error {
	if err := g.checkHook("afterGroup", fn == nil); err != nil {
		return err
	}
	g.afterGroup = append(g.afterGroup, fn)
	return nil
}

// Lock moves this group and every descendant group to Locked.
// Calling it again is a no-op.
func (g *Group) Lock() {
	g.phase = Locked
	for _, c := range g.children {
		if child, ok := c.(*Group); ok {
			child.Lock()
		}
	}
}

// Err returns the first construction error recorded anywhere in this tree.
func (g *Group) Err() error {
	if len(g.shared.errs) == 0 {
		return nil
	}
	return g.shared.errs[0]
}

// Errs returns every construction error recorded in this tree, in order.
func (g *Group) Errs() []error {
	return append([]error(nil), g.shared.errs...)
}

// Violations returns the mutating calls attempted after the tree was locked.
func (g *Group) Violations() []error {
	return append([]error(nil), g.shared.violations...)
}

func (g *Group) addTest(op, name string, enabled bool, body Func) error {
	if err := g.checkChild(op, name); err != nil {
		return err
	}
	if body == nil {
		return g.record(&ConstructionError{Code: ErrCodeNilCallable, Op: op, Group: PathString(g), Name: name})
	}

	g.children = append(g.children, &Test{
		name:    name,
		enabled: g.enabled && enabled,
		src:     g.shared.locator.Locate(),
		parent:  g,
		body:    body,
	})
	return nil
}

func (g *Group) addGroup(op, name string, enabled bool, block func(*Group)) error {
	if err := g.checkChild(op, name); err != nil {
		return err
	}

	child := &Group{
		name:    name,
		enabled: g.enabled && enabled,
		src:     g.shared.locator.Locate(),
		parent:  g,
		phase:   Constructing,
		shared:  g.shared,
	}
	if block != nil {
		block(child)
	}

	// The block may have registered a same-named sibling through a captured
	// outer group.
	if _, exists := g.Child(name); exists {
		return g.record(&ConstructionError{Code: ErrCodeDuplicateName, Op: op, Group: PathString(g), Name: name})
	}
	g.children = append(g.children, child)
	return nil
}

func (g *Group) checkChild(op, name string) error {
	if err := g.checkPhase(op); err != nil {
		return err
	}
	if name == "" {
		return g.record(&ConstructionError{Code: ErrCodeEmptyName, Op: op, Group: PathString(g)})
	}
	if _, exists := g.Child(name); exists {
		return g.record(&ConstructionError{Code: ErrCodeDuplicateName, Op: op, Group: PathString(g), Name: name})
	}
	return nil
}

func (g *Group) checkHook(op string, isNil bool) error {
	if err := g.checkPhase(op); err != nil {
		return err
	}
	if isNil {
		return g.record(&ConstructionError{Code: ErrCodeNilCallable, Op: op, Group: PathString(g)})
	}
	return nil
}

func (g *Group) checkPhase(op string) error {
	if g.phase == Constructing {
		return nil
	}
	err := &ConstructionError{Code: ErrCodeNotConstructing, Op: op, Group: PathString(g)}
	g.shared.violations = append(g.shared.violations, err)
	return err
}

func (g *Group) record(err *ConstructionError) error {
	g.shared.errs = append(g.shared.errs, err)
	return err
}
