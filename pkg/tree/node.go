package tree

import (
	"strings"

	"github.com/roach88/suitetree/pkg/source"
)

// Kind tags the two node variants.
type Kind string

const (
	// KindGroup marks a *Group.
	KindGroup Kind = "group"
	// KindTest marks a *Test.
	KindTest Kind = "test"
)

// Phase is the construction state of a Group.
type Phase int

const (
	// Constructing allows mutation.
	Constructing Phase = iota
	// Locked forbids mutation; the tree may be executed.
	Locked
)

func (p Phase) String() string {
	switch p {
	case Constructing:
		return "constructing"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Func is a test body, beforeGroup or beforeEach callable.
// A returned error or a panic fails the callable.
type Func func() error

// AfterFunc is an afterEach or afterGroup callable. It receives the outcome
// accumulated so far.
type AfterFunc func(Outcome) error

// Outcome is passed to after hooks.
type Outcome struct {
	// Subject is the test name for afterEach outcomes and empty for
	// afterGroup outcomes.
	Subject string
	// Cause is the failure accumulated so far, nil when everything succeeded.
	Cause error
}

// IsSuccess reports whether no failure has been recorded.
func (o Outcome) IsSuccess() bool { return o.Cause == nil }

// IsFailure is the negation of IsSuccess.
func (o Outcome) IsFailure() bool { return !o.IsSuccess() }

// Node is either a *Group or a *Test. The set of implementations is closed.
type Node interface {
	// Name is unique among the node's siblings.
	Name() string
	// Kind tells the two variants apart without a type switch.
	Kind() Kind
	// Enabled is false when the node or any ancestor was declared disabled.
	Enabled() bool
	// Source is where the node was declared. Reporting only.
	Source() source.Location
	// Parent is nil for a root group.
	Parent() *Group

	sealed()
}

// Test is a leaf node with a single body.
type Test struct {
	name    string
	enabled bool
	src     source.Location
	parent  *Group
	body    Func
}

func (t *Test) Name() string            { return t.name }
func (t *Test) Kind() Kind              { return KindTest }
func (t *Test) Enabled() bool           { return t.enabled }
func (t *Test) Source() source.Location { return t.src }
func (t *Test) Parent() *Group          { return t.parent }
func (t *Test) sealed()                 {}

// Body returns the test's callable.
func (t *Test) Body() Func { return t.body }

// Path returns the names from the root group down to n, inclusive.
func Path(n Node) []string {
	var names []string
	for cur := n; cur != nil; {
		names = append(names, cur.Name())
		p := cur.Parent()
		if p == nil {
			break
		}
		cur = p
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// PathString joins Path with "/".
func PathString(n Node) string {
	return strings.Join(Path(n), "/")
}

// Ancestors returns the groups enclosing n, root first. The node itself is
// included when it is a group.
func Ancestors(n Node) []*Group {
	var chain []*Group
	if g, ok := n.(*Group); ok {
		chain = append(chain, g)
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Root walks up to the root group.
func Root(n Node) *Group {
	chain := Ancestors(n)
	if len(chain) == 0 {
		return nil
	}
	return chain[0]
}
