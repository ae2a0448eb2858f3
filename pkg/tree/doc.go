// Package tree is the node model of suitetree: named groups and leaf tests,
// their lifecycle hooks, and the construction-phase guard.
//
// # Construction
//
// A tree is built in one synchronous, depth-first pass. Build creates the
// root group and hands it to a block; every Group call creates a child and
// runs its block immediately, before returning to the caller:
//
//	root, err := tree.Build("Calculator", func(g *tree.Group) {
//	    var calc *Calculator
//	    g.BeforeEach(func() error {
//	        calc = NewCalculator()
//	        return nil
//	    })
//
//	    g.Group("add", func(g *tree.Group) {
//	        g.Test("1+1", func() error {
//	            if calc.Add(1, 1) != 2 {
//	                return errors.New("expected 2")
//	            }
//	            return nil
//	        })
//	        g.XTest("overflow", func() error { return nil }) // disabled
//	    })
//	})
//
// Every mutating call returns a *ConstructionError on misuse and also records
// it on the tree, so Build reports the first failure even when the block
// ignores return values.
//
// # Phases
//
// Groups start Constructing. Lock moves a group and all of its descendants to
// Locked; from then on every mutating call fails with ErrNotConstructing.
// Calls made while Locked (for example a test body trying to register another
// test) are kept as violations, which the engine turns into failures of the
// callable that made them.
//
// # Enablement
//
// A node's enabled flag is its own declared flag ANDed with its parent's,
// computed once at creation. A child of a disabled group is always disabled.
//
// This package never invokes a hook or test body; that is the engine's job.
package tree
