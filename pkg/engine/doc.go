// Package engine executes a locked suitetree tree.
//
// ARCHITECTURE:
//
// Single-threaded depth-first walk:
// Run visits every node exactly once, in declaration order, on the calling
// goroutine. Each hook and test body runs to completion before the walk
// moves on. There is no parallelism, no cancellation and no timeout.
//
// Group algorithm:
//  1. Started.
//  2. If enabled, run beforeGroup hooks in order; stop at the first failure.
//  3. Visit every child. If a beforeGroup failed, children are reported as
//     skipped and nothing in them runs.
//  4. Run every afterGroup hook, even after a failure, each receiving the
//     failure accumulated so far.
//  5. Finished, or Skipped when the group is disabled.
//
// Test algorithm:
//  1. Started; Skipped and done when disabled.
//  2. beforeEach hooks of every enclosing group, outermost first; stop at
//     the first failure.
//  3. The body, only if every beforeEach succeeded.
//  4. afterEach hooks of every enclosing group, innermost first, always.
//  5. Finished.
//
// Failure accumulation:
// The first error becomes the node's primary failure. Every later error from
// an after hook is suppressed onto it rather than replacing it, and the
// remaining after hooks still run. A node reports a single *Failure, never a
// flat list.
//
// A panic in a callable is recovered as a *PanicError. A construction call
// made from a callable after locking (tree.Group.Violations) fails that
// callable.
//
// Only a failing Sink stops the walk; Run returns it as a *SinkError.
package engine
