// Package testutil holds deterministic stand-ins for the run ID generator and
// the wall clock, so command and report output can be compared to goldens.
package testutil
