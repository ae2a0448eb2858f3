package engine

import (
	"fmt"

	"github.com/roach88/suitetree/pkg/tree"
)

// Status is the result of a node that ran.
type Status string

const (
	// StatusSuccessful means every hook and the body succeeded.
	StatusSuccessful Status = "SUCCESSFUL"
	// StatusFailed means at least one hook or the body failed.
	StatusFailed Status = "FAILED"
)

// Result is reported with Finished.
type Result struct {
	Status Status
	// Failure is nil for a successful result.
	Failure *Failure
}

// Successful returns a successful result.
func Successful() Result {
	return Result{Status: StatusSuccessful}
}

// Failed returns a failed result carrying f.
func Failed(f *Failure) Result {
	return Result{Status: StatusFailed, Failure: f}
}

// Skip reasons reported by the engine.
const (
	ReasonDisabled = "disabled"
)

// Event identifies the node an event is about.
type Event struct {
	ID     UniqueID
	Parent UniqueID
	Node   tree.Node
}

// Sink receives execution events. Calls are synchronous, on the walking
// goroutine, and must not block.
//
// Every node gets exactly one Started followed by exactly one of Finished or
// Skipped. Children's events nest between their parent's Started and its
// Finished/Skipped.
type Sink interface {
	Started(ev Event) error
	Finished(ev Event, result Result) error
	Skipped(ev Event, reason string) error
}

// SinkError is returned by Run when the sink itself fails. The walk stops at
// that point; node failures never stop it.
type SinkError struct {
	// Event is "started", "finished" or "skipped".
	Event string
	ID    UniqueID
	Err   error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink failed on %s %s: %v", e.Event, e.ID, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// SinkFuncs adapts plain functions to Sink. Nil fields are no-ops.
type SinkFuncs struct {
	OnStarted  func(Event) error
	OnFinished func(Event, Result) error
	OnSkipped  func(Event, string) error
}

func (s SinkFuncs) Started(ev Event) error {
	if s.OnStarted == nil {
		return nil
	}
	return s.OnStarted(ev)
}

func (s SinkFuncs) Finished(ev Event, r Result) error {
	if s.OnFinished == nil {
		return nil
	}
	return s.OnFinished(ev, r)
}

func (s SinkFuncs) Skipped(ev Event, reason string) error {
	if s.OnSkipped == nil {
		return nil
	}
	return s.OnSkipped(ev, reason)
}
