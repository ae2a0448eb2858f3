package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExited is reported for a hook or test body that ended without returning,
// for example by calling runtime.Goexit through testing.T.FailNow.
var ErrExited = errors.New("hook or test body exited without returning")

// Failure is a node's reported failure: one primary cause plus the errors
// that happened afterwards, in order. Later errors never replace the primary
// one; they are suppressed onto it.
//
// errors.Is and errors.As see the primary cause and every suppressed error.
type Failure struct {
	cause      error
	suppressed []error
}

// NewFailure wraps cause as a primary failure with nothing suppressed.
func NewFailure(cause error, suppressed ...error) *Failure {
	return &Failure{cause: cause, suppressed: suppressed}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if len(f.suppressed) == 0 {
		return f.cause.Error()
	}
	parts := make([]string, len(f.suppressed))
	for i, s := range f.suppressed {
		parts[i] = s.Error()
	}
	return fmt.Sprintf("%v (suppressed: %s)", f.cause, strings.Join(parts, "; "))
}

// Unwrap returns the primary cause followed by the suppressed errors.
func (f *Failure) Unwrap() []error {
	out := make([]error, 0, 1+len(f.suppressed))
	out = append(out, f.cause)
	return append(out, f.suppressed...)
}

// Primary returns the first error recorded for the node.
func (f *Failure) Primary() error { return f.cause }

// Suppressed returns a copy of the secondary errors, in the order they
// happened.
func (f *Failure) Suppressed() []error {
	return append([]error(nil), f.suppressed...)
}

// Suppress attaches err to the failure.
func (f *Failure) Suppress(err error) {
	f.suppressed = append(f.suppressed, err)
}

// snapshot returns a copy of f for an Outcome, so errors suppressed later do
// not show up in an outcome a hook already received. A nil f yields a nil
// error, never a typed nil.
func (f *Failure) snapshot() error {
	if f == nil {
		return nil
	}
	return NewFailure(f.cause, f.Suppressed()...)
}

// accumulate applies the primary/suppressed rule: the first error becomes the
// primary failure, every later one is suppressed onto it.
func accumulate(f *Failure, err error) *Failure {
	if err == nil {
		return f
	}
	if f == nil {
		return NewFailure(err)
	}
	f.Suppress(err)
	return f
}

// merge accumulates errs onto f in order.
func merge(f *Failure, errs []error) *Failure {
	for _, err := range errs {
		f = accumulate(f, err)
	}
	return f
}

// PanicError is a panic recovered from a hook or test body.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
