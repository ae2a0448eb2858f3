package tree

import (
	"errors"
	"fmt"
)

// Sentinel kinds wrapped by ConstructionError.
var (
	ErrDuplicateName   = errors.New("duplicate sibling name")
	ErrNotConstructing = errors.New("tree is locked")
	ErrInvalidNode     = errors.New("invalid node")
)

// ConstructionErrorCode categorizes construction errors.
type ConstructionErrorCode string

const (
	// ErrCodeDuplicateName indicates a sibling with the same name exists.
	ErrCodeDuplicateName ConstructionErrorCode = "DUPLICATE_NAME"

	// ErrCodeNotConstructing indicates a mutating call on a locked group.
	ErrCodeNotConstructing ConstructionErrorCode = "NOT_CONSTRUCTING"

	// ErrCodeEmptyName indicates a group or test without a name.
	ErrCodeEmptyName ConstructionErrorCode = "EMPTY_NAME"

	// ErrCodeNilCallable indicates a nil test body or hook.
	ErrCodeNilCallable ConstructionErrorCode = "NIL_CALLABLE"
)

// ConstructionError is returned by every mutating Group method on misuse.
// It is a programming error, not a test failure.
type ConstructionError struct {
	// Code identifies the error category.
	Code ConstructionErrorCode

	// Op is the DSL method that failed ("test", "group", "beforeEach", ...).
	Op string

	// Group is the slash-joined path of the group the call was made on.
	Group string

	// Name is the offending child name, empty for hook registrations.
	Name string
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	switch e.Code {
	case ErrCodeDuplicateName:
		return fmt.Sprintf("%s: %s %q already exists in group %q", e.Code, e.Op, e.Name, e.Group)
	case ErrCodeNotConstructing:
		return fmt.Sprintf("%s: %s called on group %q after the tree was locked; "+
			"groups, tests and hooks may only be declared while the tree is being built, not from hooks or test bodies",
			e.Code, e.Op, e.Group)
	case ErrCodeEmptyName:
		return fmt.Sprintf("%s: %s in group %q needs a non-empty name", e.Code, e.Op, e.Group)
	case ErrCodeNilCallable:
		if e.Name != "" {
			return fmt.Sprintf("%s: %s %q in group %q has a nil callable", e.Code, e.Op, e.Name, e.Group)
		}
		return fmt.Sprintf("%s: %s in group %q has a nil callable", e.Code, e.Op, e.Group)
	default:
		return fmt.Sprintf("%s: %s in group %q", e.Code, e.Op, e.Group)
	}
}

// Unwrap exposes the sentinel kind for errors.Is.
func (e *ConstructionError) Unwrap() error {
	switch e.Code {
	case ErrCodeDuplicateName:
		return ErrDuplicateName
	case ErrCodeNotConstructing:
		return ErrNotConstructing
	default:
		return ErrInvalidNode
	}
}

// IsDuplicateName returns true if err is a duplicate sibling name error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateName(err error) bool {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDuplicateName
	}
	return false
}

// IsNotConstructing returns true if err reports a call on a locked tree.
func IsNotConstructing(err error) bool {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeNotConstructing
	}
	return false
}
