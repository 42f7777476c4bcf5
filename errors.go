package supplier

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrUnbound matches every *UnboundError via errors.Is.
	ErrUnbound = errors.New("supplier: cell is unbound")

	// ErrDiscipline matches every *DisciplineError via errors.Is.
	ErrDiscipline = errors.New("supplier: binding discipline violated")
)

// UnboundError is returned when a cell is read in an execution that has no
// visible binding for it.
type UnboundError struct {
	Cell        string
	ExecutionID string
}

func (e *UnboundError) Error() string {
	if e.ExecutionID != "" {
		return fmt.Sprintf("cell %q is not bound in execution %s", e.Cell, e.ExecutionID)
	}
	return fmt.Sprintf("cell %q is not bound", e.Cell)
}

func (e *UnboundError) Is(target error) bool {
	return target == ErrUnbound
}

// Violation names the way a binding was misused.
type Violation string

const (
	// ViolationDoubleRelease is reported when Release runs twice on one binding.
	ViolationDoubleRelease Violation = "double release"
	// ViolationOutOfOrder is reported when a binding is released while a
	// later binding of the same cell in the same execution is still active.
	ViolationOutOfOrder Violation = "out of order release"
)

// DisciplineError is the panic value raised by Binding.Release on misuse.
type DisciplineError struct {
	Cell        string
	ExecutionID string
	Violation   Violation
	// Blocking is the cell's innermost active binding's value, set for
	// ViolationOutOfOrder.
	Blocking   any
	StackTrace []byte
}

func (e *DisciplineError) Error() string {
	if e.Violation == ViolationOutOfOrder {
		return fmt.Sprintf("%s of cell %q in execution %s: binding to %v is still active",
			e.Violation, e.Cell, e.ExecutionID, e.Blocking)
	}
	return fmt.Sprintf("%s of cell %q in execution %s", e.Violation, e.Cell, e.ExecutionID)
}

func (e *DisciplineError) Is(target error) bool {
	return target == ErrDiscipline
}

func newDisciplineError(b *Binding, v Violation, blocking any) *DisciplineError {
	return &DisciplineError{
		Cell:        b.name,
		ExecutionID: b.exec.id,
		Violation:   v,
		Blocking:    blocking,
		StackTrace:  debug.Stack(),
	}
}

// SignatureError reports a target function that cannot be adapted to the
// requested wrapped signature.
type SignatureError struct {
	Target string
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("cannot adapt %s: %s", e.Target, e.Reason)
}

// ArgumentError reports explicit arguments that do not fit the target when
// calling through Func.Call.
type ArgumentError struct {
	Target string
	Index  int
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("call to %s: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("call to %s: argument %d: %s", e.Target, e.Index, e.Reason)
}

// ExtensionError reports an extension that broke the operation it wrapped:
// a resolve yielding a value that does not fit its parameter, or a call
// skipped without an error. Source is set for resolves.
type ExtensionError struct {
	Target string
	Source string
	Reason string
}

func (e *ExtensionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("resolving %q for %s: %s", e.Source, e.Target, e.Reason)
	}
	return fmt.Sprintf("calling %s: %s", e.Target, e.Reason)
}

// SafeTypeAssertion performs safe type assertion with proper error
func SafeTypeAssertion[T any](value any) (T, error) {
	if value == nil {
		var zero T
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("type assertion error: expected %T, got %T (value: %v)", zero, value, value)
	}

	return typed, nil
}
