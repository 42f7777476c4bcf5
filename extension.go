package supplier

import "context"

// Extension provides hooks around the work a Supplier does on every call
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a supplier
	Init(s *Supplier) error

	// Wrap intercepts operations (resolve, call)
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)

	// OnError is told about every resolve failure and every error returned
	// by a wrapped target
	OnError(ctx context.Context, err error, op *Operation)
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(s *Supplier) error {
	return nil
}

func (e *BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(ctx context.Context, err error, op *Operation) {
}

// Operation describes what operation is happening
type Operation struct {
	Kind OperationKind
	// Target is the wrapped function's name
	Target string
	// Source is the resolved source's name, set for OpResolve
	Source   string
	Supplier *Supplier
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpResolve indicates one source being read for injection
	OpResolve OperationKind = "resolve"
	// OpCall indicates the wrapped target being invoked
	OpCall OperationKind = "call"
)
