package supplier

import (
	"context"
	"reflect"
)

// cellKey identifies a cell in a context chain. It is never compared by name.
type cellKey struct {
	name string
}

// Source is anything a Supplier can resolve into an injected argument.
// Every *Cell[T] is a Source.
type Source interface {
	// Name returns the diagnostic label of the source
	Name() string

	// Type is the static type of the resolved value
	Type() reflect.Type

	// Resolve returns the value visible through ctx
	Resolve(ctx context.Context) (any, error)
}

// Cell holds at most one current value of type T per execution. Values are
// bound for a scope with Bind or Use and read with Get.
type Cell[T any] struct {
	key *cellKey
}

// NewCell creates an unbound cell. The name only labels errors and logs;
// two cells with the same name are still independent.
func NewCell[T any](name string) *Cell[T] {
	return &Cell[T]{key: &cellKey{name: name}}
}

func (c *Cell[T]) Name() string {
	return c.key.name
}

func (c *Cell[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Bind makes v the cell's current value in the execution carried by ctx and
// returns the context to run the scope with. The binding must be released
// exactly once, in reverse order of creation:
//
//	ctx, b := user.Bind(ctx, u)
//	defer b.Release()
//
// When ctx carries no execution yet, a root execution is started. A nil ctx
// is treated as context.Background().
func (c *Cell[T]) Bind(ctx context.Context, v T) (context.Context, *Binding) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := executionFrom(ctx)
	if exec == nil {
		exec = newExecution(nil)
		ctx = context.WithValue(ctx, executionKey{}, exec)
	}

	prev, _ := ctx.Value(c.key).(*Binding)
	b := &Binding{
		key:   c.key,
		name:  c.key.name,
		value: v,
		exec:  exec,
		prev:  prev,
	}
	exec.push(b)

	return context.WithValue(ctx, c.key, b), b
}

// Use binds v for the duration of fn. The binding is released however fn
// exits, including by panic.
func (c *Cell[T]) Use(ctx context.Context, v T, fn func(ctx context.Context) error) error {
	ctx, b := c.Bind(ctx, v)
	defer b.Release()

	return fn(ctx)
}

// Get returns the current value. Reading a cell with no visible binding is a
// usage error and yields an *UnboundError rather than a zero value. Nothing
// is bound in a nil ctx.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	b, ok := lookup(ctx, c.key)
	if !ok {
		var zero T
		return zero, &UnboundError{Cell: c.key.name, ExecutionID: ExecutionID(ctx)}
	}
	return SafeTypeAssertion[T](b.value)
}

// MustGet is like Get but panics with the *UnboundError.
func (c *Cell[T]) MustGet(ctx context.Context) T {
	v, err := c.Get(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Cell[T]) Resolve(ctx context.Context) (any, error) {
	v, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}
