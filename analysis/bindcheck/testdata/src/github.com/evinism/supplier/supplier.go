// Package supplier is a stub of github.com/evinism/supplier for analyzer tests.
package supplier

import "context"

type Binding struct{}

func (b *Binding) Release()     {}
func (b *Binding) Active() bool { return true }

type Cell[T any] struct{}

func NewCell[T any](name string) *Cell[T] { return &Cell[T]{} }

func (c *Cell[T]) Bind(ctx context.Context, v T) (context.Context, *Binding) {
	return ctx, &Binding{}
}

func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	var zero T
	return zero, nil
}
