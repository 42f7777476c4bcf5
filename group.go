package supplier

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Go runs fn in a new goroutine on a forked execution, so fn starts with the
// values visible through ctx and its own bindings stay private.
func Go(ctx context.Context, fn func(ctx context.Context)) {
	child := Fork(ctx)
	go fn(child)
}

// Group is an errgroup.Group whose goroutines each run in their own forked
// execution.
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
}

// WithGroup returns a Group and the context it derives. The first goroutine
// to fail cancels that context. Goroutines started with Group.Go inherit the
// values visible through the returned context.
func WithGroup(ctx context.Context) (*Group, context.Context) {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx}, gctx
}

// Go starts fn on a fork of the group's context.
func (g *Group) Go(fn func(ctx context.Context) error) {
	child := Fork(g.ctx)
	g.eg.Go(func() error {
		return fn(child)
	})
}

// TryGo is like Go but does nothing and returns false when the group's
// limit is reached.
func (g *Group) TryGo(fn func(ctx context.Context) error) bool {
	child := Fork(g.ctx)
	return g.eg.TryGo(func() error {
		return fn(child)
	})
}

// SetLimit limits the number of goroutines active at once. A negative value
// removes the limit.
func (g *Group) SetLimit(n int) {
	g.eg.SetLimit(n)
}

// Wait blocks until every goroutine returns and reports the first error.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
