// Package deferred contains test fixtures for the -require-defer flag.
package deferred

import (
	"context"

	"github.com/evinism/supplier"
)

var tenant = supplier.NewCell[string]("tenant")

func badExplicit(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme") // want `binding "b" should be released with defer`
	_, _ = tenant.Get(ctx)
	b.Release()
}

func goodDeferred(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme")
	defer b.Release()
	_ = ctx
}

func goodDeferredClosure(ctx context.Context) {
	_, b := tenant.Bind(ctx, "acme")
	defer func() { b.Release() }()
}
