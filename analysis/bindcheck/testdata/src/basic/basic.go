// Package basic contains test fixtures for the bindcheck analyzer.
package basic

import (
	"context"

	"github.com/evinism/supplier"
)

var tenant = supplier.NewCell[string]("tenant")

// ===== SHOULD REPORT =====

func badExprStmt(ctx context.Context) {
	tenant.Bind(ctx, "acme") // want `binding returned by Cell.Bind is discarded and can never be released`
}

func badBlank(ctx context.Context) {
	ctx, _ = tenant.Bind(ctx, "acme") // want `binding returned by Cell.Bind is discarded and can never be released`
	_ = ctx
}

func badNeverReleased(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme") // want `binding "b" is never released`
	_ = b.Active()
	_ = ctx
}

func badVarDecl(ctx context.Context) {
	var inner, b = tenant.Bind(ctx, "acme") // want `binding "b" is never released`
	_ = inner
	_ = b.Active()
}

func badInClosure(ctx context.Context) {
	go func() {
		_, b := tenant.Bind(ctx, "acme") // want `binding "b" is never released`
		_ = b.Active()
	}()
}

// ===== SHOULD NOT REPORT =====

func goodDeferred(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme")
	defer b.Release()
	_ = ctx
}

func goodDeferredClosure(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme")
	defer func() {
		b.Release()
	}()
	_ = ctx
}

func goodExplicit(ctx context.Context) {
	ctx, b := tenant.Bind(ctx, "acme")
	_, _ = tenant.Get(ctx)
	b.Release()
}

func goodReassigned(ctx context.Context) {
	var b *supplier.Binding
	ctx, b = tenant.Bind(ctx, "acme")
	defer b.Release()
	_ = ctx
}

func goodReturned(ctx context.Context) (context.Context, *supplier.Binding) {
	return tenant.Bind(ctx, "acme")
}

func goodHandedOff(ctx context.Context, keep func(*supplier.Binding)) {
	_, b := tenant.Bind(ctx, "acme")
	keep(b)
}

func goodIgnored(ctx context.Context) {
	//bindcheck:ignore
	tenant.Bind(ctx, "acme")
}

func goodIgnoredInline(ctx context.Context) {
	tenant.Bind(ctx, "acme") //bindcheck:ignore - released by the caller's hook
}

type other struct{}

func (other) Bind(ctx context.Context, v string) (context.Context, int) { return ctx, 0 }

func goodOtherBind(ctx context.Context) {
	other{}.Bind(ctx, "acme")
}
