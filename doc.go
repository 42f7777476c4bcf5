// Package supplier passes values deeply through a call tree without threading
// them through every function signature.
//
// # Overview
//
// Supplier is built from two pieces:
//
//  1. Cells: named slots holding at most one current value per execution
//  2. Suppliers: wrappers that read a fixed list of cells at call time and
//     pass their values as the leading arguments of a function
//
// # Cells
//
// A cell is created once, usually at package level, and bound for the extent
// of a block of code:
//
//	var currentUser = supplier.NewCell[*User]("user")
//
//	ctx, b := currentUser.Bind(ctx, user)
//	defer b.Release()
//
//	u, err := currentUser.Get(ctx)  // user
//
// Bindings nest. The innermost active binding wins, and releasing it
// restores the one before:
//
//	ctx1, outer := tenant.Bind(ctx, "acme")
//	ctx2, inner := tenant.Bind(ctx1, "globex")
//	tenant.Get(ctx2)  // "globex"
//	inner.Release()
//	tenant.Get(ctx2)  // "acme"
//	outer.Release()
//	tenant.Get(ctx2)  // *UnboundError
//
// Use runs a function inside a binding and releases it on every exit path:
//
//	err := currentUser.Use(ctx, user, func(ctx context.Context) error {
//	    return handle(ctx)
//	})
//
// Reading a cell with no binding returns an *UnboundError. There is no
// default value.
//
// # Binding Discipline
//
// Bindings are released exactly once, last in first out. A second Release,
// or releasing an outer binding while an inner binding of the same cell is
// still active, panics with a *DisciplineError. The bindcheck analyzer in
// analysis/bindcheck reports bindings that are discarded or never released.
//
// # Executions
//
// Go has no goroutine-local storage, so the execution a binding belongs to
// travels in the context.Context. Fork starts a child execution that sees
// the parent's current values; later bindings on either side stay private:
//
//	supplier.Go(ctx, func(ctx context.Context) {
//	    ctx, b := tenant.Bind(ctx, "child-only")
//	    defer b.Release()
//	    ...
//	})
//
//	g, ctx := supplier.WithGroup(ctx)
//	g.Go(func(ctx context.Context) error { ... })
//	err := g.Wait()
//
// ExecutionID and Snapshot describe the execution carried by a context.
//
// # Injection
//
// A Supplier splices cell values into a function's arguments. Adapt builds a
// typed wrapper whose first parameter is the context to resolve from:
//
//	greet := func(u *User, t string, greeting string) string {
//	    return greeting + ", " + u.Name + " of " + t
//	}
//
//	wrapped := supplier.MustAdapt[func(context.Context, string) string](
//	    supplier.Supply(currentUser, tenant),
//	    greet,
//	)
//
//	wrapped(ctx, "hello")  // greet(user, "acme", "hello")
//
// Method expressions keep their receiver first when WithReceiver is given:
//
//	handle := supplier.MustAdapt[func(context.Context, *Server, string) error](
//	    supplier.Supply(currentUser),
//	    (*Server).Handle,  // func(*Server, *User, string) error
//	    supplier.WithReceiver(),
//	)
//
//	err := handle(ctx, srv, "/index")
//
// Variadic targets pass trailing arguments through unchanged. If any cell is
// unbound the target is not called: the *UnboundError comes back through the
// wrapper's trailing error result, or as a panic when it has none.
//
// Wrap gives an untyped variant called with Func.Call, and the generated
// Supply1..Supply5 and SupplyArg1..SupplyArg5 helpers cover the common
// shapes without reflection:
//
//	load := supplier.SupplyArg1(db, func(db *sql.DB, id string) (*User, error) {
//	    return findUser(db, id)
//	})
//	u, err := load(ctx, "user-123")
//
// # Extensions
//
// Extensions observe every resolve and call a Supplier makes:
//
//	s := supplier.Supply(currentUser)
//	s.UseExtension(extensions.NewLoggingExtension(slog.Default()))
//
// # Thread Safety
//
// Cells, Suppliers and wrapped functions are safe for concurrent use. An
// execution is meant to be driven by one goroutine at a time; start new
// goroutines with Go, Group or Fork.
package supplier
