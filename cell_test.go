package supplier

import (
	"context"
	"errors"
	"testing"
)

// expectDiscipline runs fn and returns the *DisciplineError it panics with
func expectDiscipline(t *testing.T, fn func()) (derr *DisciplineError) {
	t.Helper()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a discipline panic")
		}
		err, ok := r.(*DisciplineError)
		if !ok {
			t.Fatalf("expected *DisciplineError, got %T: %v", r, r)
		}
		derr = err
	}()

	fn()
	return nil
}

func TestCell_BindAndGet(t *testing.T) {
	blah := NewCell[string]("blah")

	ctx, b := blah.Bind(context.Background(), "hello")
	defer b.Release()

	val, err := blah.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected 'hello', got %q", val)
	}
}

func TestCell_ResetsAfterRelease(t *testing.T) {
	blah := NewCell[string]("blah")

	ctx, b := blah.Bind(context.Background(), "hello")
	b.Release()

	_, err := blah.Get(ctx)
	if err == nil {
		t.Fatal("expected unbound error after release")
	}

	var unbound *UnboundError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected *UnboundError, got %T", err)
	}
	if unbound.Cell != "blah" {
		t.Errorf("expected cell name 'blah', got %q", unbound.Cell)
	}
	if !errors.Is(err, ErrUnbound) {
		t.Error("expected errors.Is(err, ErrUnbound)")
	}
}

func TestCell_UnboundOnFreshContext(t *testing.T) {
	foo := NewCell[int]("foo")

	_, err := foo.Get(context.Background())
	if !errors.Is(err, ErrUnbound) {
		t.Fatalf("expected ErrUnbound, got %v", err)
	}
}

func TestCell_CanBeUsedMultipleTimes(t *testing.T) {
	foo := NewCell[string]("foo")
	ctx := context.Background()

	err := foo.Use(ctx, "hello", func(ctx context.Context) error {
		if got := foo.MustGet(ctx); got != "hello" {
			t.Errorf("expected 'hello', got %q", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = foo.Use(ctx, "hi", func(ctx context.Context) error {
		if got := foo.MustGet(ctx); got != "hi" {
			t.Errorf("expected 'hi', got %q", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestCell_Nesting checks that inner bindings shadow outer ones and that
// releases restore the previous value in order
func TestCell_Nesting(t *testing.T) {
	foo := NewCell[string]("foo")

	ctx1, outer := foo.Bind(context.Background(), "v1")
	ctx2, inner := foo.Bind(ctx1, "v2")

	if got := foo.MustGet(ctx2); got != "v2" {
		t.Errorf("expected 'v2', got %q", got)
	}

	inner.Release()
	if got := foo.MustGet(ctx2); got != "v1" {
		t.Errorf("expected 'v1' after inner release, got %q", got)
	}
	if got := foo.MustGet(ctx1); got != "v1" {
		t.Errorf("expected 'v1' through outer context, got %q", got)
	}

	outer.Release()
	if _, err := foo.Get(ctx2); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected unbound after outer release, got %v", err)
	}
}

func TestCell_DeepNesting(t *testing.T) {
	depth := NewCell[int]("depth")

	ctx := context.Background()
	bindings := make([]*Binding, 0, 50)
	for i := 0; i < 50; i++ {
		var b *Binding
		ctx, b = depth.Bind(ctx, i)
		bindings = append(bindings, b)
	}

	for i := 49; i >= 0; i-- {
		if got := depth.MustGet(ctx); got != i {
			t.Fatalf("expected %d, got %d", i, got)
		}
		bindings[i].Release()
	}

	if _, err := depth.Get(ctx); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected unbound at the bottom, got %v", err)
	}
}

func TestCell_Independence(t *testing.T) {
	a := NewCell[string]("a")
	b := NewCell[string]("b")

	ctx, ba := a.Bind(context.Background(), "only-a")
	defer ba.Release()

	if _, err := b.Get(ctx); !errors.Is(err, ErrUnbound) {
		t.Errorf("binding a must not bind b, got %v", err)
	}

	ctx, bb := b.Bind(ctx, "only-b")
	defer bb.Release()

	if got := a.MustGet(ctx); got != "only-a" {
		t.Errorf("expected 'only-a', got %q", got)
	}
	if got := b.MustGet(ctx); got != "only-b" {
		t.Errorf("expected 'only-b', got %q", got)
	}
}

// TestCell_SameNameIsDistinct checks that names are labels, not keys
func TestCell_SameNameIsDistinct(t *testing.T) {
	first := NewCell[string]("dup")
	second := NewCell[string]("dup")

	ctx, b := first.Bind(context.Background(), "x")
	defer b.Release()

	if _, err := second.Get(ctx); !errors.Is(err, ErrUnbound) {
		t.Errorf("cells sharing a name must not share bindings, got %v", err)
	}
}

func TestCell_UseReleasesOnError(t *testing.T) {
	foo := NewCell[string]("foo")
	boom := errors.New("boom")

	var inner context.Context
	err := foo.Use(context.Background(), "hello", func(ctx context.Context) error {
		inner = ctx
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the scope's error unchanged, got %v", err)
	}

	if _, err := foo.Get(inner); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected binding released after error, got %v", err)
	}
}

// TestCell_UseReleasesNestedOnPanic checks that a panic unwinding through
// several scopes releases every binding in reverse order
func TestCell_UseReleasesNestedOnPanic(t *testing.T) {
	foo := NewCell[string]("foo")
	bar := NewCell[string]("bar")

	var inner context.Context
	func() {
		defer func() {
			if r := recover(); r != "unwind" {
				t.Fatalf("expected the original panic, got %v", r)
			}
		}()

		_ = foo.Use(context.Background(), "f1", func(ctx context.Context) error {
			return bar.Use(ctx, "b1", func(ctx context.Context) error {
				return foo.Use(ctx, "f2", func(ctx context.Context) error {
					inner = ctx
					panic("unwind")
				})
			})
		})
	}()

	if _, err := foo.Get(inner); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected foo released, got %v", err)
	}
	if _, err := bar.Get(inner); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected bar released, got %v", err)
	}
	if snap := Snapshot(inner); len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %v", snap)
	}
}

func TestCell_UseReleasesOnCancellation(t *testing.T) {
	foo := NewCell[int]("foo")

	ctx, cancel := context.WithCancel(context.Background())
	var inner context.Context
	err := foo.Use(ctx, 1, func(ctx context.Context) error {
		return foo.Use(ctx, 2, func(ctx context.Context) error {
			inner = ctx
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := foo.Get(inner); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected all bindings released, got %v", err)
	}
}

func TestBinding_DoubleRelease(t *testing.T) {
	foo := NewCell[string]("foo")

	_, b := foo.Bind(context.Background(), "hello")
	b.Release()

	derr := expectDiscipline(t, b.Release)
	if derr.Violation != ViolationDoubleRelease {
		t.Errorf("expected double release, got %s", derr.Violation)
	}
	if !errors.Is(derr, ErrDiscipline) {
		t.Error("expected errors.Is(err, ErrDiscipline)")
	}
	if len(derr.StackTrace) == 0 {
		t.Error("expected a stack trace")
	}
}

func TestBinding_OutOfOrderRelease(t *testing.T) {
	foo := NewCell[string]("foo")

	ctx1, outer := foo.Bind(context.Background(), "v1")
	ctx2, inner := foo.Bind(ctx1, "v2")

	derr := expectDiscipline(t, outer.Release)
	if derr.Violation != ViolationOutOfOrder {
		t.Errorf("expected out of order, got %s", derr.Violation)
	}
	if derr.Blocking != "v2" {
		t.Errorf("expected blocking value 'v2', got %v", derr.Blocking)
	}
	if derr.ExecutionID != ExecutionID(ctx2) {
		t.Errorf("expected execution %s, got %s", ExecutionID(ctx2), derr.ExecutionID)
	}

	// state is untouched by the rejected release
	if got := foo.MustGet(ctx2); got != "v2" {
		t.Errorf("expected 'v2', got %q", got)
	}
	inner.Release()
	outer.Release()

	if outer.Active() || inner.Active() {
		t.Error("expected both bindings inactive")
	}
}

// TestBinding_SiblingsOutOfOrder checks that two bindings derived from the
// same context still stack in creation order
func TestBinding_SiblingsOutOfOrder(t *testing.T) {
	foo := NewCell[string]("foo")

	base, root := foo.Bind(context.Background(), "root")
	_, first := foo.Bind(base, "first")
	_, second := foo.Bind(base, "second")

	expectDiscipline(t, first.Release)

	second.Release()
	first.Release()
	root.Release()
}

func TestBinding_OtherCellsDoNotBlock(t *testing.T) {
	foo := NewCell[string]("foo")
	bar := NewCell[string]("bar")

	ctx, fb := foo.Bind(context.Background(), "f")
	_, bb := bar.Bind(ctx, "b")

	// discipline is per cell
	fb.Release()
	bb.Release()
}

func TestBinding_Accessors(t *testing.T) {
	foo := NewCell[int]("foo")

	ctx, b := foo.Bind(context.Background(), 7)
	defer b.Release()

	if b.Cell() != "foo" {
		t.Errorf("expected cell 'foo', got %q", b.Cell())
	}
	if b.Value() != 7 {
		t.Errorf("expected value 7, got %v", b.Value())
	}
	if !b.Active() {
		t.Error("expected active binding")
	}
	if b.ExecutionID() == "" || b.ExecutionID() != ExecutionID(ctx) {
		t.Errorf("expected binding execution %q to match context %q", b.ExecutionID(), ExecutionID(ctx))
	}
}

func TestCell_MustGetPanicsWhenUnbound(t *testing.T) {
	foo := NewCell[string]("foo")

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnbound) {
			t.Fatalf("expected ErrUnbound panic, got %v", r)
		}
	}()

	foo.MustGet(context.Background())
}

func TestCell_InterfaceValues(t *testing.T) {
	errCell := NewCell[error]("err")

	ctx, b := errCell.Bind(context.Background(), nil)
	defer b.Release()

	got, err := errCell.Get(ctx)
	if err != nil {
		t.Fatalf("a nil value is still a binding: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestCell_NilContext(t *testing.T) {
	foo := NewCell[string]("foo")

	if _, err := foo.Get(nil); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected unbound on a nil context, got %v", err)
	}

	ctx, b := foo.Bind(nil, "x")
	defer b.Release()
	if got := foo.MustGet(ctx); got != "x" {
		t.Errorf("expected 'x', got %q", got)
	}

	child := Fork(nil)
	if ExecutionID(child) == "" {
		t.Error("expected fork of a nil context to start an execution")
	}
	if snap := Snapshot(nil); snap != nil {
		t.Errorf("expected nil snapshot, got %v", snap)
	}
}
