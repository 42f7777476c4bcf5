package supplier

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// Supplier wraps functions so that the current values of a fixed, ordered
// list of sources are passed as their leading arguments.
type Supplier struct {
	mu         sync.RWMutex
	sources    []Source
	extensions []Extension
}

// Supply returns a Supplier for sources. Injected arguments follow the order
// given here.
func Supply(sources ...Source) *Supplier {
	return &Supplier{
		sources:    append([]Source(nil), sources...),
		extensions: []Extension{},
	}
}

// Sources returns the sources in injection order.
func (s *Supplier) Sources() []Source {
	return append([]Source(nil), s.sources...)
}

// UseExtension registers an extension to the supplier
func (s *Supplier) UseExtension(ext Extension) error {
	s.mu.Lock()
	s.extensions = append(s.extensions, ext)
	sort.SliceStable(s.extensions, func(i, j int) bool {
		return s.extensions[i].Order() < s.extensions[j].Order()
	})
	s.mu.Unlock()

	return ext.Init(s)
}

func (s *Supplier) snapshotExtensions() []Extension {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exts := make([]Extension, len(s.extensions))
	copy(exts, s.extensions)
	return exts
}

// run threads next through every extension's Wrap, lowest Order outermost,
// and reports a failure to each extension's OnError.
func (s *Supplier) run(ctx context.Context, exts []Extension, op *Operation, next func() (any, error)) (any, error) {
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(ctx, currentNext, op)
		}
	}

	result, err := next()
	if err != nil {
		for _, ext := range exts {
			ext.OnError(ctx, err, op)
		}
	}
	return result, err
}

// resolve reads every source in order. The first failure is returned as is.
// A value that does not fit its parameter is reported as an
// *ExtensionError.
func (s *Supplier) resolve(ctx context.Context, exts []Extension, p *plan) ([]any, error) {
	values := make([]any, len(s.sources))
	for i, src := range s.sources {
		var (
			v   any
			err error
		)
		if len(exts) == 0 {
			v, err = src.Resolve(ctx)
		} else {
			op := &Operation{Kind: OpResolve, Target: p.name, Source: src.Name(), Supplier: s}
			v, err = s.run(ctx, exts, op, func() (any, error) {
				return src.Resolve(ctx)
			})
		}
		if err != nil {
			return nil, err
		}
		if err := p.checkResolved(i, src.Name(), v); err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// invoke resolves the sources, splices them into args and calls the target.
// A non-nil error means the target was never called; otherwise out holds
// every result of the target.
func (s *Supplier) invoke(ctx context.Context, p *plan, args []reflect.Value) ([]reflect.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	exts := s.snapshotExtensions()

	resolved, err := s.resolve(ctx, exts, p)
	if err != nil {
		return nil, err
	}

	in := p.splice(resolved, args)

	if len(exts) == 0 {
		return p.call(in), nil
	}

	var (
		out    []reflect.Value
		called bool
	)
	op := &Operation{Kind: OpCall, Target: p.name, Supplier: s}
	_, err = s.run(ctx, exts, op, func() (any, error) {
		called = true
		out = p.call(in)
		return p.interfaces(out), p.trailingError(out)
	})
	if !called {
		if err == nil {
			err = &ExtensionError{Target: p.name, Reason: "the call was skipped without an error"}
		}
		return nil, err
	}
	return out, nil
}

// Adapt wraps fn so that calling the result with (ctx, args...) calls fn
// with the supplier's resolved values spliced into args. F must be a
// function type whose first parameter is a context.Context; its remaining
// parameters and its results must line up with fn once the injected
// parameters are removed.
//
//	greet := func(u *User, greeting string) string { ... }
//	wrapped, err := supplier.Adapt[func(context.Context, string) string](supplier.Supply(userCell), greet)
//
// When a source is unbound at call time, fn is not called. If F's last
// result is an error the *UnboundError is returned through it; otherwise the
// wrapped function panics with it.
func Adapt[F any](s *Supplier, fn any, opts ...AdaptOption) (F, error) {
	var zero F

	wrappedType := reflect.TypeOf((*F)(nil)).Elem()
	p, err := newPlan(s, fn, opts)
	if err != nil {
		return zero, err
	}
	if err := p.checkWrapped(wrappedType); err != nil {
		return zero, err
	}

	wrapped := reflect.MakeFunc(wrappedType, func(in []reflect.Value) []reflect.Value {
		ctx, _ := in[0].Interface().(context.Context)
		out, err := s.invoke(ctx, p, in[1:])
		if err != nil {
			return p.fail(wrappedType, err)
		}
		return p.assign(wrappedType, out)
	})

	return wrapped.Interface().(F), nil
}

// MustAdapt is like Adapt but panics if fn cannot be adapted to F.
func MustAdapt[F any](s *Supplier, fn any, opts ...AdaptOption) F {
	wrapped, err := Adapt[F](s, fn, opts...)
	if err != nil {
		panic(err)
	}
	return wrapped
}

// Func is a wrapped target called with untyped arguments.
type Func struct {
	supplier *Supplier
	plan     *plan
}

// Wrap prepares fn for dynamic calls through Func.Call.
func (s *Supplier) Wrap(fn any, opts ...AdaptOption) (*Func, error) {
	p, err := newPlan(s, fn, opts)
	if err != nil {
		return nil, err
	}
	return &Func{supplier: s, plan: p}, nil
}

// Name returns the wrapped target's name.
func (f *Func) Name() string {
	return f.plan.name
}

// Call resolves the supplier's sources and calls the target with them
// spliced into args. If the target's last result is an error it is returned
// as err, unchanged, and left out of the results.
func (f *Func) Call(ctx context.Context, args ...any) ([]any, error) {
	in, err := f.plan.convertArgs(args)
	if err != nil {
		return nil, err
	}

	out, err := f.supplier.invoke(ctx, f.plan, in)
	if err != nil {
		return nil, err
	}

	if f.plan.returnsError {
		err = f.plan.trailingError(out)
		out = out[:len(out)-1]
	}
	return f.plan.interfaces(out), err
}
