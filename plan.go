package supplier

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// AdaptOption is a modifier for Adapt and Wrap
type AdaptOption func(*adaptConfig)

type adaptConfig struct {
	receiver bool
	name     string
}

// WithReceiver marks fn's first parameter as a method receiver, as for a
// method expression such as (*Server).Handle. The caller passes the receiver
// first and the injected values are placed right after it.
//
// Go keeps no parameter names at run time, so receivers are never guessed.
func WithReceiver() AdaptOption {
	return func(c *adaptConfig) {
		c.receiver = true
	}
}

// WithName overrides the target name used in errors and extension hooks.
func WithName(name string) AdaptOption {
	return func(c *adaptConfig) {
		c.name = name
	}
}

// plan is computed once per wrapped target.
type plan struct {
	name         string
	fn           reflect.Value
	fnType       reflect.Type
	receiver     bool
	injected     int
	returnsError bool
}

func newPlan(s *Supplier, fn any, opts []AdaptOption) (*plan, error) {
	cfg := &adaptConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, &SignatureError{Target: fmt.Sprintf("%T", fn), Reason: "target is not a non-nil function"}
	}

	p := &plan{
		name:     cfg.name,
		fn:       v,
		fnType:   v.Type(),
		receiver: cfg.receiver,
		injected: len(s.sources),
	}
	if p.name == "" {
		p.name = funcName(v)
	}
	p.returnsError = p.fnType.NumOut() > 0 && p.fnType.Out(p.fnType.NumOut()-1) == errorType

	offset := p.offset()
	if p.fnType.NumIn() < offset+p.injected {
		return nil, &SignatureError{
			Target: p.name,
			Reason: fmt.Sprintf("takes %d parameters, need at least %d for injection", p.fnType.NumIn(), offset+p.injected),
		}
	}

	for i, src := range s.sources {
		param := p.fnType.In(offset + i)
		if p.fnType.IsVariadic() && offset+i == p.fnType.NumIn()-1 {
			return nil, &SignatureError{
				Target: p.name,
				Reason: fmt.Sprintf("source %q would be injected into the variadic parameter", src.Name()),
			}
		}
		if !src.Type().AssignableTo(param) {
			return nil, &SignatureError{
				Target: p.name,
				Reason: fmt.Sprintf("source %q of type %s is not assignable to parameter %d of type %s", src.Name(), src.Type(), offset+i, param),
			}
		}
	}

	return p, nil
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}

// explicit lists the parameter types the caller supplies, in call order.
func (p *plan) explicit() []reflect.Type {
	var types []reflect.Type
	for i := 0; i < p.fnType.NumIn(); i++ {
		if p.isInjected(i) {
			continue
		}
		types = append(types, p.fnType.In(i))
	}
	return types
}

// offset is the index of the first injected parameter.
func (p *plan) offset() int {
	if p.receiver {
		return 1
	}
	return 0
}

func (p *plan) isInjected(i int) bool {
	offset := p.offset()
	return i >= offset && i < offset+p.injected
}

// checkResolved verifies that v, resolved for the i-th source, can be
// passed as its parameter. Extensions may replace what a source resolves to.
func (p *plan) checkResolved(i int, source string, v any) error {
	param := p.fnType.In(p.offset() + i)
	if v == nil {
		if nillable(param) {
			return nil
		}
		return &ExtensionError{
			Target: p.name,
			Source: source,
			Reason: fmt.Sprintf("resolved nil for parameter of type %s", param),
		}
	}
	if t := reflect.TypeOf(v); !t.AssignableTo(param) {
		return &ExtensionError{
			Target: p.name,
			Source: source,
			Reason: fmt.Sprintf("resolved %s, not assignable to %s", t, param),
		}
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

// checkWrapped verifies that wrapped is func(context.Context, explicit...)
// with results fn's results are assignable to.
func (p *plan) checkWrapped(wrapped reflect.Type) error {
	if wrapped.Kind() != reflect.Func {
		return &SignatureError{Target: p.name, Reason: fmt.Sprintf("wrapped type %s is not a function", wrapped)}
	}
	if wrapped.NumIn() == 0 || wrapped.In(0) != contextType {
		return &SignatureError{Target: p.name, Reason: fmt.Sprintf("wrapped type %s must take a context.Context first", wrapped)}
	}
	if wrapped.IsVariadic() != p.fnType.IsVariadic() {
		return &SignatureError{Target: p.name, Reason: "wrapped and target functions must both be variadic or neither"}
	}

	explicit := p.explicit()
	if wrapped.NumIn()-1 != len(explicit) {
		return &SignatureError{
			Target: p.name,
			Reason: fmt.Sprintf("wrapped type %s takes %d explicit parameters, target needs %d", wrapped, wrapped.NumIn()-1, len(explicit)),
		}
	}
	for i, want := range explicit {
		if have := wrapped.In(i + 1); !have.AssignableTo(want) {
			return &SignatureError{
				Target: p.name,
				Reason: fmt.Sprintf("explicit parameter %d: %s is not assignable to %s", i, have, want),
			}
		}
	}

	if wrapped.NumOut() != p.fnType.NumOut() {
		return &SignatureError{
			Target: p.name,
			Reason: fmt.Sprintf("wrapped type %s returns %d values, target returns %d", wrapped, wrapped.NumOut(), p.fnType.NumOut()),
		}
	}
	for i := 0; i < wrapped.NumOut(); i++ {
		if have := p.fnType.Out(i); !have.AssignableTo(wrapped.Out(i)) {
			return &SignatureError{
				Target: p.name,
				Reason: fmt.Sprintf("result %d: %s is not assignable to %s", i, have, wrapped.Out(i)),
			}
		}
	}

	return nil
}

// splice builds the target's argument list: resolved ++ args, or
// args[0] ++ resolved ++ args[1:] for a receiver.
func (p *plan) splice(resolved []any, args []reflect.Value) []reflect.Value {
	in := make([]reflect.Value, 0, len(resolved)+len(args))

	rest := args
	offset := p.offset()
	if p.receiver {
		in = append(in, args[0])
		rest = args[1:]
	}
	for i, v := range resolved {
		param := p.fnType.In(offset + i)
		if v == nil {
			in = append(in, reflect.Zero(param))
			continue
		}
		in = append(in, reflect.ValueOf(v))
	}
	return append(in, rest...)
}

// call invokes the target. For variadic targets the last argument is the
// packed slice.
func (p *plan) call(in []reflect.Value) []reflect.Value {
	if p.fnType.IsVariadic() {
		return p.fn.CallSlice(in)
	}
	return p.fn.Call(in)
}

// convertArgs checks untyped arguments against the explicit parameters and
// packs trailing variadic arguments into a slice.
func (p *plan) convertArgs(args []any) ([]reflect.Value, error) {
	explicit := p.explicit()
	fixed := len(explicit)
	if p.fnType.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, &ArgumentError{Target: p.name, Index: -1, Reason: fmt.Sprintf("got %d arguments, want at least %d", len(args), fixed)}
		}
	} else if len(args) != fixed {
		return nil, &ArgumentError{Target: p.name, Index: -1, Reason: fmt.Sprintf("got %d arguments, want %d", len(args), fixed)}
	}

	in := make([]reflect.Value, 0, len(explicit))
	for i := 0; i < fixed; i++ {
		v, err := p.convertArg(i, args[i], explicit[i])
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}

	if p.fnType.IsVariadic() {
		sliceType := explicit[len(explicit)-1]
		extra := reflect.MakeSlice(sliceType, 0, len(args)-fixed)
		for i := fixed; i < len(args); i++ {
			v, err := p.convertArg(i, args[i], sliceType.Elem())
			if err != nil {
				return nil, err
			}
			extra = reflect.Append(extra, v)
		}
		in = append(in, extra)
	}

	return in, nil
}

func (p *plan) convertArg(i int, arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if nillable(want) {
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, &ArgumentError{Target: p.name, Index: i, Reason: fmt.Sprintf("nil is not assignable to %s", want)}
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, &ArgumentError{Target: p.name, Index: i, Reason: fmt.Sprintf("%s is not assignable to %s", v.Type(), want)}
	}
	return v, nil
}

// fail builds the wrapped function's results for a call that never reached
// the target.
func (p *plan) fail(wrapped reflect.Type, err error) []reflect.Value {
	n := wrapped.NumOut()
	if n == 0 || wrapped.Out(n-1) != errorType {
		panic(err)
	}

	out := make([]reflect.Value, n)
	for i := 0; i < n-1; i++ {
		out[i] = reflect.Zero(wrapped.Out(i))
	}
	errValue := reflect.New(errorType).Elem()
	errValue.Set(reflect.ValueOf(err))
	out[n-1] = errValue
	return out
}

// assign converts the target's results to the wrapped function's result
// types.
func (p *plan) assign(wrapped reflect.Type, out []reflect.Value) []reflect.Value {
	for i, v := range out {
		want := wrapped.Out(i)
		if v.Type() == want {
			continue
		}
		converted := reflect.New(want).Elem()
		converted.Set(v)
		out[i] = converted
	}
	return out
}

func (p *plan) interfaces(out []reflect.Value) []any {
	values := make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values
}

func (p *plan) trailingError(out []reflect.Value) error {
	if !p.returnsError || len(out) == 0 {
		return nil
	}
	err, _ := out[len(out)-1].Interface().(error)
	return err
}
