package supplier

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type executionKey struct{}

// execution is one logical unit of concurrent work. It owns the stack of
// active bindings made in it and the values it inherited when it was forked.
type execution struct {
	id     string
	parent *execution

	mu   sync.Mutex
	tops map[*cellKey]*Binding

	// inherited is written once by Fork and read without locking afterwards.
	inherited map[*cellKey]*Binding
}

func newExecution(parent *execution) *execution {
	return &execution{
		id:        uuid.NewString(),
		parent:    parent,
		tops:      make(map[*cellKey]*Binding),
		inherited: make(map[*cellKey]*Binding),
	}
}

func executionFrom(ctx context.Context) *execution {
	if ctx == nil {
		return nil
	}
	exec, _ := ctx.Value(executionKey{}).(*execution)
	return exec
}

// push makes b the innermost binding of its cell in e.
func (e *execution) push(b *Binding) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b.below = e.tops[b.key]
	e.tops[b.key] = b
}

// pop releases b, which must be the innermost active binding of its cell.
func (e *execution) pop(b *Binding) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b.released.Load() {
		panic(newDisciplineError(b, ViolationDoubleRelease, nil))
	}

	top := e.tops[b.key]
	if top != b {
		var blocking any
		if top != nil {
			blocking = top.value
		}
		panic(newDisciplineError(b, ViolationOutOfOrder, blocking))
	}

	if b.below == nil {
		delete(e.tops, b.key)
	} else {
		e.tops[b.key] = b.below
	}
	b.released.Store(true)
}

// keys lists every cell that may be visible in e.
func (e *execution) keys() []*cellKey {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[*cellKey]bool, len(e.tops)+len(e.inherited))
	keys := make([]*cellKey, 0, len(e.tops)+len(e.inherited))
	for k := range e.tops {
		seen[k] = true
		keys = append(keys, k)
	}
	for k := range e.inherited {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// lookup finds the binding of key visible through ctx. Bindings owned by the
// ctx's execution count only while active; once the chain reaches a binding
// made elsewhere, the execution's inherited snapshot decides.
func lookup(ctx context.Context, key *cellKey) (*Binding, bool) {
	exec := executionFrom(ctx)
	if exec == nil {
		return nil, false
	}

	b, _ := ctx.Value(key).(*Binding)
	for b != nil && b.exec == exec {
		if !b.released.Load() {
			return b, true
		}
		b = b.prev
	}

	if inherited, ok := exec.inherited[key]; ok {
		return inherited, true
	}
	return nil, false
}

// Fork starts a child execution. The child sees every value currently
// visible through ctx, and bindings made afterwards in either execution
// are invisible to the other. A nil ctx forks from context.Background().
func Fork(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	parent := executionFrom(ctx)
	child := newExecution(parent)

	if parent != nil {
		for _, key := range parent.keys() {
			if b, ok := lookup(ctx, key); ok {
				child.inherited[key] = b
			}
		}
	}

	return context.WithValue(ctx, executionKey{}, child)
}

// ExecutionID returns the ID of the execution carried by ctx, or "" when no
// binding or fork has happened on it yet.
func ExecutionID(ctx context.Context) string {
	if exec := executionFrom(ctx); exec != nil {
		return exec.id
	}
	return ""
}

// ParentExecutionID returns the ID of the execution ctx's execution was
// forked from, or "" for a root execution.
func ParentExecutionID(ctx context.Context) string {
	if exec := executionFrom(ctx); exec != nil && exec.parent != nil {
		return exec.parent.id
	}
	return ""
}

// BoundValue describes one cell visible in an execution.
type BoundValue struct {
	Cell      string
	Value     any
	Inherited bool
}

// Snapshot lists the values visible through ctx, sorted by cell name.
func Snapshot(ctx context.Context) []BoundValue {
	exec := executionFrom(ctx)
	if exec == nil {
		return nil
	}

	var out []BoundValue
	for _, key := range exec.keys() {
		b, ok := lookup(ctx, key)
		if !ok {
			continue
		}
		out = append(out, BoundValue{
			Cell:      b.name,
			Value:     b.value,
			Inherited: b.exec != exec,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cell < out[j].Cell
	})
	return out
}
