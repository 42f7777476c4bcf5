package supplier

import "sync/atomic"

// Binding is the handle for one active value of a cell. It is released with
// Release, normally deferred right after Cell.Bind.
type Binding struct {
	key   *cellKey
	name  string
	value any
	exec  *execution

	// prev is the binding of the same cell the bound context was derived
	// from; below is the cell's previous innermost binding in exec.
	prev  *Binding
	below *Binding

	released atomic.Bool
}

// Release ends the binding and restores the value that was current before
// it. Releasing twice, or before a later binding of the same cell in the same
// execution, panics with a *DisciplineError.
func (b *Binding) Release() {
	b.exec.pop(b)
}

// Active reports whether the binding has not been released.
func (b *Binding) Active() bool {
	return !b.released.Load()
}

func (b *Binding) Value() any {
	return b.value
}

// Cell returns the bound cell's name.
func (b *Binding) Cell() string {
	return b.name
}

// ExecutionID is the execution the binding belongs to.
func (b *Binding) ExecutionID() string {
	return b.exec.id
}
