package async

// Ref is a typed, shared, reference-counted handle to exactly one Value.
// Copies made with CopyRef share ownership; the last Drop destroys the
// cell. Ref is the only sanctioned way calling code touches a value's
// lifetime.
type Ref[T any] struct {
	value *Value
}

// MakeUnconstructed allocates a value with no producer yet. The caller is
// expected to hand the reference to a producer that eventually calls
// Emplace or SetError.
func MakeUnconstructed[T any]() Ref[T] {
	return Ref[T]{value: newValue(StateUnconstructed)}
}

// MakeAvailable allocates a value already resolved to result. No
// continuations exist yet, so none fire.
func MakeAvailable[T any](result T) Ref[T] {
	v := newValue(StateConcrete)
	v.payload = result
	return Ref[T]{value: v}
}

// MakeError allocates a value already resolved to err. It panics if err is
// nil.
func MakeError[T any](err error) Ref[T] {
	if err == nil {
		panic("async: MakeError with nil error")
	}
	v := newValue(StateError)
	v.err = err
	return Ref[T]{value: v}
}

// Underlying returns the shared cell, implementing Awaitable.
func (r Ref[T]) Underlying() *Value { return r.value }

// State returns the cell's current state.
func (r Ref[T]) State() State { return r.value.State() }

// IsAvailable reports whether the cell is terminal.
func (r Ref[T]) IsAvailable() bool { return r.value.IsAvailable() }

// IsError reports whether the cell resolved to an error.
func (r Ref[T]) IsError() bool { return r.value.IsError() }

// SetPending marks that a producer now owns the cell.
func (r Ref[T]) SetPending() { r.value.SetPending() }

// Emplace resolves the cell to result and fires registered continuations
// exactly once each. Firing order across continuations is unspecified.
// Emplace panics if the cell is already terminal.
func (r Ref[T]) Emplace(result T) {
	r.value.emplace(result)
}

// SetError resolves the cell to err, firing continuations identically to
// Emplace.
func (r Ref[T]) SetError(err error) {
	r.value.SetError(err)
}

// AndThen registers fn to run once the cell is terminal. See Value.AndThen.
func (r Ref[T]) AndThen(fn func()) {
	r.value.AndThen(fn)
}

// Get returns the resolved result. It panics unless the cell is in the
// Concrete state; check State or Err first after an await.
func (r Ref[T]) Get() T {
	if s := r.value.State(); s != StateConcrete {
		panic("async: Get on " + s.String() + " value")
	}
	return r.value.payload.(T)
}

// Err returns the stored error, or nil for a concrete result. It panics if
// the cell is not terminal yet.
func (r Ref[T]) Err() error {
	return r.value.Err()
}

// CopyRef returns a new reference sharing ownership of the same cell.
func (r Ref[T]) CopyRef() Ref[T] {
	return Ref[T]{value: r.value.CopyRef()}
}

// Drop releases this reference. The last drop destroys the cell.
func (r Ref[T]) Drop() {
	r.value.DropRef()
}
