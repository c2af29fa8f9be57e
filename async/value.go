package async

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Nexuscompute/host-runtime/errors"
)

// State identifies where a value is in its lifecycle.
type State uint32

const (
	// StateUnconstructed is a freshly allocated value with no producer yet.
	StateUnconstructed State = iota
	// StatePending has a producer working on the result.
	StatePending
	// StateConcrete holds the result. Terminal.
	StateConcrete
	// StateError holds an error instead of a result. Terminal.
	StateError
)

// String returns the state name used in diagnostics.
func (s State) String() string {
	switch s {
	case StateUnconstructed:
		return "unconstructed"
	case StatePending:
		return "pending"
	case StateConcrete:
		return "concrete"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateConcrete || s == StateError
}

// Awaitable is anything that exposes an underlying Value. It lets the
// dispatch package accept raw values and typed references uniformly.
type Awaitable interface {
	Underlying() *Value
}

// Value is the untyped resolvable cell. One producer resolves it exactly
// once; any number of consumers register continuations and share ownership
// through reference counting. Construct through the Make functions in this
// package; the zero Value is not usable.
type Value struct {
	state atomic.Uint32
	refs  atomic.Int64

	// mu guards waiters and the payload/err write. Continuations never run
	// under it.
	mu      sync.Mutex
	waiters []func()

	payload any
	err     error
}

func newValue(s State) *Value {
	v := &Value{}
	v.state.Store(uint32(s))
	v.refs.Store(1)
	return v
}

// Underlying implements Awaitable.
func (v *Value) Underlying() *Value { return v }

// State returns the current state.
func (v *Value) State() State {
	return State(v.state.Load())
}

// IsAvailable reports whether the value is terminal (concrete or error).
func (v *Value) IsAvailable() bool {
	return v.State().Terminal()
}

// IsError reports whether the value resolved to an error.
func (v *Value) IsError() bool {
	return v.State() == StateError
}

// Err returns the stored error, or nil if the value resolved to a concrete
// result. It panics if the value is not terminal yet; await or chain off the
// value first.
func (v *Value) Err() error {
	switch v.State() {
	case StateError:
		return v.err
	case StateConcrete:
		return nil
	default:
		panic("async: Err called before value resolved")
	}
}

// SetPending marks that a producer now owns the value. It is a no-op when
// already pending and panics when the value is terminal.
func (v *Value) SetPending() {
	for {
		s := State(v.state.Load())
		switch s {
		case StatePending:
			return
		case StateConcrete, StateError:
			panic(errors.AlreadyResolved(s.String()))
		}
		if v.state.CompareAndSwap(uint32(StateUnconstructed), uint32(StatePending)) {
			return
		}
	}
}

// SetError resolves the value to the terminal Error state and fires every
// registered continuation exactly once. It panics if the value is already
// terminal or if err is nil.
func (v *Value) SetError(err error) {
	if err == nil {
		panic("async: SetError with nil error")
	}
	v.resolve(StateError, nil, err)
}

// emplace resolves the value to the terminal Concrete state. Typed access
// goes through Ref[T].Emplace.
func (v *Value) emplace(payload any) {
	v.resolve(StateConcrete, payload, nil)
}

func (v *Value) resolve(target State, payload any, err error) {
	v.mu.Lock()
	if s := State(v.state.Load()); s.Terminal() {
		v.mu.Unlock()
		panic(errors.AlreadyResolved(s.String()))
	}
	v.payload = payload
	v.err = err
	v.state.Store(uint32(target))
	ws := v.waiters
	v.waiters = nil
	v.mu.Unlock()

	// Outside the lock: a continuation may register further continuations
	// on this value or resolve other values.
	for _, fn := range ws {
		fn()
	}
}

// AndThen registers fn to run once the value is terminal, with value and
// error resolutions treated alike. If the value is already terminal, fn runs
// immediately on the calling goroutine. fn fires exactly once even when
// registration races with resolution.
func (v *Value) AndThen(fn func()) {
	if v.State().Terminal() {
		fn()
		return
	}
	v.mu.Lock()
	if State(v.state.Load()).Terminal() {
		v.mu.Unlock()
		fn()
		return
	}
	v.waiters = append(v.waiters, fn)
	v.mu.Unlock()
}

// CopyRef adds a shared owner and returns the value for chaining.
func (v *Value) CopyRef() *Value {
	if v.refs.Add(1) <= 1 {
		panic("async: CopyRef on destroyed value")
	}
	return v
}

// DropRef releases one owner. The last drop destroys the cell; dropping a
// destroyed cell panics.
func (v *Value) DropRef() {
	n := v.refs.Add(-1)
	switch {
	case n == 0:
		v.destroy()
	case n < 0:
		panic("async: DropRef on destroyed value")
	}
}

func (v *Value) destroy() {
	v.mu.Lock()
	unfired := len(v.waiters)
	v.payload = nil
	v.err = nil
	v.mu.Unlock()
	if unfired > 0 {
		panic(fmt.Sprintf("async: value destroyed with %d unfired continuations", unfired))
	}
}

// refCount exposes the current owner count to package tests.
func (v *Value) refCount() int64 {
	return v.refs.Load()
}
