// Package async implements the resolvable value cell at the heart of the
// host runtime.
//
// A Value represents a result that will exist at most once. It moves through
// a one-directional state machine:
//
//	Unconstructed -> Pending -> Concrete
//	                         -> Error
//
// Concrete and Error are terminal; no transition ever leaves them. The
// payload (Concrete) and the error (Error) are mutually exclusive and each
// is written at most once. A second resolution attempt is a programming
// error and panics.
//
// # Continuations
//
// AndThen registers a zero-argument callback to run once the value is
// terminal. A callback registered before resolution fires exactly once at
// the moment of resolution, on the resolving goroutine; a callback
// registered after fires immediately on the registering goroutine.
// Registration is race-free against a concurrent resolution: the callback
// fires exactly once, never zero times, never twice. Callbacks run outside
// the cell's internal lock, so a continuation may itself register further
// continuations or resolve other values without deadlocking.
//
// # Typed References
//
// Ref[T] is the typed, copyable, reference-counted handle to one Value:
//
//	r := async.MakeUnconstructed[int]()
//	go func() { r.Emplace(42) }()
//	r.AndThen(func() { fmt.Println(r.Get()) })
//
// Copying a reference (CopyRef) increments the cell's refcount; Drop
// decrements it. The cell is destroyed when the last reference is dropped,
// and never while continuations are unfired.
//
// # Ownership
//
// There is a single producer per value: whoever resolves it with Emplace or
// SetError. Any number of consumers may concurrently register continuations,
// copy references and drop them.
package async
