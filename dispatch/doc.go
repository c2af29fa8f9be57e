// Package dispatch binds work queues to async value production and
// consumption: it is the submission, continuation and join surface of the
// host runtime.
//
// Every entry point takes a hostruntime.Destination first, which is either a
// work queue itself (work submitted outside any computation) or an
// ExecutionContext (work submitted during an in-flight computation).
//
// # Submitting Work
//
//	// Fire and forget.
//	dispatch.EnqueueWork(pool, func() { warmCache() })
//
//	// Work that produces a value. The reference returns immediately;
//	// the caller may chain or await before the work even starts.
//	r := dispatch.EnqueueValue(pool, func() (int, error) {
//	    return expensive(), nil
//	})
//
// Work that may block on I/O goes through the blocking variants so the pool
// can keep it away from compute workers. EnqueueBlockingValue resolves the
// returned reference to an error state when the pool rejects the submission,
// so downstream continuations still fire instead of hanging forever:
//
//	r := dispatch.EnqueueBlockingValue(pool, readIndex)
//	dispatch.AndThen(r, func() { ... })
//
// RunBlockingWork and RunBlockingValue trade isolation for progress: when
// the pool cannot take the task they run it on the calling goroutine rather
// than failing.
//
// # Joining
//
// Await blocks the calling goroutine on a latch until every value is
// terminal. It must not be called from a goroutine the pool uses to run
// enqueued work; that goroutine may be needed to resolve the awaited values
// and the pool can deadlock. From pool-managed goroutines use AwaitOn, which
// delegates to the pool's own deadlock-avoiding wait. RunWhenReady is the
// non-blocking join: the callback runs exactly once, on whichever goroutine
// resolves the last outstanding value.
//
// Blocking alone does not distinguish success from failure. After a join,
// branch on each value's state:
//
//	dispatch.Await(a, b)
//	if err := a.Err(); err != nil {
//	    ...
//	}
//
// # Failure Conversion
//
// A value-producing closure that returns an error or panics resolves its
// reference to the Error state; the fault never escapes into the pool's
// execution loop. Raw closures submitted with EnqueueWork get no such
// conversion, matching the pool contract that an escaped fault there is
// fatal.
package dispatch
