// Package hostruntime provides the asynchronous-value and work-dispatch
// layer of a host execution runtime.
//
// An async value is a cell holding a result that may not exist yet. Work
// submitted to a thread pool produces such cells, continuations chain off
// them, and blocking joins wait for one or many of them to resolve.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	host-runtime/        Root package with the WorkQueue and Destination contracts
//	├── async/           Async value state machine and typed reference handles
//	├── dispatch/        Submission, join and continuation entry points
//	├── latch/           One-shot countdown synchronization primitive
//	├── workqueue/       Thread-pool work queue implementations
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Submit work and await the result:
//
//	pool := workqueue.NewPool(workqueue.DefaultConfig())
//	defer pool.Close()
//
//	sum := dispatch.EnqueueValue(pool, func() (int, error) {
//	    return 1 + 1, nil
//	})
//	dispatch.Await(sum)
//	fmt.Println(sum.Get()) // 2
//
// Chain a continuation instead of blocking:
//
//	dispatch.AndThen(sum, func() {
//	    if err := sum.Err(); err != nil {
//	        log.Println(err)
//	        return
//	    }
//	    use(sum.Get())
//	})
//
// # Resolution Model
//
// Every async value moves through a one-directional state machine:
//
//	Unconstructed -> Pending -> ConcreteValue
//	                         -> Error
//
// ConcreteValue and Error are terminal. Continuations registered before a
// terminal state fire exactly once at resolution; continuations registered
// after fire immediately. Errors are data, not control flow: a value that
// resolves to Error unblocks its waiters the same way a concrete value does,
// and consumers branch on state.
//
// # Thread Safety
//
// Async values are safe for one producer (the resolving side) and any number
// of concurrent consumers registering continuations or copying references.
// WorkQueue implementations in workqueue are safe for concurrent submission.
//
// # Deadlock Hazard
//
// dispatch.Await blocks the calling goroutine on a latch with no pool
// involvement. Never call it from a goroutine the pool uses to run enqueued
// work: that goroutine may be the one needed to resolve the awaited values.
// Use dispatch.AwaitOn from pool-managed goroutines instead; it lets the
// pool apply its own deadlock-avoidance policy.
package hostruntime
