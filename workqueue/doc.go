// Package workqueue provides thread-pool work queue implementations
// satisfying the hostruntime.WorkQueue contract.
//
// # Pool
//
// Pool runs compute tasks on a fixed set of worker goroutines over an
// unbounded FIFO, and blocking tasks on a separate fixed set of workers over
// a bounded buffer. The worker sets are disjoint, so blocking tasks can
// never starve compute tasks and compute tasks can never starve blocking
// tasks. The bounded buffer is the back-pressure point: a blocking
// submission with queueing allowed reports false when the buffer is full,
// and a submission without queueing runs on the calling goroutine whenever
// it cannot be handed to an idle blocking worker.
//
//	pool := workqueue.NewPool(workqueue.DefaultConfig())
//	defer pool.Close()
//
// Pool.Await lets the waiting goroutine execute queued compute tasks while
// it waits, so a pool-managed goroutine joining on values produced by the
// same pool still makes progress.
//
// # Inline
//
// Inline runs every task synchronously on the submitting goroutine. It
// never rejects and is intended for deterministic tests and examples.
//
// # Configuration
//
// Config fields left at zero take defaults derived from GOMAXPROCS.
// ConfigFromEnv overlays HOSTRT_* environment variables:
//
//	HOSTRT_WORKERS            compute worker count
//	HOSTRT_BLOCKING_WORKERS   blocking worker count
//	HOSTRT_BLOCKING_QUEUE_CAP blocking buffer capacity
package workqueue
