package hostruntime

import (
	"github.com/google/uuid"

	"github.com/Nexuscompute/host-runtime/async"
)

// WorkQueue is the contract a thread pool must satisfy to back the dispatch
// package. The pool owns its threads, queues and scheduling policy; this
// layer only submits closures and waits for async values to resolve.
type WorkQueue interface {
	// AddTask submits a non-blocking compute task. It never rejects:
	// the task runs at some later time on some pool thread.
	AddTask(task func())

	// AddBlockingTask submits a task that may block (for example on I/O)
	// so the pool can keep it away from compute threads. With allowQueueing
	// the task may sit in a bounded buffer and the call reports false when
	// that buffer is full. Without allowQueueing the pool must guarantee
	// forward progress, typically by running the task on the calling
	// goroutine when it cannot be handed off. A false return means the
	// task will never run.
	AddBlockingTask(task func(), allowQueueing bool) bool

	// Await blocks until every value is terminal, using the pool's own
	// wait mechanism. Unlike a bare latch wait it is safe to call from
	// pool-managed goroutines when the pool's policy supports it.
	Await(values []*async.Value)

	// Quiesce blocks until all submitted work has finished.
	Quiesce()

	// Close shuts the queue down. Pending tasks are drained first.
	Close() error
}

// Destination is the uniform first argument of the dispatch entry points:
// either a WorkQueue itself (work submitted outside any computation) or an
// ExecutionContext (work submitted during an in-flight computation).
type Destination interface {
	Queue() WorkQueue
}

// ExecutionContext carries the active work queue through a call chain so
// that code deep inside a computation can submit follow-up work without
// threading a pool handle through every signature. It carries a request ID
// for log correlation; it does not carry cancellation or deadlines.
type ExecutionContext struct {
	queue WorkQueue
	id    string
}

// NewExecutionContext binds a fresh context to q.
func NewExecutionContext(q WorkQueue) *ExecutionContext {
	return &ExecutionContext{
		queue: q,
		id:    uuid.NewString(),
	}
}

// Queue returns the work queue this context is bound to.
func (ec *ExecutionContext) Queue() WorkQueue {
	return ec.queue
}

// ID returns the request identifier assigned at construction.
func (ec *ExecutionContext) ID() string {
	return ec.id
}
