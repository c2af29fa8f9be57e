package dispatch

import (
	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/errors"
)

// Fixed diagnostics carried by error-state references for rejected
// submissions.
const (
	msgEnqueueBlockingFailed = "failed to enqueue blocking work"
	msgRunBlockingFailed     = "failed to run blocking work"
)

// EnqueueWork submits work for asynchronous execution and returns
// immediately. Ordering relative to other submissions is the queue's
// business; nothing is guaranteed across producers.
func EnqueueWork(dest hostruntime.Destination, work func()) {
	dest.Queue().AddTask(work)
}

// EnqueueValue submits work that produces a result. It allocates an
// unconstructed reference, marks it pending, and returns it immediately; the
// enqueued closure resolves it with work's result, its error, or the
// recovered panic. The caller may attach continuations or await the
// reference before the work starts.
func EnqueueValue[T any](dest hostruntime.Destination, work func() (T, error)) async.Ref[T] {
	result := async.MakeUnconstructed[T]()
	result.SetPending()
	dest.Queue().AddTask(produce(result, work))
	return result
}

// EnqueueBlockingWork submits work that may block, queueing it for the
// pool's blocking workers. It reports false when the queue rejects the
// submission; the work never runs in that case.
func EnqueueBlockingWork(dest hostruntime.Destination, work func()) bool {
	return dest.Queue().AddBlockingTask(work, true)
}

// EnqueueBlockingValue is the value-producing form of EnqueueBlockingWork.
// A rejected submission resolves the reference to the Error state rather
// than leaving it pending forever, so downstream continuations still fire.
func EnqueueBlockingValue[T any](dest hostruntime.Destination, work func() (T, error)) async.Ref[T] {
	result := async.MakeUnconstructed[T]()
	if !dest.Queue().AddBlockingTask(produce(result, work), true) {
		result.SetError(errors.QueueSaturated(msgEnqueueBlockingFailed))
	}
	return result
}

// RunBlockingWork is EnqueueBlockingWork with a guaranteed-progress
// contract: when the pool cannot take the task it may run on the calling
// goroutine instead of failing. It reports false only when the pool is
// shutting down.
func RunBlockingWork(dest hostruntime.Destination, work func()) bool {
	return dest.Queue().AddBlockingTask(work, false)
}

// RunBlockingValue is the value-producing form of RunBlockingWork.
func RunBlockingValue[T any](dest hostruntime.Destination, work func() (T, error)) async.Ref[T] {
	result := async.MakeUnconstructed[T]()
	if !dest.Queue().AddBlockingTask(produce(result, work), false) {
		result.SetError(errors.QueueSaturated(msgRunBlockingFailed))
	}
	return result
}

// AndThen registers fn to run once the value behind av is terminal, value
// and error resolutions alike. It accepts raw async values and typed
// references uniformly and never blocks.
func AndThen(av async.Awaitable, fn func()) {
	av.Underlying().AndThen(fn)
}

// produce wraps a value-producing closure so that every outcome, including a
// panic, resolves the reference. The pool's execution loop never sees a
// fault from work.
func produce[T any](result async.Ref[T], work func() (T, error)) func() {
	return func() {
		result.SetPending()
		defer func() {
			if rec := recover(); rec != nil {
				result.SetError(errors.TaskPanic(rec))
			}
		}()
		v, err := work()
		if err != nil {
			result.SetError(err)
			return
		}
		result.Emplace(v)
	}
}
