package dispatch

import (
	"sync/atomic"

	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/latch"
)

// Await blocks until every value is terminal, with a value or an error
// result alike, using only the calling goroutine: a latch sized to the set
// is counted down by a continuation on each value.
//
// Precondition: never call Await from a goroutine the pool uses to run
// enqueued work. That goroutine may be the one needed to resolve the awaited
// values, and the pool can deadlock. Use AwaitOn there instead.
func Await(values ...async.Awaitable) {
	remaining := latch.New(len(values))
	for _, av := range values {
		av.Underlying().AndThen(remaining.CountDown)
	}
	remaining.Wait()
}

// AwaitOn blocks until every value is terminal using the destination pool's
// own wait mechanism, which may make progress on other queued work while
// waiting. Depending on pool policy it is safe to call from pool-managed
// goroutines.
func AwaitOn(dest hostruntime.Destination, values ...async.Awaitable) {
	vs := make([]*async.Value, len(values))
	for i, av := range values {
		vs[i] = av.Underlying()
	}
	dest.Queue().Await(vs)
}

// RunWhenReady registers callee to run exactly once, after every value in
// values is terminal. It never blocks: callee runs on whichever goroutine
// resolves the last outstanding value, or inline when all values are already
// terminal. Resolution order within the set is unspecified; only the
// conjunction is guaranteed.
func RunWhenReady(values []async.Awaitable, callee func()) {
	if len(values) == 0 {
		callee()
		return
	}
	var remaining atomic.Int64
	remaining.Store(int64(len(values)))
	for _, av := range values {
		av.Underlying().AndThen(func() {
			if remaining.Add(-1) == 0 {
				callee()
			}
		})
	}
}
