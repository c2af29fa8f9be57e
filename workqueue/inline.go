package workqueue

import (
	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/latch"
)

// Inline is a degenerate work queue that runs every task synchronously on
// the submitting goroutine. Submission order is execution order, which makes
// it useful in tests and examples. It never saturates.
type Inline struct{}

var _ hostruntime.WorkQueue = Inline{}
var _ hostruntime.Destination = Inline{}

// NewInline returns an inline queue.
func NewInline() Inline { return Inline{} }

// Queue implements hostruntime.Destination.
func (q Inline) Queue() hostruntime.WorkQueue { return q }

// AddTask runs task before returning.
func (Inline) AddTask(task func()) {
	task()
}

// AddBlockingTask runs task before returning and always accepts.
func (Inline) AddBlockingTask(task func(), allowQueueing bool) bool {
	task()
	return true
}

// Await blocks until every value is terminal. Values produced through this
// queue are terminal by the time submission returns, so this only waits on
// values resolved elsewhere.
func (Inline) Await(values []*async.Value) {
	remaining := latch.New(len(values))
	for _, v := range values {
		v.AndThen(remaining.CountDown)
	}
	remaining.Wait()
}

// Quiesce is a no-op; nothing is ever in flight after submission returns.
func (Inline) Quiesce() {}

// Close is a no-op.
func (Inline) Close() error { return nil }
