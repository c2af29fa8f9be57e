package dispatch

import (
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/errors"
	"github.com/Nexuscompute/host-runtime/workqueue"
)

// rejectQueue runs compute tasks inline and rejects every blocking
// submission, modeling a saturated or shutting-down pool.
type rejectQueue struct {
	blockingAttempts atomic.Int32
}

func (q *rejectQueue) Queue() hostruntime.WorkQueue { return q }

func (q *rejectQueue) AddTask(task func()) { task() }

func (q *rejectQueue) AddBlockingTask(task func(), allowQueueing bool) bool {
	q.blockingAttempts.Add(1)
	return false
}

func (q *rejectQueue) Await(values []*async.Value) {
	for _, v := range values {
		done := make(chan struct{})
		v.AndThen(func() { close(done) })
		<-done
	}
}

func (q *rejectQueue) Quiesce() {}

func (q *rejectQueue) Close() error { return nil }

func TestEnqueueValue_AwaitYieldsResult(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 2, BlockingWorkers: 1})
	defer pool.Close()

	r := EnqueueValue(pool, func() (int, error) {
		return 1 + 1, nil
	})

	Await(r)
	if got := r.Get(); got != 2 {
		t.Fatalf("Get = %d, want 2", got)
	}
}

func TestEnqueueValue_ReturnsBeforeWorkRuns(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 1, BlockingWorkers: 1})
	defer pool.Close()

	release := make(chan struct{})
	r := EnqueueValue(pool, func() (string, error) {
		<-release
		return "late", nil
	})

	if r.IsAvailable() {
		t.Fatal("reference terminal before work was released")
	}
	if got := r.State(); got != async.StatePending {
		t.Fatalf("state = %v, want pending", got)
	}

	// Continuations attach before the work finishes.
	fired := make(chan struct{})
	AndThen(r, func() { close(fired) })

	close(release)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("continuation did not fire after work completed")
	}
	if got := r.Get(); got != "late" {
		t.Fatalf("Get = %q", got)
	}
}

func TestEnqueueValue_ErrorReturnResolvesError(t *testing.T) {
	boom := stderrors.New("boom")
	r := EnqueueValue(workqueue.NewInline(), func() (int, error) {
		return 0, boom
	})

	if got := r.State(); got != async.StateError {
		t.Fatalf("state = %v, want error", got)
	}
	if err := r.Err(); !stderrors.Is(err, boom) {
		t.Fatalf("Err = %v, want boom", err)
	}
}

func TestEnqueueValue_PanicResolvesError(t *testing.T) {
	r := EnqueueValue(workqueue.NewInline(), func() (int, error) {
		panic("kaboom")
	})

	if got := r.State(); got != async.StateError {
		t.Fatalf("state = %v, want error", got)
	}
	err := r.Err()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseExecute, Kind: errors.KindTaskPanic}) {
		t.Fatalf("Err = %v, want task_panic", err)
	}
}

func TestEnqueueWork_FireAndForget(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 2, BlockingWorkers: 1})
	defer pool.Close()

	done := make(chan struct{})
	EnqueueWork(pool, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueued work never ran")
	}
}

func TestEnqueueBlockingWork_RejectionReportsFalse(t *testing.T) {
	q := &rejectQueue{}

	var ran atomic.Bool
	if EnqueueBlockingWork(q, func() { ran.Store(true) }) {
		t.Fatal("EnqueueBlockingWork = true against rejecting queue")
	}
	if ran.Load() {
		t.Fatal("rejected work was executed")
	}
	if got := q.blockingAttempts.Load(); got != 1 {
		t.Fatalf("blocking submissions = %d, want 1 (no retries at this layer)", got)
	}
}

func TestEnqueueBlockingValue_RejectionResolvesError(t *testing.T) {
	q := &rejectQueue{}

	var ran atomic.Bool
	r := EnqueueBlockingValue(q, func() (int, error) {
		ran.Store(true)
		return 1, nil
	})

	if got := r.State(); got != async.StateError {
		t.Fatalf("state = %v, want error", got)
	}
	if err := r.Err(); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEnqueue, Kind: errors.KindQueueSaturated}) {
		t.Fatalf("Err = %v, want queue_saturated", err)
	}
	var structured *errors.Error
	if !stderrors.As(r.Err(), &structured) || structured.Detail != "failed to enqueue blocking work" {
		t.Fatalf("detail = %q, want fixed enqueue diagnostic", structured.Detail)
	}
	if ran.Load() {
		t.Fatal("rejected work was executed")
	}

	// Downstream continuations still fire on the error.
	var fired bool
	AndThen(r, func() { fired = true })
	if !fired {
		t.Fatal("continuation on rejected reference did not fire")
	}
}

func TestRunBlockingValue_RejectionResolvesError(t *testing.T) {
	q := &rejectQueue{}
	r := RunBlockingValue(q, func() (int, error) { return 1, nil })

	var structured *errors.Error
	if !stderrors.As(r.Err(), &structured) || structured.Detail != "failed to run blocking work" {
		t.Fatalf("Err = %v, want fixed run diagnostic", r.Err())
	}
}

func TestRunBlockingValue_Success(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 1, BlockingWorkers: 1})
	defer pool.Close()

	r := RunBlockingValue(pool, func() (int, error) { return 6 * 7, nil })
	Await(r)
	if got := r.Get(); got != 42 {
		t.Fatalf("Get = %d, want 42", got)
	}
}

func TestAndThen_UniformOverValueAndRef(t *testing.T) {
	r := async.MakeAvailable(1)

	var fired int
	AndThen(r, func() { fired++ })              // typed reference
	AndThen(r.Underlying(), func() { fired++ }) // raw value
	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
}

func TestAndThen_FreshCallbackOnTerminalFiresOnce(t *testing.T) {
	r := async.MakeAvailable(1)

	var first, second atomic.Int32
	AndThen(r, func() { first.Add(1) })
	if got := first.Load(); got != 1 {
		t.Fatalf("first callback fired %d times, want 1", got)
	}

	// A fresh callback fires exactly once and never replays earlier ones.
	AndThen(r, func() { second.Add(1) })
	if got := first.Load(); got != 1 {
		t.Fatalf("first callback replayed: fired %d times", got)
	}
	if got := second.Load(); got != 1 {
		t.Fatalf("second callback fired %d times, want 1", got)
	}
}

func TestAwait_MixedResolvedAndPending(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 2, BlockingWorkers: 1})
	defer pool.Close()

	ready := async.MakeAvailable(1)
	slow := EnqueueValue(pool, func() (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 2, nil
	})

	Await(ready, slow)
	if !slow.IsAvailable() {
		t.Fatal("Await returned before pending value resolved")
	}
}

func TestAwait_EmptySetReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Await()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Await over empty set blocked")
	}
}

func TestAwaitOn_UsesPoolWait(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 1, BlockingWorkers: 1})
	defer pool.Close()

	values := make([]async.Awaitable, 4)
	for i := range values {
		i := i
		values[i] = EnqueueValue(pool, func() (int, error) { return i, nil })
	}

	AwaitOn(pool, values...)
	for i, av := range values {
		if !av.Underlying().IsAvailable() {
			t.Fatalf("value %d not terminal after AwaitOn", i)
		}
	}
}

func TestAwaitOn_ExecutionContext(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 1, BlockingWorkers: 1})
	defer pool.Close()
	ec := hostruntime.NewExecutionContext(pool)

	r := EnqueueValue(ec, func() (int, error) { return 9, nil })
	AwaitOn(ec, r)
	if got := r.Get(); got != 9 {
		t.Fatalf("Get = %d, want 9", got)
	}
}

func TestRunWhenReady_FiresOnceAfterAll(t *testing.T) {
	refs := []async.Ref[int]{
		async.MakeUnconstructed[int](),
		async.MakeUnconstructed[int](),
		async.MakeUnconstructed[int](),
	}
	values := make([]async.Awaitable, len(refs))
	for i, r := range refs {
		values[i] = r
	}

	var fired atomic.Int32
	RunWhenReady(values, func() { fired.Add(1) })

	refs[0].Emplace(1)
	refs[1].SetError(stderrors.New("partial failure"))
	if got := fired.Load(); got != 0 {
		t.Fatalf("callback fired %d times before all values terminal", got)
	}

	refs[2].Emplace(3)
	if got := fired.Load(); got != 1 {
		t.Fatalf("callback fired %d times, want exactly 1", got)
	}
}

func TestRunWhenReady_EmptySetFiresInline(t *testing.T) {
	var fired bool
	RunWhenReady(nil, func() { fired = true })
	if !fired {
		t.Fatal("callback did not fire for empty set")
	}
}

func TestRunWhenReady_AllTerminalFiresInline(t *testing.T) {
	values := []async.Awaitable{
		async.MakeAvailable(1),
		async.MakeError[int](stderrors.New("boom")),
	}
	var fired atomic.Int32
	RunWhenReady(values, func() { fired.Add(1) })
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired = %d, want 1", got)
	}
}

// TestEndToEnd submits three closures, awaits all three, and checks the
// mixed success/error outcome plus the all-ready callback.
func TestEndToEnd(t *testing.T) {
	pool := workqueue.NewPool(workqueue.Config{Workers: 4, BlockingWorkers: 1})
	defer pool.Close()

	boom := stderrors.New("boom")
	a := EnqueueValue(pool, func() (int, error) { return 1 + 1, nil })
	b := EnqueueValue(pool, func() (int, error) { return 2 + 2, nil })
	c := EnqueueValue(pool, func() (int, error) { return 0, boom })

	var allReady atomic.Int32
	RunWhenReady([]async.Awaitable{a, b, c}, func() { allReady.Add(1) })

	Await(a, b, c)

	if got := a.Get(); got != 2 {
		t.Errorf("a = %d, want 2", got)
	}
	if got := b.Get(); got != 4 {
		t.Errorf("b = %d, want 4", got)
	}
	if got := c.State(); got != async.StateError {
		t.Errorf("c state = %v, want error", got)
	}
	if err := c.Err(); !stderrors.Is(err, boom) || err.Error() != "boom" {
		t.Errorf("c err = %v, want boom", err)
	}

	// The all-ready callback fires exactly once regardless of error state.
	pool.Quiesce()
	if got := allReady.Load(); got != 1 {
		t.Errorf("all-ready callback fired %d times, want 1", got)
	}
}
