package workqueue

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/latch"
)

// Pool is a work queue backed by two disjoint sets of worker goroutines:
// compute workers draining an unbounded FIFO and blocking workers draining a
// bounded buffer. Safe for concurrent submission from any goroutine.
type Pool struct {
	id  string
	cfg Config

	mu           sync.Mutex
	taskCond     *sync.Cond
	blockedCond  *sync.Cond
	tasks        []func()
	blocked      []func()
	idleBlocking int
	closed       bool

	// wake nudges goroutines helping in Await when new compute work arrives.
	wake chan struct{}

	inflight sync.WaitGroup
	workers  sync.WaitGroup
}

var _ hostruntime.WorkQueue = (*Pool)(nil)
var _ hostruntime.Destination = (*Pool)(nil)

// NewPool starts a pool sized by cfg. Zero fields take defaults; negative
// fields panic.
func NewPool(cfg Config) *Pool {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		panic(err)
	}

	p := &Pool{
		id:   uuid.NewString(),
		cfg:  cfg,
		wake: make(chan struct{}, 1),
	}
	p.taskCond = sync.NewCond(&p.mu)
	p.blockedCond = sync.NewCond(&p.mu)

	p.workers.Add(cfg.Workers + cfg.BlockingWorkers)
	for i := 0; i < cfg.Workers; i++ {
		go p.computeWorker()
	}
	for i := 0; i < cfg.BlockingWorkers; i++ {
		go p.blockingWorker()
	}

	Logger().Info("pool started",
		zap.String("pool", p.id),
		zap.Int("workers", cfg.Workers),
		zap.Int("blocking_workers", cfg.BlockingWorkers),
		zap.Int("blocking_queue_cap", cfg.BlockingQueueCap))
	return p
}

// Queue implements hostruntime.Destination so a Pool can be passed directly
// to the dispatch entry points.
func (p *Pool) Queue() hostruntime.WorkQueue { return p }

// ID returns the pool identifier used in logs.
func (p *Pool) ID() string { return p.id }

// AddTask submits a non-blocking compute task. It never rejects; submitting
// to a closed pool is a programming error and panics.
func (p *Pool) AddTask(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("workqueue: AddTask on closed pool")
	}
	p.inflight.Add(1)
	p.tasks = append(p.tasks, task)
	p.taskCond.Signal()
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// AddBlockingTask submits a task that may block. With allowQueueing the task
// waits in the bounded buffer and the call reports false when the buffer is
// full. Without allowQueueing the task is handed to an idle blocking worker
// when one is available and otherwise runs on the calling goroutine, so it
// makes progress even under back-pressure. A false return means the task
// will never run.
func (p *Pool) AddBlockingTask(task func(), allowQueueing bool) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		Logger().Warn("blocking task rejected",
			zap.String("pool", p.id),
			zap.String("reason", "shutting down"))
		return false
	}

	if allowQueueing {
		if len(p.blocked) >= p.cfg.BlockingQueueCap {
			p.mu.Unlock()
			Logger().Warn("blocking task rejected",
				zap.String("pool", p.id),
				zap.String("reason", "queue saturated"),
				zap.Int("capacity", p.cfg.BlockingQueueCap))
			return false
		}
		p.inflight.Add(1)
		p.blocked = append(p.blocked, task)
		p.blockedCond.Signal()
		p.mu.Unlock()
		return true
	}

	// Guaranteed-progress path: hand off only when a worker is idle and the
	// buffer has room, otherwise run inline on the caller.
	if p.idleBlocking > len(p.blocked) && len(p.blocked) < p.cfg.BlockingQueueCap {
		p.inflight.Add(1)
		p.blocked = append(p.blocked, task)
		p.blockedCond.Signal()
		p.mu.Unlock()
		return true
	}
	p.inflight.Add(1)
	p.mu.Unlock()
	p.runTask(task)
	return true
}

// Await blocks until every value is terminal. The calling goroutine executes
// queued compute tasks while it waits, so pool-managed goroutines can join
// on values produced by this pool without deadlocking it.
func (p *Pool) Await(values []*async.Value) {
	remaining := latch.New(len(values))
	for _, v := range values {
		v.AndThen(remaining.CountDown)
	}

	for {
		for !remaining.TryWait() {
			task, ok := p.tryTask()
			if !ok {
				break
			}
			p.runTask(task)
		}
		select {
		case <-remaining.Done():
			return
		case <-p.wake:
			// New compute work arrived; try to help again.
		}
	}
}

// Quiesce blocks until all submitted work has finished.
func (p *Pool) Quiesce() {
	p.inflight.Wait()
}

// Close drains both queues, stops the workers and returns. Submitting after
// Close panics (compute) or reports false (blocking). Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.taskCond.Broadcast()
	p.blockedCond.Broadcast()
	p.mu.Unlock()

	p.workers.Wait()
	Logger().Info("pool closed", zap.String("pool", p.id))
	return nil
}

func (p *Pool) computeWorker() {
	defer p.workers.Done()
	for {
		task, ok := p.nextTask()
		if !ok {
			return
		}
		p.runTask(task)
	}
}

func (p *Pool) blockingWorker() {
	defer p.workers.Done()
	for {
		task, ok := p.nextBlockingTask()
		if !ok {
			return
		}
		p.runTask(task)
	}
}

// nextTask pops the oldest compute task, blocking while the queue is empty.
// A closed pool drains the queue before workers exit.
func (p *Pool) nextTask() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.tasks) == 0 {
		if p.closed {
			return nil, false
		}
		p.taskCond.Wait()
	}
	task := p.tasks[0]
	p.tasks = p.tasks[1:]
	return task, true
}

func (p *Pool) nextBlockingTask() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.blocked) == 0 {
		if p.closed {
			return nil, false
		}
		p.idleBlocking++
		p.blockedCond.Wait()
		p.idleBlocking--
	}
	task := p.blocked[0]
	p.blocked = p.blocked[1:]
	return task, true
}

func (p *Pool) tryTask() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tasks) == 0 {
		return nil, false
	}
	task := p.tasks[0]
	p.tasks = p.tasks[1:]
	return task, true
}

// runTask executes one task. Panics from raw tasks propagate and are fatal
// to the worker; the dispatch package converts panics from value-producing
// work into error resolutions before they reach here.
func (p *Pool) runTask(task func()) {
	defer p.inflight.Done()
	task()
}
