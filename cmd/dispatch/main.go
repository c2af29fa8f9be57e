// Command dispatch exercises a work queue with a synthetic task load and
// reports the outcome. With -i it opens an interactive monitor instead.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/async"
	"github.com/Nexuscompute/host-runtime/dispatch"
	"github.com/Nexuscompute/host-runtime/workqueue"
)

func main() {
	var (
		tasks         = flag.Int("tasks", 200, "Number of tasks to submit")
		blockingRatio = flag.Float64("blocking", 0.25, "Fraction of tasks submitted as blocking work")
		failRate      = flag.Float64("fail", 0.05, "Fraction of tasks that resolve to an error")
		workers       = flag.Int("workers", 0, "Compute workers (0 = HOSTRT_WORKERS or GOMAXPROCS)")
		verbose       = flag.Bool("v", false, "Log pool lifecycle to stderr")
		interactive   = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*tasks, *blockingRatio, *failRate, *workers, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load tracks the outcome of a submitted batch.
type load struct {
	refs      []async.Ref[int]
	completed atomic.Int64
	failed    atomic.Int64
	rejected  int
	allReady  chan struct{}
}

// submit sends n synthetic tasks to the context's queue and wires an
// all-ready callback. Each task spins briefly to model compute work;
// failRate of them resolve to an error, blockingRatio of them go through the
// blocking submission path.
func submit(ec *hostruntime.ExecutionContext, n int, blockingRatio, failRate float64) *load {
	l := &load{allReady: make(chan struct{})}

	for i := 0; i < n; i++ {
		i := i
		fail := rand.Float64() < failRate
		work := func() (int, error) {
			time.Sleep(time.Duration(rand.Intn(4)) * time.Millisecond)
			if fail {
				l.failed.Add(1)
				l.completed.Add(1)
				return 0, fmt.Errorf("task %d failed", i)
			}
			l.completed.Add(1)
			return i * i, nil
		}

		var r async.Ref[int]
		if rand.Float64() < blockingRatio {
			r = dispatch.EnqueueBlockingValue(ec, work)
			if r.IsAvailable() && r.IsError() {
				// Rejected before running; fold into the failed count.
				l.rejected++
				l.failed.Add(1)
				l.completed.Add(1)
			}
		} else {
			r = dispatch.EnqueueValue(ec, work)
		}
		l.refs = append(l.refs, r)
	}

	values := make([]async.Awaitable, len(l.refs))
	for i, r := range l.refs {
		values[i] = r
	}
	dispatch.RunWhenReady(values, func() { close(l.allReady) })
	return l
}

func run(tasks int, blockingRatio, failRate float64, workers int, verbose bool) error {
	if verbose {
		lg, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer lg.Sync()
		workqueue.SetLogger(lg)
	}

	cfg, err := workqueue.ConfigFromEnv()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	pool := workqueue.NewPool(cfg)
	defer pool.Close()
	ec := hostruntime.NewExecutionContext(pool)

	fmt.Printf("Pool: %d compute workers, %d blocking workers, blocking buffer %d\n",
		cfg.Workers, cfg.BlockingWorkers, cfg.BlockingQueueCap)
	fmt.Printf("Request: %s\n", ec.ID())
	fmt.Printf("Submitting %d tasks (%.0f%% blocking, %.0f%% failing)...\n\n",
		tasks, blockingRatio*100, failRate*100)

	start := time.Now()
	l := submit(ec, tasks, blockingRatio, failRate)

	watchProgress(l, tasks)
	<-l.allReady
	elapsed := time.Since(start)

	succeeded := 0
	failed := 0
	for _, r := range l.refs {
		if r.IsError() {
			failed++
		} else {
			succeeded++
		}
	}

	fmt.Printf("\nDone in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  succeeded: %d\n", succeeded)
	fmt.Printf("  failed:    %d (%d rejected at submission)\n", failed, l.rejected)
	return nil
}

// watchProgress redraws a progress line until every task is terminal. It
// stays silent when stdout is not a terminal.
func watchProgress(l *load, total int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < 20 {
		width = 80
	}

	barWidth := width - 20
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-l.allReady:
			fmt.Printf("\r%s %d/%d\n", bar(barWidth, total, total), total, total)
			return
		case <-ticker.C:
			done := int(l.completed.Load())
			fmt.Printf("\r%s %d/%d", bar(barWidth, done, total), done, total)
		}
	}
}

func bar(width, done, total int) string {
	if total == 0 {
		total = 1
	}
	filled := width * done / total
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
