package latch

import (
	"fmt"
	"sync/atomic"
)

// Latch blocks waiters until its count reaches zero. The zero value is not
// usable; construct with New.
type Latch struct {
	count atomic.Int64
	done  chan struct{}
}

// New creates a latch with the given initial count. It panics if n is
// negative. A latch created with n == 0 is already open: Wait returns
// immediately and CountDown panics.
func New(n int) *Latch {
	if n < 0 {
		panic(fmt.Sprintf("latch: negative count %d", n))
	}
	l := &Latch{done: make(chan struct{})}
	l.count.Store(int64(n))
	if n == 0 {
		close(l.done)
	}
	return l
}

// CountDown decrements the count by one. The decrement that reaches zero
// releases every current and future waiter. Counting past zero panics.
func (l *Latch) CountDown() {
	l.Arrive(1)
}

// Arrive decrements the count by n. It panics if n is negative or if the
// decrement would take the count below zero.
func (l *Latch) Arrive(n int) {
	if n < 0 {
		panic(fmt.Sprintf("latch: negative arrival %d", n))
	}
	if n == 0 {
		return
	}
	c := l.count.Add(int64(-n))
	if c < 0 {
		panic("latch: count down past zero")
	}
	if c == 0 {
		close(l.done)
	}
}

// Wait blocks the calling goroutine until the count reaches zero. It returns
// immediately if the count is already zero. Any number of goroutines may
// wait concurrently; all are released together.
func (l *Latch) Wait() {
	<-l.done
}

// TryWait reports whether the count has reached zero without blocking.
func (l *Latch) TryWait() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the count reaches zero.
// Useful for select statements.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}
