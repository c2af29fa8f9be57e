// Package latch provides a one-shot countdown synchronization primitive.
//
// A latch is constructed with a non-negative count. Any goroutine may count
// it down; goroutines blocked in Wait are all released when the count
// reaches zero. Once at zero the latch stays at zero, and counting past
// zero panics.
//
//	l := latch.New(3)
//	for range 3 {
//	    go func() {
//	        work()
//	        l.CountDown()
//	    }()
//	}
//	l.Wait()
//
// The latch is the building block behind dispatch.Await and
// dispatch.RunWhenReady: a join over n async values is a latch of count n
// counted down by a continuation on each value.
package latch
