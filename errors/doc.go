// Package errors provides structured error types for the host-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Resolution errors stored in async values are ordinary errors and
// need not come from this package; the runtime itself uses these types for
// the failures it manufactures, such as rejected submissions and recovered
// work panics.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEnqueue, errors.KindQueueSaturated).
//		Detail("blocking queue full (%d pending)", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.QueueSaturated("failed to enqueue blocking work")
//	err := errors.TaskPanic(recovered)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
