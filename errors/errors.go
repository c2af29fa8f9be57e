package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEnqueue Phase = "enqueue" // task submission
	PhaseExecute Phase = "execute" // task execution on a pool thread
	PhaseResolve Phase = "resolve" // async value resolution
	PhaseAwait   Phase = "await"   // blocking joins
	PhaseConfig  Phase = "config"  // queue configuration
)

// Kind categorizes the error
type Kind string

const (
	KindQueueSaturated  Kind = "queue_saturated"
	KindShuttingDown    Kind = "shutting_down"
	KindAlreadyResolved Kind = "already_resolved"
	KindTaskPanic       Kind = "task_panic"
	KindInvalidInput    Kind = "invalid_input"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// QueueSaturated creates a submission-rejected error carrying the fixed
// diagnostic expected by consumers of error-state handles.
func QueueSaturated(detail string) *Error {
	return &Error{
		Phase:  PhaseEnqueue,
		Kind:   KindQueueSaturated,
		Detail: detail,
	}
}

// ShuttingDown creates an error for work submitted to a closed queue
func ShuttingDown(what string) *Error {
	return &Error{
		Phase:  PhaseEnqueue,
		Kind:   KindShuttingDown,
		Detail: fmt.Sprintf("%s rejected: queue is shutting down", what),
	}
}

// AlreadyResolved creates an error for a second resolution attempt.
// The async package panics with this; it is never returned.
func AlreadyResolved(state string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindAlreadyResolved,
		Detail: fmt.Sprintf("value already resolved to %s", state),
	}
}

// TaskPanic creates an error from a panic recovered inside a work closure
func TaskPanic(recovered any) *Error {
	err, _ := recovered.(error)
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindTaskPanic,
		Detail: fmt.Sprintf("work panicked: %v", recovered),
		Value:  recovered,
		Cause:  err,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
