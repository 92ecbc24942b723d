// Package errors provides structured error reporting for lifecycle components.
//
// Errors returned from lifecycle operations propagate to the caller. The
// global [ErrorHandler] only sees failures that have no caller to return to:
// fire-and-forget notifications, recovered panics on the UI loop, and
// continuations posted to the dispatcher.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates a lifecycle hook (initialize, activate, deactivate) failed.
	KindHook
	// KindEvent indicates a lifecycle event handler failed.
	KindEvent
	// KindGuard indicates a close guard failed while deciding.
	KindGuard
	// KindDispatch indicates a continuation posted to the UI thread failed.
	KindDispatch
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindCollaborator indicates a missing or failing external collaborator
	// (view locator, injector).
	KindCollaborator
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindEvent:
		return "event"
	case KindGuard:
		return "guard"
	case KindDispatch:
		return "dispatch"
	case KindPanic:
		return "panic"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// LifecycleError represents a structured failure of a lifecycle operation.
type LifecycleError struct {
	// Op is the operation that failed (e.g., "screen.Activate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Subject is the display name of the node the operation ran on, if any.
	Subject string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error, if captured.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LifecycleError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s [%s] subject=%s: %v", e.Op, e.Kind, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "dispatch.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors that cannot be returned to a caller.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *LifecycleError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Wrap returns err as a *LifecycleError for op. Errors that already carry a
// *LifecycleError are returned unchanged so the innermost operation is kept.
// Wrap returns nil for a nil err.
func Wrap(op string, kind ErrorKind, subject string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return &LifecycleError{
		Op:        op,
		Kind:      kind,
		Subject:   subject,
		Err:       err,
		Timestamp: time.Now(),
	}
}
