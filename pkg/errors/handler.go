package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var current atomic.Pointer[handlerSlot]

func init() {
	current.Store(&handlerSlot{h: &LogHandler{}})
}

// Handler returns the global error handler. It is a LogHandler writing to
// logging.Default() until SetHandler replaces it.
func Handler() ErrorHandler {
	return current.Load().h
}

// SetHandler installs h as the global error handler and returns the one it
// replaced. Nil restores a default LogHandler.
func SetHandler(h ErrorHandler) (previous ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerSlot{h: h}).h
}

// Report sends err to the global handler, stamping it if needed.
func Report(err *LifecycleError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportErr reports err as a failure of op. Errors that already carry a
// *LifecycleError are reported as they are.
func ReportErr(op string, kind ErrorKind, subject string, err error) {
	if err == nil {
		return
	}
	lerr, ok := As(err)
	if !ok {
		lerr = &LifecycleError{Op: op, Kind: kind, Subject: subject, Err: err}
	}
	Report(lerr)
}

// ReportPanic sends err to the global handler, stamping it if needed.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress as a failure of op, then passes the
// panic value to each onPanic. Call it deferred:
//
//	defer errors.Recover("dispatch.Loop")
func Recover(op string, onPanic ...func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	for _, fn := range onPanic {
		fn(r)
	}
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line"
// entry per frame.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for n > 0 {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// As reports whether err's chain contains a *LifecycleError and returns it.
func As(err error) (*LifecycleError, bool) {
	var lerr *LifecycleError
	if stderrors.As(err, &lerr) {
		return lerr, true
	}
	return nil, false
}

// Is is errors.Is, for callers that import this package as errors.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// New is errors.New.
func New(text string) error {
	return stderrors.New(text)
}

// KindOf returns the kind of the first *LifecycleError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	if lerr, ok := As(err); ok {
		return lerr.Kind
	}
	return KindUnknown
}
