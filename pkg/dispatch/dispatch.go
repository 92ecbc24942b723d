// Package dispatch marshals work onto the host's UI thread.
//
// Lifecycle operations assume a single cooperative UI thread. The host
// (a terminal loop, a test harness, a platform bridge) registers the function
// that schedules callbacks on that thread; helpers in this package use it to
// hop onto the thread before running UI-affecting continuations.
package dispatch

import (
	"context"
	"sync"

	"github.com/go-drift/conductor/pkg/errors"
)

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on the UI thread.
// This should be called once by the host during initialization. Pass nil to
// unregister, after which helpers run callbacks inline.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

func registered() func(callback func()) {
	dispatchMu.RLock()
	defer dispatchMu.RUnlock()
	return dispatchFunc
}

// Dispatch schedules a callback to run on the UI thread.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	fn := registered()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

type uiThreadKey struct{}

// WithUIThread marks ctx as running on the UI thread. Hosts that call into
// lifecycle code from their loop pass such a context so OnUIThread runs inline.
func WithUIThread(ctx context.Context) context.Context {
	return context.WithValue(ctx, uiThreadKey{}, true)
}

// IsUIThread reports whether ctx was marked by WithUIThread.
func IsUIThread(ctx context.Context) bool {
	v, _ := ctx.Value(uiThreadKey{}).(bool)
	return v
}

// OnUIThread runs fn on the UI thread and waits for it to finish.
//
// fn runs inline when no dispatcher is registered or ctx is already on the UI
// thread. Otherwise it is posted and OnUIThread blocks until fn returns or ctx
// is done; a cancelled wait does not stop fn once it has started. fn receives
// a context marked as on the UI thread.
func OnUIThread(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	post := registered()
	if post == nil || IsUIThread(ctx) {
		return fn(WithUIThread(ctx))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	post(func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = &errors.PanicError{Op: "dispatch.OnUIThread", Value: r, StackTrace: errors.CaptureStack()}
			}
			done <- err
		}()
		err = fn(WithUIThread(ctx))
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BeginOnUIThread posts fn to the UI thread without waiting. Without a
// registered dispatcher fn runs inline. fn receives ctx without its
// cancellation, so values such as held conductor locks carry over. Errors
// from fn are reported to the global error handler.
func BeginOnUIThread(ctx context.Context, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	ctx = WithUIThread(context.WithoutCancel(ctx))
	run := func() {
		defer errors.Recover("dispatch.BeginOnUIThread")
		if err := fn(ctx); err != nil {
			errors.ReportErr("dispatch.BeginOnUIThread", errors.KindDispatch, "", err)
		}
	}
	if !Dispatch(run) {
		run()
	}
}
