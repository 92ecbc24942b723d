package lifecycle_test

import (
	"context"
	"time"

	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/lifecycle"
)

const (
	timeout = time.Second
	tick    = time.Millisecond
)

type fakeConductor struct {
	closed    []any
	processed lifecycle.Event[lifecycle.ActivationProcessedEventArgs]
}

func (f *fakeConductor) Children() []any { return nil }

func (f *fakeConductor) ActivateChild(context.Context, any) error { return nil }

func (f *fakeConductor) DeactivateChild(_ context.Context, child any, close bool) error {
	if close {
		f.closed = append(f.closed, child)
	}
	return nil
}

func (f *fakeConductor) ActivationProcessed() *lifecycle.Event[lifecycle.ActivationProcessedEventArgs] {
	return &f.processed
}

type closableView struct {
	closed     bool
	onUIThread bool
}

func (v *closableView) CloseView(ctx context.Context) error {
	v.closed = true
	v.onUIThread = dispatch.IsUIThread(ctx)
	return nil
}

type recordingHandler struct {
	onError func(*errors.LifecycleError)
}

func (h *recordingHandler) HandleError(err *errors.LifecycleError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *recordingHandler) HandlePanic(*errors.PanicError) {}
