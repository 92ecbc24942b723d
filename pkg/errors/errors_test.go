package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/conductor/pkg/logging"
)

func TestLifecycleErrorString(t *testing.T) {
	err := &LifecycleError{
		Op:   "screen.Activate",
		Kind: KindHook,
		Err:  New("boom"),
	}
	assert.Equal(t, "screen.Activate [hook]: boom", err.Error())
}

func TestLifecycleErrorWithSubject(t *testing.T) {
	err := &LifecycleError{
		Op:      "screen.Deactivate",
		Kind:    KindEvent,
		Subject: "Editor",
		Err:     New("handler failed"),
	}
	assert.Contains(t, err.Error(), "subject=Editor")
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindHook, "hook"},
		{KindEvent, "event"},
		{KindGuard, "guard"},
		{KindDispatch, "dispatch"},
		{KindPanic, "panic"},
		{KindCollaborator, "collaborator"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestWrapKeepsInnermost(t *testing.T) {
	base := New("disk full")
	inner := Wrap("screen.OnDeactivate", KindHook, "Editor", base)
	outer := Wrap("conductor.Deactivate", KindHook, "Shell", fmt.Errorf("propagate: %w", inner))

	lerr, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, "screen.OnDeactivate", lerr.Op)
	assert.True(t, Is(outer, base))
	assert.Equal(t, KindHook, KindOf(outer))
	assert.False(t, lerr.Timestamp.IsZero())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap("op", KindHook, "", nil))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(New("plain")))
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "dispatch.Loop"
	assert.Equal(t, "panic in dispatch.Loop: test panic", err.Error())
}

func TestReport(t *testing.T) {
	var captured *LifecycleError
	withHandler(t, &testHandler{onError: func(err *LifecycleError) { captured = err }})

	Report(&LifecycleError{Op: "test.op", Kind: KindEvent, Err: New("x")})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero())
}

func TestReportNil(t *testing.T) {
	called := false
	withHandler(t, &testHandler{onError: func(*LifecycleError) { called = true }})

	Report(nil)
	ReportErr("op", KindEvent, "", nil)
	assert.False(t, called)
}

func TestReportErrWrapsPlainErrors(t *testing.T) {
	var captured *LifecycleError
	withHandler(t, &testHandler{onError: func(err *LifecycleError) { captured = err }})

	ReportErr("lifecycle.Notify", KindEvent, "Home", New("handler failed"))

	require.NotNil(t, captured)
	assert.Equal(t, "lifecycle.Notify", captured.Op)
	assert.Equal(t, KindEvent, captured.Kind)
	assert.Equal(t, "Home", captured.Subject)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	withHandler(t, &testHandler{onPanic: func(err *PanicError) { captured = err }})

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	require.NotNil(t, captured)
	assert.Equal(t, "intentional test panic", captured.Value)
	assert.Equal(t, "test.recover", captured.Op)
	assert.NotEmpty(t, captured.StackTrace)
}

func TestRecoverPassesValueOn(t *testing.T) {
	withHandler(t, &testHandler{})

	var got []any
	func() {
		defer Recover("test.callback", func(r any) { got = append(got, r) }, func(r any) { got = append(got, r) })
		panic(42)
	}()
	assert.Equal(t, []any{42, 42}, got)
}

func TestRecoverWithoutPanic(t *testing.T) {
	called := false
	withHandler(t, &testHandler{onPanic: func(*PanicError) { called = true }})

	func() {
		defer Recover("test.quiet")
	}()
	assert.False(t, called)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.Contains(t, stack, "TestCaptureStack")
	assert.NotContains(t, stack, "errors.CaptureStack")
}

func TestSetHandlerNil(t *testing.T) {
	withHandler(t, nil)
	_, ok := Handler().(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should set LogHandler, got %T", Handler())
}

func TestLogHandlerWritesThroughLogger(t *testing.T) {
	logger, observed := logging.NewObserved()
	h := &LogHandler{Verbose: true, Logger: logger}

	h.HandleError(&LifecycleError{
		Op:         "screen.Activated",
		Kind:       KindEvent,
		Subject:    "Home",
		Err:        New("handler failed"),
		StackTrace: "frame",
	})
	h.HandlePanic(&PanicError{Op: "dispatch.Loop", Value: "boom"})
	h.HandleError(nil)
	h.HandlePanic(nil)

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "lifecycle error", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "screen.Activated", fields["op"])
	assert.Equal(t, "event", fields["kind"])
	assert.Equal(t, "Home", fields["subject"])
	assert.Equal(t, "frame", fields["stack"])
	assert.Equal(t, "recovered panic", entries[1].Message)
}

func withHandler(t *testing.T, h ErrorHandler) {
	t.Helper()
	old := SetHandler(h)
	t.Cleanup(func() { SetHandler(old) })
}

type testHandler struct {
	onError func(*LifecycleError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *LifecycleError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
