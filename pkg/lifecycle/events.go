package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/conductor/pkg/errors"
)

// ActivationEventArgs is the payload of Activated.
type ActivationEventArgs struct {
	// WasInitialized is true when this activation also initialized the node.
	WasInitialized bool
}

// DeactivationEventArgs is the payload of Deactivating and Deactivated.
type DeactivationEventArgs struct {
	// WasClosed is true when the node is being closed.
	WasClosed bool
}

// ActivationProcessedEventArgs is the payload of a conductor's
// ActivationProcessed event.
type ActivationProcessedEventArgs struct {
	// Item is the item that was requested. It is nil when a conductor cleared
	// its active item.
	Item any
	// Success is false when a close guard refused the change.
	Success bool
}

// PropertyChangedEventArgs names the property that changed.
type PropertyChangedEventArgs struct {
	PropertyName string
}

// ViewAttachedEventArgs is the payload of ViewAttached.
type ViewAttachedEventArgs struct {
	View    any
	Context any
}

// Property names reported through PropertyChanged.
const (
	PropertyIsActive      = "IsActive"
	PropertyIsInitialized = "IsInitialized"
	PropertyDisplayName   = "DisplayName"
	PropertyActiveItem    = "ActiveItem"
)

// Handler handles an event raised by sender.
type Handler[A any] func(ctx context.Context, sender any, args A) error

// Event is an ordered list of handlers. The zero value is ready to use.
// Subscribing and unsubscribing are safe from any goroutine; handlers run on
// the goroutine that raises the event.
type Event[A any] struct {
	mu   sync.Mutex
	subs []*subscription[A]
}

type subscription[A any] struct {
	handler Handler[A]
}

// Subscribe adds h and returns a function that removes it. The returned
// function may be called more than once and from inside a handler.
func (e *Event[A]) Subscribe(h Handler[A]) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	sub := &subscription[A]{handler: h}
	e.mu.Lock()
	e.subs = append(e.subs, sub)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(sub) })
	}
}

func (e *Event[A]) remove(sub *subscription[A]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s == sub {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribed handlers.
func (e *Event[A]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

func (e *Event[A]) snapshot() []*subscription[A] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.subs) == 0 {
		return nil
	}
	return append([]*subscription[A](nil), e.subs...)
}

// Invoke runs the handlers in subscription order and returns the first error.
// Handlers after a failing one do not run.
func (e *Event[A]) Invoke(ctx context.Context, sender any, args A) error {
	for _, sub := range e.snapshot() {
		if err := sub.handler(ctx, sender, args); err != nil {
			return err
		}
	}
	return nil
}

// Notify runs every handler. Failures are reported to the global error
// handler instead of being returned.
func (e *Event[A]) Notify(ctx context.Context, sender any, args A) {
	for _, sub := range e.snapshot() {
		if err := sub.handler(ctx, sender, args); err != nil {
			errors.ReportErr(fmt.Sprintf("lifecycle.Notify(%T)", args), errors.KindEvent, nameOf(sender), err)
		}
	}
}

func nameOf(x any) string {
	if x == nil {
		return ""
	}
	if n, ok := x.(HaveDisplayName); ok {
		return n.DisplayName()
	}
	return fmt.Sprintf("%T", x)
}
