package dispatch

import (
	"context"
	"sync"

	"github.com/go-drift/conductor/pkg/errors"
)

// ErrLoopStopped is returned by Post after the loop has stopped.
var ErrLoopStopped = errors.New("dispatch: loop stopped")

// DefaultQueueSize is the callback buffer used when NewLoop gets a
// non-positive size.
const DefaultQueueSize = 64

// Loop is a minimal UI thread: callbacks posted to it run one at a time, in
// order, on the goroutine that called Run.
//
//	loop := dispatch.NewLoop(0)
//	dispatch.RegisterDispatch(loop.Dispatch)
//	go loop.Run(ctx)
type Loop struct {
	queue chan func()

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewLoop creates a loop with a buffer of size callbacks.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues callback. It blocks while the buffer is full and returns
// ErrLoopStopped once the loop has stopped.
func (l *Loop) Post(callback func()) error {
	if callback == nil {
		return nil
	}
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return ErrLoopStopped
	}
	select {
	case l.queue <- callback:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Dispatch adapts Post to the RegisterDispatch signature. Callbacks posted
// after the loop stopped are dropped and reported.
func (l *Loop) Dispatch(callback func()) {
	if err := l.Post(callback); err != nil {
		errors.ReportErr("dispatch.Loop", errors.KindDispatch, "", err)
	}
}

// Run drains the queue on the calling goroutine until ctx is done or Stop is
// called. A panicking callback is recovered and reported; the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case cb := <-l.queue:
			l.run(cb)
		}
	}
}

// Drain runs every queued callback on the calling goroutine and returns how
// many ran. Test harnesses use it in place of Run.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case cb := <-l.queue:
			l.run(cb)
			n++
		default:
			return n
		}
	}
}

func (l *Loop) run(cb func()) {
	defer errors.Recover("dispatch.Loop")
	cb()
}

// Stop ends Run. Stop is idempotent.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.done)
}
