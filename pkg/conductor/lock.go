package conductor

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// transitionLock is a re-entrant mutex keyed on the context. The zero value
// is unlocked.
type transitionLock struct {
	once  sync.Once
	sem   *semaphore.Weighted
	owner atomic.Pointer[holdToken]
}

// holdToken identifies one acquisition. It is not zero-sized so distinct
// tokens never compare equal.
type holdToken struct{ _ byte }

type heldKey struct{ l *transitionLock }

// held reports whether ctx was derived from the acquisition that currently
// holds the lock. Contexts that outlive their release, such as ones carried
// into posted callbacks, no longer count.
func (l *transitionLock) held(ctx context.Context) bool {
	t, _ := ctx.Value(heldKey{l}).(*holdToken)
	return t != nil && l.owner.Load() == t
}

// acquire blocks until the lock is free or ctx is done. When ctx already
// holds the lock it returns immediately. The returned context marks the lock
// as held and must be passed to work done under it.
func (l *transitionLock) acquire(ctx context.Context) (context.Context, func(), error) {
	if l.held(ctx) {
		return ctx, func() {}, nil
	}
	l.once.Do(func() { l.sem = semaphore.NewWeighted(1) })
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return ctx, nil, err
	}
	t := &holdToken{}
	l.owner.Store(t)
	var once sync.Once
	release := func() {
		once.Do(func() {
			l.owner.CompareAndSwap(t, nil)
			l.sem.Release(1)
		})
	}
	return context.WithValue(ctx, heldKey{l}, t), release, nil
}
