package conductor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/lifecycle"
)

// ErrItemType is returned when an untyped child passed to a conductor does
// not have the conductor's item type.
var ErrItemType = errors.New("conductor: child has the wrong item type")

// ItemConductor is a conductor of items of type T.
type ItemConductor[T comparable] interface {
	lifecycle.Conductor
	// ActivateItem activates item, making it active in the conductor.
	ActivateItem(ctx context.Context, item T) error
	// DeactivateItem suspends item, or closes it when close is true.
	DeactivateItem(ctx context.Context, item T, close bool) error
}

// ItemEnsurer prepares an item before a conductor starts tracking it. A
// conductor looks it up on the value bound with Init, so embedding types can
// replace the conductor's own EnsureItem.
type ItemEnsurer[T comparable] interface {
	EnsureItem(ctx context.Context, item T) T
}

// Base holds what every conductor shares: the screen it is, its close
// strategy, the ActivationProcessed event and its transition lock.
type Base[T comparable] struct {
	lifecycle.Screen

	strategy  CloseStrategy[T]
	processed lifecycle.Event[lifecycle.ActivationProcessedEventArgs]
	lock      transitionLock
}

// CloseStrategy returns the strategy consulted before items close. It
// defaults to DefaultCloseStrategy.
func (b *Base[T]) CloseStrategy() CloseStrategy[T] {
	if b.strategy == nil {
		return DefaultCloseStrategy[T]{}
	}
	return b.strategy
}

// SetCloseStrategy replaces the close strategy. Nil restores the default.
func (b *Base[T]) SetCloseStrategy(s CloseStrategy[T]) {
	b.strategy = s
}

// ActivationProcessed fires after each ActivateItem with the item and
// whether it became active.
func (b *Base[T]) ActivationProcessed() *lifecycle.Event[lifecycle.ActivationProcessedEventArgs] {
	return &b.processed
}

// OnActivationProcessed raises ActivationProcessed.
func (b *Base[T]) OnActivationProcessed(ctx context.Context, item T, success bool) {
	recordActivation(success)
	var subject any
	var zero T
	if item != zero {
		subject = item
	}
	if !success {
		b.Logger().Debug(ctx, "activation refused",
			zap.String("conductor", b.DisplayName()), zap.String("item", nameOf(item)))
	}
	b.processed.Notify(ctx, b.Self(), lifecycle.ActivationProcessedEventArgs{Item: subject, Success: success})
}

// EnsureItem makes the conductor the parent of item.
func (b *Base[T]) EnsureItem(ctx context.Context, item T) T {
	var zero T
	if item == zero {
		return item
	}
	if c, ok := any(item).(lifecycle.Child); ok && c.Parent() != b.Self() {
		c.SetParent(b.Self())
	}
	return item
}

// releaseItem clears the parent of an item the conductor no longer holds,
// unless another parent has since claimed it.
func (b *Base[T]) releaseItem(item T) {
	var zero T
	if item == zero {
		return
	}
	if c, ok := any(item).(lifecycle.Child); ok && c.Parent() == b.Self() {
		c.SetParent(nil)
	}
}

func (b *Base[T]) ensure(ctx context.Context, item T) T {
	if e, ok := b.Self().(ItemEnsurer[T]); ok {
		return e.EnsureItem(ctx, item)
	}
	return b.EnsureItem(ctx, item)
}

func (b *Base[T]) conductor() (ItemConductor[T], error) {
	c, ok := b.Self().(ItemConductor[T])
	if !ok {
		return nil, fmt.Errorf("conductor: %T does not conduct %T items", b.Self(), *new(T))
	}
	return c, nil
}

// itemOf converts an untyped child into an item. Nil converts to the zero
// item.
func itemOf[T comparable](child any) (T, error) {
	var zero T
	if child == nil {
		return zero, nil
	}
	item, ok := child.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrItemType, child, zero)
	}
	return item, nil
}

// ActivateChild is ActivateItem for an untyped child.
func (b *Base[T]) ActivateChild(ctx context.Context, child any) error {
	item, err := itemOf[T](child)
	if err != nil {
		return err
	}
	c, err := b.conductor()
	if err != nil {
		return err
	}
	return c.ActivateItem(ctx, item)
}

// DeactivateChild is DeactivateItem for an untyped child.
func (b *Base[T]) DeactivateChild(ctx context.Context, child any, close bool) error {
	item, err := itemOf[T](child)
	if err != nil {
		return err
	}
	c, err := b.conductor()
	if err != nil {
		return err
	}
	return c.DeactivateItem(ctx, item, close)
}

// transition starts a traced, locked transition named op.
func (b *Base[T]) transition(ctx context.Context, op string) (context.Context, func(err error), error) {
	ctx, end := startSpan(ctx, op, b.DisplayName())
	ctx, release, err := b.lock.acquire(ctx)
	if err != nil {
		end(err)
		return ctx, nil, err
	}
	return ctx, func(err error) {
		release()
		end(err)
	}, nil
}

func (b *Base[T]) closeCheck(ctx context.Context, items ...T) (CloseResult[T], error) {
	return b.CloseStrategy().Execute(ctx, items)
}
