package conductor

import (
	"context"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// Conductor conducts a single active item. Activating another item asks the
// close strategy about the current one and, if it may close, closes it.
type Conductor[T comparable] struct {
	WithActiveItem[T]
}

// New returns a conductor bound to itself. Types embedding Conductor call
// Init with the outer value instead.
func New[T comparable]() *Conductor[T] {
	c := &Conductor[T]{}
	c.Init(c)
	return c
}

// ActivateItem makes item the active item.
//
// Re-activating the active item activates it again when the conductor is
// active, and does nothing otherwise. For any other item the current item's
// close guard is consulted; on refusal nothing changes and
// ActivationProcessed reports failure.
func (c *Conductor[T]) ActivateItem(ctx context.Context, item T) (err error) {
	ctx, done, err := c.transition(ctx, opActivateItem)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	var zero T
	if item != zero && item == c.active {
		if !c.IsActive() {
			return nil
		}
		if err := lifecycle.TryActivate(ctx, item); err != nil {
			return err
		}
		c.OnActivationProcessed(ctx, item, true)
		return nil
	}

	result, err := c.closeCheck(ctx, c.active)
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		c.OnActivationProcessed(ctx, item, false)
		return nil
	}
	return c.replace(ctx, item, true)
}

// DeactivateItem clears the active item if it is item and its close guard
// agrees. Other items are ignored.
func (c *Conductor[T]) DeactivateItem(ctx context.Context, item T, close bool) (err error) {
	ctx, done, err := c.transition(ctx, opDeactivateItem)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	var zero T
	if item == zero || item != c.active {
		return nil
	}
	result, err := c.closeCheck(ctx, c.active)
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		return nil
	}
	return c.replace(ctx, zero, close)
}

// replace changes the active item and releases the one it dropped, even
// when activating the new item fails.
func (c *Conductor[T]) replace(ctx context.Context, item T, closePrevious bool) error {
	previous := c.active
	err := c.ChangeActiveItem(ctx, item, closePrevious)
	if previous != c.active {
		c.releaseItem(previous)
	}
	return err
}

// CanClose asks the close strategy about the active item.
func (c *Conductor[T]) CanClose(ctx context.Context) (ok bool, err error) {
	ctx, done, err := c.transition(ctx, opCanClose)
	if err != nil {
		return false, err
	}
	defer func() { done(err) }()

	result, err := c.closeCheck(ctx, c.active)
	if err != nil {
		return false, err
	}
	return result.CloseCanOccur, nil
}

// OnActivated activates the active item.
func (c *Conductor[T]) OnActivated(ctx context.Context) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return lifecycle.TryActivate(ctx, c.active)
}

// OnDeactivate deactivates the active item with the same close flag.
func (c *Conductor[T]) OnDeactivate(ctx context.Context, close bool) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return lifecycle.TryDeactivate(ctx, c.active, close)
}

// Children returns the active item, if any.
func (c *Conductor[T]) Children() []any {
	if child := c.ActiveChild(); child != nil {
		return []any{child}
	}
	return nil
}

var (
	_ ItemConductor[lifecycle.Screener] = (*Conductor[lifecycle.Screener])(nil)
	_ lifecycle.Screener                = (*Conductor[lifecycle.Screener])(nil)
	_ lifecycle.HaveActiveItem          = (*Conductor[lifecycle.Screener])(nil)
)
