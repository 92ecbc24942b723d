package conductor

import (
	"context"

	"go.uber.org/multierr"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// AllActive conducts a list of items that are all active while the
// conductor is active.
type AllActive[T comparable] struct {
	Base[T]

	items ItemList[T]
}

// NewAllActive returns an AllActive conductor bound to itself.
func NewAllActive[T comparable]() *AllActive[T] {
	c := &AllActive[T]{}
	c.Init(c)
	return c
}

// Items returns the conducted items.
func (c *AllActive[T]) Items() *ItemList[T] {
	if c.items.owner == nil {
		c.items.owner = c.Self
	}
	return &c.items
}

// Children returns the conducted items.
func (c *AllActive[T]) Children() []any {
	return toAny(c.Items().All())
}

// ActivateItem adds item and activates it if the conductor is active.
func (c *AllActive[T]) ActivateItem(ctx context.Context, item T) (err error) {
	ctx, done, err := c.transition(ctx, opActivateItem)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	var zero T
	if item == zero {
		return nil
	}
	item = c.ensure(ctx, item)
	if c.IsActive() {
		if err := lifecycle.TryActivate(ctx, item); err != nil {
			return err
		}
	}
	c.OnActivationProcessed(ctx, item, true)
	return nil
}

// DeactivateItem suspends item, or closes and removes it when its close
// guard agrees.
func (c *AllActive[T]) DeactivateItem(ctx context.Context, item T, close bool) (err error) {
	ctx, done, err := c.transition(ctx, opDeactivateItem)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	var zero T
	if item == zero {
		return nil
	}
	if !close {
		return lifecycle.TryDeactivate(ctx, item, false)
	}
	result, err := c.closeCheck(ctx, item)
	if err != nil {
		return err
	}
	if !result.CloseCanOccur {
		return nil
	}
	if err := lifecycle.TryDeactivate(ctx, item, true); err != nil {
		return err
	}
	c.Items().Remove(item)
	return nil
}

// CanClose asks the close strategy about every item. Items the strategy
// lists as closable are closed and removed even when it refuses overall.
func (c *AllActive[T]) CanClose(ctx context.Context) (ok bool, err error) {
	ctx, done, err := c.transition(ctx, opCanClose)
	if err != nil {
		return false, err
	}
	defer func() { done(err) }()

	items := c.Items()
	result, err := c.closeCheck(ctx, items.All()...)
	if err != nil {
		return false, err
	}
	if result.CloseCanOccur || len(result.Closable) == 0 {
		return result.CloseCanOccur, nil
	}
	var errs error
	for _, item := range result.Closable {
		errs = multierr.Append(errs, lifecycle.TryDeactivate(ctx, item, true))
		items.Remove(item)
	}
	return false, errs
}

// OnActivated activates every item.
func (c *AllActive[T]) OnActivated(ctx context.Context) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	var errs error
	for _, item := range c.Items().All() {
		errs = multierr.Append(errs, lifecycle.TryActivate(ctx, item))
	}
	return errs
}

// OnDeactivate deactivates every item with the same close flag. Closing
// also removes them.
func (c *AllActive[T]) OnDeactivate(ctx context.Context, close bool) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	items := c.Items()
	var errs error
	for _, item := range items.All() {
		errs = multierr.Append(errs, lifecycle.TryDeactivate(ctx, item, close))
	}
	if close {
		items.Clear()
	}
	return errs
}

// EnsureItem adds item to the list.
func (c *AllActive[T]) EnsureItem(ctx context.Context, item T) T {
	items := c.Items()
	if i := items.Index(item); i < 0 {
		items.Add(item)
	} else {
		item = items.At(i)
	}
	return c.Base.EnsureItem(ctx, item)
}

var (
	_ ItemConductor[lifecycle.Screener] = (*AllActive[lifecycle.Screener])(nil)
	_ lifecycle.Screener                = (*AllActive[lifecycle.Screener])(nil)
)
