package conductor

import (
	"context"
	"slices"

	"go.uber.org/multierr"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// NextItemChooser picks the item to activate when the item at index
// lastIndex of items is closed. OneActive looks it up on the value bound
// with Init.
type NextItemChooser[T comparable] interface {
	DetermineNextItemToActivate(items []T, lastIndex int) T
}

// OneActive conducts a list of items with at most one of them active.
type OneActive[T comparable] struct {
	WithActiveItem[T]

	items ItemList[T]
}

// NewOneActive returns a OneActive conductor bound to itself.
func NewOneActive[T comparable]() *OneActive[T] {
	c := &OneActive[T]{}
	c.Init(c)
	return c
}

// Items returns the conducted items. Items added directly are tracked but
// not activated.
func (c *OneActive[T]) Items() *ItemList[T] {
	if c.items.owner == nil {
		c.items.owner = c.Self
	}
	return &c.items
}

// Children returns the conducted items.
func (c *OneActive[T]) Children() []any {
	return toAny(c.Items().All())
}

// ActivateItem adds item if needed and makes it the active item. The
// previous active item is deactivated without closing. A zero item is a
// no-op: the active item stays and no ActivationProcessed fires. Use
// EnsureItem with a zero item to pick the neighbour of the active one.
func (c *OneActive[T]) ActivateItem(ctx context.Context, item T) (err error) {
	ctx, done, err := c.transition(ctx, opActivateItem)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	var zero T
	if item == zero {
		return nil
	}
	if item == c.active {
		if c.IsActive() {
			if err := lifecycle.TryActivate(ctx, item); err != nil {
				return err
			}
			c.OnActivationProcessed(ctx, item, true)
		}
		return nil
	}
	return c.ChangeActiveItem(ctx, item, false)
}

// DeactivateItem suspends item, or closes and removes it when its close
// guard agrees. Closing the active item activates a neighbour.
func (c *OneActive[T]) DeactivateItem(ctx context.Context, item T, close bool) (err error) {
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
	return c.closeItem(ctx, item)
}

func (c *OneActive[T]) closeItem(ctx context.Context, item T) error {
	items := c.Items()
	if item == c.active {
		next := c.nextItem(items.All(), items.Index(item))
		if err := c.ChangeActiveItem(ctx, next, true); err != nil {
			return err
		}
	} else if err := lifecycle.TryDeactivate(ctx, item, true); err != nil {
		return err
	}
	items.Remove(item)
	return nil
}

// DetermineNextItemToActivate returns the item before lastIndex, or the
// item after it when lastIndex is the first, or the zero value when no other
// item is left.
func (c *OneActive[T]) DetermineNextItemToActivate(items []T, lastIndex int) T {
	var zero T
	prev := lastIndex - 1
	if prev == -1 && len(items) > 1 {
		return items[1]
	}
	if prev > -1 && prev < len(items)-1 {
		return items[prev]
	}
	return zero
}

func (c *OneActive[T]) nextItem(items []T, lastIndex int) T {
	if n, ok := c.Self().(NextItemChooser[T]); ok {
		return n.DetermineNextItemToActivate(items, lastIndex)
	}
	return c.DetermineNextItemToActivate(items, lastIndex)
}

// CanClose asks the close strategy about every item. When the strategy
// refuses but lists items that agreed, those are closed and removed and, if
// the active item is among them, the nearest remaining item is activated.
func (c *OneActive[T]) CanClose(ctx context.Context) (ok bool, err error) {
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

	closable := result.Closable
	if slices.Contains(closable, c.active) {
		list := items.All()
		next := c.active
		for {
			previous := next
			i := slices.Index(list, previous)
			if i < 0 {
				next = *new(T)
				break
			}
			next = c.nextItem(list, i)
			list = slices.Delete(list, i, i+1)
			if !slices.Contains(closable, next) {
				break
			}
		}
		previousActive := c.active
		if err := c.ChangeActiveItem(ctx, next, true); err != nil {
			return false, err
		}
		items.Remove(previousActive)
		closable = slices.DeleteFunc(slices.Clone(closable), func(item T) bool { return item == previousActive })
	}

	var errs error
	for _, item := range closable {
		errs = multierr.Append(errs, lifecycle.TryDeactivate(ctx, item, true))
		items.Remove(item)
	}
	return false, errs
}

// OnActivated activates the active item.
func (c *OneActive[T]) OnActivated(ctx context.Context) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return lifecycle.TryActivate(ctx, c.active)
}

// OnDeactivate suspends the active item. Closing closes and removes every
// item.
func (c *OneActive[T]) OnDeactivate(ctx context.Context, close bool) error {
	ctx, release, err := c.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if !close {
		return lifecycle.TryDeactivate(ctx, c.active, false)
	}
	items := c.Items()
	var errs error
	for _, item := range items.All() {
		errs = multierr.Append(errs, lifecycle.TryDeactivate(ctx, item, true))
	}
	items.Clear()
	return errs
}

// EnsureItem adds item to the list. A zero item is replaced by the item that
// would follow the active one.
func (c *OneActive[T]) EnsureItem(ctx context.Context, item T) T {
	var zero T
	items := c.Items()
	if item == zero {
		index := 0
		if c.active != zero {
			index = items.Index(c.active)
		}
		item = c.nextItem(items.All(), index)
	} else if i := items.Index(item); i < 0 {
		items.Add(item)
	} else {
		item = items.At(i)
	}
	return c.Base.EnsureItem(ctx, item)
}

var (
	_ ItemConductor[lifecycle.Screener] = (*OneActive[lifecycle.Screener])(nil)
	_ lifecycle.Screener                = (*OneActive[lifecycle.Screener])(nil)
	_ ItemEnsurer[lifecycle.Screener]   = (*OneActive[lifecycle.Screener])(nil)
)
