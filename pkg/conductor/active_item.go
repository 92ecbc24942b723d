package conductor

import (
	"context"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// WithActiveItem is a Base that tracks one active item.
type WithActiveItem[T comparable] struct {
	Base[T]

	active T
}

// ActiveItem returns the active item, or the zero value.
func (w *WithActiveItem[T]) ActiveItem() T {
	return w.active
}

// ActiveChild returns the active item, or nil.
func (w *WithActiveItem[T]) ActiveChild() any {
	var zero T
	if w.active == zero {
		return nil
	}
	return w.active
}

// SetActiveItem activates item through the conductor's ActivateItem.
func (w *WithActiveItem[T]) SetActiveItem(ctx context.Context, item T) error {
	c, err := w.conductor()
	if err != nil {
		return err
	}
	return c.ActivateItem(ctx, item)
}

// ChangeActiveItem makes item the active item. The change is announced
// before the previous item is deactivated, with close set to closePrevious.
// The new item is activated afterwards if the conductor is active. Close
// guards are not consulted.
func (w *WithActiveItem[T]) ChangeActiveItem(ctx context.Context, item T, closePrevious bool) error {
	previous := w.active
	item = w.ensure(ctx, item)

	w.active = item
	w.NotifyOfPropertyChange(ctx, lifecycle.PropertyActiveItem)

	if err := lifecycle.TryDeactivate(ctx, previous, closePrevious); err != nil {
		return err
	}
	if w.IsActive() {
		if err := lifecycle.TryActivate(ctx, item); err != nil {
			return err
		}
	}
	w.OnActivationProcessed(ctx, item, true)
	return nil
}
