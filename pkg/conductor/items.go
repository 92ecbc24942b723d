package conductor

import (
	"slices"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// ItemList is an ordered list of distinct items owned by a conductor.
// Adding an item makes the owner its parent; removing it clears the parent
// if the owner still holds it. Zero items are ignored.
type ItemList[T comparable] struct {
	owner func() any
	items []T
}

func (l *ItemList[T]) parent() any {
	if l.owner == nil {
		return nil
	}
	return l.owner()
}

// Len returns the number of items.
func (l *ItemList[T]) Len() int {
	return len(l.items)
}

// At returns the item at i.
func (l *ItemList[T]) At(i int) T {
	return l.items[i]
}

// All returns a copy of the items.
func (l *ItemList[T]) All() []T {
	return slices.Clone(l.items)
}

// Index returns the position of item, or -1.
func (l *ItemList[T]) Index(item T) int {
	return slices.Index(l.items, item)
}

// Contains reports whether item is in the list.
func (l *ItemList[T]) Contains(item T) bool {
	return l.Index(item) >= 0
}

// Add appends the items that are not yet in the list.
func (l *ItemList[T]) Add(items ...T) {
	for _, item := range items {
		l.Insert(len(l.items), item)
	}
}

// Insert places item at i unless it is already in the list. An index out of
// range is clamped to the nearest end.
func (l *ItemList[T]) Insert(i int, item T) {
	var zero T
	if item == zero || l.Contains(item) {
		return
	}
	i = min(max(i, 0), len(l.items))
	l.items = slices.Insert(l.items, i, item)
	if c, ok := any(item).(lifecycle.Child); ok {
		c.SetParent(l.parent())
	}
}

// Remove takes item out of the list and reports whether it was there.
func (l *ItemList[T]) Remove(item T) bool {
	i := l.Index(item)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	l.release(item)
	return true
}

// Clear removes every item.
func (l *ItemList[T]) Clear() {
	items := l.items
	l.items = nil
	for _, item := range items {
		l.release(item)
	}
}

func (l *ItemList[T]) release(item T) {
	c, ok := any(item).(lifecycle.Child)
	if !ok {
		return
	}
	if p := l.parent(); p != nil && c.Parent() == p {
		c.SetParent(nil)
	}
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
