package conductor

import (
	"context"
	"fmt"

	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/lifecycle"
)

// CloseResult is the outcome of a CloseStrategy.
type CloseResult[T any] struct {
	// CloseCanOccur is true when every candidate agreed to close.
	CloseCanOccur bool
	// Closable lists the candidates that may close. It can be non-empty
	// when CloseCanOccur is false, in which case a conductor closes only
	// those.
	Closable []T
}

// CloseStrategy decides whether a set of items may close.
type CloseStrategy[T any] interface {
	Execute(ctx context.Context, items []T) (CloseResult[T], error)
}

// CloseStrategyFunc adapts a function to CloseStrategy.
type CloseStrategyFunc[T any] func(ctx context.Context, items []T) (CloseResult[T], error)

// Execute calls f.
func (f CloseStrategyFunc[T]) Execute(ctx context.Context, items []T) (CloseResult[T], error) {
	return f(ctx, items)
}

// DefaultCloseStrategy asks every item and allows closing only when all of
// them agree. On refusal no item is listed as closable.
type DefaultCloseStrategy[T comparable] struct{}

func (DefaultCloseStrategy[T]) Execute(ctx context.Context, items []T) (CloseResult[T], error) {
	closable, all, err := consult(ctx, items)
	if err != nil {
		return CloseResult[T]{}, err
	}
	if !all {
		return CloseResult[T]{}, nil
	}
	return CloseResult[T]{CloseCanOccur: true, Closable: closable}, nil
}

// PartialCloseStrategy asks every item and reports those that agreed even
// when others refuse, so conductors close the agreeing subset.
type PartialCloseStrategy[T comparable] struct{}

func (PartialCloseStrategy[T]) Execute(ctx context.Context, items []T) (CloseResult[T], error) {
	closable, all, err := consult(ctx, items)
	if err != nil {
		return CloseResult[T]{}, err
	}
	return CloseResult[T]{CloseCanOccur: all, Closable: closable}, nil
}

// consult runs the close guard of every non-zero item. Items without a guard
// agree.
func consult[T comparable](ctx context.Context, items []T) (closable []T, all bool, err error) {
	var zero T
	all = true
	for _, item := range items {
		if item == zero {
			continue
		}
		ok, err := lifecycle.TryCanClose(ctx, item)
		if err != nil {
			recordGuard(ResultError)
			return nil, false, errors.Wrap("conductor.CloseStrategy", errors.KindGuard, nameOf(item), err)
		}
		if ok {
			recordGuard(ResultAllowed)
			closable = append(closable, item)
		} else {
			recordGuard(ResultRefused)
			all = false
		}
	}
	return closable, all, nil
}

func nameOf(x any) string {
	if n, ok := x.(lifecycle.HaveDisplayName); ok {
		return n.DisplayName()
	}
	return fmt.Sprintf("%T", x)
}
