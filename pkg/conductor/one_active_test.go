package conductor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/screentest"
)

func newOneActive(t *testing.T, items ...*screentest.Screen) *conductor.OneActive[lifecycle.Screener] {
	t.Helper()
	ctx := context.Background()
	c := conductor.NewOneActive[lifecycle.Screener]()
	require.NoError(t, c.Activate(ctx))
	for _, item := range items {
		require.NoError(t, c.ActivateItem(ctx, item))
	}
	return c
}

func names(items []lifecycle.Screener) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.DisplayName()
	}
	return out
}

func TestOneActiveSwitchesWithoutClosing(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b)

	assert.Same(t, b, c.ActiveItem())
	assert.Equal(t, []string{"A", "B"}, names(c.Items().All()))
	assert.False(t, a.IsActive())
	assert.Zero(t, a.Closes)
	assert.Zero(t, a.GuardChecks, "switching does not consult guards")

	require.NoError(t, c.ActivateItem(ctx, a))
	assert.True(t, a.IsActive())
	assert.False(t, b.IsActive())
	assert.Equal(t, 1, a.Initializations)
	assert.Equal(t, 2, c.Items().Len())
}

func TestOneActiveIgnoresZeroItem(t *testing.T) {
	c := newOneActive(t)
	events := recordProcessed(c)
	require.NoError(t, c.ActivateItem(context.Background(), nil))
	assert.Empty(t, events.entries)
	assert.Zero(t, c.Items().Len())
}

func TestOneActiveZeroItemKeepsActive(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b)
	events := recordProcessed(c)

	require.NoError(t, c.ActivateItem(ctx, nil))
	assert.Same(t, b, c.ActiveItem())
	assert.True(t, b.IsActive())
	assert.Empty(t, events.entries)

	assert.Same(t, a, c.EnsureItem(ctx, nil), "EnsureItem picks the neighbour")
}

func TestOneActiveClosingActiveActivatesNeighbour(t *testing.T) {
	ctx := context.Background()
	a, b, sc := screentest.New("A", nil), screentest.New("B", nil), screentest.New("C", nil)
	c := newOneActive(t, a, b, sc)

	require.NoError(t, c.DeactivateItem(ctx, sc, true))
	assert.Same(t, b, c.ActiveItem())
	assert.True(t, b.IsActive())
	assert.Equal(t, 1, sc.Closes)
	assert.Nil(t, sc.Parent())
	assert.Equal(t, []string{"A", "B"}, names(c.Items().All()))

	require.NoError(t, c.DeactivateItem(ctx, a, true))
	assert.Equal(t, 1, a.Closes, "an inactive item closes too")
	assert.Same(t, b, c.ActiveItem())
	assert.Equal(t, []string{"B"}, names(c.Items().All()))

	require.NoError(t, c.DeactivateItem(ctx, b, true))
	assert.Nil(t, c.ActiveItem())
	assert.Zero(t, c.Items().Len())
}

func TestOneActiveClosingFirstActivatesNext(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b, a)

	require.NoError(t, c.DeactivateItem(ctx, a, true))
	assert.Same(t, b, c.ActiveItem())
	assert.True(t, b.IsActive())
}

func TestOneActiveCloseRefused(t *testing.T) {
	ctx := context.Background()
	a := screentest.New("A", nil).Refuse()
	c := newOneActive(t, a)

	require.NoError(t, c.DeactivateItem(ctx, a, true))
	assert.Same(t, a, c.ActiveItem())
	assert.True(t, a.IsActive())
	assert.Equal(t, 1, c.Items().Len())
}

func TestOneActiveSuspendItem(t *testing.T) {
	ctx := context.Background()
	a := screentest.New("A", nil)
	c := newOneActive(t, a)

	require.NoError(t, c.DeactivateItem(ctx, a, false))
	assert.False(t, a.IsActive())
	assert.Same(t, a, c.ActiveItem())
	assert.Zero(t, a.GuardChecks)
}

func TestOneActiveCanCloseDefaultClosesNothing(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil).Refuse()
	c := newOneActive(t, a, b)

	ok, err := c.CanClose(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Items().Len())
	assert.Zero(t, a.Closes)
}

func TestOneActivePartialCloseMovesActive(t *testing.T) {
	ctx := context.Background()
	a, b, sc := screentest.New("A", nil), screentest.New("B", nil).Refuse(), screentest.New("C", nil)
	c := newOneActive(t, a, b, sc, a)
	c.SetCloseStrategy(conductor.PartialCloseStrategy[lifecycle.Screener]{})

	ok, err := c.CanClose(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Same(t, b, c.ActiveItem())
	assert.True(t, b.IsActive())
	assert.Equal(t, 1, a.Closes)
	assert.Equal(t, 1, sc.Closes)
	assert.Equal(t, []string{"B"}, names(c.Items().All()))
}

func TestOneActiveCanCloseAllowed(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b)

	ok, err := c.CanClose(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Items().Len(), "asking does not close")
}

func TestOneActiveCloseClosesAllItems(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b)

	require.NoError(t, c.Deactivate(ctx, true))
	assert.Equal(t, 1, a.Closes)
	assert.Equal(t, 1, b.Closes)
	assert.Zero(t, c.Items().Len())
	assert.Nil(t, a.Parent())
	assert.Nil(t, b.Parent())
}

func TestOneActiveSuspendAndResume(t *testing.T) {
	ctx := context.Background()
	a, b := screentest.New("A", nil), screentest.New("B", nil)
	c := newOneActive(t, a, b)

	require.NoError(t, c.Deactivate(ctx, false))
	assert.False(t, b.IsActive())
	assert.Equal(t, 2, c.Items().Len())

	require.NoError(t, c.Activate(ctx))
	assert.True(t, b.IsActive())
	assert.False(t, a.IsActive())
}

func TestOneActiveItemsAddedDirectly(t *testing.T) {
	c := newOneActive(t)
	a := screentest.New("A", nil)

	c.Items().Add(a, a)
	assert.Equal(t, []any{a}, c.Children())
	assert.Same(t, c, a.Parent())
	assert.False(t, a.IsActive())
	assert.Nil(t, c.ActiveItem())
}

func TestDetermineNextItemToActivate(t *testing.T) {
	c := conductor.NewOneActive[string]()
	tests := []struct {
		name      string
		items     []string
		lastIndex int
		want      string
	}{
		{"only item", []string{"a"}, 0, ""},
		{"first of two", []string{"a", "b"}, 0, "b"},
		{"last of three", []string{"a", "b", "c"}, 2, "b"},
		{"middle of three", []string{"a", "b", "c"}, 1, "a"},
		{"empty", nil, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetermineNextItemToActivate(tt.items, tt.lastIndex))
		})
	}
}
