package lifecycle_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/screentest"
)

func TestActivateWith(t *testing.T) {
	ctx := context.Background()
	parent := screentest.New("parent", nil)
	child := screentest.New("child", nil)
	lifecycle.ActivateWith(child, parent)

	require.NoError(t, parent.Activate(ctx))
	assert.True(t, child.IsActive())

	require.NoError(t, parent.Deactivate(ctx, false))
	assert.True(t, child.IsActive(), "ActivateWith does not deactivate")
}

func TestDeactivateWithForwardsClose(t *testing.T) {
	ctx := context.Background()
	parent := screentest.New("parent", nil)
	child := screentest.New("child", nil)
	lifecycle.DeactivateWith(child, parent)

	require.NoError(t, parent.Activate(ctx))
	require.NoError(t, child.Activate(ctx))

	require.NoError(t, parent.Deactivate(ctx, false))
	assert.False(t, child.IsActive())
	assert.Zero(t, child.Closes)

	require.NoError(t, parent.Deactivate(ctx, true))
	assert.Equal(t, 1, child.Closes, "an initialized child closes with its parent")
}

func TestConductWith(t *testing.T) {
	ctx := context.Background()
	parent := screentest.New("parent", nil)
	child := screentest.New("child", nil)
	unsubscribe := lifecycle.ConductWith(child, parent)

	require.NoError(t, parent.Activate(ctx))
	assert.True(t, child.IsActive())
	require.NoError(t, parent.Deactivate(ctx, false))
	assert.False(t, child.IsActive())

	unsubscribe()
	assert.Zero(t, parent.Activated().Len())
	assert.Zero(t, parent.Deactivated().Len())

	require.NoError(t, parent.Activate(ctx))
	assert.False(t, child.IsActive())
}

func TestConductWithDetachesWhenChildCloses(t *testing.T) {
	ctx := context.Background()
	parent := screentest.New("parent", nil)
	child := screentest.New("child", nil)
	lifecycle.ConductWith(child, parent)

	require.NoError(t, child.Activate(ctx))
	require.NoError(t, child.Deactivate(ctx, true))

	assert.Zero(t, parent.Activated().Len())
	assert.Zero(t, parent.Deactivated().Len())
}

func TestConductWithReopenedChild(t *testing.T) {
	ctx := context.Background()
	child := screentest.New("child", nil)
	require.NoError(t, child.Activate(ctx))
	require.NoError(t, child.Deactivate(ctx, true))

	stale := screentest.New("stale", nil)
	lifecycle.ConductWith(child, stale)
	assert.Zero(t, stale.Activated().Len(), "closed child detaches at once")

	require.NoError(t, child.Activate(ctx))
	require.NoError(t, child.Deactivate(ctx, false))

	parent := screentest.New("parent", nil)
	lifecycle.ConductWith(child, parent)
	require.NoError(t, parent.Activate(ctx))
	assert.True(t, child.IsActive())

	require.NoError(t, parent.Deactivate(ctx, true))
	assert.False(t, child.IsActive())
	assert.Equal(t, 2, child.Closes)
	assert.Zero(t, parent.Activated().Len(), "second close detaches")
}

func TestActivateWithDropsCollectedChild(t *testing.T) {
	ctx := context.Background()
	parent := lifecycle.NewScreen()
	attachTransientChild(parent)
	require.Equal(t, 1, parent.Activated().Len())

	for i := 0; i < 20 && parent.Activated().Len() > 0; i++ {
		runtime.GC()
		require.NoError(t, parent.Activate(ctx))
		require.NoError(t, parent.Deactivate(ctx, false))
	}
	assert.Zero(t, parent.Activated().Len(), "handler for a collected child removes itself")
}

//go:noinline
func attachTransientChild(parent *lifecycle.Screen) {
	child := lifecycle.NewScreen()
	lifecycle.ActivateWith(child, parent)
}
