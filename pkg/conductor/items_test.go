package conductor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/screentest"
)

func TestItemListOwnership(t *testing.T) {
	c := conductor.NewOneActive[lifecycle.Screener]()
	list := c.Items()
	a, b, other := screentest.New("A", nil), screentest.New("B", nil), screentest.New("other", nil)

	list.Add(a, nil, a)
	list.Insert(0, b)
	assert.Equal(t, []string{"B", "A"}, names(list.All()))
	assert.Equal(t, 1, list.Index(a))
	assert.True(t, list.Contains(b))
	assert.Same(t, b, list.At(0))
	assert.Same(t, c, a.Parent())

	assert.False(t, list.Remove(other))
	assert.True(t, list.Remove(a))
	assert.Nil(t, a.Parent())

	owner := conductor.New[lifecycle.Screener]()
	b.SetParent(owner)
	list.Clear()
	assert.Zero(t, list.Len())
	assert.Same(t, owner, b.Parent(), "a parent set elsewhere is kept")
}

func TestItemListInsertClampsIndex(t *testing.T) {
	c := conductor.NewOneActive[lifecycle.Screener]()
	list := c.Items()
	a, b, d := screentest.New("A", nil), screentest.New("B", nil), screentest.New("D", nil)

	list.Insert(5, a)
	list.Insert(-2, b)
	list.Insert(list.Len()+1, d)
	assert.Equal(t, []string{"B", "A", "D"}, names(list.All()))
	assert.Same(t, c, d.Parent())
}

func TestItemListAllIsACopy(t *testing.T) {
	c := conductor.NewOneActive[lifecycle.Screener]()
	c.Items().Add(screentest.New("A", nil))

	all := c.Items().All()
	all[0] = nil
	assert.NotNil(t, c.Items().At(0))
}
