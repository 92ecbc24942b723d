package shell

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/screentest"
)

func newHost(t *testing.T, screens ...*screentest.Screen) *Host {
	t.Helper()
	host := conductor.NewOneActive[lifecycle.Screener]()
	for _, s := range screens {
		host.Items().Add(s)
	}
	if len(screens) > 0 {
		require.NoError(t, host.ActivateItem(context.Background(), screens[0]))
	}
	return host
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds the resulting command's message back.
func press(t *testing.T, m Model, k string) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(key(k))
	m = next.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	next, _ = m.Update(msg)
	return next.(Model), msg
}

func TestInitActivatesHost(t *testing.T) {
	a := screentest.New("A", nil)
	host := newHost(t, a)
	m := New(context.Background(), "tabs", host)

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	assert.True(t, host.IsActive())
	assert.True(t, a.IsActive())
	assert.Equal(t, "ready", m.status)
}

func TestTabCyclesScreens(t *testing.T) {
	a, b, c := screentest.New("A", nil), screentest.New("B", nil), screentest.New("C", nil)
	host := newHost(t, a, b, c)
	require.NoError(t, host.Activate(context.Background()))
	m := New(context.Background(), "tabs", host)

	m, _ = press(t, m, "tab")
	assert.Same(t, b, host.ActiveItem())
	assert.Equal(t, "B", m.status)

	m, _ = press(t, m, "shift+tab")
	m, _ = press(t, m, "shift+tab")
	assert.Same(t, c, host.ActiveItem())
	assert.True(t, c.IsActive())
	assert.False(t, a.IsActive())
}

func TestCloseActiveScreen(t *testing.T) {
	a, b := screentest.New("A", nil), screentest.New("B", nil).Refuse()
	host := newHost(t, a, b)
	require.NoError(t, host.Activate(context.Background()))
	m := New(context.Background(), "tabs", host)

	m, _ = press(t, m, "x")
	assert.Equal(t, "closed A", m.status)
	assert.Same(t, b, host.ActiveItem())

	m, _ = press(t, m, "x")
	assert.Equal(t, "B refused to close", m.status)
	assert.Equal(t, 1, host.Items().Len())
}

func TestQuitRefused(t *testing.T) {
	host := newHost(t, screentest.New("A", nil).Refuse())
	m := New(context.Background(), "tabs", host)

	m, msg := press(t, m, "q")
	assert.Equal(t, closeCheckMsg{ok: false}, msg)
	assert.Equal(t, "close refused", m.status)
	assert.False(t, m.quitting)
}

func TestQuitClosesHost(t *testing.T) {
	a := screentest.New("A", nil)
	host := newHost(t, a)
	require.NoError(t, host.Activate(context.Background()))
	m := New(context.Background(), "tabs", host)

	next, cmd := m.Update(key("ctrl+c"))
	m = next.(Model)
	next, cmd = m.Update(cmd())
	m = next.(Model)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, host.IsActive())
	assert.Equal(t, 1, a.Closes)
}

func TestLifecycleRunsOnDispatchedThread(t *testing.T) {
	d := screentest.RecordDispatches(t)
	a := screentest.New("A", nil)
	var onUI bool
	a.BeforeActivate = func(ctx context.Context) error {
		onUI = dispatch.IsUIThread(ctx)
		return nil
	}
	host := newHost(t, a)
	m := New(context.Background(), "tabs", host)

	done := make(chan tea.Msg, 1)
	go func() { done <- m.Init()() }()

	require.Eventually(t, func() bool { return d.Pending() == 1 }, time.Second, time.Millisecond)
	d.Flush()
	assert.Equal(t, resultMsg{status: "ready"}, <-done)
	assert.True(t, onUI)
}

func TestDispatchMsgRunsCallback(t *testing.T) {
	m := New(context.Background(), "tabs", newHost(t))
	called := false
	_, cmd := m.Update(dispatchMsg(func() { called = true }))
	assert.True(t, called)
	assert.Nil(t, cmd)
}

func TestView(t *testing.T) {
	a, b := screentest.New("editor", nil), screentest.New("preview", nil)
	m := New(context.Background(), "workspace", newHost(t, a, b))
	m.status = "ready"

	out := m.View()
	assert.Contains(t, out, "workspace")
	assert.Contains(t, out, "editor")
	assert.Contains(t, out, "preview")
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "quit")

	m.err = assert.AnError
	assert.Contains(t, m.View(), "error:")

	empty := New(context.Background(), "workspace", newHost(t))
	assert.Contains(t, empty.View(), "(no screens)")
}
