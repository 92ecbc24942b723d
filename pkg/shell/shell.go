// Package shell hosts a OneActive conductor in a terminal.
//
// Each conducted screen is a tab. Lifecycle calls run as bubbletea commands
// that hop onto the program's loop through the dispatch package, so screens
// are only ever touched from the goroutine that renders them.
package shell

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/lifecycle"
)

// Host is the conductor a shell drives.
type Host = conductor.OneActive[lifecycle.Screener]

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("24")).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			MarginTop(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// dispatchMsg carries a callback posted to the UI thread.
type dispatchMsg func()

// resultMsg reports a finished lifecycle command.
type resultMsg struct {
	status string
	err    error
}

// closeCheckMsg reports the host's answer to a quit request.
type closeCheckMsg struct {
	ok  bool
	err error
}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx      context.Context
	title    string
	host     *Host
	status   string
	err      error
	quitting bool
}

// New returns a shell for host. Lifecycle calls use ctx.
func New(ctx context.Context, title string, host *Host) Model {
	return Model{ctx: ctx, title: title, host: host}
}

// Dispatcher returns a dispatch function that delivers callbacks to p's
// loop. Register it with dispatch.RegisterDispatch while p runs.
func Dispatcher(p *tea.Program) func(callback func()) {
	return func(callback func()) {
		p.Send(dispatchMsg(callback))
	}
}

// Run starts a program for m, routes UI-thread dispatch into it and blocks
// until it exits.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)
	dispatch.RegisterDispatch(Dispatcher(p))
	defer dispatch.RegisterDispatch(nil)
	_, err := p.Run()
	return err
}

// Init activates the host.
func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		if err := m.host.Activate(ctx); err != nil {
			return "", err
		}
		return "ready", nil
	})
}

// Update handles keys, dispatched callbacks and command results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m, m.cycle(1)
		case "shift+tab":
			return m, m.cycle(-1)
		case "x":
			return m, m.closeActive()
		case "q", "ctrl+c":
			return m, m.requestQuit()
		}

	case resultMsg:
		m.status, m.err = msg.status, msg.err
		return m, nil

	case closeCheckMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if !msg.ok {
			m.status, m.err = "close refused", nil
			return m, nil
		}
		m.quitting = true
		return m, m.shutdown()
	}
	return m, nil
}

func (m Model) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		var status string
		err := dispatch.OnUIThread(ctx, func(ctx context.Context) error {
			var err error
			status, err = fn(ctx)
			return err
		})
		return resultMsg{status: status, err: err}
	}
}

func (m Model) cycle(dir int) tea.Cmd {
	host := m.host
	return m.run(func(ctx context.Context) (string, error) {
		items := host.Items().All()
		if len(items) == 0 {
			return "no screens", nil
		}
		i := slices.Index(items, host.ActiveItem())
		next := items[((i+dir)%len(items)+len(items))%len(items)]
		if err := host.ActivateItem(ctx, next); err != nil {
			return "", err
		}
		return next.DisplayName(), nil
	})
}

func (m Model) closeActive() tea.Cmd {
	host := m.host
	return m.run(func(ctx context.Context) (string, error) {
		active := host.ActiveItem()
		if active == nil {
			return "nothing to close", nil
		}
		if err := host.DeactivateItem(ctx, active, true); err != nil {
			return "", err
		}
		if host.Items().Contains(active) {
			return active.DisplayName() + " refused to close", nil
		}
		return "closed " + active.DisplayName(), nil
	})
}

func (m Model) requestQuit() tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		var ok bool
		err := dispatch.OnUIThread(ctx, func(ctx context.Context) error {
			var err error
			ok, err = host.CanClose(ctx)
			return err
		})
		return closeCheckMsg{ok: ok, err: err}
	}
}

func (m Model) shutdown() tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		err := dispatch.OnUIThread(ctx, func(ctx context.Context) error {
			return host.Deactivate(ctx, true)
		})
		if err != nil {
			return resultMsg{err: err}
		}
		return tea.Quit()
	}
}

// View renders the tabs, the last status and the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	active := m.host.ActiveItem()
	var tabs []string
	for _, item := range m.host.Items().All() {
		if item == active {
			tabs = append(tabs, activeTabStyle.Render(item.DisplayName()))
		} else {
			tabs = append(tabs, tabStyle.Render(item.DisplayName()))
		}
	}
	if len(tabs) == 0 {
		tabs = append(tabs, tabStyle.Render("(no screens)"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	keys := []string{
		footerKeyStyle.Render("tab") + " next",
		footerKeyStyle.Render("shift+tab") + " previous",
		footerKeyStyle.Render("x") + " close",
		footerKeyStyle.Render("q") + " quit",
	}
	b.WriteString(footerStyle.Render(strings.Join(keys, "  ")))
	b.WriteString("\n")
	return b.String()
}
