package screentest

import (
	"context"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

// Hook names accepted by Screen.FailOn.
const (
	HookInitialize = "initialize"
	HookActivate   = "activate"
	HookActivated  = "activated"
	HookDeactivate = "deactivate"
	HookCanClose   = "can_close"
)

// Screen is a lifecycle.Screen that journals every hook and counts calls.
type Screen struct {
	lifecycle.Screen

	// Journal receives one entry per hook call.
	Journal *Journal

	// AllowClose is the answer CanClose gives. New sets it to true.
	AllowClose bool

	// FailOn maps a hook name to the error that hook returns.
	FailOn map[string]error

	// BeforeActivate, when set, runs at the start of OnActivate.
	BeforeActivate func(ctx context.Context) error

	Initializations int
	Activations     int
	Deactivations   int
	Closes          int
	GuardChecks     int
}

// New creates a screen named name that journals to j. A nil j gets a fresh
// journal.
func New(name string, j *Journal) *Screen {
	if j == nil {
		j = &Journal{}
	}
	s := &Screen{Journal: j, AllowClose: true}
	s.Init(s)
	s.SetDisplayName(name)
	return s
}

// Fail makes hook return err and returns s.
func (s *Screen) Fail(hook string, err error) *Screen {
	if s.FailOn == nil {
		s.FailOn = make(map[string]error)
	}
	s.FailOn[hook] = err
	return s
}

// Refuse makes CanClose return false and returns s.
func (s *Screen) Refuse() *Screen {
	s.AllowClose = false
	return s
}

func (s *Screen) OnInitialize(ctx context.Context) error {
	s.Journal.Record("%s.initialize", s.DisplayName())
	s.Initializations++
	return s.FailOn[HookInitialize]
}

func (s *Screen) OnActivate(ctx context.Context) error {
	if s.BeforeActivate != nil {
		if err := s.BeforeActivate(ctx); err != nil {
			return err
		}
	}
	s.Journal.Record("%s.activate", s.DisplayName())
	s.Activations++
	return s.FailOn[HookActivate]
}

func (s *Screen) OnActivated(ctx context.Context) error {
	s.Journal.Record("%s.activated", s.DisplayName())
	return s.FailOn[HookActivated]
}

func (s *Screen) OnDeactivate(ctx context.Context, close bool) error {
	s.Journal.Record("%s.deactivate close=%t", s.DisplayName(), close)
	s.Deactivations++
	if close {
		s.Closes++
	}
	return s.FailOn[HookDeactivate]
}

func (s *Screen) CanClose(ctx context.Context) (bool, error) {
	s.GuardChecks++
	if err := s.FailOn[HookCanClose]; err != nil {
		s.Journal.Record("%s.can_close error", s.DisplayName())
		return false, err
	}
	s.Journal.Record("%s.can_close %t", s.DisplayName(), s.AllowClose)
	return s.AllowClose, nil
}

var _ lifecycle.Screener = (*Screen)(nil)
