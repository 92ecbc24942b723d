// Package scenario runs scripted lifecycle scenarios described by a
// config.Manifest against instrumented screens.
package scenario

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/config"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/logging"
	"github.com/go-drift/conductor/pkg/screentest"
)

// Root is the conductor a scenario drives.
type Root interface {
	lifecycle.Screener
	conductor.ItemConductor[lifecycle.Screener]
	SetDisplayName(name string)
	SetCloseStrategy(s conductor.CloseStrategy[lifecycle.Screener])
}

// Scenario is a manifest bound to its screens and root conductor.
type Scenario struct {
	Manifest *config.Manifest
	Root     Root
	Journal  *screentest.Journal

	screens map[string]*screentest.Screen
	logger  *logging.Logger
}

// Build creates the screens and root conductor described by m. Every screen
// and the root's ActivationProcessed event write to one journal.
func Build(m *config.Manifest, logger *logging.Logger) (*Scenario, error) {
	if logger == nil {
		logger = logging.Default()
	}
	j := &screentest.Journal{}

	root, err := newRoot(m)
	if err != nil {
		return nil, err
	}
	root.SetDisplayName(m.Name)
	root.ActivationProcessed().Subscribe(func(_ context.Context, _ any, args lifecycle.ActivationProcessedEventArgs) error {
		j.Record("processed %s success=%t", itemName(args.Item), args.Success)
		return nil
	})

	s := &Scenario{
		Manifest: m,
		Root:     root,
		Journal:  j,
		screens:  make(map[string]*screentest.Screen, len(m.Screens)),
		logger:   logger,
	}
	for _, spec := range m.Screens {
		screen := screentest.New(spec.Name, j)
		if !spec.AllowsClose() {
			screen.Refuse()
		}
		if spec.FailOn != "" {
			screen.Fail(spec.FailOn, fmt.Errorf("%s: %s failed", spec.Name, spec.FailOn))
		}
		screen.SetLogger(logger)
		s.screens[spec.Name] = screen
	}
	return s, nil
}

func newRoot(m *config.Manifest) (Root, error) {
	var root Root
	switch m.Conductor {
	case config.KindSingle:
		root = conductor.New[lifecycle.Screener]()
	case config.KindOneActive:
		root = conductor.NewOneActive[lifecycle.Screener]()
	case config.KindAllActive:
		root = conductor.NewAllActive[lifecycle.Screener]()
	default:
		return nil, fmt.Errorf("unknown conductor kind %q", m.Conductor)
	}
	if m.Strategy == config.StrategyPartial {
		root.SetCloseStrategy(conductor.PartialCloseStrategy[lifecycle.Screener]{})
	}
	return root, nil
}

// Screen returns the screen named name.
func (s *Scenario) Screen(name string) (*screentest.Screen, bool) {
	screen, ok := s.screens[name]
	return screen, ok
}

// Run executes the manifest's steps in order. A failing step is journaled
// and the run continues; the returned error counts the failed steps.
func (s *Scenario) Run(ctx context.Context) error {
	failed := 0
	for i, step := range s.Manifest.Steps {
		s.Journal.Record("> %s", step)
		if err := s.Step(ctx, step); err != nil {
			failed++
			s.Journal.Record("error: %v", err)
			s.logger.Warn(ctx, "step failed",
				zap.Int("step", i),
				zap.Stringer("op", step),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(s.Manifest.Steps))
	}
	return nil
}

// Step executes one step.
func (s *Scenario) Step(ctx context.Context, step config.Step) error {
	switch step.Op {
	case config.StepActivateRoot:
		return s.Root.Activate(ctx)
	case config.StepDeactivateRoot:
		return s.Root.Deactivate(ctx, false)
	case config.StepCloseRoot:
		return s.Root.Deactivate(ctx, true)
	case config.StepCanClose:
		ok, err := s.Root.CanClose(ctx)
		if err != nil {
			return err
		}
		s.Journal.Record("can_close %t", ok)
		return nil
	}

	screen, ok := s.screens[step.Target]
	if !ok {
		return fmt.Errorf("unknown screen %q", step.Target)
	}
	switch step.Op {
	case config.StepActivate:
		return s.Root.ActivateItem(ctx, screen)
	case config.StepDeactivate:
		return s.Root.DeactivateItem(ctx, screen, false)
	case config.StepClose:
		return s.Root.DeactivateItem(ctx, screen, true)
	}
	return fmt.Errorf("unknown step %q", step.Op)
}

func itemName(item any) string {
	if item == nil {
		return "<none>"
	}
	if n, ok := item.(lifecycle.HaveDisplayName); ok {
		return n.DisplayName()
	}
	return fmt.Sprintf("%T", item)
}
