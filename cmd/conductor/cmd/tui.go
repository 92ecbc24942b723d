package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/conductor/pkg/bootstrap"
	"github.com/go-drift/conductor/pkg/conductor"
	"github.com/go-drift/conductor/pkg/config"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/logging"
	"github.com/go-drift/conductor/pkg/screentest"
	"github.com/go-drift/conductor/pkg/shell"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "tui <manifest>",
		Short: "Open the manifest's screens as tabs in the terminal",
		Long: `Open every screen of a scenario manifest as a tab of a one-active
conductor. The manifest's steps are not run.

Keys: tab/shift+tab switch tabs, x closes the active tab, q quits once every
tab agrees to close.`,
		Args: cobra.ExactArgs(1),
		RunE: runTUI,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}

	// stderr shares the terminal with the shell.
	locator := bootstrap.NewTypeViewLocator()
	b, err := bootstrap.New(bootstrap.Options{
		Config:   cfg,
		Logger:   logging.NewNop(),
		Injector: bootstrap.LoggerInjector{},
		Locator:  locator,
	})
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	title := cfg.Shell.Title
	if m.Name != "" {
		title += " · " + m.Name
	}
	registerShellView(ctx, locator, title)

	host, err := newHost(ctx, m)
	if err != nil {
		return err
	}
	if err := b.DisplayRoot(ctx, host); err != nil {
		_ = b.Shutdown(ctx)
		return err
	}
	runErr := shell.Run(ctx, host.View(nil).(shell.Model))
	if err := b.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// registerShellView makes a shell model the default view of a host.
func registerShellView(ctx context.Context, l *bootstrap.TypeViewLocator, title string) {
	bootstrap.RegisterView(l, nil, func(host *shell.Host) (any, error) {
		return shell.New(ctx, title, host), nil
	})
}

// newHost conducts the manifest's screens with the first one selected. The
// selection activates when the shell activates the host.
func newHost(ctx context.Context, m *config.Manifest) (*shell.Host, error) {
	host := conductor.NewOneActive[lifecycle.Screener]()
	host.SetDisplayName(m.Name)
	if m.Strategy == config.StrategyPartial {
		host.SetCloseStrategy(conductor.PartialCloseStrategy[lifecycle.Screener]{})
	}
	j := &screentest.Journal{}
	for _, spec := range m.Screens {
		s := screentest.New(spec.Name, j)
		if !spec.AllowsClose() {
			s.Refuse()
		}
		if spec.FailOn != "" {
			s.Fail(spec.FailOn, fmt.Errorf("%s: %s failed", spec.Name, spec.FailOn))
		}
		host.Items().Add(s)
	}
	if host.Items().Len() > 0 {
		if err := host.ActivateItem(ctx, host.Items().At(0)); err != nil {
			return nil, err
		}
	}
	return host, nil
}
