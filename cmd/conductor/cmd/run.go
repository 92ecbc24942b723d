package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-drift/conductor/cmd/conductor/internal/scenario"
	"github.com/go-drift/conductor/pkg/bootstrap"
	"github.com/go-drift/conductor/pkg/dispatch"
)

var runQuiet bool

func init() {
	cmd := &cobra.Command{
		Use:   "run <manifest>",
		Short: "Run a scripted lifecycle scenario",
		Long: `Run the steps of a scenario manifest and print the lifecycle journal.

Each screen records its hook calls, and the root conductor records every
ActivationProcessed event. A failing step is printed and the run continues;
the command exits non-zero if any step failed.`,
		Args: cobra.ExactArgs(1),
		RunE: runScenario,
	}
	cmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print the journal")
	RegisterCommand(cmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}

	loop := dispatch.NewLoop(cfg.Dispatch.QueueSize)
	locator := bootstrap.NewTypeViewLocator()
	b, err := bootstrap.New(bootstrap.Options{
		Config:   cfg,
		Injector: bootstrap.LoggerInjector{},
		Locator:  locator,
		Dispatch: loop.Dispatch,
	})
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = loop.Run(loopCtx) }()

	s, err := scenario.Build(m, b.Logger())
	if err != nil {
		_ = b.Shutdown(ctx)
		return err
	}
	out := cmd.OutOrStdout()
	if runQuiet {
		out = io.Discard
	}
	s.RegisterView(locator, out)

	// The root is attached, not displayed: activate_root is a step.
	var transcript *scenario.Transcript
	err = dispatch.OnUIThread(ctx, func(ctx context.Context) error {
		view, err := b.Attach(ctx, s.Root)
		if err != nil {
			return err
		}
		transcript = view.(*scenario.Transcript)
		return nil
	})
	if err != nil {
		_ = b.Shutdown(ctx)
		return err
	}

	// Steps run on the loop, as they would on a host's UI thread.
	runErr := dispatch.OnUIThread(ctx, s.Run)
	if err := transcript.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if err := b.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
