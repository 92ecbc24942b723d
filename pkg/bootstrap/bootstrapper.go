package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/conductor/pkg/config"
	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/logging"
)

// Options configures a Bootstrapper. Every field is optional.
type Options struct {
	// Config supplies logging settings when Logger is nil.
	Config *config.Config
	// Logger becomes the process default logger.
	Logger *logging.Logger
	// ErrorHandler receives unreturnable errors. It defaults to a
	// LogHandler writing to Logger.
	ErrorHandler errors.ErrorHandler
	// Injector builds up the root before it is displayed.
	Injector Injector
	// Locator finds the root's view. Without it no view is bound.
	Locator ViewLocator
	// Dispatch schedules callbacks on the host's UI thread.
	Dispatch func(callback func())
}

// Bootstrapper installs process-wide collaborators and runs the root screen.
type Bootstrapper struct {
	opts   Options
	logger *logging.Logger
	root   any
}

// New installs the logger, error handler and dispatcher described by opts.
func New(opts Options) (*Bootstrapper, error) {
	logger := opts.Logger
	if logger == nil {
		cfg := opts.Config
		if cfg == nil {
			cfg = config.Default()
		}
		l, err := logging.NewLogger(&cfg.Log)
		if err != nil {
			return nil, errors.Wrap("bootstrap.New", errors.KindCollaborator, "", fmt.Errorf("logger: %w", err))
		}
		logger = l
	}
	logging.SetDefault(logger)

	handler := opts.ErrorHandler
	if handler == nil {
		handler = &errors.LogHandler{Logger: logger}
	}
	errors.SetHandler(handler)

	if opts.Dispatch != nil {
		dispatch.RegisterDispatch(opts.Dispatch)
	}
	return &Bootstrapper{opts: opts, logger: logger}, nil
}

// Logger returns the installed logger.
func (b *Bootstrapper) Logger() *logging.Logger {
	return b.logger
}

// Root returns the displayed root, or nil.
func (b *Bootstrapper) Root() any {
	return b.root
}

// Attach builds up root and binds its view without activating it. The root
// is closed by Shutdown. It returns the bound view, or nil without a Locator.
func (b *Bootstrapper) Attach(ctx context.Context, root any) (view any, err error) {
	view, _, err = b.prepare(ctx, root)
	if err != nil {
		return nil, err
	}
	b.root = root
	return view, nil
}

// DisplayRoot builds up root, binds its view and activates it.
func (b *Bootstrapper) DisplayRoot(ctx context.Context, root any) error {
	_, name, err := b.prepare(ctx, root)
	if err != nil {
		return err
	}
	if err := lifecycle.TryActivate(ctx, root); err != nil {
		return err
	}
	b.root = root
	b.logger.Info(ctx, "root displayed", zap.String("root", name))
	return nil
}

func (b *Bootstrapper) prepare(ctx context.Context, root any) (view any, name string, err error) {
	if root == nil {
		return nil, "", errors.Wrap("bootstrap.DisplayRoot", errors.KindCollaborator, "", fmt.Errorf("root is nil"))
	}
	name = fmt.Sprintf("%T", root)
	if n, ok := root.(lifecycle.HaveDisplayName); ok {
		name = n.DisplayName()
	}

	if b.opts.Injector != nil {
		if err := b.opts.Injector.BuildUp(root); err != nil {
			return nil, name, errors.Wrap("bootstrap.BuildUp", errors.KindCollaborator, name, err)
		}
	}
	if b.opts.Locator != nil {
		if view, err = Bind(ctx, b.opts.Locator, root, nil); err != nil {
			return nil, name, err
		}
	}
	return view, name, nil
}

type closedReporter interface {
	IsClosed() bool
}

// Shutdown closes the root without consulting its close guard, unregisters
// the dispatcher installed by New and flushes the logger. A root that has
// already closed is left alone.
func (b *Bootstrapper) Shutdown(ctx context.Context) error {
	var err error
	if b.root != nil {
		if c, ok := b.root.(closedReporter); !ok || !c.IsClosed() {
			err = lifecycle.TryDeactivate(ctx, b.root, true)
		}
		b.root = nil
	}
	if b.opts.Dispatch != nil {
		dispatch.RegisterDispatch(nil)
	}
	b.logger.Info(ctx, "shutdown complete")
	_ = b.logger.Sync()
	return err
}
