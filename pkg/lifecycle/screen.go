package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/go-drift/conductor/pkg/dispatch"
	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/logging"
)

// Screen is the embeddable implementation of Screener.
//
// The zero value is a usable screen without hooks. To have hooks run, embed
// Screen and call Init with the outer value:
//
//	type home struct {
//	    lifecycle.Screen
//	}
//
//	h := &home{}
//	h.Init(h)
type Screen struct {
	ViewAware

	self   any
	hooks  hooks
	logger *logging.Logger

	id          string
	displayName string
	parent      any

	isInitialized bool
	isActive      bool

	activated       Event[ActivationEventArgs]
	deactivating    Event[DeactivationEventArgs]
	deactivated     Event[DeactivationEventArgs]
	propertyChanged Event[PropertyChangedEventArgs]

	closers []func()
	closed  bool
}

type hooks struct {
	initialize func(ctx context.Context) error
	activate   func(ctx context.Context) error
	activated  func(ctx context.Context) error
	deactivate func(ctx context.Context, close bool) error
}

// NewScreen returns a screen without hooks.
func NewScreen() *Screen {
	s := &Screen{}
	s.Init(s)
	return s
}

// Init binds the screen to the value embedding it. Hooks (Initializer,
// ActivateHook, ActivatedHook, DeactivateHook) are looked up on self once,
// here; events are raised with self as the sender. Call Init before the
// first lifecycle call. A nil self binds the screen to itself.
func (s *Screen) Init(self any) {
	if self == nil {
		self = s
	}
	s.self = self
	s.ViewAware.owner = self
	s.hooks = hooks{}
	if h, ok := self.(Initializer); ok {
		s.hooks.initialize = h.OnInitialize
	}
	if h, ok := self.(ActivateHook); ok {
		s.hooks.activate = h.OnActivate
	}
	if h, ok := self.(ActivatedHook); ok {
		s.hooks.activated = h.OnActivated
	}
	if h, ok := self.(DeactivateHook); ok {
		s.hooks.deactivate = h.OnDeactivate
	}
}

// Self returns the value passed to Init, or the screen itself.
func (s *Screen) Self() any {
	if s.self != nil {
		return s.self
	}
	return s
}

// ID returns a stable unique identifier for the screen.
func (s *Screen) ID() string {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s.id
}

// DisplayName returns the screen's name. It defaults to the Go type of the
// bound value.
func (s *Screen) DisplayName() string {
	if s.displayName == "" {
		return fmt.Sprintf("%T", s.Self())
	}
	return s.displayName
}

// SetDisplayName sets the screen's name.
func (s *Screen) SetDisplayName(name string) {
	if name == s.displayName {
		return
	}
	s.displayName = name
	s.NotifyOfPropertyChange(context.Background(), PropertyDisplayName)
}

func (s *Screen) String() string {
	return s.DisplayName()
}

// Parent returns the conductor owning the screen, or nil.
func (s *Screen) Parent() any {
	return s.parent
}

// SetParent is called by conductors when the screen is added or removed.
func (s *Screen) SetParent(parent any) {
	s.parent = parent
}

// IsActive reports whether the screen is active.
func (s *Screen) IsActive() bool {
	return s.isActive
}

// IsClosed reports whether the screen has closed and not been activated
// since.
func (s *Screen) IsClosed() bool {
	return s.closed
}

// IsInitialized reports whether the screen has been initialized.
func (s *Screen) IsInitialized() bool {
	return s.isInitialized
}

// Activated fires after each activation transition.
func (s *Screen) Activated() *Event[ActivationEventArgs] {
	return &s.activated
}

// Deactivating fires before deactivation starts. Handler errors are reported,
// not returned.
func (s *Screen) Deactivating() *Event[DeactivationEventArgs] {
	return &s.deactivating
}

// Deactivated fires after deactivation completes.
func (s *Screen) Deactivated() *Event[DeactivationEventArgs] {
	return &s.deactivated
}

// PropertyChanged fires when IsActive, IsInitialized, DisplayName or a
// property named through NotifyOfPropertyChange changes.
func (s *Screen) PropertyChanged() *Event[PropertyChangedEventArgs] {
	return &s.propertyChanged
}

// NotifyOfPropertyChange raises PropertyChanged for name.
func (s *Screen) NotifyOfPropertyChange(ctx context.Context, name string) {
	s.propertyChanged.Notify(ctx, s.Self(), PropertyChangedEventArgs{PropertyName: name})
}

// Logger returns the screen's logger: the one set with SetLogger, or the
// process default.
func (s *Screen) Logger() *logging.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.Default()
}

// SetLogger sets the logger used for lifecycle entries.
func (s *Screen) SetLogger(l *logging.Logger) {
	s.logger = l
}

func (s *Screen) log(ctx context.Context, msg string) {
	s.Logger().Info(ctx, msg, zap.String("screen", s.DisplayName()), zap.String("screen_id", s.ID()))
}

// Activate initializes the screen on first use, runs OnActivate, marks it
// active, fires Activated and runs OnActivated. It is a no-op on an active
// screen. Errors from hooks and handlers are returned; state changes made
// before the failure are kept.
func (s *Screen) Activate(ctx context.Context) error {
	if s.isActive {
		return nil
	}
	// A closed screen that activates again is open until its next close.
	s.closed = false

	initialized := false
	if !s.isInitialized {
		if s.hooks.initialize != nil {
			if err := s.hooks.initialize(ctx); err != nil {
				return errors.Wrap("screen.OnInitialize", errors.KindHook, s.DisplayName(), err)
			}
		}
		s.isInitialized = true
		initialized = true
		s.NotifyOfPropertyChange(ctx, PropertyIsInitialized)
	}

	s.log(ctx, "activating")
	if s.hooks.activate != nil {
		if err := s.hooks.activate(ctx); err != nil {
			return errors.Wrap("screen.OnActivate", errors.KindHook, s.DisplayName(), err)
		}
	}
	s.setActive(ctx, true)

	if err := s.activated.Invoke(ctx, s.Self(), ActivationEventArgs{WasInitialized: initialized}); err != nil {
		return errors.Wrap("screen.Activated", errors.KindEvent, s.DisplayName(), err)
	}
	if s.hooks.activated != nil {
		if err := s.hooks.activated(ctx); err != nil {
			return errors.Wrap("screen.OnActivated", errors.KindHook, s.DisplayName(), err)
		}
	}
	return nil
}

// Deactivate suspends the screen, or closes it when close is true. It runs
// when the screen is active, or when it is initialized and close is true.
// Closing releases attached views and runs OnClose cleanups. Deactivate does
// not consult CanClose; callers check first.
func (s *Screen) Deactivate(ctx context.Context, close bool) error {
	if !s.isActive && !(s.isInitialized && close) {
		return nil
	}

	args := DeactivationEventArgs{WasClosed: close}
	s.deactivating.Notify(ctx, s.Self(), args)

	s.log(ctx, "deactivating")
	if s.hooks.deactivate != nil {
		if err := s.hooks.deactivate(ctx, close); err != nil {
			return errors.Wrap("screen.OnDeactivate", errors.KindHook, s.DisplayName(), err)
		}
	}
	s.setActive(ctx, false)

	if err := s.deactivated.Invoke(ctx, s.Self(), args); err != nil {
		return errors.Wrap("screen.Deactivated", errors.KindEvent, s.DisplayName(), err)
	}

	if close {
		s.releaseViews()
		s.runClosers()
		s.log(ctx, "closed")
	}
	return nil
}

func (s *Screen) setActive(ctx context.Context, active bool) {
	if s.isActive == active {
		return
	}
	s.isActive = active
	s.NotifyOfPropertyChange(ctx, PropertyIsActive)
}

// CanClose allows closing. Override it on the embedding type to veto.
func (s *Screen) CanClose(ctx context.Context) (bool, error) {
	return true, nil
}

// TryClose asks the owning conductor to close the screen. Without a
// conductor, a screen with views implementing ViewCloser checks its own
// close guard, closes itself and then closes those views on the UI thread.
func (s *Screen) TryClose(ctx context.Context) error {
	if c, ok := s.parent.(Conductor); ok {
		return c.DeactivateChild(ctx, s.Self(), true)
	}

	var closers []ViewCloser
	for _, v := range s.Views() {
		if vc, ok := v.(ViewCloser); ok {
			closers = append(closers, vc)
		}
	}
	if len(closers) == 0 {
		s.Logger().Info(ctx, "TryClose requires a parent conductor or a view implementing ViewCloser",
			zap.String("screen", s.DisplayName()))
		return nil
	}

	ok, err := TryCanClose(ctx, s.Self())
	if err != nil || !ok {
		return err
	}
	if err := s.Deactivate(ctx, true); err != nil {
		return err
	}
	return dispatch.OnUIThread(ctx, func(ctx context.Context) error {
		for _, vc := range closers {
			if err := vc.CloseView(ctx); err != nil {
				return errors.Wrap("screen.CloseView", errors.KindDispatch, s.DisplayName(), err)
			}
		}
		return nil
	})
}

// OnClose registers cleanup to run when the screen closes, and returns a
// function that unregisters it. Cleanups run once, in reverse order, on the
// next close. If the screen is closed and has not been activated since,
// cleanup runs immediately.
func (s *Screen) OnClose(cleanup func()) (unregister func()) {
	if cleanup == nil {
		return func() {}
	}
	if s.closed {
		cleanup()
		return func() {}
	}
	index := len(s.closers)
	s.closers = append(s.closers, cleanup)
	return func() {
		if index < len(s.closers) {
			s.closers[index] = nil
		}
	}
}

func (s *Screen) runClosers() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.closers) - 1; i >= 0; i-- {
		if s.closers[i] != nil {
			s.closers[i]()
		}
	}
	s.closers = nil
}
