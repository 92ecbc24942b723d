package lifecycle

import "context"

// Activator is implemented by nodes that can be activated.
type Activator interface {
	// IsActive reports whether the node is active.
	IsActive() bool

	// Activate activates the node. Activating an active node is a no-op.
	Activate(ctx context.Context) error

	// Activated fires after each activation transition.
	Activated() *Event[ActivationEventArgs]
}

// Deactivator is implemented by nodes that can be deactivated and closed.
type Deactivator interface {
	// Deactivate suspends the node, or closes it when close is true.
	Deactivate(ctx context.Context, close bool) error

	// Deactivating fires before deactivation starts. It is not awaited.
	Deactivating() *Event[DeactivationEventArgs]

	// Deactivated fires after deactivation completes.
	Deactivated() *Event[DeactivationEventArgs]
}

// GuardClose is implemented by nodes that may veto being closed.
type GuardClose interface {
	// CanClose reports whether the node may close. Returning false is a
	// normal outcome, not an error.
	CanClose(ctx context.Context) (bool, error)
}

// Closer is implemented by nodes that can ask their owner to close them.
type Closer interface {
	TryClose(ctx context.Context) error
}

// Child is implemented by nodes that track the conductor owning them.
// The parent is a back-reference; it does not own the child.
type Child interface {
	Parent() any
	SetParent(parent any)
}

// Parent is implemented by nodes that own children.
type Parent interface {
	Children() []any
}

// HaveDisplayName is implemented by nodes with a human-readable name.
type HaveDisplayName interface {
	DisplayName() string
	SetDisplayName(name string)
}

// HaveActiveItem is implemented by conductors with a designated active child.
type HaveActiveItem interface {
	// ActiveChild returns the active child, or nil.
	ActiveChild() any
}

// Conductor is the untyped surface of a conductor. Typed conductors in
// package conductor implement it by checking the child's type.
type Conductor interface {
	Parent

	// ActivateChild makes child the conductor's active (or an active) item.
	ActivateChild(ctx context.Context, child any) error

	// DeactivateChild deactivates child, closing it when close is true.
	DeactivateChild(ctx context.Context, child any, close bool) error

	// ActivationProcessed fires when an activation request completes.
	ActivationProcessed() *Event[ActivationProcessedEventArgs]
}

// Screener is the full contract implemented by Screen.
type Screener interface {
	Activator
	Deactivator
	GuardClose
	Closer
	Child
	HaveDisplayName
}

// Optional hooks, detected on the value passed to Screen.Init.
type (
	// Initializer runs once, before the first activation.
	Initializer interface {
		OnInitialize(ctx context.Context) error
	}

	// ActivateHook runs on each activation, before IsActive becomes true.
	ActivateHook interface {
		OnActivate(ctx context.Context) error
	}

	// ActivatedHook runs on each activation, after IsActive becomes true and
	// the Activated event has fired.
	ActivatedHook interface {
		OnActivated(ctx context.Context) error
	}

	// DeactivateHook runs on each deactivation, before IsActive becomes false.
	DeactivateHook interface {
		OnDeactivate(ctx context.Context, close bool) error
	}
)

// ViewCloser is implemented by views that can close themselves, such as
// windows. Screen.TryClose uses it when the screen has no conductor.
type ViewCloser interface {
	CloseView(ctx context.Context) error
}
