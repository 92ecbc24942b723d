// Package lifecycle defines the activation contracts shared by screens and
// conductors, and provides Screen, the embeddable implementation.
//
// # Contracts
//
// A node opts into the parts of the lifecycle it cares about by implementing
// the small capability interfaces: [Activator], [Deactivator], [GuardClose],
// [Closer] and [Child]. Conductors (see package conductor) look these up once
// per item with [CapabilitiesOf].
//
// # Screens
//
// Embed Screen and bind it to the outer value so its hooks are found:
//
//	type editor struct {
//	    lifecycle.Screen
//	    dirty bool
//	}
//
//	func newEditor() *editor {
//	    e := &editor{}
//	    e.Init(e)
//	    return e
//	}
//
//	func (e *editor) OnActivate(ctx context.Context) error {
//	    // Load the document
//	    return nil
//	}
//
//	func (e *editor) CanClose(ctx context.Context) (bool, error) {
//	    return !e.dirty, nil
//	}
//
// A node moves through Initialized, Active, Deactivated and Closed. It is
// initialized once, on its first activation. Deactivating with close=true is
// terminal: attached views are released and OnClose cleanups run.
//
// # Threading
//
// Screens are NOT thread-safe. Lifecycle calls are expected on the host's UI
// thread (see package dispatch). Conductors serialize their own transitions.
//
// # Parent/child wiring
//
// [ActivateWith], [DeactivateWith] and [ConductWith] make a child follow a
// parent's lifecycle without the subscription keeping the child alive.
package lifecycle
