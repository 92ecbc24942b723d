package lifecycle

import (
	"context"
	"weak"
)

// closeNotifier is implemented by Screen.
type closeNotifier interface {
	OnClose(cleanup func()) (unregister func())
}

// ActivateWith activates child whenever parent activates.
//
// The subscription holds child weakly: once child has been collected, the
// next Activated fire removes the handler instead of calling it. The returned
// function removes the subscription immediately; it also runs when child
// closes, if child supports OnClose.
func ActivateWith[C any, PC interface {
	*C
	Activator
}](child PC, parent Activator) (unsubscribe func()) {
	ref := weak.Make((*C)(child))
	var unsub func()
	unsub = parent.Activated().Subscribe(func(ctx context.Context, _ any, _ ActivationEventArgs) error {
		c := ref.Value()
		if c == nil {
			unsub()
			return nil
		}
		return PC(c).Activate(ctx)
	})
	return detachOnClose(child, unsub)
}

// DeactivateWith deactivates child, with the same close flag, whenever
// parent deactivates. It holds child weakly, like ActivateWith.
func DeactivateWith[C any, PC interface {
	*C
	Deactivator
}](child PC, parent Deactivator) (unsubscribe func()) {
	ref := weak.Make((*C)(child))
	var unsub func()
	unsub = parent.Deactivated().Subscribe(func(ctx context.Context, _ any, args DeactivationEventArgs) error {
		c := ref.Value()
		if c == nil {
			unsub()
			return nil
		}
		return PC(c).Deactivate(ctx, args.WasClosed)
	})
	return detachOnClose(child, unsub)
}

// ConductWith combines ActivateWith and DeactivateWith.
//
// Wiring a child that is closed and has not been activated since detaches
// it again at once; activate the child before wiring it to a new parent.
func ConductWith[C any, PC interface {
	*C
	Activator
	Deactivator
}, P interface {
	Activator
	Deactivator
}](child PC, parent P) (unsubscribe func()) {
	stopActivate := ActivateWith[C, PC](child, parent)
	stopDeactivate := DeactivateWith[C, PC](child, parent)
	return func() {
		stopActivate()
		stopDeactivate()
	}
}

func detachOnClose(child any, unsub func()) func() {
	cn, ok := child.(closeNotifier)
	if !ok {
		return unsub
	}
	unregister := cn.OnClose(unsub)
	return func() {
		unregister()
		unsub()
	}
}
