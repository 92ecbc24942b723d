package lifecycle

import "context"

// TryActivate activates x if it is an Activator.
func TryActivate(ctx context.Context, x any) error {
	if a := CapabilitiesOf(x).Activator; a != nil {
		return a.Activate(ctx)
	}
	return nil
}

// TryDeactivate deactivates x if it is a Deactivator.
func TryDeactivate(ctx context.Context, x any, close bool) error {
	if d := CapabilitiesOf(x).Deactivator; d != nil {
		return d.Deactivate(ctx, close)
	}
	return nil
}

// TryCanClose asks x whether it may close. Values without a close guard,
// and nil, may always close.
func TryCanClose(ctx context.Context, x any) (bool, error) {
	if g := CapabilitiesOf(x).Guard; g != nil {
		return g.CanClose(ctx)
	}
	return true, nil
}

// CloseItem asks conductor to close item.
func CloseItem(ctx context.Context, conductor Conductor, item any) error {
	return conductor.DeactivateChild(ctx, item, true)
}
