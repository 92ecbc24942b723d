// Package conductor implements screens that own the lifecycle of other
// screens.
//
// A conductor tracks one or more items and keeps their activation in step
// with its own: while the conductor is active its active items are active,
// and deactivating or closing the conductor deactivates or closes them.
// Replacing or closing an item first runs the conductor's [CloseStrategy],
// which asks every candidate implementing [lifecycle.GuardClose] whether it
// may close.
//
// Three conductors are provided:
//
//   - [Conductor] holds a single active item. Activating another item
//     closes the current one.
//   - [OneActive] holds a list of items with one of them active. Switching
//     items deactivates the previous one without closing it; closing the
//     active item activates a neighbour.
//   - [AllActive] holds a list of items that are all active while the
//     conductor is.
//
// Activating an item on a conductor follows a fixed order. The active item
// is replaced and the change is announced before the outgoing item is
// deactivated, and the incoming item is activated only after that
// deactivation returns and only if the conductor itself is active.
// [lifecycle.Conductor.ActivationProcessed] reports the outcome.
//
// # Transitions
//
// Each conductor serializes its transitions: ActivateItem, DeactivateItem,
// CanClose and the conductor's own activation and deactivation take a
// per-conductor lock. The lock is carried by the context passed to item
// hooks, so a hook may call back into its conductor as long as it passes on
// the context it was given. Calling back with an unrelated context from
// inside a hook blocks until the transition completes, which it never will.
// dispatch.BeginOnUIThread takes the hook's context for this reason: run
// inline it keeps the lock, and posted to a loop it waits its turn once the
// transition has released.
//
// Transitions are traced with OpenTelemetry and counted with Prometheus
// metrics under the conductor_lifecycle prefix.
package conductor
