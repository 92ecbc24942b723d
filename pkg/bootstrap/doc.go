// Package bootstrap wires the collaborators a lifecycle application needs
// and displays its root screen.
//
// The lifecycle packages depend on three capabilities they do not provide:
// an [Injector] that fills in services on constructed models, a
// [ViewLocator] that finds the view for a model, and a UI-thread dispatcher.
// A [Bootstrapper] installs them together with logging and error reporting,
// then builds up, binds and activates the root screen.
package bootstrap
