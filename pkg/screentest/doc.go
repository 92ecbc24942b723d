// Package screentest provides instrumented screens for exercising lifecycle
// behavior, in tests and in scripted scenario runs.
//
// Every hook of a [Screen] appends an entry to a shared [Journal], so the
// order in which a conductor drives its children can be asserted directly:
//
//	j := &screentest.Journal{}
//	a := screentest.New("A", j)
//	c := conductor.New[*screentest.Screen]()
//	_ = c.Activate(ctx)
//	_ = c.ActivateItem(ctx, a)
//	// j.Entries(): [A.initialize A.activate A.activated]
package screentest
