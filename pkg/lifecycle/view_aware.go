package lifecycle

import "context"

type defaultViewContext struct{}

// DefaultViewContext is the context a view is attached under when none is given.
var DefaultViewContext any = defaultViewContext{}

// ViewAware tracks the views bound to a model, keyed by view context.
// Screen embeds it; the views are released when the screen closes.
type ViewAware struct {
	owner        any
	views        map[any]any
	viewAttached Event[ViewAttachedEventArgs]
}

// AttachView records view under viewContext and fires ViewAttached.
// A nil viewContext means DefaultViewContext.
func (v *ViewAware) AttachView(ctx context.Context, view any, viewContext any) {
	if viewContext == nil {
		viewContext = DefaultViewContext
	}
	if v.views == nil {
		v.views = make(map[any]any)
	}
	v.views[viewContext] = view
	v.viewAttached.Notify(ctx, v.sender(), ViewAttachedEventArgs{View: view, Context: viewContext})
}

// View returns the view attached under viewContext, or nil.
// A nil viewContext means DefaultViewContext.
func (v *ViewAware) View(viewContext any) any {
	if viewContext == nil {
		viewContext = DefaultViewContext
	}
	return v.views[viewContext]
}

// Views returns every attached view.
func (v *ViewAware) Views() []any {
	out := make([]any, 0, len(v.views))
	for _, view := range v.views {
		out = append(out, view)
	}
	return out
}

// ViewAttached fires when a view is attached.
func (v *ViewAware) ViewAttached() *Event[ViewAttachedEventArgs] {
	return &v.viewAttached
}

func (v *ViewAware) releaseViews() {
	clear(v.views)
}

func (v *ViewAware) sender() any {
	if v.owner != nil {
		return v.owner
	}
	return v
}
