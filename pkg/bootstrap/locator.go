package bootstrap

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-drift/conductor/pkg/errors"
	"github.com/go-drift/conductor/pkg/lifecycle"
	"github.com/go-drift/conductor/pkg/logging"
)

// ErrViewNotFound is returned when no view is registered for a model.
var ErrViewNotFound = errors.New("bootstrap: no view registered for model")

// Injector fills in dependencies on a constructed instance.
type Injector interface {
	BuildUp(instance any) error
}

// InjectorFunc adapts a function to Injector.
type InjectorFunc func(instance any) error

// BuildUp calls f.
func (f InjectorFunc) BuildUp(instance any) error {
	return f(instance)
}

type loggerSetter interface {
	SetLogger(l *logging.Logger)
}

// LoggerInjector sets Logger on an instance and on every descendant reached
// through lifecycle.Parent. A nil Logger means logging.Default().
type LoggerInjector struct {
	Logger *logging.Logger
}

// BuildUp sets the logger on instance and its children.
func (i LoggerInjector) BuildUp(instance any) error {
	l := i.Logger
	if l == nil {
		l = logging.Default()
	}
	injectLogger(instance, l)
	return nil
}

func injectLogger(instance any, l *logging.Logger) {
	if s, ok := instance.(loggerSetter); ok {
		s.SetLogger(l)
	}
	if p, ok := instance.(lifecycle.Parent); ok {
		for _, child := range p.Children() {
			injectLogger(child, l)
		}
	}
}

// ViewLocator finds the view for a model under a view context.
type ViewLocator interface {
	LocateForModel(model, viewContext any) (any, error)
}

// ViewFactory builds the view for model.
type ViewFactory func(model any) (any, error)

type viewKey struct {
	model   reflect.Type
	context any
}

// TypeViewLocator maps a model's dynamic type, and optionally a view
// context, to a view factory. The zero value is empty and ready to use.
type TypeViewLocator struct {
	mu        sync.RWMutex
	factories map[viewKey]ViewFactory
}

// NewTypeViewLocator returns an empty locator.
func NewTypeViewLocator() *TypeViewLocator {
	return &TypeViewLocator{}
}

// Register binds models with the dynamic type of prototype to factory under
// viewContext. A nil viewContext means lifecycle.DefaultViewContext.
func (l *TypeViewLocator) Register(prototype, viewContext any, factory ViewFactory) {
	key := viewKey{model: reflect.TypeOf(prototype), context: normalizeContext(viewContext)}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.factories == nil {
		l.factories = make(map[viewKey]ViewFactory)
	}
	l.factories[key] = factory
}

// RegisterView binds models of type M to factory under viewContext. M must
// be a concrete type such as a pointer to a screen struct.
func RegisterView[M any](l *TypeViewLocator, viewContext any, factory func(model M) (any, error)) {
	var prototype M
	l.Register(prototype, viewContext, func(model any) (any, error) {
		return factory(model.(M))
	})
}

// LocateForModel builds the view registered for model. A view context
// without its own registration falls back to the default context.
func (l *TypeViewLocator) LocateForModel(model, viewContext any) (any, error) {
	t := reflect.TypeOf(model)
	viewContext = normalizeContext(viewContext)

	l.mu.RLock()
	factory, ok := l.factories[viewKey{model: t, context: viewContext}]
	if !ok {
		factory, ok = l.factories[viewKey{model: t, context: lifecycle.DefaultViewContext}]
	}
	l.mu.RUnlock()

	if !ok {
		return nil, errors.Wrap("bootstrap.LocateForModel", errors.KindCollaborator, fmt.Sprintf("%T", model),
			fmt.Errorf("%w: %T", ErrViewNotFound, model))
	}
	view, err := factory(model)
	if err != nil {
		return nil, errors.Wrap("bootstrap.LocateForModel", errors.KindCollaborator, fmt.Sprintf("%T", model), err)
	}
	return view, nil
}

func normalizeContext(viewContext any) any {
	if viewContext == nil {
		return lifecycle.DefaultViewContext
	}
	return viewContext
}

type viewAttacher interface {
	AttachView(ctx context.Context, view any, viewContext any)
}

// Bind locates the view for model and attaches it when model tracks views.
func Bind(ctx context.Context, locator ViewLocator, model, viewContext any) (any, error) {
	view, err := locator.LocateForModel(model, viewContext)
	if err != nil {
		return nil, err
	}
	if va, ok := model.(viewAttacher); ok {
		va.AttachView(ctx, view, viewContext)
	}
	return view, nil
}
