// Package app builds and starts fx applications on top of an HTTP engine.
package app

import (
	"context"
	"sync"

	"github.com/aura-studio/fxlambda/engine"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Factory constructs an application from its root module. A nil adapter selects
// the gin engine.
type Factory func(module fx.Option, adapter engine.Adapter, opts ...fx.Option) (*App, error)

// App is a constructed fx application together with the engine it serves on.
type App struct {
	fx      *fx.App
	adapter engine.Adapter

	mu      sync.Mutex
	started bool
}

var _ Factory = New

// New constructs the fx graph for module. The adapter's router and the App
// itself are injectable; opts are appended after the module.
func New(module fx.Option, adapter engine.Adapter, opts ...fx.Option) (*App, error) {
	if module == nil {
		return nil, errors.New("app: nil module")
	}
	if adapter == nil {
		adapter = engine.NewGin()
	}

	a := &App{adapter: adapter}

	options := make([]fx.Option, 0, len(opts)+3)
	options = append(options, adapter.Provide(), fx.Supply(a), module)
	options = append(options, opts...)

	a.fx = fx.New(options...)
	if err := a.fx.Err(); err != nil {
		return nil, errors.Wrap(err, "app: construct")
	}

	return a, nil
}

// Init runs the application's start hooks. Calling it again after a
// successful start does nothing.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}
	if err := a.fx.Start(ctx); err != nil {
		return errors.Wrap(err, "app: init")
	}
	a.started = true

	return nil
}

// Stop runs the application's stop hooks if it was started.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}
	a.started = false
	if err := a.fx.Stop(ctx); err != nil {
		return errors.Wrap(err, "app: stop")
	}

	return nil
}

func (a *App) Started() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

func (a *App) Adapter() engine.Adapter {
	return a.adapter
}

// Instance returns the underlying router, see engine.Adapter.
func (a *App) Instance() any {
	return a.adapter.Instance()
}

func (a *App) Kind() engine.Kind {
	return a.adapter.Kind()
}
