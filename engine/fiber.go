package engine

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
)

type FiberAdapter struct {
	app *fiber.App
}

// NewFiber creates an adapter around a fiber app built with config, which is
// passed to fiber.New untouched.
func NewFiber(config ...fiber.Config) *FiberAdapter {
	return &FiberAdapter{app: fiber.New(config...)}
}

func (a *FiberAdapter) Kind() Kind {
	return Fiber
}

func (a *FiberAdapter) Instance() any {
	return a.app
}

func (a *FiberAdapter) App() *fiber.App {
	return a.app
}

// Provide makes the app available to modules as *fiber.App and fiber.Router.
func (a *FiberAdapter) Provide() fx.Option {
	return fx.Provide(
		func() *fiber.App { return a.app },
		func() fiber.Router { return a.app },
	)
}

// Ready builds fiber's route tree up front so the first proxied request does
// not pay for it. Routes registered after Ready are picked up on the next
// request.
func (a *FiberAdapter) Ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_ = a.app.Handler()

	return nil
}
