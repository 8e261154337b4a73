package engine

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type GinAdapter struct {
	engine *gin.Engine
}

// NewGin creates an adapter around a bare gin engine with panic recovery.
// Request logging is left to the application.
func NewGin() *GinAdapter {
	e := gin.New()
	e.Use(gin.Recovery())

	return &GinAdapter{engine: e}
}

func (a *GinAdapter) Kind() Kind {
	return Gin
}

func (a *GinAdapter) Instance() any {
	return a.engine
}

func (a *GinAdapter) Engine() *gin.Engine {
	return a.engine
}

// Provide makes the engine available to modules as *gin.Engine and gin.IRouter.
func (a *GinAdapter) Provide() fx.Option {
	return fx.Provide(
		func() *gin.Engine { return a.engine },
		func() gin.IRouter { return a.engine },
	)
}

// Ready reports ctx's error. A gin engine resolves routes on every request and
// needs no warm-up.
func (a *GinAdapter) Ready(ctx context.Context) error {
	return ctx.Err()
}
