// Package engine wraps the HTTP routers an fx application can be built on.
//
// An Adapter owns one router instance. It provides that router to the fx
// graph so modules can register routes on it, and it reports when the router
// is ready to take traffic.
package engine

import (
	"context"

	"go.uber.org/fx"
)

type Adapter interface {
	// Kind reports which engine backs the adapter.
	Kind() Kind

	// Instance returns the underlying router: *gin.Engine or *fiber.App.
	Instance() any

	// Provide returns the fx option that makes the router injectable.
	Provide() fx.Option

	// Ready blocks until the router can serve requests.
	Ready(ctx context.Context) error
}

// New returns the default adapter for kind.
func New(kind Kind) Adapter {
	switch kind {
	case Fiber:
		return NewFiber()
	default:
		return NewGin()
	}
}
