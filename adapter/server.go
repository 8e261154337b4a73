package adapter

import (
	"context"
	"sync"

	"github.com/aura-studio/fxlambda/httpserver"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/fx"
)

var (
	mu sync.Mutex
	// current is the engine started by Serve or ServeHTTP.
	current *Engine
)

func setCurrent(e *Engine) *Engine {
	mu.Lock()
	defer mu.Unlock()
	current = e
	return e
}

// Serve builds an Engine for module and hands it to the Lambda runtime.
func Serve(module fx.Option, opts ...Option) {
	e := setCurrent(NewEngine(module, opts...))
	lambda.Start(e.Invoke)
}

// ServeHTTP builds the same application Serve would and serves it on addr,
// for running locally.
func ServeHTTP(addr string, module fx.Option, opts ...Option) error {
	e := setCurrent(NewEngine(module, opts...))

	a, err := e.acquire(context.Background())
	if err != nil {
		return err
	}

	return httpserver.Serve(addr, a)
}

// Close stops the local server, if any, and the cached application.
func Close(ctx context.Context) error {
	if err := httpserver.Close(); err != nil {
		return err
	}
	mu.Lock()
	e := current
	mu.Unlock()

	if e == nil {
		return nil
	}
	return e.Close(ctx)
}
