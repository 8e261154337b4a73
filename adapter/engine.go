// Package adapter runs an fx HTTP application as an AWS Lambda function.
//
// The handler answers warm-up pings immediately, drops events that are not
// API Gateway proxy requests, and proxies everything else to an application
// that is built on first use and kept for the life of the execution context.
package adapter

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aura-studio/fxlambda/app"
	"github.com/aura-studio/fxlambda/engine"
	"github.com/aura-studio/fxlambda/event"
	"github.com/aura-studio/fxlambda/warmup"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WarmupResponse is returned for warm-up pings.
const WarmupResponse = warmup.Response

// Handler matches the signature lambda.Start expects. The result is
// WarmupResponse, nil, or an events.APIGatewayProxyResponse.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

type Engine struct {
	*Options
	module fx.Option

	mu  sync.Mutex
	app *app.App
}

func NewEngine(module fx.Option, opts ...Option) *Engine {
	e := &Engine{
		Options: NewOptions(opts...),
		module:  module,
	}

	if !e.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	return e
}

// NewHandler returns a Lambda handler serving module. Each handler owns its
// own application cache.
func NewHandler(module fx.Option, opts ...Option) Handler {
	return NewEngine(module, opts...).Invoke
}

// App returns the cached application, or nil before the first HTTP invocation.
func (e *Engine) App() *app.App {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.app
}

// Invoke handles one Lambda invocation.
//
// Bootstrap and dispatch failures are logged once and, unless PropagateErrors
// is set, reported to the runtime as an empty result.
func (e *Engine) Invoke(ctx context.Context, payload json.RawMessage) (rsp any, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Errorf("panic: %v", v)
		}
		if err != nil {
			e.Logger.Error("Couldn't start server", e.fields(ctx, zap.Error(err))...)
			rsp = nil
			if !e.PropagateErrors {
				err = nil
			}
		}
	}()

	kind := event.Classify(payload, e.WarmupSource)
	if e.DebugMode {
		e.Logger.Debug("invocation", e.fields(ctx, zap.Stringer("kind", kind))...)
	}

	switch kind {
	case event.Warmup:
		return WarmupResponse, nil
	case event.HTTP:
		a, err := e.acquire(ctx)
		if err != nil {
			return nil, err
		}
		return e.dispatch(ctx, a, payload)
	default:
		return nil, nil
	}
}

// Close stops the cached application. The next HTTP invocation builds a new one.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	a := e.app
	e.app = nil
	e.mu.Unlock()

	if a == nil {
		return nil
	}
	return a.Stop(ctx)
}

func (e *Engine) acquire(ctx context.Context) (*app.App, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.app != nil {
		return e.app, nil
	}

	a, err := e.bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	e.app = a

	return a, nil
}

func (e *Engine) bootstrap(ctx context.Context) (*app.App, error) {
	var adapter engine.Adapter
	if e.Engine == engine.Fiber {
		if e.FiberConfig != nil {
			adapter = engine.NewFiber(*e.FiberConfig)
		} else {
			adapter = engine.NewFiber()
		}
	}

	a, err := e.Factory(e.module, adapter, e.fxOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "adapter: create app")
	}
	if a == nil {
		return nil, errors.New("adapter: factory returned no app")
	}

	if e.BeforeInit != nil {
		e.BeforeInit(a)
	}

	if err := a.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "adapter: init app")
	}

	if e.Engine == engine.Fiber {
		if err := a.Adapter().Ready(ctx); err != nil {
			return nil, errors.Wrap(err, "adapter: wait for fiber")
		}
	}

	if e.AfterInit != nil {
		e.AfterInit(a)
	}

	if e.DebugMode {
		e.Logger.Debug("application ready", zap.Stringer("engine", a.Kind()))
	}

	return a, nil
}

func (e *Engine) dispatch(ctx context.Context, a *app.App, payload []byte) (any, error) {
	req, err := event.DecodeProxyRequest(payload)
	if err != nil {
		return nil, err
	}

	switch e.Engine {
	case engine.Fiber:
		r, ok := a.Instance().(*fiber.App)
		if !ok {
			return nil, errors.Errorf("adapter: fiber engine serving %T", a.Instance())
		}
		resp, err := e.FiberProxy(ctx, r, req, e.BinaryTypes)
		if err != nil {
			return nil, err
		}
		return resp, nil
	default:
		r, ok := a.Instance().(*gin.Engine)
		if !ok {
			return nil, errors.Errorf("adapter: gin engine serving %T", a.Instance())
		}
		resp, err := e.GinProxy(ctx, r, req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

func (e *Engine) fxOptions() []fx.Option {
	logger := &fxevent.ZapLogger{Logger: e.Logger}
	if !e.DebugMode {
		logger.UseLogLevel(zapcore.DebugLevel)
	}

	opts := make([]fx.Option, 0, len(e.FxOptions)+1)
	opts = append(opts, fx.WithLogger(func() fxevent.Logger { return logger }))
	return append(opts, e.FxOptions...)
}

func (e *Engine) fields(ctx context.Context, fields ...zap.Field) []zap.Field {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		fields = append(fields, zap.String("requestId", lc.AwsRequestID))
	}
	if lambdacontext.FunctionName != "" {
		fields = append(fields, zap.String("function", lambdacontext.FunctionName))
	}
	return fields
}
