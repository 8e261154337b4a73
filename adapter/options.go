package adapter

import (
	"github.com/aura-studio/fxlambda/app"
	"github.com/aura-studio/fxlambda/engine"
	"github.com/aura-studio/fxlambda/proxy"
	"github.com/gofiber/fiber/v2"
	"github.com/mohae/deepcopy"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

// Hook receives the constructed application around its initialization.
type Hook func(*app.App)

type Options struct {
	Engine       engine.Kind
	WarmupSource string
	DebugMode    bool

	// Fiber engine only.
	FiberConfig *fiber.Config
	BinaryTypes []string

	BeforeInit Hook
	AfterInit  Hook

	// Passed verbatim to the application factory.
	FxOptions []fx.Option

	// PropagateErrors returns bootstrap and dispatch errors to the Lambda
	// runtime instead of logging and swallowing them.
	PropagateErrors bool

	Logger     *zap.Logger
	Factory    app.Factory
	GinProxy   proxy.GinFunc
	FiberProxy proxy.FiberFunc
}

var defaultOptions = &Options{
	Engine:       engine.Gin,
	WarmupSource: "",
	DebugMode:    false,
	BinaryTypes:  []string{},
	FxOptions:    []fx.Option{},
	Factory:      app.New,
	GinProxy:     proxy.Gin,
	FiberProxy:   proxy.Fiber,
}

func NewOptions(opts ...Option) *Options {
	options := deepcopy.Copy(defaultOptions).(*Options)
	options.init(opts...)
	return options
}

func (o *Options) init(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}

	if o.BinaryTypes == nil {
		o.BinaryTypes = []string{}
	}
	if o.Factory == nil {
		o.Factory = app.New
	}
	if o.GinProxy == nil {
		o.GinProxy = proxy.Gin
	}
	if o.FiberProxy == nil {
		o.FiberProxy = proxy.Fiber
	}
	if o.Logger == nil {
		o.Logger = newLogger(o.DebugMode)
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// WithEngine selects the HTTP engine. It panics on an unknown engine.
func WithEngine(kind engine.Kind) Option {
	return OptionFunc(func(o *Options) {
		k, err := engine.ParseKind(string(kind))
		if err != nil {
			panic(err)
		}
		o.Engine = k
	})
}

// WithWarmupSource sets the event source answered with WarmupResponse.
func WithWarmupSource(source string) Option {
	return OptionFunc(func(o *Options) {
		o.WarmupSource = source
	})
}

func WithDebugMode() Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = true
	})
}

// WithFiberConfig sets the config handed to fiber.New.
func WithFiberConfig(config fiber.Config) Option {
	return OptionFunc(func(o *Options) {
		o.FiberConfig = &config
	})
}

// WithBinaryTypes sets the response content types the fiber engine returns
// base64-encoded.
func WithBinaryTypes(types ...string) Option {
	return OptionFunc(func(o *Options) {
		o.BinaryTypes = append([]string{}, types...)
	})
}

func WithBeforeInit(h Hook) Option {
	return OptionFunc(func(o *Options) {
		o.BeforeInit = h
	})
}

func WithAfterInit(h Hook) Option {
	return OptionFunc(func(o *Options) {
		o.AfterInit = h
	})
}

func WithFxOptions(opts ...fx.Option) Option {
	return OptionFunc(func(o *Options) {
		o.FxOptions = append(o.FxOptions, opts...)
	})
}

func WithErrorPropagation() Option {
	return OptionFunc(func(o *Options) {
		o.PropagateErrors = true
	})
}

func WithLogger(logger *zap.Logger) Option {
	return OptionFunc(func(o *Options) {
		o.Logger = logger
	})
}

func WithFactory(factory app.Factory) Option {
	return OptionFunc(func(o *Options) {
		o.Factory = factory
	})
}

func WithGinProxy(fn proxy.GinFunc) Option {
	return OptionFunc(func(o *Options) {
		o.GinProxy = fn
	})
}

func WithFiberProxy(fn proxy.FiberFunc) Option {
	return OptionFunc(func(o *Options) {
		o.FiberProxy = fn
	})
}
