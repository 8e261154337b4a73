// Command hello serves a one-route application from Lambda, or on a local
// port when FXLAMBDA_ADDR is set.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aura-studio/fxlambda/adapter"
	"github.com/aura-studio/fxlambda/warmup"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	opts := []adapter.Option{
		adapter.WithWarmupSource(warmup.DefaultSource),
		adapter.WithLogger(logger),
	}
	if p, err := adapter.FindDefaultConfigFile(); err == nil {
		opts = append(opts, adapter.WithConfigFile(p))
	}

	addr := os.Getenv("FXLAMBDA_ADDR")
	if addr == "" {
		adapter.Serve(Module, opts...)
		return
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		if err := adapter.Close(context.Background()); err != nil {
			logger.Error("close", zap.Error(err))
		}
	}()

	if err := adapter.ServeHTTP(addr, Module, opts...); err != nil {
		logger.Fatal("serve", zap.String("addr", addr), zap.Error(err))
	}
}
