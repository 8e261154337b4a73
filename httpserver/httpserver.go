// Package httpserver serves a constructed application on a real listener,
// for running the same application outside Lambda.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aura-studio/fxlambda/app"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const shutdownTimeout = 5 * time.Second

var (
	mu       sync.Mutex
	shutdown func(context.Context) error
)

// Serve listens on addr and serves a until Close is called. It returns nil
// after a clean shutdown.
func Serve(addr string, a *app.App) error {
	if a == nil {
		return errors.New("httpserver: nil app")
	}

	switch r := a.Instance().(type) {
	case *gin.Engine:
		srv := &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}
		setShutdown(srv.Shutdown)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrapf(err, "httpserver: listen %s", addr)
		}
		return nil

	case *fiber.App:
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Wrapf(err, "httpserver: listen %s", addr)
		}
		setShutdown(r.ShutdownWithContext)

		if err := r.Listener(ln); err != nil {
			return errors.Wrapf(err, "httpserver: serve %s", addr)
		}
		return nil

	default:
		return errors.Errorf("httpserver: unsupported router %T", r)
	}
}

// Close shuts down the server started by Serve. It does nothing when no
// server is running.
func Close() error {
	mu.Lock()
	fn := shutdown
	shutdown = nil
	mu.Unlock()

	if fn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return errors.Wrap(err, "httpserver: shutdown")
	}
	return nil
}

func setShutdown(fn func(context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	shutdown = fn
}
