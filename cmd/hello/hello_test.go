package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aura-studio/fxlambda/adapter"
	"github.com/aura-studio/fxlambda/engine"
	"github.com/aura-studio/fxlambda/event/eventtest"
	"github.com/aura-studio/fxlambda/warmup"
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

func TestHello(t *testing.T) {
	for _, kind := range []engine.Kind{engine.Gin, engine.Fiber} {
		t.Run(kind.String(), func(t *testing.T) {
			h := adapter.NewHandler(Module,
				adapter.WithEngine(kind),
				adapter.WithWarmupSource(warmup.DefaultSource),
				adapter.WithLogger(zap.NewNop()),
			)

			rsp, err := h(context.Background(), eventtest.Warmup(warmup.DefaultSource))
			if err != nil || rsp != adapter.WarmupResponse {
				t.Fatalf("warm-up = %v, %v", rsp, err)
			}

			rsp, err = h(context.Background(), eventtest.ProxyRequest(http.MethodGet, "/"))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			resp, ok := rsp.(events.APIGatewayProxyResponse)
			if !ok {
				t.Fatalf("result = %T", rsp)
			}
			if resp.StatusCode != http.StatusOK || resp.Body != `{"msg":"Hello World!"}` {
				t.Fatalf("response = %d %q", resp.StatusCode, resp.Body)
			}
		})
	}
}
