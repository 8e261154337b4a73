// Package proxy translates one API Gateway proxy event into one request
// against an in-process router and returns the router's response as an API
// Gateway proxy response.
package proxy

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// GinFunc dispatches req to a gin engine.
type GinFunc func(ctx context.Context, r *gin.Engine, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// FiberFunc dispatches req to a fiber app. Responses whose content type is in
// binaryTypes are returned base64-encoded.
type FiberFunc func(ctx context.Context, app *fiber.App, req events.APIGatewayProxyRequest, binaryTypes []string) (events.APIGatewayProxyResponse, error)

var (
	_ GinFunc   = Gin
	_ FiberFunc = Fiber
)

// Gin wraps r in a fresh adapter for this request only.
func Gin(ctx context.Context, r *gin.Engine, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if r == nil {
		return events.APIGatewayProxyResponse{}, errors.New("proxy: nil gin engine")
	}

	resp, err := ginadapter.New(r).ProxyWithContext(ctx, req)
	if err != nil {
		return resp, errors.Wrap(err, "proxy: gin")
	}

	return resp, nil
}

func Fiber(ctx context.Context, app *fiber.App, req events.APIGatewayProxyRequest, binaryTypes []string) (events.APIGatewayProxyResponse, error) {
	if app == nil {
		return events.APIGatewayProxyResponse{}, errors.New("proxy: nil fiber app")
	}

	resp, err := fiberadapter.New(app).ProxyWithContext(ctx, req)
	if err != nil {
		return resp, errors.Wrap(err, "proxy: fiber")
	}

	return EncodeBinary(resp, binaryTypes), nil
}
