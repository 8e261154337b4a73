// Package eventtest builds raw Lambda payloads for tests.
package eventtest

import (
	"github.com/tidwall/sjson"
)

// Option edits a payload under construction.
type Option func([]byte) []byte

// With sets path to value using sjson path syntax.
func With(path string, value any) Option {
	return func(b []byte) []byte {
		out, err := sjson.SetBytes(b, path, value)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// WithRaw sets path to a raw JSON value.
func WithRaw(path string, raw string) Option {
	return func(b []byte) []byte {
		out, err := sjson.SetRawBytes(b, path, []byte(raw))
		if err != nil {
			panic(err)
		}
		return out
	}
}

// WithHeader sets a single-value request header.
func WithHeader(key, value string) Option {
	return With("headers."+escape(key), value)
}

// WithQuery sets a single-value query string parameter.
func WithQuery(key, value string) Option {
	return With("queryStringParameters."+escape(key), value)
}

// WithBody sets the request body.
func WithBody(body string) Option {
	return With("body", body)
}

// ProxyRequest builds an API Gateway REST proxy event.
func ProxyRequest(method, path string, opts ...Option) []byte {
	b := build([]byte(`{}`),
		With("resource", "/{proxy+}"),
		With("path", path),
		With("httpMethod", method),
		WithRaw("headers", `{}`),
		With("requestContext.stage", "test"),
		With("requestContext.requestId", "test-request"),
		With("requestContext.httpMethod", method),
		With("requestContext.path", path),
		With("isBase64Encoded", false),
	)
	return build(b, opts...)
}

// Warmup builds the ping sent by warm-up tooling.
func Warmup(source string, opts ...Option) []byte {
	return build([]byte(`{}`), append([]Option{With("source", source)}, opts...)...)
}

// Scheduled builds an EventBridge scheduled event from source.
func Scheduled(source string, opts ...Option) []byte {
	b := build([]byte(`{}`),
		With("version", "0"),
		With("id", "test-event"),
		With("detail-type", "Scheduled Event"),
		With("source", source),
		With("region", "us-east-1"),
		WithRaw("detail", `{}`),
	)
	return build(b, opts...)
}

// SQS builds an SQS event carrying one record per body.
func SQS(bodies ...string) []byte {
	b := []byte(`{"Records":[]}`)
	for _, body := range bodies {
		b = build(b,
			With("Records.-1", map[string]any{
				"messageId":   "test-message",
				"body":        body,
				"eventSource": "aws:sqs",
			}),
		)
	}
	return b
}

func build(b []byte, opts ...Option) []byte {
	for _, opt := range opts {
		b = opt(b)
	}
	return b
}

func escape(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
