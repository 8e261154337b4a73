// Package event classifies raw Lambda invocation payloads.
//
// Only two fields are ever inspected: "source", set by scheduled EventBridge
// rules and warm-up tooling, and "httpMethod", set by API Gateway REST proxy
// integrations. Everything else is passed through untouched.
package event

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	FieldSource     = "source"
	FieldHTTPMethod = "httpMethod"
)

type Kind int

const (
	Unknown Kind = iota
	Warmup
	HTTP
)

func (k Kind) String() string {
	switch k {
	case Warmup:
		return "warmup"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Source returns the payload's "source" field, or "" when it is missing or not
// a string.
func Source(payload []byte) string {
	return stringField(payload, FieldSource)
}

// HTTPMethod returns the payload's "httpMethod" field, or "" when it is missing
// or not a string.
func HTTPMethod(payload []byte) string {
	return stringField(payload, FieldHTTPMethod)
}

// Classify decides how an invocation is handled. A warm-up match wins over
// everything else; an empty warmupSource never matches.
func Classify(payload []byte, warmupSource string) Kind {
	if src := Source(payload); src != "" && src == warmupSource {
		return Warmup
	}
	if HTTPMethod(payload) != "" {
		return HTTP
	}
	return Unknown
}

// DecodeProxyRequest decodes an API Gateway REST proxy event.
func DecodeProxyRequest(payload []byte) (events.APIGatewayProxyRequest, error) {
	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return req, errors.Wrap(err, "event: decode proxy request")
	}
	return req, nil
}

func stringField(payload []byte, field string) string {
	if !gjson.ValidBytes(payload) {
		return ""
	}
	v := gjson.GetBytes(payload, field)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}
