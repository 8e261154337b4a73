package warmup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

type mockLambdaClient struct {
	responsePayload []byte
	functionError   *string
	invokeError     error
	failIndex       int
	delay           time.Duration

	mu     sync.Mutex
	inputs []*lambda.InvokeInput
}

func (m *mockLambdaClient) Invoke(ctx context.Context, params *lambda.InvokeInput,
	optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, params)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.invokeError != nil {
		if m.failIndex < 0 || int(gjson.GetBytes(params.Payload, "index").Int()) == m.failIndex {
			return nil, m.invokeError
		}
	}

	return &lambda.InvokeOutput{
		StatusCode:    200,
		Payload:       m.responsePayload,
		FunctionError: m.functionError,
	}, nil
}

func newTestClient(t *testing.T, mock *mockLambdaClient, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(append([]Option{
		WithLambdaClient(mock),
		WithFunctionName("bakery-api"),
	}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestNewClientRequiresFunctionName(t *testing.T) {
	if _, err := NewClient(WithLambdaClient(&mockLambdaClient{})); err == nil {
		t.Fatal("expected error without function name")
	}
	if _, err := NewClient(WithLambdaClient(&mockLambdaClient{}), WithFunctionName("f"), WithSource("")); err == nil {
		t.Fatal("expected error with empty source")
	}
}

func TestPingWarm(t *testing.T) {
	mock := &mockLambdaClient{responsePayload: []byte(`"Lambda is warm!"`)}
	c := newTestClient(t, mock, WithQualifier("live"))

	r, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if !r.Warm {
		t.Errorf("Warm = false for payload %s", r.Payload)
	}
	if r.StatusCode != 200 || r.ID == "" {
		t.Errorf("Result = %+v", r)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("Invoke called %d times, want 1", len(mock.inputs))
	}
	in := mock.inputs[0]
	if aws.ToString(in.FunctionName) != "bakery-api" || aws.ToString(in.Qualifier) != "live" {
		t.Errorf("input = %s:%s", aws.ToString(in.FunctionName), aws.ToString(in.Qualifier))
	}
	if in.InvocationType != types.InvocationTypeRequestResponse {
		t.Errorf("InvocationType = %s", in.InvocationType)
	}
	if got := gjson.GetBytes(in.Payload, "source").String(); got != DefaultSource {
		t.Errorf("source = %q, want %q", got, DefaultSource)
	}
	if got := gjson.GetBytes(in.Payload, "warmupId").String(); got != r.ID {
		t.Errorf("warmupId = %q, want %q", got, r.ID)
	}
	if gjson.GetBytes(in.Payload, "httpMethod").Exists() {
		t.Error("ping payload must not look like an HTTP event")
	}
}

func TestPingNotWarm(t *testing.T) {
	cases := map[string][]byte{
		"null":          []byte(`null`),
		"proxy result":  []byte(`{"statusCode":200,"body":"Lambda is warm!"}`),
		"other string":  []byte(`"hello"`),
		"empty payload": nil,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, &mockLambdaClient{responsePayload: payload})
			r, err := c.Ping(context.Background())
			if err != nil {
				t.Fatalf("Ping() error: %v", err)
			}
			if r.Warm {
				t.Fatalf("Warm = true for %s", payload)
			}
		})
	}
}

func TestPingFunctionError(t *testing.T) {
	mock := &mockLambdaClient{
		responsePayload: []byte(`{"errorMessage":"boom"}`),
		functionError:   aws.String("Unhandled"),
	}
	r, err := newTestClient(t, mock).Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if r.Warm || r.FunctionError != "Unhandled" {
		t.Fatalf("Result = %+v", r)
	}
}

func TestPingInvokeError(t *testing.T) {
	boom := errors.New("throttled")
	c := newTestClient(t, &mockLambdaClient{invokeError: boom, failIndex: -1})

	if _, err := c.Ping(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Ping() error = %v, want %v", err, boom)
	}
}

func TestPingTimeout(t *testing.T) {
	c := newTestClient(t, &mockLambdaClient{delay: time.Second}, WithDefaultTimeout(20*time.Millisecond))

	if _, err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestPingN(t *testing.T) {
	mock := &mockLambdaClient{responsePayload: []byte(`"Lambda is warm!"`)}
	c := newTestClient(t, mock, WithSource("keep-warm"))

	results, err := c.PingN(context.Background(), 4)
	if err != nil {
		t.Fatalf("PingN() error: %v", err)
	}
	if len(results) != 4 || len(mock.inputs) != 4 {
		t.Fatalf("results = %d, invocations = %d, want 4", len(results), len(mock.inputs))
	}

	ids := map[string]bool{}
	for _, r := range results {
		if r == nil || !r.Warm {
			t.Fatalf("result = %+v", r)
		}
		ids[r.ID] = true
	}
	if len(ids) != 4 {
		t.Errorf("ids not unique: %v", ids)
	}

	indexes := map[int64]bool{}
	for _, in := range mock.inputs {
		if gjson.GetBytes(in.Payload, "source").String() != "keep-warm" {
			t.Errorf("payload = %s", in.Payload)
		}
		if gjson.GetBytes(in.Payload, "concurrency").Int() != 4 {
			t.Errorf("payload = %s, want concurrency 4", in.Payload)
		}
		indexes[gjson.GetBytes(in.Payload, "index").Int()] = true
	}
	if len(indexes) != 4 {
		t.Errorf("indexes = %v", indexes)
	}
}

func TestPingNPartialFailure(t *testing.T) {
	boom := errors.New("throttled")
	mock := &mockLambdaClient{
		responsePayload: []byte(`"Lambda is warm!"`),
		invokeError:     boom,
		failIndex:       2,
	}
	c := newTestClient(t, mock)

	results, err := c.PingN(context.Background(), 3)
	if !errors.Is(err, boom) || len(multierr.Errors(err)) != 1 {
		t.Fatalf("PingN() error = %v", err)
	}
	if results[0] == nil || results[1] == nil || results[2] != nil {
		t.Fatalf("results = %v", results)
	}
}

func TestPingNInvalid(t *testing.T) {
	c := newTestClient(t, &mockLambdaClient{})
	if _, err := c.PingN(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
}

func TestPingPayloadProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("ping carries the configured source", prop.ForAll(
		func(source string) bool {
			mock := &mockLambdaClient{responsePayload: []byte(`"Lambda is warm!"`)}
			c, err := NewClient(WithLambdaClient(mock), WithFunctionName("f"), WithSource(source))
			if err != nil {
				return false
			}
			r, err := c.Ping(context.Background())
			if err != nil || !r.Warm {
				return false
			}
			return gjson.GetBytes(mock.inputs[0].Payload, "source").String() == source
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}
