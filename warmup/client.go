// Package warmup sends keep-warm pings to a function served by the adapter
// package.
package warmup

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/multierr"
)

// Response is what a warm function answers to a ping.
const Response = "Lambda is warm!"

type Client struct {
	*Options
}

// Result describes one ping.
type Result struct {
	ID            string
	StatusCode    int32
	Warm          bool
	FunctionError string
	Payload       []byte
}

func NewClient(opts ...Option) (*Client, error) {
	c := &Client{Options: NewOptions(opts...)}

	if c.FunctionName == "" {
		return nil, errors.New("warmup: function name required")
	}
	if c.Source == "" {
		return nil, errors.New("warmup: source required")
	}

	if c.LambdaClient == nil {
		var loadOpts []func(*config.LoadOptions) error
		if c.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(c.Region))
		}
		cfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "warmup: load aws config")
		}
		c.LambdaClient = lambda.NewFromConfig(cfg)
	}

	return c, nil
}

// Ping invokes the function once and waits for its answer.
func (c *Client) Ping(ctx context.Context) (*Result, error) {
	return c.ping(ctx, 1, 0)
}

// PingN sends n concurrent pings, which keeps up to n execution contexts warm.
// Results are in send order; a failed ping leaves a nil entry and its error is
// part of the returned error.
func (c *Client) PingN(ctx context.Context, n int) ([]*Result, error) {
	if n <= 0 {
		return nil, errors.Errorf("warmup: invalid concurrency %d", n)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    error
		results = make([]*Result, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.ping(ctx, n, i)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	return results, errs
}

func (c *Client) ping(ctx context.Context, concurrency, index int) (*Result, error) {
	id := uuid.NewString()
	payload, err := c.payload(id, concurrency, index)
	if err != nil {
		return nil, err
	}

	timeout := c.DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	input := &lambda.InvokeInput{
		FunctionName:   aws.String(c.FunctionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	}
	if c.Qualifier != "" {
		input.Qualifier = aws.String(c.Qualifier)
	}

	output, err := c.LambdaClient.Invoke(ctx, input)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Errorf("warmup: ping %s timed out", id)
		}
		return nil, errors.Wrapf(err, "warmup: ping %s", id)
	}

	r := &Result{
		ID:         id,
		StatusCode: output.StatusCode,
		Payload:    output.Payload,
	}
	if output.FunctionError != nil {
		r.FunctionError = *output.FunctionError
		return r, nil
	}

	answer := gjson.ParseBytes(output.Payload)
	r.Warm = answer.Type == gjson.String && answer.Str == Response

	return r, nil
}

func (c *Client) payload(id string, concurrency, index int) ([]byte, error) {
	b, err := sjson.SetBytes([]byte(`{}`), "source", c.Source)
	if err == nil {
		b, err = sjson.SetBytes(b, "warmupId", id)
	}
	if err == nil && concurrency > 1 {
		b, err = sjson.SetBytes(b, "concurrency", concurrency)
		if err == nil {
			b, err = sjson.SetBytes(b, "index", index)
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "warmup: build payload")
	}
	return b, nil
}
