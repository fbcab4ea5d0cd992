package contentstack

import (
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// Client is the single entry point bridging logical service requests to the
// execution pipeline. It owns the configuration, the serializer settings, the
// transport resource and the pipeline, and is safe for concurrent use: each
// call gets its own ExecutionContext, and the only shared state is the
// read-only configuration and the transport.
type Client struct {
	config          Config
	httpClient      *http.Client
	transport       *http.Transport
	pipeline        *Pipeline
	serializer      jsoniter.API
	logger          Logger
	metrics         *MetricsCollector
	policy          RetryPolicy
	backoffStrategy BackoffStrategy
	converters      []Converter
	requestID       func() string

	closeOnce sync.Once
	closed    atomic.Bool
}

// New constructs a Client from the provided functional options. The
// configuration is validated and frozen here; changing it requires a new
// client.
func New(options ...Option) (*Client, error) {
	c := &Client{
		config:    defaultConfig(),
		requestID: uuid.NewString,
	}

	for _, option := range options {
		option(c)
	}

	if err := c.config.validate(); err != nil {
		return nil, err
	}

	if c.logger == nil {
		if c.config.EnableLogging {
			c.logger = NewStructuredLogger(os.Stderr)
		} else {
			c.logger = NewNopLogger()
		}
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.config.Proxy != nil {
			transport.Proxy = http.ProxyURL(c.config.Proxy.url())
		}
		c.transport = transport
		c.httpClient = &http.Client{
			Transport: transport,
			// Enforced per attempt, not cumulatively across retries.
			Timeout: c.config.Timeout,
		}
	}

	if c.policy == nil {
		c.policy = NewDefaultRetryPolicyWithStrategy(
			c.config.MaxRetries,
			c.config.InitialBackoff,
			c.config.MaxBackoff,
			c.config.BackoffMultiplier,
			c.config.Jitter,
			c.backoffStrategy,
		)
	}

	c.serializer = newSerializer(c.converters)
	c.pipeline = newPipeline(c.httpClient, c.policy, c.config.RetryOnError, c.serializer, c.logger, c.metrics)

	c.logger.Debug("Client constructed", "host", c.config.Host, "version", c.config.APIVersion)
	return c, nil
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// NewRequest builds a Request for the given method and relative path,
// serializing payload as the JSON body when non-nil.
func (c *Client) NewRequest(method, path string, payload any) (*Request, error) {
	req := NewRequest(method, path)
	if payload != nil {
		data, err := c.serializer.Marshal(payload)
		if err != nil {
			return nil, &RequestError{
				Type:      ErrorTypeSerialization,
				Message:   "cannot serialize request payload",
				Cause:     err,
				Timestamp: time.Now(),
			}
		}
		req.SetBody(data)
	}
	return req, nil
}

// Invoke runs req through the pipeline and blocks until it resolves. After
// Close it fails fast with the disposed-client error and performs no I/O.
func (c *Client) Invoke(ctx context.Context, req ServiceRequest) (*Response, error) {
	if c.closed.Load() {
		return nil, closedError()
	}
	return c.pipeline.Invoke(ctx, c.newExecutionContext(req))
}

// InvokeAsync runs req through the pipeline without blocking the caller. The
// returned channel delivers exactly one Result; abandoning it stops waiting
// but does not recall an in-flight network call.
func (c *Client) InvokeAsync(ctx context.Context, req ServiceRequest) <-chan Result {
	if c.closed.Load() {
		out := make(chan Result, 1)
		out <- Result{Err: closedError()}
		close(out)
		return out
	}
	return c.pipeline.InvokeAsync(ctx, c.newExecutionContext(req))
}

// Decode maps a buffered response body onto v using the client's serializer
// settings.
func (c *Client) Decode(resp *Response, v any) error {
	if err := c.serializer.Unmarshal(resp.Body, v); err != nil {
		return &RequestError{
			Type:       ErrorTypeSerialization,
			Message:    "cannot decode response body",
			Cause:      err,
			StatusCode: resp.StatusCode,
			Timestamp:  time.Now(),
		}
	}
	return nil
}

// Marshal serializes v with the client's serializer settings.
func (c *Client) Marshal(v any) ([]byte, error) {
	return c.serializer.Marshal(v)
}

// Close releases the transport resource and the pipeline. It is idempotent,
// and calls issued afterwards fail fast with the disposed-client error.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.pipeline.Close()
		if c.transport != nil {
			c.transport.CloseIdleConnections()
		} else if c.httpClient != nil {
			c.httpClient.CloseIdleConnections()
		}
		c.logger.Debug("Client closed")
	})
}

// newExecutionContext builds the per-call carrier. The request side is fixed
// here and read-only downstream; the response side starts empty.
func (c *Client) newExecutionContext(req ServiceRequest) *ExecutionContext {
	return &ExecutionContext{
		Request: RequestContext{
			Config:  &c.config,
			Service: req,
			ID:      c.requestID(),
			Started: time.Now(),
		},
	}
}

// TypedResult is the resolved outcome of one typed asynchronous invocation.
type TypedResult[T any] struct {
	Value    *T
	Response *Response
	Err      error
}

// Invoke runs req through c's pipeline and deserializes the response body
// into T. On error the raw response, when one was received, is returned for
// inspection.
func Invoke[T any](ctx context.Context, c *Client, req ServiceRequest) (*T, *Response, error) {
	resp, err := c.Invoke(ctx, req)
	if err != nil {
		return nil, resp, err
	}
	out := new(T)
	if err := c.Decode(resp, out); err != nil {
		return nil, resp, err
	}
	return out, resp, nil
}

// InvokeAsync is the channel-based form of Invoke.
func InvokeAsync[T any](ctx context.Context, c *Client, req ServiceRequest) <-chan TypedResult[T] {
	out := make(chan TypedResult[T], 1)
	go func() {
		defer close(out)
		value, resp, err := Invoke[T](ctx, c, req)
		out <- TypedResult[T]{Value: value, Response: resp, Err: err}
	}()
	return out
}
