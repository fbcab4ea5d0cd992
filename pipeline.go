package contentstack

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Result is the resolved outcome of one asynchronous invocation.
type Result struct {
	Response *Response
	Err      error
}

// Pipeline owns the ordered handler chain (retry → transport) and exposes the
// blocking and the channel-based entry points. Both run the same chain logic;
// the asynchronous path only moves the wait onto a goroutine.
type Pipeline struct {
	head       Handler
	serializer jsoniter.API
	logger     Logger
	metrics    *MetricsCollector
	closed     atomic.Bool
}

// newPipeline assembles the chain for the given client collaborators.
func newPipeline(httpClient *http.Client, policy RetryPolicy, retryOnError bool, serializer jsoniter.API, logger Logger, metrics *MetricsCollector) *Pipeline {
	transport := &transportHandler{
		client:  httpClient,
		logger:  logger,
		metrics: metrics,
	}
	return &Pipeline{
		head: &retryHandler{
			next:    transport,
			policy:  policy,
			enabled: retryOnError,
			logger:  logger,
			metrics: metrics,
		},
		serializer: serializer,
		logger:     logger,
		metrics:    metrics,
	}
}

// Invoke runs the chain on the calling goroutine and blocks until it
// resolves, including all retry waits. On HTTP error statuses the buffered
// response is returned alongside the classified error so callers can inspect
// the body.
func (p *Pipeline) Invoke(ctx context.Context, ex *ExecutionContext) (*Response, error) {
	if p.closed.Load() {
		return nil, closedError()
	}

	method := ex.Request.Service.Method()
	endpoint := ex.Request.Service.Path()
	p.metrics.RecordRequestStart(method, endpoint)
	defer p.metrics.RecordRequestEnd(method, endpoint)

	if err := p.head.Send(ctx, ex); err != nil {
		return nil, err
	}
	return p.resolve(ex)
}

// InvokeAsync runs the chain without blocking the caller. The returned
// channel is buffered, so abandoning it stops the wait without leaking the
// goroutine; an already-dispatched network call is not recalled.
func (p *Pipeline) InvokeAsync(ctx context.Context, ex *ExecutionContext) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		resp, err := p.Invoke(ctx, ex)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

// resolve turns the final context state into the caller-visible outcome. The
// retry handler has already resolved everything it could; whatever error is
// left is surfaced unchanged.
func (p *Pipeline) resolve(ex *ExecutionContext) (*Response, error) {
	if ex.Response.Err != nil {
		return nil, ex.Response.Err
	}

	resp := ex.Response.Response
	if resp.StatusCode >= 400 {
		return resp, p.statusError(ex)
	}
	return resp, nil
}

// statusError builds the taxonomy error for a non-success HTTP status,
// pulling the API's error envelope out of the body when present.
func (p *Pipeline) statusError(ex *ExecutionContext) *RequestError {
	resp := ex.Response.Response

	kind := ErrorTypeClient
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		kind = ErrorTypeServer
	}

	message := resp.Status
	errorCode := 0
	var detail errorDetail
	if len(resp.Body) > 0 && p.serializer.Unmarshal(resp.Body, &detail) == nil && detail.ErrorMessage != "" {
		message = detail.ErrorMessage
		errorCode = detail.ErrorCode
	}

	p.metrics.RecordError(kind, ex.Request.Service.Method(), ex.Request.Service.Path())

	return &RequestError{
		Type:       kind,
		Message:    message,
		StatusCode: resp.StatusCode,
		ErrorCode:  errorCode,
		RequestID:  ex.Request.ID,
		Method:     ex.Request.Service.Method(),
		URL:        ex.Request.Service.Path(),
		Attempt:    ex.Response.Attempt,
		MaxRetries: ex.Request.Config.MaxRetries,
		Timestamp:  time.Now(),
		Duration:   ex.elapsed(),
	}
}

// Close marks the pipeline released. It is idempotent; the handlers hold no
// resources of their own beyond the transport the client releases.
func (p *Pipeline) Close() {
	p.closed.Store(true)
}

func closedError() *RequestError {
	return &RequestError{
		Type:      ErrorTypeClosed,
		Message:   "client has been closed",
		Cause:     ErrClientClosed,
		Timestamp: time.Now(),
	}
}
