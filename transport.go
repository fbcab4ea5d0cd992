package contentstack

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Handler is one stage of the execution pipeline. Send processes the context
// and records the outcome in its ResponseContext. The returned error is
// reserved for infrastructure failures (context cancellation, unbuildable
// requests); HTTP and network outcomes always land in the context so
// upstream stages can inspect them.
type Handler interface {
	Send(ctx context.Context, ex *ExecutionContext) error
}

// transportHandler is the terminal pipeline stage. It translates the service
// request descriptor into one network round trip and captures the result. It
// never retries; each Send is exactly one attempt.
type transportHandler struct {
	client  *http.Client
	logger  Logger
	metrics *MetricsCollector
}

func (h *transportHandler) Send(ctx context.Context, ex *ExecutionContext) error {
	ex.Response.Attempt++

	req, err := h.buildRequest(ctx, ex)
	if err != nil {
		return err
	}

	endpoint := req.URL.Host + req.URL.Path
	h.logger.Debug("Sending request",
		"requestID", ex.Request.ID, "method", req.Method, "url", req.URL.String(), "attempt", ex.Response.Attempt)

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		reqErr := h.classify(err, ex, req)
		h.metrics.RecordError(reqErr.Type, req.Method, endpoint)
		h.logger.Debug("Transport failure",
			"requestID", ex.Request.ID, "kind", reqErr.Type, "error", err.Error(), "attempt", ex.Response.Attempt)
		ex.Response.setOutcome(nil, reqErr)
		return nil
	}
	defer resp.Body.Close()

	limit := ex.Request.Config.MaxResponseBodyBytes
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		reqErr := h.classify(err, ex, req)
		h.metrics.RecordError(reqErr.Type, req.Method, endpoint)
		ex.Response.setOutcome(nil, reqErr)
		return nil
	}
	if int64(len(body)) > limit {
		ex.Response.setOutcome(nil, &RequestError{
			Type:       ErrorTypeProtocol,
			Message:    "response body exceeds buffer limit",
			Cause:      ErrResponseTooLarge,
			RequestID:  ex.Request.ID,
			Method:     req.Method,
			URL:        req.URL.String(),
			Attempt:    ex.Response.Attempt,
			MaxRetries: ex.Request.Config.MaxRetries,
			Timestamp:  time.Now(),
			Duration:   ex.elapsed(),
		})
		return nil
	}

	h.metrics.RecordRequest(req.Method, endpoint, resp.StatusCode, time.Since(start))
	h.logger.Debug("Received response",
		"requestID", ex.Request.ID, "status", resp.StatusCode, "bytes", len(body), "attempt", ex.Response.Attempt)

	ex.Response.setOutcome(&Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil)
	return nil
}

// buildRequest renders the service request descriptor into an *http.Request
// with the client-identifying headers applied.
func (h *transportHandler) buildRequest(ctx context.Context, ex *ExecutionContext) (*http.Request, error) {
	cfg := ex.Request.Config
	service := ex.Request.Service

	rel, err := url.Parse(service.Path())
	if err != nil {
		return nil, &RequestError{
			Type:      ErrorTypeValidation,
			Message:   "invalid request path",
			Cause:     err,
			RequestID: ex.Request.ID,
		}
	}
	u := cfg.baseURL()
	u.Path = u.Path + rel.Path
	u.RawQuery = rel.RawQuery

	// Fresh body reader per attempt so retries resend the full payload.
	body, err := service.Body()
	if err != nil {
		return nil, &RequestError{
			Type:      ErrorTypeValidation,
			Message:   "request body unavailable",
			Cause:     err,
			RequestID: ex.Request.ID,
		}
	}

	req, err := http.NewRequestWithContext(ctx, service.Method(), u.String(), body)
	if err != nil {
		return nil, &RequestError{
			Type:      ErrorTypeValidation,
			Message:   "cannot build http request",
			Cause:     err,
			RequestID: ex.Request.ID,
		}
	}

	for key, values := range service.Header() {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	// Client-identifying headers override whatever the service request set.
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("X-User-Agent", xUserAgent())
	if cfg.AuthToken != "" {
		req.Header.Set("authtoken", cfg.AuthToken)
	}

	return req, nil
}

// classify maps a transport failure onto the error taxonomy so the retry
// policy can distinguish timeout, connection and protocol failures.
func (h *transportHandler) classify(err error, ex *ExecutionContext, req *http.Request) *RequestError {
	kind := ErrorTypeProtocol
	message := "transport exchange failed"

	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = ErrorTypeTimeout
		message = "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrorTypeTimeout
		message = "request timed out"
	case errors.As(err, &dnsErr):
		kind = ErrorTypeConnection
		message = "dns resolution failed"
	case errors.As(err, &opErr):
		kind = ErrorTypeConnection
		message = "connection failed"
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		kind = ErrorTypeConnection
		message = "connection closed mid-exchange"
	}

	return &RequestError{
		Type:       kind,
		Message:    message,
		Cause:      err,
		RequestID:  ex.Request.ID,
		Method:     req.Method,
		URL:        req.URL.String(),
		Attempt:    ex.Response.Attempt,
		MaxRetries: ex.Request.Config.MaxRetries,
		Timestamp:  time.Now(),
		Duration:   ex.elapsed(),
	}
}
