package contentstack

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AHagemannCK/contentstack-management-go/internal/backoff"
)

// RetryPolicy decides whether the outcome of one transport attempt warrants
// another, and how long to wait first. attempt is the 0-based index of the
// attempt that just completed. The same policy governs the blocking and the
// channel-based invocation paths.
type RetryPolicy interface {
	ShouldRetry(resp *Response, err error, attempt int) (time.Duration, bool)
}

// BackoffStrategy selects the delay algorithm used between retries.
type BackoffStrategy int

const (
	// ExponentialJitter grows delays exponentially with uniform jitter.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter draws delays per the AWS decorrelated scheme.
	DecorrelatedJitter
)

// DefaultRetryPolicy retries transport timeouts, connection failures, and
// overload statuses (429, 5xx) up to a fixed attempt ceiling, honoring
// Retry-After when the server provides one.
type DefaultRetryPolicy struct {
	maxRetries        int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64
	strategy          backoff.Strategy
}

// NewDefaultRetryPolicy creates the policy with exponential jitter backoff.
func NewDefaultRetryPolicy(maxRetries int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) *DefaultRetryPolicy {
	return NewDefaultRetryPolicyWithStrategy(maxRetries, initialBackoff, maxBackoff, multiplier, jitter, ExponentialJitter)
}

// NewDefaultRetryPolicyWithStrategy creates the policy with a specific
// backoff strategy.
func NewDefaultRetryPolicyWithStrategy(maxRetries int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64, strategy BackoffStrategy) *DefaultRetryPolicy {
	p := &DefaultRetryPolicy{
		maxRetries:        maxRetries,
		initialBackoff:    initialBackoff,
		maxBackoff:        maxBackoff,
		backoffMultiplier: multiplier,
		jitter:            jitter,
	}
	switch strategy {
	case DecorrelatedJitter:
		p.strategy = backoff.Decorrelated{}
	default:
		p.strategy = backoff.Exponential{}
	}
	return p
}

// ShouldRetry implements RetryPolicy.
func (p *DefaultRetryPolicy) ShouldRetry(resp *Response, err error, attempt int) (time.Duration, bool) {
	if attempt >= p.maxRetries {
		return 0, false
	}

	retry := false
	var delay time.Duration

	if err != nil {
		retry = IsRetriable(err)
	} else if resp != nil {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			retry = true
			delay = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
	}

	if !retry {
		return 0, false
	}

	if delay == 0 {
		delay = p.strategy.Delay(attempt, p.initialBackoff, p.maxBackoff, p.backoffMultiplier, p.jitter)
	}

	return delay, true
}

// parseRetryAfter parses the Retry-After header value. It supports both
// delay-seconds and HTTP-date formats; values over one hour are capped.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}

// retryHandler wraps the transport handler, re-invoking it per the retry
// policy. A call loops while the policy reports the outcome as retriable;
// success and terminal failures end the loop immediately.
type retryHandler struct {
	next    Handler
	policy  RetryPolicy
	enabled bool
	logger  Logger
	metrics *MetricsCollector
}

func (h *retryHandler) Send(ctx context.Context, ex *ExecutionContext) error {
	for attempt := 0; ; attempt++ {
		if err := h.next.Send(ctx, ex); err != nil {
			return err
		}

		if !h.enabled {
			return nil
		}

		delay, retry := h.policy.ShouldRetry(ex.Response.Response, ex.Response.Err, attempt)
		if !retry {
			return nil
		}

		endpoint := ex.Request.Service.Path()
		h.metrics.RecordRetry(ex.Request.Service.Method(), endpoint, attempt+1)
		h.logger.Info("Scheduling retry",
			"requestID", ex.Request.ID, "attempt", attempt+1, "backoff", delay.String(), "endpoint", endpoint)

		// Backoff is the only suspension point besides the network wait;
		// cancellation is honored here so an abandoned call stops sleeping.
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
