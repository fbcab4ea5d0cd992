package contentstack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetryDisabledInvokesTransportOnce(t *testing.T) {
	var calls int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(false), WithMaxRetries(5))
	defer client.Close()

	_, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if err == nil {
		t.Fatal("Expected server error, got nil")
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 transport invocation, got %d", got)
	}
}

func TestRetryExhaustsAttemptCeiling(t *testing.T) {
	var calls int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(true), WithMaxRetries(2))
	defer client.Close()

	resp, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if err == nil {
		t.Fatal("Expected server error after exhausting retries, got nil")
	}

	// Ceiling of 2 retries means 3 attempts total.
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 transport invocations, got %d", got)
	}

	// The last attempt's failure is what surfaces.
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected *RequestError, got %T", err)
	}
	if reqErr.Type != ErrorTypeServer {
		t.Errorf("Expected type %q, got %q", ErrorTypeServer, reqErr.Type)
	}
	if reqErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", reqErr.StatusCode)
	}
	if reqErr.Attempt != 3 {
		t.Errorf("Expected error to carry attempt 3, got %d", reqErr.Attempt)
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Error("Expected last attempt's response to be returned for inspection")
	}
}

func TestClientErrorIsNeverRetried(t *testing.T) {
	var calls int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, err := w.Write([]byte(`{"error_message":"Invalid auth token","error_code":105}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(true), WithMaxRetries(5))
	defer client.Close()

	_, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if err == nil {
		t.Fatal("Expected client error, got nil")
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 transport invocation, got %d", got)
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected *RequestError, got %T", err)
	}
	if reqErr.Type != ErrorTypeClient {
		t.Errorf("Expected type %q, got %q", ErrorTypeClient, reqErr.Type)
	}
	if reqErr.Message != "Invalid auth token" {
		t.Errorf("Expected API error message, got %q", reqErr.Message)
	}
	if reqErr.ErrorCode != 105 {
		t.Errorf("Expected API error code 105, got %d", reqErr.ErrorCode)
	}
	if IsRetriable(err) {
		t.Error("Client error must not be retriable")
	}
}

func TestRateLimitedThenSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(true), WithMaxRetries(2))
	defer client.Close()

	resp, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if err != nil {
		t.Fatalf("Invoke() returned error: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected exactly 3 transport invocations, got %d", got)
	}
	if !resp.IsSuccess() {
		t.Errorf("Expected success status, got %d", resp.StatusCode)
	}
}

func TestRetryHonorsRetryAfterHeader(t *testing.T) {
	var calls int32
	start := time.Now()
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(true), WithMaxRetries(1))
	defer client.Close()

	if _, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks")); err != nil {
		t.Fatalf("Invoke() returned error: %v", err)
	}

	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("Expected at least 1s wait from Retry-After, waited %v", elapsed)
	}
}

func TestBackoffWaitIsCancellable(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server,
		WithRetryOnError(true),
		WithMaxRetries(3),
		WithInitialBackoff(10*time.Second),
		WithMaxBackoff(10*time.Second),
	)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Invoke(ctx, NewRequest(http.MethodGet, "/stacks"))
		done <- err
	}()

	// Give the first attempt time to complete, then abandon the backoff wait.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Invoke did not return after cancellation")
	}
}

func TestInvokeAsyncDeliversResult(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := testClient(t, server)
	defer client.Close()

	result := <-client.InvokeAsync(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if result.Err != nil {
		t.Fatalf("InvokeAsync() returned error: %v", result.Err)
	}
	if !result.Response.IsSuccess() {
		t.Errorf("Expected success status, got %d", result.Response.StatusCode)
	}
}

func TestInvokeAsyncSharesRetryDecision(t *testing.T) {
	var calls int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server, WithRetryOnError(true), WithMaxRetries(2))
	defer client.Close()

	result := <-client.InvokeAsync(context.Background(), NewRequest(http.MethodGet, "/stacks"))
	if result.Err != nil {
		t.Fatalf("InvokeAsync() returned error: %v", result.Err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 transport invocations, got %d", got)
	}
}

func TestConcurrentInvocationsAreIndependent(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"ok":true}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := testClient(t, server)
	defer client.Close()

	const workers = 16
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := client.Invoke(context.Background(), NewRequest(http.MethodGet, "/stacks"))
			errs <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Concurrent Invoke() returned error: %v", err)
		}
	}
}
