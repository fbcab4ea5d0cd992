// Package contentstack implements the request execution pipeline for the
// Contentstack Management API:
//
//   - Immutable per-client configuration with functional options
//   - A handler chain (retry → transport) shared by the blocking and the
//     channel-based invocation styles
//   - Retries with exponential backoff + jitter, Retry-After aware
//   - Transport error classification (timeout / connection / protocol) so the
//     retry policy can tell transient failures from terminal ones
//   - JSON serialization with fixed date handling (UTC, RFC 3339 output) and
//     explicit converter registration
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Deterministic resource release: Close is idempotent and post-close
//     calls fail fast without touching the network
//
// Typical usage:
//
//	client, err := contentstack.New(
//	    contentstack.WithAuthToken(token),
//	    contentstack.WithRetryOnError(true),
//	    contentstack.WithMaxRetries(3),
//	)
//	if err != nil {
//	    // invalid configuration
//	}
//	defer client.Close()
//
//	req, _ := client.NewRequest(http.MethodGet, "/stacks", nil)
//	resp, err := client.Invoke(ctx, req)
//
// Domain endpoints (users, stacks, entries, ...) live outside this package;
// they only need to satisfy ServiceRequest. The library avoids opinionated
// logging: logging is off by default, enable it with WithLogging or supply
// your own Logger.
package contentstack
