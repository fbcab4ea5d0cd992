package contentstack

import (
	"net/http"
	"time"
)

// Option configures a Client during construction.
type Option func(*Client)

// WithAuthToken sets the authentication token sent as the authtoken header.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.config.AuthToken = token
	}
}

// WithHost sets the API host.
func WithHost(host string) Option {
	return func(c *Client) {
		c.config.Host = host
	}
}

// WithPort sets the API port.
func WithPort(port int) Option {
	return func(c *Client) {
		c.config.Port = port
	}
}

// WithAPIVersion sets the API version path segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.config.APIVersion = version
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxResponseBodyBytes caps how many response bytes the transport buffers.
func WithMaxResponseBodyBytes(n int64) Option {
	return func(c *Client) {
		c.config.MaxResponseBodyBytes = n
	}
}

// WithRetryOnError enables or disables the retry handler. When disabled the
// transport is invoked exactly once per call regardless of outcome.
func WithRetryOnError(enabled bool) Option {
	return func(c *Client) {
		c.config.RetryOnError = enabled
	}
}

// WithMaxRetries sets the maximum number of retry attempts after the first.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.config.MaxRetries = n
	}
}

// WithInitialBackoff sets the initial backoff duration.
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.config.InitialBackoff = d
	}
}

// WithMaxBackoff sets the maximum backoff duration.
func WithMaxBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.config.MaxBackoff = d
	}
}

// WithBackoffMultiplier sets the backoff multiplier.
func WithBackoffMultiplier(f float64) Option {
	return func(c *Client) {
		c.config.BackoffMultiplier = f
	}
}

// WithJitter sets the jitter factor for backoff (0.0 to 1.0).
func WithJitter(f float64) Option {
	return func(c *Client) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		c.config.Jitter = f
	}
}

// WithBackoffStrategy selects the delay algorithm for the default retry
// policy.
func WithBackoffStrategy(strategy BackoffStrategy) Option {
	return func(c *Client) {
		c.backoffStrategy = strategy
	}
}

// WithRetryPolicy replaces the default retry policy entirely.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithProxy routes the transport through a forward proxy.
func WithProxy(host string, port int) Option {
	return func(c *Client) {
		c.config.Proxy = &ProxyConfig{Host: host, Port: port}
	}
}

// WithProxyAuth routes the transport through an authenticated forward proxy.
func WithProxyAuth(host string, port int, username, password string) Option {
	return func(c *Client) {
		c.config.Proxy = &ProxyConfig{Host: host, Port: port, Username: username, Password: password}
	}
}

// WithLogging enables structured logging to stderr.
func WithLogging() Option {
	return func(c *Client) {
		c.config.EnableLogging = true
	}
}

// WithLogger sets a custom logger and enables logging through it.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.config.EnableLogging = true
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithConverters registers custom value converters with the serializer. This
// is the explicit registration list; converters are attached once at
// construction.
func WithConverters(converters ...Converter) Option {
	return func(c *Client) {
		c.converters = append(c.converters, converters...)
	}
}

// WithHTTPClient sets a custom HTTP client. Proxy and timeout configuration
// are then the caller's responsibility.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		c.requestID = gen
	}
}
