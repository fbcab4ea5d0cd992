package contentstack

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Default connection parameters applied by New when not overridden.
const (
	DefaultHost                 = "api.contentstack.io"
	DefaultPort                 = 443
	DefaultAPIVersion           = "v3"
	DefaultTimeout              = 30 * time.Second
	DefaultMaxResponseBodyBytes = int64(10 << 20)
	DefaultMaxRetries           = 3
	DefaultInitialBackoff       = 100 * time.Millisecond
	DefaultMaxBackoff           = 10 * time.Second
	DefaultBackoffMultiplier    = 2.0
	DefaultJitter               = 0.1
)

// ProxyConfig holds the forward proxy the transport routes through.
type ProxyConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// url renders the proxy as a URL suitable for http.Transport.Proxy.
func (p ProxyConfig) url() *url.URL {
	u := &url.URL{
		Scheme: "http",
		Host:   p.Host,
	}
	if p.Port > 0 {
		u.Host = p.Host + ":" + strconv.Itoa(p.Port)
	}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// Config is the immutable per-client configuration. New copies it into the
// Client; changing connection, auth, retry or proxy parameters requires
// constructing a new client.
type Config struct {
	AuthToken  string
	Host       string
	Port       int
	APIVersion string

	Timeout              time.Duration
	MaxResponseBodyBytes int64

	RetryOnError      bool
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	Jitter            float64

	EnableLogging bool

	Proxy *ProxyConfig
}

// defaultConfig returns the configuration New starts from before options run.
func defaultConfig() Config {
	return Config{
		Host:                 DefaultHost,
		Port:                 DefaultPort,
		APIVersion:           DefaultAPIVersion,
		Timeout:              DefaultTimeout,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
		RetryOnError:         true,
		MaxRetries:           DefaultMaxRetries,
		InitialBackoff:       DefaultInitialBackoff,
		MaxBackoff:           DefaultMaxBackoff,
		BackoffMultiplier:    DefaultBackoffMultiplier,
		Jitter:               DefaultJitter,
	}
}

// baseURL renders the scheme://host:port/version prefix every service request
// path is resolved against.
func (c *Config) baseURL() *url.URL {
	host := c.Host
	if c.Port > 0 && c.Port != 443 {
		host = host + ":" + strconv.Itoa(c.Port)
	}
	return &url.URL{
		Scheme: "https",
		Host:   host,
		Path:   "/" + c.APIVersion,
	}
}

// validate checks the configuration section by section and returns a
// Validation RequestError listing every problem found.
func (c *Config) validate() error {
	var problems []string

	problems = append(problems, c.validateConnection()...)
	problems = append(problems, c.validateRetry()...)
	problems = append(problems, c.validateProxy()...)
	problems = append(problems, c.validateExtremeValues()...)

	if len(problems) > 0 {
		return &RequestError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}

func (c *Config) validateConnection() []string {
	var problems []string

	if c.Host == "" {
		problems = append(problems, "host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, "port must be in range 1-65535")
	}
	if c.APIVersion == "" {
		problems = append(problems, "apiVersion must not be empty")
	}
	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.MaxResponseBodyBytes <= 0 {
		problems = append(problems, "maxResponseBodyBytes must be positive")
	}

	return problems
}

func (c *Config) validateRetry() []string {
	var problems []string

	if c.MaxRetries < 0 {
		problems = append(problems, "maxRetries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		problems = append(problems, "initialBackoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		problems = append(problems, "maxBackoff must be greater than or equal to initialBackoff")
	}
	if c.BackoffMultiplier <= 0 {
		problems = append(problems, "backoffMultiplier must be positive")
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		problems = append(problems, "jitter must be between 0 and 1")
	}

	return problems
}

func (c *Config) validateProxy() []string {
	var problems []string

	if c.Proxy != nil {
		if c.Proxy.Host == "" {
			problems = append(problems, "proxy host must not be empty")
		}
		if c.Proxy.Port < 0 || c.Proxy.Port > 65535 {
			problems = append(problems, "proxy port must be in range 0-65535")
		}
	}

	return problems
}

func (c *Config) validateExtremeValues() []string {
	var problems []string

	if c.MaxRetries > 100 {
		problems = append(problems, "maxRetries > 100 may cause excessive resource usage")
	}
	if c.InitialBackoff > 10*time.Minute {
		problems = append(problems, "initialBackoff > 10m may cause very long delays")
	}
	if c.MaxBackoff > time.Hour {
		problems = append(problems, "maxBackoff > 1h may cause extremely long delays")
	}
	if c.Timeout > 10*time.Minute {
		problems = append(problems, "timeout > 10m may cause requests to hang for too long")
	}

	return problems
}
