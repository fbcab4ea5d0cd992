package contentstack

import (
	"strings"
	"testing"
	"time"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("Default configuration failed validation: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = "" }},
		{"port too high", func(c *Config) { c.Port = 70000 }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"empty version", func(c *Config) { c.APIVersion = "" }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"zero buffer", func(c *Config) { c.MaxResponseBodyBytes = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"backoff inversion", func(c *Config) { c.MaxBackoff = time.Millisecond; c.InitialBackoff = time.Second }},
		{"zero multiplier", func(c *Config) { c.BackoffMultiplier = 0 }},
		{"jitter out of range", func(c *Config) { c.Jitter = 1.5 }},
		{"proxy without host", func(c *Config) { c.Proxy = &ProxyConfig{Port: 8080} }},
		{"excessive retries", func(c *Config) { c.MaxRetries = 500 }},
	}

	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(&cfg)
		if err := cfg.validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestBaseURL(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.baseURL().String(); got != "https://api.contentstack.io/v3" {
		t.Errorf("baseURL = %q", got)
	}

	cfg.Host = "eu-api.contentstack.com"
	cfg.Port = 8443
	cfg.APIVersion = "v4"
	if got := cfg.baseURL().String(); got != "https://eu-api.contentstack.com:8443/v4" {
		t.Errorf("baseURL = %q", got)
	}
}

func TestProxyURL(t *testing.T) {
	p := ProxyConfig{Host: "proxy.internal", Port: 3128}
	if got := p.url().String(); got != "http://proxy.internal:3128" {
		t.Errorf("proxy url = %q", got)
	}

	p = ProxyConfig{Host: "proxy.internal", Port: 3128, Username: "svc", Password: "secret"}
	got := p.url().String()
	if !strings.HasPrefix(got, "http://svc:secret@") {
		t.Errorf("proxy url missing credentials: %q", got)
	}
}

func TestConfigCopyIsReadOnly(t *testing.T) {
	client, err := New(WithHost("eu-api.contentstack.com"))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	defer client.Close()

	cfg := client.Config()
	cfg.Host = "tampered"

	if client.Config().Host != "eu-api.contentstack.com" {
		t.Error("Mutating the returned config must not affect the client")
	}
}
