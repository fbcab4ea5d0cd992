package contentstack

import (
	"fmt"
	"runtime"
)

// productName is the client identifier attached to every outgoing request.
const productName = "contentstack-management-go"

var (
	// Version is the library semantic version (injected at build time optionally).
	Version = "0.1.0"
	// GitCommit is the git SHA (inject via -ldflags at build time).
	GitCommit = "unknown"
	// BuildDate is the build timestamp (inject via -ldflags).
	BuildDate = "unknown"
	// GoVersion records the Go toolchain version used.
	GoVersion = runtime.Version()
)

// userAgent is the product identifier sent as the User-Agent header.
func userAgent() string {
	return fmt.Sprintf("%s/%s", productName, Version)
}

// xUserAgent is the descriptive agent string naming the client family and the
// host runtime, sent as the X-User-Agent header.
func xUserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s/%s)", productName, Version, GoVersion, runtime.GOOS, runtime.GOARCH)
}

// GetVersion returns a human-readable version string.
func GetVersion() string {
	return fmt.Sprintf("%s v%s (commit: %s, built: %s, go: %s)",
		productName, Version, GitCommit, BuildDate, GoVersion)
}

// GetVersionInfo returns version metadata as a map for logging / metrics.
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"build_date": BuildDate,
		"go_version": GoVersion,
	}
}
