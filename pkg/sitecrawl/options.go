// Package sitecrawl provides the public API for crawling a single site and
// counting its internal links.
package sitecrawl

import (
	"time"

	"github.com/jmylchreest/sitecrawl/pkg/fetcher"
)

// Config holds the optional crawl settings.
type Config struct {
	// Fetcher performs page fetches. When nil a static HTTP fetcher is
	// created for the call and closed afterwards.
	Fetcher fetcher.Fetcher

	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   10 * time.Second,
		UserAgent: fetcher.DefaultUserAgent,
	}
}

// Option configures a crawl.
type Option func(*Config)

// WithFetcher replaces the page fetcher. The caller keeps ownership and
// must close it.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithTimeout sets the per-page fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}
