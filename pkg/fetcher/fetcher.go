// Package fetcher defines how sitecrawl retrieves a single HTML page.
// Implement Fetcher to plug in a different transport (tests use in-memory
// fakes; the CLI uses the colly-backed StaticFetcher).
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher retrieves one page per call. Implementations must be safe for
// concurrent use and must not retry.
type Fetcher interface {
	// Fetch performs one GET of url and returns the HTML body.
	// Failures are reported as *FetchError.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type identifies the fetcher implementation (e.g. "static").
	Type() string
}

// Options controls a single fetch. Zero values fall back to the
// fetcher's own configuration.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Content is a successfully fetched HTML page.
type Content struct {
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Failure classes carried by FetchError. Check with errors.Is.
var (
	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failure")
	// ErrStatus indicates a response status outside 200-299.
	ErrStatus = errors.New("unexpected status")
	// ErrNotHTML indicates the response was not declared as HTML.
	ErrNotHTML = errors.New("content is not html")
)

// FetchError reports why a page could not be fetched.
type FetchError struct {
	URL         string
	StatusCode  int    // 0 when no response was received
	ContentType string // as declared by the server, if any
	Cause       error
}

func (e *FetchError) Error() string {
	switch {
	case errors.Is(e.Cause, ErrStatus):
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	case errors.Is(e.Cause, ErrNotHTML):
		return fmt.Sprintf("fetch %s: content type %q is not html", e.URL, e.ContentType)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }
