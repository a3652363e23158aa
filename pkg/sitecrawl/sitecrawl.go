package sitecrawl

import (
	"context"
	"runtime/debug"

	"github.com/jmylchreest/sitecrawl/internal/crawler"
	"github.com/jmylchreest/sitecrawl/internal/logger"
	"github.com/jmylchreest/sitecrawl/pkg/fetcher"
)

// Re-exported from internal/crawler for use by consumers.
var (
	// ErrMalformedURL matches the error returned for a seed URL that cannot
	// be parsed or has no host.
	ErrMalformedURL = crawler.ErrMalformedURL
)

// MalformedURLError describes a rejected seed URL. Use errors.As to check
// for this error type.
type MalformedURLError = crawler.MalformedURLError

// Result is a registry plus run statistics.
type Result = crawler.Result

// Stats summarizes one crawl run.
type Stats = crawler.Stats

// Version returns the module version of the sitecrawl library.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Crawl fetches seedURL and every page on the same host reachable from it
// and returns how many times each normalized page URL was referenced. At
// most maxConcurrency fetches run at once and at most maxPages distinct
// pages are recorded; values below 1 are treated as 1.
//
// The only error is a malformed seed. Pages that fail to fetch are still
// counted but not expanded.
func Crawl(ctx context.Context, seedURL string, maxConcurrency, maxPages int, opts ...Option) (map[string]int, error) {
	res, err := Run(ctx, seedURL, maxConcurrency, maxPages, opts...)
	if err != nil {
		return nil, err
	}
	return res.Pages, nil
}

// Run is Crawl with run statistics.
func Run(ctx context.Context, seedURL string, maxConcurrency, maxPages int, opts ...Option) (*Result, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f := cfg.Fetcher
	if f == nil {
		static := fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
		defer func() {
			if err := static.Close(); err != nil {
				logger.Warn("failed to close fetcher", "error", err)
			}
		}()
		f = static
	}

	c := crawler.New(f, crawler.Config{
		MaxConcurrency: maxConcurrency,
		MaxPages:       maxPages,
		Timeout:        cfg.Timeout,
		UserAgent:      cfg.UserAgent,
	})
	return c.Run(ctx, seedURL)
}
