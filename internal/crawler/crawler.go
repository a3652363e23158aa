package crawler

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jmylchreest/sitecrawl/internal/logger"
	"github.com/jmylchreest/sitecrawl/pkg/fetcher"
)

// Config holds crawler configuration.
type Config struct {
	MaxConcurrency int           // Max fetches in flight at once
	MaxPages       int           // Max distinct pages recorded per run
	Timeout        time.Duration // Per-fetch timeout
	UserAgent      string        // Sent with every fetch (empty = fetcher default)
}

// DefaultConfig returns sensible crawler defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 3,
		MaxPages:       10,
		Timeout:        10 * time.Second,
	}
}

// Stats summarizes what happened during one run.
type Stats struct {
	Fetched         int64         // Pages fetched successfully
	FetchFailures   int64         // Pages recorded but not fetched
	ExtractFailures int64         // Pages fetched whose links could not be read
	OutOfDomain     int64         // Links dropped by the domain check
	Repeats         int64         // References to already-recorded pages
	Saturated       int64         // References dropped because the page cap was hit
	PeakInFlight    int64         // Highest number of simultaneous fetches
	Duration        time.Duration // Wall time of the run
}

// Result is the outcome of one crawl run.
type Result struct {
	Seed  string
	Pages map[string]int // normalized URL -> times referenced
	Stats Stats
}

// Crawler walks every page of one site reachable from a seed URL.
type Crawler struct {
	fetcher fetcher.Fetcher
	config  Config
}

// New creates a new Crawler. Concurrency and page limits below 1 are
// raised to 1.
func New(f fetcher.Fetcher, cfg Config) *Crawler {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	return &Crawler{
		fetcher: f,
		config:  cfg,
	}
}

// Config returns the effective configuration.
func (c *Crawler) Config() Config {
	return c.config
}

// Crawl visits seed and every same-host page reachable from it and
// returns the visit registry. Fetch and parse failures only stop expansion
// from the affected page; the sole error is *MalformedURLError.
func (c *Crawler) Crawl(ctx context.Context, seed string) (map[string]int, error) {
	res, err := c.Run(ctx, seed)
	if err != nil {
		return nil, err
	}
	return res.Pages, nil
}

// Run is Crawl with run statistics.
func (c *Crawler) Run(ctx context.Context, seed string) (*Result, error) {
	parsed, err := url.Parse(seed)
	if err != nil {
		return nil, &MalformedURLError{URL: seed, Err: err}
	}
	if parsed.Host == "" {
		return nil, &MalformedURLError{URL: seed, Err: errMissingHost}
	}

	r := &run{
		crawler:  c,
		domain:   parsed.Host,
		registry: NewRegistry(),
		gate:     semaphore.NewWeighted(int64(c.config.MaxConcurrency)),
	}

	logger.Debug("crawler starting",
		"seed", seed,
		"domain", r.domain,
		"max_pages", c.config.MaxPages,
		"concurrency", c.config.MaxConcurrency,
		"timeout", c.config.Timeout)

	start := time.Now()
	r.spawn(ctx, seed)
	_ = r.group.Wait()

	res := &Result{
		Seed:  seed,
		Pages: r.registry.Snapshot(),
		Stats: r.stats(time.Since(start)),
	}

	logger.Info("crawl complete",
		"pages", len(res.Pages),
		"fetched", res.Stats.Fetched,
		"failed", res.Stats.FetchFailures,
		"duration", res.Stats.Duration.Round(time.Millisecond))

	return res, nil
}

// run is the state of a single Crawl call.
type run struct {
	crawler  *Crawler
	domain   string
	registry *Registry
	gate     *semaphore.Weighted
	group    errgroup.Group

	fetched         atomic.Int64
	fetchFailures   atomic.Int64
	extractFailures atomic.Int64
	outOfDomain     atomic.Int64
	repeats         atomic.Int64
	saturated       atomic.Int64
	inFlight        atomic.Int64
	peakInFlight    atomic.Int64
}

// spawn schedules visit in the run's task group. Tasks never fail, so the
// group only tracks completion of the whole fan-out tree.
func (r *run) spawn(ctx context.Context, rawURL string) {
	r.group.Go(func() error {
		r.visit(ctx, rawURL)
		return nil
	})
}

// visit handles one reference to rawURL.
func (r *run) visit(ctx context.Context, rawURL string) {
	if !IsSameDomain(rawURL, r.domain) {
		r.outOfDomain.Add(1)
		logger.Debug("crawler skipping out-of-domain link", "url", rawURL)
		return
	}

	key, err := NormalizeURL(rawURL)
	if err != nil {
		logger.Debug("crawler skipping unparseable link", "url", rawURL, "error", err)
		return
	}

	switch r.registry.Visit(key, r.crawler.config.MaxPages) {
	case VisitSaturated:
		if r.saturated.Add(1) == 1 {
			logger.Info("page limit reached", "max_pages", r.crawler.config.MaxPages)
		}
		return
	case VisitRepeat:
		r.repeats.Add(1)
		return
	}

	html, ok := r.fetch(ctx, rawURL)
	if !ok {
		return
	}

	// Links resolve against the page they appear on, not the seed.
	links, err := ExtractLinks(html, rawURL)
	if err != nil {
		r.extractFailures.Add(1)
		logger.Warn("link extraction failed", "url", rawURL, "error", err)
		return
	}
	logger.Debug("crawler found links", "url", rawURL, "links_count", len(links))

	for _, link := range links {
		r.spawn(ctx, link)
	}
}

// fetch performs one gated fetch. The admission slot is held for the
// network call only.
func (r *run) fetch(ctx context.Context, rawURL string) (string, bool) {
	if err := r.gate.Acquire(ctx, 1); err != nil {
		r.fetchFailures.Add(1)
		logger.Debug("crawler fetch abandoned", "url", rawURL, "error", err)
		return "", false
	}
	defer r.gate.Release(1)

	r.trackInFlight(r.inFlight.Add(1))
	defer r.inFlight.Add(-1)

	cfg := r.crawler.config
	fetchStart := time.Now()
	content, err := r.crawler.fetcher.Fetch(ctx, rawURL, fetcher.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	fetchDuration := time.Since(fetchStart)

	if err != nil {
		r.fetchFailures.Add(1)
		logger.Warn("fetch failed", "url", rawURL, "error", err, "duration", fetchDuration.Round(time.Millisecond))
		return "", false
	}

	r.fetched.Add(1)
	logger.Info("fetched", "url", rawURL, "fetch", fetchDuration.Round(time.Millisecond), "bytes", len(content.HTML))
	return content.HTML, true
}

func (r *run) trackInFlight(n int64) {
	for {
		peak := r.peakInFlight.Load()
		if n <= peak || r.peakInFlight.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (r *run) stats(d time.Duration) Stats {
	return Stats{
		Fetched:         r.fetched.Load(),
		FetchFailures:   r.fetchFailures.Load(),
		ExtractFailures: r.extractFailures.Load(),
		OutOfDomain:     r.outOfDomain.Load(),
		Repeats:         r.repeats.Load(),
		Saturated:       r.saturated.Load(),
		PeakInFlight:    r.peakInFlight.Load(),
		Duration:        d,
	}
}
