package sitecrawl

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmylchreest/sitecrawl/pkg/fetcher"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"": `<html><body>
			<a href="/a">A</a>
			<a href="/b/">B</a>
			<a href="https://example.com/">elsewhere</a>
			<a href="/doc.pdf">PDF</a>
			<a href="mailto:someone@example.com">mail</a>
		</body></html>`,
		"/a": `<a href="/">home</a><a href="/b">B</a>`,
		"/b": `<a href="../a">A</a>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/doc.pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
			return
		}
		body, ok := pages[strings.TrimSuffix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCrawl_LiveSite(t *testing.T) {
	server := newSite(t)
	u, _ := url.Parse(server.URL)
	host := u.Host

	pages, err := Crawl(context.Background(), server.URL, 2, 10, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	want := map[string]int{
		host:              2,
		host + "/a":       2,
		host + "/b":       2,
		host + "/doc.pdf": 1,
	}
	if !maps.Equal(pages, want) {
		t.Errorf("pages = %v, want %v", pages, want)
	}
}

func TestRun_Stats(t *testing.T) {
	server := newSite(t)

	res, err := Run(context.Background(), server.URL, 3, 10)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Stats.Fetched != 3 {
		t.Errorf("Fetched = %d, want 3", res.Stats.Fetched)
	}
	if res.Stats.FetchFailures != 1 {
		t.Errorf("FetchFailures = %d, want 1", res.Stats.FetchFailures)
	}
	if res.Stats.OutOfDomain != 1 {
		t.Errorf("OutOfDomain = %d, want 1", res.Stats.OutOfDomain)
	}
	if res.Seed != server.URL {
		t.Errorf("Seed = %q, want %q", res.Seed, server.URL)
	}
}

func TestCrawl_MaxPages(t *testing.T) {
	server := newSite(t)

	pages, err := Crawl(context.Background(), server.URL, 1, 1)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("expected only the seed, got %v", pages)
	}
}

func TestCrawl_MalformedSeed(t *testing.T) {
	_, err := Crawl(context.Background(), "://nope", 1, 1)
	if !errors.Is(err, ErrMalformedURL) {
		t.Fatalf("expected ErrMalformedURL, got %v", err)
	}

	var me *MalformedURLError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MalformedURLError, got %T", err)
	}
	if me.URL != "://nope" {
		t.Errorf("URL = %q", me.URL)
	}
}

type recordingFetcher struct {
	mu   sync.Mutex
	opts []fetcher.Options
}

func (f *recordingFetcher) Fetch(_ context.Context, u string, opts fetcher.Options) (fetcher.Content, error) {
	f.mu.Lock()
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	return fetcher.Content{URL: u, HTML: `<a href="/next">n</a>`, StatusCode: 200}, nil
}

func (f *recordingFetcher) Close() error { return nil }
func (f *recordingFetcher) Type() string { return "recording" }

func TestCrawl_Options(t *testing.T) {
	f := &recordingFetcher{}

	pages, err := Crawl(context.Background(), "https://x.test", 1, 2,
		WithFetcher(f),
		WithTimeout(3*time.Second),
		WithUserAgent("sitecrawl-test/1.0"),
	)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	// The self-link on /next arrives after the cap of 2 is reached.
	want := map[string]int{"x.test": 1, "x.test/next": 1}
	if !maps.Equal(pages, want) {
		t.Errorf("pages = %v, want %v", pages, want)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opts) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(f.opts))
	}
	for i, o := range f.opts {
		if o.UserAgent != "sitecrawl-test/1.0" || o.Timeout != 3*time.Second {
			t.Errorf("fetch %d options = %+v", i, o)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.UserAgent != fetcher.DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Fetcher != nil {
		t.Error("expected no fetcher by default")
	}
}

func ExampleCrawl() {
	pages, err := Crawl(context.Background(), "https://example.com", 3, 10)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(pages) > 0)
}
