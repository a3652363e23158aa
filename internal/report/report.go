// Package report turns a crawl registry into a sorted link-frequency report.
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

const rule = "============================="

// Entry is one page of the report.
type Entry struct {
	URL   string `json:"url" yaml:"url"`
	Count int    `json:"count" yaml:"count"`
}

// Summary is the report view of a finished crawl.
type Summary struct {
	BaseURL    string  `json:"base_url" yaml:"base_url"`
	TotalPages int     `json:"total_pages" yaml:"total_pages"`
	Entries    []Entry `json:"entries" yaml:"entries"`
}

// Build sorts pages by count, highest first, breaking ties by URL.
func Build(baseURL string, pages map[string]int) Summary {
	entries := make([]Entry, 0, len(pages))
	for url, count := range pages {
		entries = append(entries, Entry{URL: url, Count: count})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.URL, b.URL)
	})

	return Summary{
		BaseURL:    baseURL,
		TotalPages: len(entries),
		Entries:    entries,
	}
}

// Write renders s as the plain-text report.
func Write(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "  REPORT for %s\n", s.BaseURL)
	fmt.Fprintln(bw, rule)
	for _, e := range s.Entries {
		fmt.Fprintf(bw, "Found %s internal links to %s\n", humanize.Comma(int64(e.Count)), e.URL)
	}
	fmt.Fprintf(bw, "Total pages: %s\n", humanize.Comma(int64(s.TotalPages)))

	return bw.Flush()
}

// RenderText implements output.TextRenderer.
func (s Summary) RenderText(w io.Writer) error {
	return Write(w, s)
}

// Items returns the entries for line-oriented output.
func (s Summary) Items() []any {
	items := make([]any, len(s.Entries))
	for i, e := range s.Entries {
		items[i] = e
	}
	return items
}
