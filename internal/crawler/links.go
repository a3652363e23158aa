package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// skippedPrefixes are href schemes that never lead to a crawlable page.
var skippedPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// ExtractLinks returns the absolute URLs referenced by <a href> elements in
// html, in document order, resolved against baseURL. Duplicates are kept:
// every occurrence counts as one reference.
func ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		if link, ok := resolveHref(base, href); ok {
			links = append(links, link)
		}
	})

	return links, nil
}

// resolveHref applies the link filters to a single href value.
func resolveHref(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	lower := strings.ToLower(href)
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)

	if resolved.Host == "" {
		return "", false
	}
	switch strings.ToLower(resolved.Scheme) {
	case "http", "https", "":
	default:
		return "", false
	}

	return resolved.String(), true
}
