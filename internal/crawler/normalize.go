package crawler

import (
	"net/url"
	"strings"
)

// NormalizeURL reduces rawURL to the registry key form host[/path]:
// scheme, query and fragment dropped, host and path lowercased, a single
// trailing slash removed. It fails only when rawURL does not parse.
func NormalizeURL(rawURL string) (string, error) {
	// Keys are scheme-less; parse them as network-path references so a
	// key fed back in keeps its host (and port) instead of becoming a path.
	if !strings.Contains(rawURL, "://") && !strings.HasPrefix(rawURL, "//") {
		rawURL = "//" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.EscapedPath())
	path = strings.TrimSuffix(path, "/")

	return host + path, nil
}

// IsSameDomain reports whether rawURL's network location equals domain.
// Hosts compare case-insensitively; subdomains are different sites.
func IsSameDomain(rawURL, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host != "" && strings.EqualFold(parsed.Host, domain)
}
