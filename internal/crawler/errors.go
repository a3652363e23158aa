package crawler

import (
	"errors"
	"fmt"
)

// ErrMalformedURL matches any *MalformedURLError via errors.Is.
var ErrMalformedURL = errors.New("malformed url")

var errMissingHost = errors.New("missing host")

// MalformedURLError is returned by Crawl when the seed URL cannot be
// parsed or does not name a host. It is the only error Crawl returns.
type MalformedURLError struct {
	URL string
	Err error
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed seed url %q: %v", e.URL, e.Err)
}

func (e *MalformedURLError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformedURL.
func (e *MalformedURLError) Is(target error) bool {
	return target == ErrMalformedURL
}
