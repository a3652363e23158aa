// Package crawler implements the single-domain crawl: URL normalization,
// link extraction, the shared visit registry and the concurrent coordinator.
package crawler

import (
	"maps"
	"sync"
)

// VisitResult is the outcome of Registry.Visit.
type VisitResult int

const (
	// VisitNew means the key was recorded for the first time; the caller
	// owns fetching that page.
	VisitNew VisitResult = iota
	// VisitRepeat means the key was already known and its count was bumped.
	VisitRepeat
	// VisitSaturated means the registry is full and nothing was recorded.
	VisitSaturated
)

func (v VisitResult) String() string {
	switch v {
	case VisitNew:
		return "new"
	case VisitRepeat:
		return "repeat"
	case VisitSaturated:
		return "saturated"
	default:
		return "unknown"
	}
}

// Registry maps normalized URLs to the number of times each was reached.
// It is the only mutable state shared between crawl tasks.
type Registry struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counts: make(map[string]int),
	}
}

// Visit is the atomic admission step for one reference to key. When the
// registry already holds limit or more keys it records nothing and returns
// VisitSaturated; otherwise it increments an existing key or inserts a new
// one with count 1. A limit <= 0 means unlimited.
func (r *Registry) Visit(key string, limit int) VisitResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit > 0 && len(r.counts) >= limit {
		return VisitSaturated
	}

	if _, ok := r.counts[key]; ok {
		r.counts[key]++
		return VisitRepeat
	}

	r.counts[key] = 1
	return VisitNew
}

// Count returns the visit count for key, or 0 if it was never recorded.
func (r *Registry) Count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

// Len returns the number of distinct keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}

// Snapshot returns a copy of the current counts.
func (r *Registry) Snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.counts)
}
