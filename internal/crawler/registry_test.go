package crawler

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_Visit_NewKey(t *testing.T) {
	r := NewRegistry()

	if got := r.Visit("example.com/a", 10); got != VisitNew {
		t.Errorf("Visit() = %v, want %v", got, VisitNew)
	}
	if r.Count("example.com/a") != 1 {
		t.Errorf("expected count 1, got %d", r.Count("example.com/a"))
	}
	if r.Len() != 1 {
		t.Errorf("expected length 1, got %d", r.Len())
	}
}

func TestRegistry_Visit_Repeat(t *testing.T) {
	r := NewRegistry()

	r.Visit("example.com/a", 10)
	got := r.Visit("example.com/a", 10)
	r.Visit("example.com/a", 10)

	if got != VisitRepeat {
		t.Errorf("Visit() = %v, want %v", got, VisitRepeat)
	}
	if r.Count("example.com/a") != 3 {
		t.Errorf("expected count 3, got %d", r.Count("example.com/a"))
	}
	if r.Len() != 1 {
		t.Errorf("expected length 1, got %d", r.Len())
	}
}

func TestRegistry_Visit_Saturated(t *testing.T) {
	r := NewRegistry()

	r.Visit("example.com/a", 2)
	r.Visit("example.com/b", 2)

	if got := r.Visit("example.com/c", 2); got != VisitSaturated {
		t.Errorf("Visit() = %v, want %v", got, VisitSaturated)
	}
	if r.Count("example.com/c") != 0 {
		t.Error("saturated key should not be recorded")
	}

	// Once full, known keys stop counting too.
	if got := r.Visit("example.com/a", 2); got != VisitSaturated {
		t.Errorf("Visit() on known key = %v, want %v", got, VisitSaturated)
	}
	if r.Count("example.com/a") != 1 {
		t.Errorf("expected count 1, got %d", r.Count("example.com/a"))
	}
}

func TestRegistry_Visit_Unlimited(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 100; i++ {
		if got := r.Visit(fmt.Sprintf("example.com/%d", i), 0); got != VisitNew {
			t.Fatalf("Visit(%d) = %v, want %v", i, got, VisitNew)
		}
	}
	if r.Len() != 100 {
		t.Errorf("expected length 100, got %d", r.Len())
	}
}

func TestRegistry_Snapshot_IsCopy(t *testing.T) {
	r := NewRegistry()
	r.Visit("example.com", 0)

	snap := r.Snapshot()
	snap["example.com"] = 99
	snap["example.com/new"] = 1

	if r.Count("example.com") != 1 {
		t.Errorf("snapshot mutation leaked into registry: count %d", r.Count("example.com"))
	}
	if r.Len() != 1 {
		t.Errorf("snapshot mutation leaked into registry: length %d", r.Len())
	}
}

func TestRegistry_ConcurrentVisit(t *testing.T) {
	const (
		workers = 50
		keys    = 40
		limit   = 15
	)
	r := NewRegistry()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		owners  = map[string]int{}
		results = map[VisitResult]int{}
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < keys; k++ {
				key := fmt.Sprintf("example.com/%d", (k+w)%keys)
				res := r.Visit(key, limit)
				mu.Lock()
				results[res]++
				if res == VisitNew {
					owners[key]++
				}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	if r.Len() != limit {
		t.Errorf("expected length %d, got %d", limit, r.Len())
	}
	for key, n := range owners {
		if n != 1 {
			t.Errorf("key %s was claimed as new %d times", key, n)
		}
	}

	total := 0
	for _, n := range r.Snapshot() {
		total += n
	}
	if total != results[VisitNew]+results[VisitRepeat] {
		t.Errorf("sum of counts %d != recorded references %d", total, results[VisitNew]+results[VisitRepeat])
	}
	if results[VisitNew]+results[VisitRepeat]+results[VisitSaturated] != workers*keys {
		t.Errorf("lost visits: %v", results)
	}
}

func TestVisitResult_String(t *testing.T) {
	tests := map[VisitResult]string{
		VisitNew:        "new",
		VisitRepeat:     "repeat",
		VisitSaturated:  "saturated",
		VisitResult(42): "unknown",
	}
	for v, want := range tests {
		if got := v.String(); got != want {
			t.Errorf("VisitResult(%d).String() = %q, want %q", int(v), got, want)
		}
	}
}
