// Package usage aggregates model token usage for the running process.
package usage

import (
	"context"
	"sync"
	"time"

	"postergen/internal/logging"
)

type contextKey struct{}

// Tracker records token usage. It is safe for concurrent use; a nil
// Tracker ignores Track.
type Tracker struct {
	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.reset()
	return t
}

func (t *Tracker) reset() {
	t.stats = Stats{
		ByModel:     make(map[string]TokenCounts),
		ByOperation: make(map[string]TokenCounts),
		Since:       t.now(),
	}
}

// Track records one model call.
func (t *Tracker) Track(model string, op Operation, input, output int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ev := Event{
		Timestamp:    t.now(),
		Model:        model,
		Operation:    op,
		InputTokens:  input,
		OutputTokens: output,
	}
	t.stats.Calls++
	t.stats.Total.Add(input, output)
	addToMap(t.stats.ByModel, model, input, output)
	addToMap(t.stats.ByOperation, string(op), input, output)
	t.stats.Last = &ev

	logging.APIDebug("usage: %s %s in=%d out=%d (total %d)", op, model, input, output, t.stats.Total.Total)
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.stats
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByOperation = copyTokenCountsMap(stats.ByOperation)
	if stats.Last != nil {
		last := *stats.Last
		stats.Last = &last
	}
	return stats
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// Context Helpers

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}
