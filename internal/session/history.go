package session

import (
	"fmt"
	"sync"
	"time"

	"postergen/internal/gemini"
)

// HistoryItem is one generated poster.
type HistoryItem struct {
	ID        string        `json:"id"`
	Image     *gemini.Image `json:"-"`
	CreatedAt time.Time     `json:"-"`
}

// CreatedAtMillis returns the creation time as unix milliseconds.
func (h HistoryItem) CreatedAtMillis() int64 {
	return h.CreatedAt.UnixMilli()
}

// History is an append-only, newest-first log of posters. It lives in
// memory only.
type History struct {
	mu    sync.RWMutex
	items []HistoryItem
}

// Add prepends an item.
func (h *History) Add(item HistoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append([]HistoryItem{item}, h.items...)
}

// List returns the items, newest first.
func (h *History) List() []HistoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Get returns the item with the given id.
func (h *History) Get(id string) (HistoryItem, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, item := range h.items {
		if item.ID == id {
			return item, true
		}
	}
	return HistoryItem{}, false
}

// Len returns the number of items.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

// HistoryFileName is the download name of a history entry.
func HistoryFileName(prefix string, item HistoryItem) string {
	return fmt.Sprintf("%s-History-%d%s", prefix, item.CreatedAtMillis(), item.Image.Extension())
}

// PosterFileName is the download name of the current poster.
func PosterFileName(prefix string, item HistoryItem) string {
	return fmt.Sprintf("%s-Event-Poster%s", prefix, item.Image.Extension())
}
