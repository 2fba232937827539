// Package history keeps the client's list of past generations and persists it
// as a single record under a fixed key.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tailorai/internal/domain"
)

// Key is the record every Store persists the list under.
const Key = "outfit_history"

// ErrNotFound is returned by a Store with no record for the key, and by
// History.Get for an unknown id.
var ErrNotFound = errors.New("history: not found")

// Entry is one completed generation. Images are data URLs.
type Entry struct {
	ID             string `json:"id"`
	OriginalImage  string `json:"originalImage"`
	GeneratedImage string `json:"generatedImage"`
	Style          string `json:"style"`
	Timestamp      int64  `json:"timestamp"`
}

// Time converts the millisecond timestamp.
func (e Entry) Time() time.Time { return time.UnixMilli(e.Timestamp) }

// Store persists the serialized list.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// History is the in-memory list, most recent first, backed by a Store.
type History struct {
	mu      sync.Mutex
	store   Store
	entries []Entry

	now   func() time.Time
	newID func() string
}

// New wraps store. Call Load before use to pick up persisted entries.
func New(store Store) (*History, error) {
	if store == nil {
		return nil, errors.New("history: store is required")
	}
	return &History{store: store, now: time.Now, newID: uuid.NewString}, nil
}

// Load replaces the in-memory list with the persisted one. A missing record
// yields an empty list.
func (h *History) Load(ctx context.Context) error {
	raw, err := h.store.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		h.mu.Lock()
		h.entries = nil
		h.mu.Unlock()
		return nil
	}
	if err != nil {
		return clientIO("load history", err)
	}
	var entries []Entry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return clientIO("decode history", err)
		}
	}
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

// Add prepends a new entry and persists the whole list. On a persistence
// failure the in-memory list is left unchanged.
func (h *History) Add(ctx context.Context, originalImage, generatedImage, style string) (Entry, error) {
	style = strings.TrimSpace(style)
	if originalImage == "" || generatedImage == "" || style == "" {
		return Entry{}, domain.InvalidInput(domain.CodeMissingChoice, "history entry requires both images and a style")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := Entry{
		ID:             h.newID(),
		OriginalImage:  originalImage,
		GeneratedImage: generatedImage,
		Style:          style,
		Timestamp:      h.now().UnixMilli(),
	}
	next := make([]Entry, 0, len(h.entries)+1)
	next = append(next, entry)
	next = append(next, h.entries...)

	raw, err := json.Marshal(next)
	if err != nil {
		return Entry{}, clientIO("encode history", err)
	}
	if err := h.store.Put(ctx, Key, raw); err != nil {
		return Entry{}, clientIO("save history", err)
	}
	h.entries = next
	return entry, nil
}

// List returns a copy, most recent first.
func (h *History) List() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Get finds an entry by id.
func (h *History) Get(id string) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Clear empties the list and deletes the persisted record.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Delete(ctx, Key); err != nil && !errors.Is(err, ErrNotFound) {
		return clientIO("clear history", err)
	}
	h.entries = nil
	return nil
}

func clientIO(op string, err error) error {
	return &domain.Error{
		Kind:    domain.KindClientIO,
		Message: op + " failed",
		Err:     fmt.Errorf("history: %s: %w", op, err),
	}
}
