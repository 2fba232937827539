package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tailorai/internal/domain"
)

type memStore struct {
	data    map[string][]byte
	putErr  error
	deletes int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memStore) Put(ctx context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.deletes++
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestHistory(t *testing.T, store Store) *History {
	t.Helper()
	h, err := New(store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clock := time.UnixMilli(1_700_000_000_000)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return h
}

func TestHistoryAddKeepsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	h := newTestHistory(t, store)
	if err := h.Load(ctx); err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := h.Add(ctx, "data:image/jpeg;base64,AA==", fmt.Sprintf("data:image/png;base64,%d", i), "casual"); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}

	entries := h.List()
	if len(entries) != n {
		t.Fatalf("len = %d, want %d", len(entries), n)
	}
	seen := map[string]bool{}
	for i, e := range entries {
		if seen[e.ID] {
			t.Fatalf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		if want := fmt.Sprintf("data:image/png;base64,%d", n-1-i); e.GeneratedImage != want {
			t.Fatalf("entries[%d].GeneratedImage = %q, want %q", i, e.GeneratedImage, want)
		}
		if i > 0 && e.Timestamp >= entries[i-1].Timestamp {
			t.Fatalf("entries not ordered by recency at %d", i)
		}
	}

	reloaded := newTestHistory(t, store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.List(); len(got) != n || got[0].ID != entries[0].ID {
		t.Fatalf("reloaded list = %+v", got)
	}
}

func TestHistoryListReturnsCopy(t *testing.T) {
	h := newTestHistory(t, newMemStore())
	if _, err := h.Add(context.Background(), "a", "b", "edgy"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	list := h.List()
	list[0].Style = "mutated"
	if h.List()[0].Style != "edgy" {
		t.Fatal("List exposed internal slice")
	}
}

func TestHistoryGetAndClear(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	h := newTestHistory(t, store)
	entry, err := h.Add(ctx, "orig", "gen", "gothic")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := h.Get(entry.ID)
	if err != nil || got != entry {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := h.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}

	if err := h.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(h.List()) != 0 {
		t.Fatal("list not empty after Clear")
	}
	if _, ok := store.data[Key]; ok || store.deletes != 1 {
		t.Fatalf("record not deleted: deletes=%d", store.deletes)
	}
}

func TestHistoryAddPersistFailureLeavesListUnchanged(t *testing.T) {
	store := newMemStore()
	h := newTestHistory(t, store)
	if _, err := h.Add(context.Background(), "a", "b", "casual"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	store.putErr = errors.New("disk full")
	_, err := h.Add(context.Background(), "c", "d", "formal")
	if !errors.Is(err, domain.ErrClientIO) {
		t.Fatalf("err = %v, want client io", err)
	}
	if len(h.List()) != 1 {
		t.Fatalf("len = %d after failed Add", len(h.List()))
	}
}

func TestHistoryAddValidates(t *testing.T) {
	h := newTestHistory(t, newMemStore())
	if _, err := h.Add(context.Background(), "", "gen", "casual"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if _, err := h.Add(context.Background(), "orig", "gen", " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestHistoryLoadCorruptRecord(t *testing.T) {
	store := newMemStore()
	store.data[Key] = []byte("{not json")
	h := newTestHistory(t, store)
	if err := h.Load(context.Background()); !errors.Is(err, domain.ErrClientIO) {
		t.Fatalf("Load err = %v", err)
	}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}
