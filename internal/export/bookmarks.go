package export

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Bookmark is one saved snapshot, frozen at the moment of saving.
type Bookmark struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	SavedAt  time.Time         `json:"savedAt"`
	Snapshot *dataset.Snapshot `json:"snapshot"`
}

// Bookmarks is an in-memory store of saved snapshots, ordered by save
// time. Saved snapshots are deep copies; later live mutations never leak
// into a bookmark.
//
// Bookmarks is safe for concurrent use.
type Bookmarks struct {
	mu    sync.Mutex
	now   func() time.Time // injectable for deterministic tests
	items []Bookmark
}

// NewBookmarks returns an empty bookmark store.
func NewBookmarks() *Bookmarks {
	return &Bookmarks{now: time.Now}
}

// Save stores a copy of snap under a fresh id and returns the bookmark.
func (b *Bookmarks) Save(label string, snap *dataset.Snapshot) Bookmark {
	b.mu.Lock()
	defer b.mu.Unlock()
	bm := Bookmark{
		ID:       uuid.NewString(),
		Label:    label,
		SavedAt:  b.now(),
		Snapshot: snap.Clone(),
	}
	b.items = append(b.items, bm)
	return bm
}

// List returns all bookmarks in save order.
func (b *Bookmarks) List() []Bookmark {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Bookmark(nil), b.items...)
}

// Get returns the bookmark with the given id.
func (b *Bookmarks) Get(id string) (Bookmark, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bm := range b.items {
		if bm.ID == id {
			return bm, true
		}
	}
	return Bookmark{}, false
}

// Delete removes the bookmark with the given id.
// Returns false if no such bookmark exists.
func (b *Bookmarks) Delete(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, bm := range b.items {
		if bm.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}
