package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/yonghwan1106/gongju-integrity-dashboard/internal/dataset"
)

// Notification types, mirroring the dashboard's visual severities.
const (
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
	TypeInfo    = "info"
)

// maxActive caps the number of notifications shown at once.
const maxActive = 5

// Notification is one alert produced by the rule set. Its identity is the
// ID, derived deterministically from the rule and its subject, so
// re-evaluating an unchanged snapshot never creates duplicates.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Department string    `json:"department,omitempty"`
	IsRead     bool      `json:"isRead"`
}

// Engine evaluates the fixed rule set against each new snapshot and keeps
// the resulting notification list with read/unread state.
//
// Regeneration is from scratch on every snapshot — the rule set stays
// declarative and side-effect-free — but read state and user removals for
// ids whose condition still holds are preserved across regenerations.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	now     func() time.Time // injectable for deterministic tests
	list    []Notification
	removed map[string]bool // user-removed ids, suppressed while their condition holds
	unread  int
}

// New returns an Engine with an empty notification list.
func New() *Engine {
	return &Engine{
		now:     time.Now,
		removed: make(map[string]bool),
	}
}

// Regenerate re-evaluates all rules against snap and replaces the
// notification list. Candidate ids are deduplicated (first occurrence
// wins) and the list is capped at 5 in rule-evaluation order. Ids already
// tracked keep their read flag and timestamp; ids removed by the user stay
// suppressed until their condition goes false.
func (e *Engine) Regenerate(snap *dataset.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := make(map[string]Notification, len(e.list))
	for _, n := range e.list {
		prev[n.ID] = n
	}

	seen := make(map[string]bool)
	live := make(map[string]bool)
	next := make([]Notification, 0, maxActive)

	for _, c := range evaluate(snap, e.now()) {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		live[c.ID] = true
		if e.removed[c.ID] {
			continue
		}
		if len(next) >= maxActive {
			continue
		}
		if p, ok := prev[c.ID]; ok {
			c.IsRead = p.IsRead
			c.Timestamp = p.Timestamp
		}
		next = append(next, c)
	}

	// Suppressions lapse once the generating condition clears.
	for id := range e.removed {
		if !live[id] {
			delete(e.removed, id)
		}
	}

	e.list = next
	e.recount()
	slog.Debug("notify: regenerated", "active", len(e.list), "unread", e.unread)
}

// List returns a copy of the current notification list, newest rules
// first in evaluation order.
func (e *Engine) List() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Notification(nil), e.list...)
}

// UnreadCount returns the number of unread notifications.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unread
}

// MarkRead marks the notification with the given id as read.
// Returns false if no such notification is tracked.
func (e *Engine) MarkRead(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.list {
		if e.list[i].ID == id {
			e.list[i].IsRead = true
			e.recount()
			return true
		}
	}
	return false
}

// MarkAllRead marks every tracked notification as read.
func (e *Engine) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.list {
		e.list[i].IsRead = true
	}
	e.recount()
}

// Remove drops the notification with the given id from the list. It stays
// suppressed across regenerations until its condition goes false.
// Returns false if no such notification is tracked.
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.list {
		if e.list[i].ID == id {
			e.list = append(e.list[:i], e.list[i+1:]...)
			e.removed[id] = true
			e.recount()
			return true
		}
	}
	return false
}

// recount restores the unread counter invariant. Caller holds e.mu.
func (e *Engine) recount() {
	n := 0
	for _, notif := range e.list {
		if !notif.IsRead {
			n++
		}
	}
	e.unread = n
}
