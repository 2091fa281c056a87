package notify

import (
	"sync"
	"time"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

const (
	defaultTTL  = 6 * time.Second
	maxFeedSize = 512
)

type feedEntry struct {
	n       domain.Notification
	expires time.Time
}

// Feed keeps recent notifications in memory until they expire or are
// dismissed.
type Feed struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []feedEntry
	now     func() time.Time
}

// NewFeed returns a Feed whose notifications disappear after ttl.
// If ttl <= 0, defaultTTL is used.
func NewFeed(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Feed{ttl: ttl, now: time.Now}
}

func (f *Feed) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pruneLocked()
	f.entries = append(f.entries, feedEntry{n: n, expires: f.now().Add(f.ttl)})
	if over := len(f.entries) - maxFeedSize; over > 0 {
		f.entries = append([]feedEntry(nil), f.entries[over:]...)
	}
}

// List returns the live notifications visible to the user, oldest first.
func (f *Feed) List(userID string, role domain.Role) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pruneLocked()
	out := []domain.Notification{}
	for _, e := range f.entries {
		if e.n.VisibleTo(userID, role) {
			out = append(out, e.n)
		}
	}
	return out
}

// Dismiss removes a notification the user can see. It reports whether one
// was removed.
func (f *Feed) Dismiss(userID string, role domain.Role, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, e := range f.entries {
		if e.n.ID == id && e.n.VisibleTo(userID, role) {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Feed) pruneLocked() {
	now := f.now()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if now.Before(e.expires) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}
