// Package retention implements the purge sweep for soft-deleted posts.
package retention

import (
	"time"

	"github.com/go-ports/blogadmin/internal/models"
)

// DefaultWindow is how long a soft-deleted post is kept before purge.
const DefaultWindow = 7 * 24 * time.Hour

// Policy decides which soft-deleted posts have outlived the window.
type Policy struct {
	Window time.Duration
}

// New returns a Policy for the given number of days. Non-positive values
// fall back to DefaultWindow.
func New(days int) Policy {
	if days <= 0 {
		return Policy{Window: DefaultWindow}
	}
	return Policy{Window: time.Duration(days) * 24 * time.Hour}
}

// Keep reports whether p survives a sweep at now. Active posts and deleted
// posts without a deletion time are always kept.
func (pol Policy) Keep(p *models.Post, now time.Time) bool {
	if !p.IsDeleted || p.DeletedAt == nil {
		return true
	}
	return now.Sub(*p.DeletedAt) < pol.Window
}

// PurgeAt returns the moment p becomes eligible for purge, or the zero time
// when p is not awaiting purge.
func (pol Policy) PurgeAt(p *models.Post) time.Time {
	if !p.IsDeleted || p.DeletedAt == nil {
		return time.Time{}
	}
	return p.DeletedAt.Add(pol.Window)
}

// Sweep splits posts into those kept and those purged. Order is preserved.
func (pol Policy) Sweep(posts []models.Post, now time.Time) (kept, purged []models.Post) {
	kept = make([]models.Post, 0, len(posts))
	for i := range posts {
		if pol.Keep(&posts[i], now) {
			kept = append(kept, posts[i])
		} else {
			purged = append(purged, posts[i])
		}
	}
	return kept, purged
}
