// Package store is the process-wide state container for blog posts. It holds
// the post list in memory and mirrors it to the key-value backend on every
// change, then notifies subscribers.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-ports/blogadmin/internal/kv"
	"github.com/go-ports/blogadmin/internal/listing"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/retention"
)

var (
	// ErrNotFound is returned when no post matches an ID or prefix.
	ErrNotFound = errors.New("post not found")
	// ErrAmbiguousID is returned when a prefix matches more than one post.
	ErrAmbiguousID = errors.New("ambiguous post id")
)

// Backend is the key-value persistence the store mirrors to.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Options configures a Store.
type Options struct {
	Now        func() time.Time // defaults to time.Now
	Policy     retention.Policy // zero value means retention.DefaultWindow
	Categories []string         // accepted categories; empty accepts any
}

// Listener receives a copy of the post list after every change.
type Listener func(posts []models.Post)

// Store holds the post list.
type Store struct {
	backend    Backend
	now        func() time.Time
	policy     retention.Policy
	categories []string

	mu        sync.Mutex
	posts     []models.Post
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// Load reads the post list from backend and runs the retention sweep once.
// The purged posts are returned; when any were dropped the reduced list is
// written back before Load returns.
func Load(backend Backend, opts Options) (*Store, []models.Post, error) {
	s := &Store{
		backend:    backend,
		now:        opts.Now,
		policy:     opts.Policy,
		categories: opts.Categories,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.policy.Window <= 0 {
		s.policy = retention.New(0)
	}

	raw, ok, err := backend.Get(kv.KeyPosts)
	if err != nil {
		return nil, nil, fmt.Errorf("store.Load: %w", err)
	}
	var posts []models.Post
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &posts); err != nil {
			return nil, nil, fmt.Errorf("store.Load: parse %s: %w", kv.KeyPosts, err)
		}
	}

	kept, purged := s.policy.Sweep(posts, s.now())
	s.posts = kept
	if len(purged) > 0 {
		if err := s.persist(kept); err != nil {
			return nil, nil, fmt.Errorf("store.Load: write purged list: %w", err)
		}
		slog.Debug("store: purge sweep", "purged", len(purged), "kept", len(kept))
	}
	return s, purged, nil
}

// Policy returns the retention policy in force.
func (s *Store) Policy() retention.Policy { return s.policy }

// Categories returns the accepted category list.
func (s *Store) Categories() []string { return s.categories }

// Subscribe registers fn to be called after every change. Listeners run in
// subscription order. The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

// Posts returns a copy of every post, deleted ones included, in insertion order.
func (s *Store) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// Get returns the post identified by id or a unique id prefix.
func (s *Store) Get(id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.indexOf(id)
	if err != nil {
		return models.Post{}, err
	}
	return s.posts[i].Clone(), nil
}

// Stats counts active posts by status and the posts awaiting purge.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.Stats
	for _, p := range s.posts {
		if p.IsDeleted {
			st.Deleted++
			continue
		}
		st.Total++
		switch p.Status {
		case models.StatusPublished:
			st.Published++
		case models.StatusDraft:
			st.Draft++
		}
	}
	return st
}

// List runs the list view pipeline over the current posts.
func (s *Store) List(q listing.Query, page, pageSize int) listing.Page[models.Post] {
	return listing.View(s.Posts(), q, page, pageSize)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Create validates in and appends a new post.
func (s *Store) Create(in *models.PostInput) (models.Result, error) {
	p := models.NewPost(in, s.now())
	if err := models.Validate(&p, s.categories); err != nil {
		return models.Result{}, fmt.Errorf("store.Create: %w", err)
	}
	return s.mutate(func(posts []models.Post) ([]models.Post, models.Result, error) {
		next := append(clonePosts(posts), p)
		return next, models.Result{Post: p.Clone(), Action: models.ActionCreated}, nil
	})
}

// Update applies patch to the post identified by id. When the patch leaves
// the post unchanged nothing is written and the action is "unchanged".
func (s *Store) Update(id string, patch *models.PostPatch) (models.Result, error) {
	return s.mutateOne(id, func(p models.Post) (models.Post, string, error) {
		updated := patch.Apply(p)
		// Only a changed category is checked against the configured list.
		categories := s.categories
		if updated.Category == p.Category {
			categories = nil
		}
		if err := models.Validate(&updated, categories); err != nil {
			return p, "", err
		}
		if updated.Equal(p) {
			return p, models.ActionUnchanged, nil
		}
		return updated, models.ActionUpdated, nil
	})
}

// SoftDelete marks the post deleted and stamps the deletion time.
func (s *Store) SoftDelete(id string) (models.Result, error) {
	return s.mutateOne(id, func(p models.Post) (models.Post, string, error) {
		if p.IsDeleted {
			return p, models.ActionUnchanged, nil
		}
		at := s.now().UTC()
		p.IsDeleted = true
		p.DeletedAt = &at
		return p, models.ActionDeleted, nil
	})
}

// Restore clears the deletion marker and time.
func (s *Store) Restore(id string) (models.Result, error) {
	return s.mutateOne(id, func(p models.Post) (models.Post, string, error) {
		if !p.IsDeleted {
			return p, models.ActionUnchanged, nil
		}
		p.IsDeleted = false
		p.DeletedAt = nil
		return p, models.ActionRestored, nil
	})
}

// Destroy removes the post permanently.
func (s *Store) Destroy(id string) (models.Result, error) {
	return s.mutate(func(posts []models.Post) ([]models.Post, models.Result, error) {
		i, err := indexOf(posts, id)
		if err != nil {
			return nil, models.Result{}, err
		}
		removed := posts[i].Clone()
		next := make([]models.Post, 0, len(posts)-1)
		next = append(next, clonePosts(posts[:i])...)
		next = append(next, clonePosts(posts[i+1:])...)
		return next, models.Result{Post: removed, Action: models.ActionDestroyed}, nil
	})
}

// Import appends posts whose IDs are not already present. Returns the
// number added and skipped.
func (s *Store) Import(incoming []models.Post) (added, skipped int, err error) {
	_, err = s.mutate(func(posts []models.Post) ([]models.Post, models.Result, error) {
		seen := make(map[string]bool, len(posts)+len(incoming))
		for _, p := range posts {
			seen[p.ID] = true
		}
		next := clonePosts(posts)
		for _, p := range incoming {
			if seen[p.ID] {
				skipped++
				continue
			}
			seen[p.ID] = true
			next = append(next, p.Clone())
			added++
		}
		if added == 0 {
			return nil, models.Result{Action: models.ActionUnchanged}, nil
		}
		return next, models.Result{Action: models.ActionCreated}, nil
	})
	return added, skipped, err
}

// ---------------------------------------------------------------------------
// Current page
// ---------------------------------------------------------------------------

// CurrentPage returns the persisted list page, 1 when unset or unreadable.
func (s *Store) CurrentPage() int {
	raw, ok, err := s.backend.Get(kv.KeyCurrentPage)
	if err != nil {
		slog.Warn("store: read current page", "err", err)
		return 1
	}
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// SetCurrentPage persists the list page.
func (s *Store) SetCurrentPage(page int) error {
	if page < 1 {
		page = 1
	}
	if err := s.backend.Set(kv.KeyCurrentPage, strconv.Itoa(page)); err != nil {
		return fmt.Errorf("store.SetCurrentPage: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// mutate computes the next list under the lock, persists it, swaps it in,
// and notifies listeners after the lock is released. A nil next list means
// no change. The in-memory list is only replaced after a successful write.
func (s *Store) mutate(fn func(posts []models.Post) ([]models.Post, models.Result, error)) (models.Result, error) {
	s.mu.Lock()
	next, res, err := fn(s.posts)
	if err != nil || next == nil {
		s.mu.Unlock()
		return res, err
	}
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return models.Result{}, err
	}
	s.posts = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, sub := range s.listeners {
		listeners = append(listeners, sub.fn)
	}
	snapshot := clonePosts(next)
	s.mu.Unlock()

	for _, l := range listeners {
		l(clonePosts(snapshot))
	}
	return res, nil
}

// mutateOne replaces a single post by id. fn returns the new post and the
// action; ActionUnchanged skips the write.
func (s *Store) mutateOne(id string, fn func(p models.Post) (models.Post, string, error)) (models.Result, error) {
	return s.mutate(func(posts []models.Post) ([]models.Post, models.Result, error) {
		i, err := indexOf(posts, id)
		if err != nil {
			return nil, models.Result{}, err
		}
		updated, action, err := fn(posts[i].Clone())
		if err != nil {
			return nil, models.Result{}, err
		}
		res := models.Result{Post: updated.Clone(), Action: action}
		if action == models.ActionUnchanged {
			return nil, res, nil
		}
		next := clonePosts(posts)
		next[i] = updated
		return next, res, nil
	})
}

func (s *Store) persist(posts []models.Post) error {
	if posts == nil {
		posts = make([]models.Post, 0)
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("store: marshal posts: %w", err)
	}
	if err := s.backend.Set(kv.KeyPosts, string(b)); err != nil {
		return fmt.Errorf("store: write posts: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) (int, error) { return indexOf(s.posts, id) }

// indexOf resolves an exact ID first, then a unique prefix.
func indexOf(posts []models.Post, id string) (int, error) {
	if id == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	for i := range posts {
		if posts[i].ID == id {
			return i, nil
		}
	}
	found := -1
	for i := range posts {
		if strings.HasPrefix(posts[i].ID, id) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return found, nil
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
