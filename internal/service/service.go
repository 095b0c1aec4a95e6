// Package service implements the blog Service orchestrator that wires together
// configuration, the key-value store, the post container, images, and markdown.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-ports/blogadmin/internal/config"
	"github.com/go-ports/blogadmin/internal/images"
	"github.com/go-ports/blogadmin/internal/kv"
	"github.com/go-ports/blogadmin/internal/listing"
	"github.com/go-ports/blogadmin/internal/markdown"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/retention"
	"github.com/go-ports/blogadmin/internal/store"
)

// StorageFile is the key-value database file name inside the blog home.
const StorageFile = "storage.db"

// Service orchestrates all blog operations for one load of the store.
type Service struct {
	BlogHome string
	Config   *config.BlogConfig

	kv          *kv.Store
	posts       *store.Store
	purged      []models.Post
	unsubscribe func()
}

// Option customises New.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for purge and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New initialises a Service rooted at blogHome, running the purge sweep once.
// If blogHome is empty it is resolved via config.GetBlogHome.
func New(blogHome string, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if blogHome == "" {
		blogHome = config.GetBlogHome()
	}
	if err := os.MkdirAll(blogHome, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(blogHome, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	kvStore, err := kv.Open(filepath.Join(blogHome, StorageFile))
	if err != nil {
		return nil, fmt.Errorf("service.New: open storage: %w", err)
	}

	posts, purged, err := store.Load(kvStore, store.Options{
		Now:        o.now,
		Policy:     retention.New(cfg.Retention.Days),
		Categories: cfg.Categories,
	})
	if err != nil {
		_ = kvStore.Close()
		return nil, fmt.Errorf("service.New: %w", err)
	}
	if len(purged) > 0 {
		slog.Info("service: purged expired posts", "count", len(purged))
	}

	s := &Service{
		BlogHome: blogHome,
		Config:   cfg,
		kv:       kvStore,
		posts:    posts,
		purged:   purged,
	}
	s.unsubscribe = posts.Subscribe(func(list []models.Post) {
		slog.Debug("service: posts changed", "count", len(list))
	})
	return s, nil
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return s.kv.Close()
}

// Purged returns the posts dropped by the load-time sweep.
func (s *Service) Purged() []models.Post { return s.purged }

// Categories returns the configured category list.
func (s *Service) Categories() []string { return s.posts.Categories() }

// ---------------------------------------------------------------------------
// Create / Edit
// ---------------------------------------------------------------------------

// Create adds a post. imagePath, when set, is read and attached as a data URL.
func (s *Service) Create(in *models.PostInput, imagePath string) (models.Result, error) {
	if imagePath != "" {
		url, err := images.EncodeFile(imagePath, s.Config.Images.MaxBytes)
		if err != nil {
			return models.Result{}, fmt.Errorf("service.Create: %w", err)
		}
		in.Image = url
	}
	return s.posts.Create(in)
}

// EditImage selects what Edit does with the post image.
type EditImage struct {
	Path   string // replace with this file
	Remove bool   // clear the image
}

// Edit applies patch to the post identified by id or prefix. An edit that
// changes nothing is not written and reports ActionUnchanged.
func (s *Service) Edit(id string, patch *models.PostPatch, img EditImage) (models.Result, error) {
	switch {
	case img.Path != "" && img.Remove:
		return models.Result{}, fmt.Errorf("service.Edit: use either an image path or remove, not both")
	case img.Path != "":
		url, err := images.EncodeFile(img.Path, s.Config.Images.MaxBytes)
		if err != nil {
			return models.Result{}, fmt.Errorf("service.Edit: %w", err)
		}
		patch.Image = &url
	case img.Remove:
		empty := ""
		patch.Image = &empty
	}
	if patch.Empty() {
		p, err := s.posts.Get(id)
		if err != nil {
			return models.Result{}, err
		}
		return models.Result{Post: p, Action: models.ActionUnchanged}, nil
	}
	return s.posts.Update(id, patch)
}

// ---------------------------------------------------------------------------
// List / View / Stats
// ---------------------------------------------------------------------------

// ListOptions selects a page of the list view.
type ListOptions struct {
	Search string
	Status models.Status
	// Page requests an explicit page; 0 means start from the persisted page.
	Page int
	// Delta moves relative to the starting page (next = +1, prev = -1).
	Delta int
	// ResetPage starts from page 1 instead of the persisted page, used when
	// the search or status filter changes.
	ResetPage bool
}

// List returns one page of active posts, newest first. The resulting page,
// clamped to the valid range, is persisted as the current page.
func (s *Service) List(opts ListOptions) (listing.Page[models.Post], error) {
	page := opts.Page
	if page <= 0 {
		page = 1
		if !opts.ResetPage {
			page = s.posts.CurrentPage()
		}
	}
	page += opts.Delta

	q := listing.Query{Search: opts.Search, Status: opts.Status}
	result := s.posts.List(q, page, s.Config.Listing.PageSize)
	if err := s.posts.SetCurrentPage(result.Page); err != nil {
		return result, fmt.Errorf("service.List: %w", err)
	}
	return result, nil
}

// View returns the post identified by id or prefix, deleted posts included.
func (s *Service) View(id string) (models.Post, error) {
	return s.posts.Get(id)
}

// Render returns the Markdown detail view for p.
func (s *Service) Render(p *models.Post) string {
	if !p.IsDeleted {
		return markdown.RenderPost(p, nil)
	}
	at := s.PurgeAt(p)
	if at.IsZero() {
		return markdown.RenderPost(p, nil)
	}
	return markdown.RenderPost(p, &at)
}

// PurgeAt returns when p becomes eligible for purge, or the zero time.
func (s *Service) PurgeAt(p *models.Post) time.Time {
	return s.posts.Policy().PurgeAt(p)
}

// Stats returns the dashboard counters.
func (s *Service) Stats() models.Stats {
	return s.posts.Stats()
}

// ---------------------------------------------------------------------------
// Delete / Restore / Destroy / Trash
// ---------------------------------------------------------------------------

// Delete soft-deletes a post.
func (s *Service) Delete(id string) (models.Result, error) {
	return s.posts.SoftDelete(id)
}

// Restore returns a soft-deleted post to the active set.
func (s *Service) Restore(id string) (models.Result, error) {
	return s.posts.Restore(id)
}

// Destroy removes a post permanently.
func (s *Service) Destroy(id string) (models.Result, error) {
	return s.posts.Destroy(id)
}

// TrashEntry is a soft-deleted post with its purge date.
type TrashEntry struct {
	Post    models.Post `json:"post"`
	PurgeAt *time.Time  `json:"purgeAt"`
}

// Trash lists soft-deleted posts in store order.
func (s *Service) Trash() []TrashEntry {
	deleted := listing.Deleted(s.posts.Posts())
	out := make([]TrashEntry, 0, len(deleted))
	for i := range deleted {
		e := TrashEntry{Post: deleted[i]}
		if at := s.PurgeAt(&deleted[i]); !at.IsZero() {
			e.PurgeAt = &at
		}
		out = append(out, e)
	}
	return out
}

// ---------------------------------------------------------------------------
// Export / Import
// ---------------------------------------------------------------------------

// Export writes every active post to dir as Markdown and returns the paths.
func (s *Service) Export(dir string) ([]string, error) {
	active := listing.Active(s.posts.Posts())
	listing.SortByPublishDate(active)
	paths, err := markdown.Export(dir, active)
	if err != nil {
		return paths, fmt.Errorf("service.Export: %w", err)
	}
	return paths, nil
}

// Import reads a JSON array of posts from path and appends those whose IDs
// are new. Both the native and the browser export shapes are accepted.
func (s *Service) Import(path string) (added, skipped int, err error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's import argument
	if err != nil {
		return 0, 0, fmt.Errorf("service.Import: %w", err)
	}
	incoming, err := models.DecodeLegacyPosts(data)
	if err != nil {
		return 0, 0, fmt.Errorf("service.Import: %w", err)
	}
	added, skipped, err = s.posts.Import(incoming)
	if err != nil {
		return 0, 0, fmt.Errorf("service.Import: %w", err)
	}
	return added, skipped, nil
}
