package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/blogadmin/internal/kv"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/store"
)

var epoch = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, home string, clk *clock) *Service {
	t.Helper()
	svc, err := New(home, WithClock(clk.now))
	if err != nil {
		t.Fatalf("newTestService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func input(title string, status models.Status) *models.PostInput {
	return &models.PostInput{
		Title:       title,
		Author:      "Ana",
		Description: "desc",
		Content:     "body",
		Category:    "Technology",
		Status:      status,
	}
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 16)...)

// ---------------------------------------------------------------------------
// New / purge
// ---------------------------------------------------------------------------

func TestNew_CreatesHomeAndStorage(t *testing.T) {
	c := qt.New(t)
	home := filepath.Join(t.TempDir(), "blog")
	svc := newTestService(t, home, &clock{epoch})

	c.Assert(svc.BlogHome, qt.Equals, home)
	c.Assert(svc.Config.Listing.PageSize, qt.Equals, 5)
	_, err := os.Stat(filepath.Join(home, StorageFile))
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Purged(), qt.HasLen, 0)
}

func TestNew_PurgesExpiredOnLoad(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	clk := &clock{epoch}

	svc, err := New(home, WithClock(clk.now))
	c.Assert(err, qt.IsNil)
	old, err := svc.Create(input("Old", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	recent, err := svc.Create(input("Recent", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	_, err = svc.Delete(old.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Close(), qt.IsNil)

	clk.t = epoch.Add(6 * 24 * time.Hour)
	svc, err = New(home, WithClock(clk.now))
	c.Assert(err, qt.IsNil)
	_, err = svc.Delete(recent.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Purged(), qt.HasLen, 0)
	c.Assert(svc.Close(), qt.IsNil)

	clk.t = epoch.Add(8 * 24 * time.Hour)
	svc = newTestService(t, home, clk)
	c.Assert(svc.Purged(), qt.HasLen, 1)
	c.Assert(svc.Purged()[0].ID, qt.Equals, old.Post.ID)

	_, err = svc.View(old.Post.ID)
	c.Assert(err, qt.ErrorIs, store.ErrNotFound)
	trash := svc.Trash()
	c.Assert(trash, qt.HasLen, 1)
	c.Assert(trash[0].Post.ID, qt.Equals, recent.Post.ID)
	c.Assert(trash[0].PurgeAt.Equal(epoch.Add(13*24*time.Hour)), qt.IsTrue)
}

func TestNew_RetentionFromConfig(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte("retention:\n  days: 1\n"), 0o600), qt.IsNil)

	clk := &clock{epoch}
	svc, err := New(home, WithClock(clk.now))
	c.Assert(err, qt.IsNil)
	res, err := svc.Create(input("Short lived", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	_, err = svc.Delete(res.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Close(), qt.IsNil)

	clk.t = epoch.Add(25 * time.Hour)
	svc = newTestService(t, home, clk)
	c.Assert(svc.Purged(), qt.HasLen, 1)
}

func TestNew_CorruptStorageFails(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	db, err := kv.Open(filepath.Join(home, StorageFile))
	c.Assert(err, qt.IsNil)
	c.Assert(db.Set(kv.KeyPosts, "{not json"), qt.IsNil)
	c.Assert(db.Close(), qt.IsNil)

	_, err = New(home)
	c.Assert(err, qt.ErrorMatches, `service.New: store.Load: parse blogs: .*`)
}

// ---------------------------------------------------------------------------
// Create / Edit
// ---------------------------------------------------------------------------

func TestCreate_WithImage(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	c.Run("png is attached", func(c *qt.C) {
		path := filepath.Join(c.TempDir(), "cover.png")
		c.Assert(os.WriteFile(path, pngBytes, 0o600), qt.IsNil)
		res, err := svc.Create(input("Pic", models.StatusPublished), path)
		c.Assert(err, qt.IsNil)
		c.Assert(res.Post.Image, qt.Matches, `data:image/png;base64,.+`)
		c.Assert(res.Post.PublishDate.Equal(epoch), qt.IsTrue)
	})

	c.Run("text file is rejected and nothing is stored", func(c *qt.C) {
		before := svc.Stats().Total
		path := filepath.Join(c.TempDir(), "notes.txt")
		c.Assert(os.WriteFile(path, []byte("hello"), 0o600), qt.IsNil)
		_, err := svc.Create(input("Bad", models.StatusDraft), path)
		c.Assert(err, qt.ErrorMatches, `service.Create: only JPG or PNG images are allowed.*`)
		c.Assert(svc.Stats().Total, qt.Equals, before)
	})
}

func TestEdit(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})
	created, err := svc.Create(input("First", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	id := created.Post.ID

	c.Run("empty patch is unchanged", func(c *qt.C) {
		res, err := svc.Edit(id, &models.PostPatch{}, EditImage{})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Action, qt.Equals, models.ActionUnchanged)
	})

	c.Run("same value is unchanged", func(c *qt.C) {
		title := "First"
		res, err := svc.Edit(id, &models.PostPatch{Title: &title}, EditImage{})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Action, qt.Equals, models.ActionUnchanged)
	})

	c.Run("title change is written", func(c *qt.C) {
		title := "Second"
		res, err := svc.Edit(id[:8], &models.PostPatch{Title: &title}, EditImage{})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Action, qt.Equals, models.ActionUpdated)
		got, err := svc.View(id)
		c.Assert(err, qt.IsNil)
		c.Assert(got.Title, qt.Equals, "Second")
	})

	c.Run("image attach then remove", func(c *qt.C) {
		path := filepath.Join(c.TempDir(), "cover.png")
		c.Assert(os.WriteFile(path, pngBytes, 0o600), qt.IsNil)
		res, err := svc.Edit(id, &models.PostPatch{}, EditImage{Path: path})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Action, qt.Equals, models.ActionUpdated)
		c.Assert(res.Post.Image, qt.Not(qt.Equals), "")

		res, err = svc.Edit(id, &models.PostPatch{}, EditImage{Remove: true})
		c.Assert(err, qt.IsNil)
		c.Assert(res.Action, qt.Equals, models.ActionUpdated)
		c.Assert(res.Post.Image, qt.Equals, "")
	})

	c.Run("path and remove together fail", func(c *qt.C) {
		_, err := svc.Edit(id, &models.PostPatch{}, EditImage{Path: "x.png", Remove: true})
		c.Assert(err, qt.ErrorMatches, `service.Edit: .*not both`)
	})

	c.Run("unknown id", func(c *qt.C) {
		_, err := svc.Edit("nope", &models.PostPatch{}, EditImage{})
		c.Assert(err, qt.ErrorIs, store.ErrNotFound)
	})
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestList_PersistsAndClampsPage(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	clk := &clock{epoch}
	svc := newTestService(t, home, clk)

	for i := range 12 {
		clk.t = epoch.Add(time.Duration(i) * time.Hour)
		status := models.StatusPublished
		if i%3 == 0 {
			status = models.StatusDraft
		}
		_, err := svc.Create(input(fmt.Sprintf("Post %02d", i), status), "")
		c.Assert(err, qt.IsNil)
	}

	page, err := svc.List(ListOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 1)
	c.Assert(page.TotalPages, qt.Equals, 3)
	c.Assert(page.Items, qt.HasLen, 5)
	c.Assert(page.Items[0].Title, qt.Equals, "Post 11")

	page, err = svc.List(ListOptions{Delta: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 2)

	page, err = svc.List(ListOptions{Delta: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 3)

	page, err = svc.List(ListOptions{Delta: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 3, qt.Commentf("next on the last page stays put"))

	// The persisted page survives a reload.
	c.Assert(svc.Close(), qt.IsNil)
	svc = newTestService(t, home, clk)
	page, err = svc.List(ListOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 3)

	// A filter that shrinks the result set clamps the page.
	page, err = svc.List(ListOptions{Status: models.StatusDraft})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Total, qt.Equals, 4)
	c.Assert(page.Page, qt.Equals, 1)
	for _, p := range page.Items {
		c.Assert(p.Status, qt.Equals, models.StatusDraft)
	}

	page, err = svc.List(ListOptions{Page: 2, Search: "post"})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 2)

	page, err = svc.List(ListOptions{Search: "post 1", ResetPage: true})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 1)
	c.Assert(page.Total, qt.Equals, 2)

	page, err = svc.List(ListOptions{Delta: -5})
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 1)
}

// ---------------------------------------------------------------------------
// Delete / Restore / Destroy / Stats
// ---------------------------------------------------------------------------

func TestLifecycle(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	pub, err := svc.Create(input("Pub", models.StatusPublished), "")
	c.Assert(err, qt.IsNil)
	draft, err := svc.Create(input("Draft", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	c.Assert(svc.Stats(), qt.DeepEquals, models.Stats{Total: 2, Published: 1, Draft: 1})

	before, err := svc.View(pub.Post.ID)
	c.Assert(err, qt.IsNil)

	res, err := svc.Delete(pub.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Action, qt.Equals, models.ActionDeleted)
	c.Assert(svc.Stats(), qt.DeepEquals, models.Stats{Total: 1, Published: 0, Draft: 1, Deleted: 1})
	c.Assert(svc.Render(&res.Post), qt.Contains, "(purged after 2024-04-08)")

	res, err = svc.Restore(pub.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Action, qt.Equals, models.ActionRestored)
	after, err := svc.View(pub.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(after.Equal(before), qt.IsTrue)

	res, err = svc.Destroy(draft.Post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Action, qt.Equals, models.ActionDestroyed)
	c.Assert(svc.Stats(), qt.DeepEquals, models.Stats{Total: 1, Published: 1})
	c.Assert(svc.Trash(), qt.HasLen, 0)
}

// ---------------------------------------------------------------------------
// Export / Import
// ---------------------------------------------------------------------------

func TestExport_SkipsDeleted(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	_, err := svc.Create(input("Keep me", models.StatusPublished), "")
	c.Assert(err, qt.IsNil)
	gone, err := svc.Create(input("Trash me", models.StatusDraft), "")
	c.Assert(err, qt.IsNil)
	_, err = svc.Delete(gone.Post.ID)
	c.Assert(err, qt.IsNil)

	dir := filepath.Join(t.TempDir(), "export")
	paths, err := svc.Export(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(paths, qt.DeepEquals, []string{filepath.Join(dir, "keep-me.md")})
}

func TestImport(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	legacy := []map[string]any{
		{"id": 1712000000000, "title": "From browser", "author": "Ben", "description": "d", "content": "c",
			"category": "Food", "status": "published", "image": nil, "publishDate": "2024-04-01T08:00:00.000Z",
			"isDeleted": false, "deletedAt": nil},
		{"id": "1712000000001", "title": "Binned", "author": "Ben", "description": "d", "content": "c",
			"category": "Food", "status": "draft", "isDeleted": true, "deletedAt": epoch.UnixMilli()},
	}
	data, err := json.Marshal(legacy)
	c.Assert(err, qt.IsNil)
	path := filepath.Join(t.TempDir(), "blogs.json")
	c.Assert(os.WriteFile(path, data, 0o600), qt.IsNil)

	added, skipped, err := svc.Import(path)
	c.Assert(err, qt.IsNil)
	c.Assert(added, qt.Equals, 2)
	c.Assert(skipped, qt.Equals, 0)
	c.Assert(svc.Stats(), qt.DeepEquals, models.Stats{Total: 1, Published: 1, Deleted: 1})

	added, skipped, err = svc.Import(path)
	c.Assert(err, qt.IsNil)
	c.Assert(added, qt.Equals, 0)
	c.Assert(skipped, qt.Equals, 2)

	_, _, err = svc.Import(filepath.Join(t.TempDir(), "missing.json"))
	c.Assert(err, qt.ErrorIs, os.ErrNotExist)
}

func TestImport_OutOfListCategoryStaysEditable(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	path := filepath.Join(t.TempDir(), "blogs.json")
	c.Assert(os.WriteFile(path, []byte(`[{"id":"1700000000000","title":"Match day","author":"Ana",
		"description":"d","content":"c","category":"Sports","status":"draft",
		"publishDate":null,"isDeleted":false,"deletedAt":null}]`), 0o600), qt.IsNil)

	added, _, err := svc.Import(path)
	c.Assert(err, qt.IsNil)
	c.Assert(added, qt.Equals, 1)

	title := "New title"
	res, err := svc.Edit("1700000000000", &models.PostPatch{Title: &title}, EditImage{})
	c.Assert(err, qt.IsNil)
	c.Assert(res.Action, qt.Equals, models.ActionUpdated)
	c.Assert(res.Post.Category, qt.Equals, "Sports")
}

func TestImport_RejectsUnknownStatus(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(t, t.TempDir(), &clock{epoch})

	path := filepath.Join(t.TempDir(), "blogs.json")
	c.Assert(os.WriteFile(path, []byte(`[{"id":"9","title":"T","author":"A","description":"d",
		"content":"c","category":"Food","status":"archived","isDeleted":false}]`), 0o600), qt.IsNil)

	added, _, err := svc.Import(path)
	c.Assert(err, qt.ErrorIs, models.ErrInvalidStatus)
	c.Assert(err, qt.ErrorMatches, `.*post 9.*`)
	c.Assert(added, qt.Equals, 0)
	c.Assert(svc.Stats(), qt.DeepEquals, models.Stats{})
}
