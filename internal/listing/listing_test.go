package listing_test

import (
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/blogadmin/internal/listing"
	"github.com/go-ports/blogadmin/internal/models"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func post(id, title, author string, status models.Status, daysAfterBase int) models.Post {
	p := models.Post{ID: id, Title: title, Author: author, Status: status}
	if daysAfterBase >= 0 {
		t := base.AddDate(0, 0, daysAfterBase)
		p.PublishDate = &t
	}
	return p
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func fixture() []models.Post {
	deleted := post("gone", "Go tips", "Ana", models.StatusPublished, 9)
	deleted.IsDeleted = true
	deleted.DeletedAt = &base
	return []models.Post{
		post("a", "Go generics", "Ana Lima", models.StatusPublished, 1),
		post("b", "Ramen at home", "Ben", models.StatusDraft, -1),
		post("c", "Travel light", "GOpher Jo", models.StatusPublished, 5),
		post("d", "Piano scales", "Dee", models.StatusDraft, -1),
		deleted,
	}
}

func TestActiveDeleted(t *testing.T) {
	c := qt.New(t)
	posts := fixture()
	c.Assert(ids(listing.Active(posts)), qt.DeepEquals, []string{"a", "b", "c", "d"})
	c.Assert(ids(listing.Deleted(posts)), qt.DeepEquals, []string{"gone"})
}

func TestFilter_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name  string
		query listing.Query
		want  []string
	}{
		{"empty query returns active set", listing.Query{}, []string{"a", "b", "c", "d"}},
		{"search is case-insensitive on title", listing.Query{Search: "RAMEN"}, []string{"b"}},
		{"search matches author", listing.Query{Search: "gopher"}, []string{"c"}},
		{"search matches title or author", listing.Query{Search: "go"}, []string{"a", "c"}},
		{"status filter is exact", listing.Query{Status: models.StatusDraft}, []string{"b", "d"}},
		{"search and status combine", listing.Query{Search: "go", Status: models.StatusPublished}, []string{"a", "c"}},
		{"deleted posts never match", listing.Query{Search: "tips"}, []string{}},
		{"no match", listing.Query{Search: "zzz"}, []string{}},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(ids(listing.Filter(fixture(), tc.query)), qt.DeepEquals, tc.want)
		})
	}
}

func TestFilter_StatusOnlyReturnsThatStatus(t *testing.T) {
	c := qt.New(t)
	for _, st := range models.ValidStatuses {
		for _, p := range listing.Filter(fixture(), listing.Query{Status: st}) {
			c.Assert(p.Status, qt.Equals, st)
		}
	}
}

func TestSortByPublishDate(t *testing.T) {
	c := qt.New(t)

	posts := []models.Post{
		post("undated-1", "", "", models.StatusDraft, -1),
		post("old", "", "", models.StatusPublished, 1),
		post("undated-2", "", "", models.StatusDraft, -1),
		post("new", "", "", models.StatusPublished, 10),
		post("mid", "", "", models.StatusPublished, 4),
	}
	listing.SortByPublishDate(posts)
	c.Assert(ids(posts), qt.DeepEquals, []string{"new", "mid", "old", "undated-1", "undated-2"})
}

func TestTotalPagesAndClamp(t *testing.T) {
	c := qt.New(t)

	c.Assert(listing.TotalPages(0, 5), qt.Equals, 1)
	c.Assert(listing.TotalPages(5, 5), qt.Equals, 1)
	c.Assert(listing.TotalPages(6, 5), qt.Equals, 2)
	c.Assert(listing.TotalPages(11, 5), qt.Equals, 3)
	c.Assert(listing.TotalPages(6, 0), qt.Equals, 2)

	c.Assert(listing.ClampPage(0, 3), qt.Equals, 1)
	c.Assert(listing.ClampPage(2, 3), qt.Equals, 2)
	c.Assert(listing.ClampPage(9, 3), qt.Equals, 3)
}

func TestPaginate(t *testing.T) {
	c := qt.New(t)

	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	c.Run("middle page", func(c *qt.C) {
		p := listing.Paginate(items, 2, 5)
		c.Assert(p.Items, qt.DeepEquals, []int{5, 6, 7, 8, 9})
		c.Assert(p.Page, qt.Equals, 2)
		c.Assert(p.TotalPages, qt.Equals, 3)
		c.Assert(p.Total, qt.Equals, 12)
	})

	c.Run("last partial page", func(c *qt.C) {
		p := listing.Paginate(items, 3, 5)
		c.Assert(p.Items, qt.DeepEquals, []int{10, 11})
	})

	c.Run("page past the end clamps to last page", func(c *qt.C) {
		p := listing.Paginate(items, 7, 5)
		c.Assert(p.Page, qt.Equals, 3)
		c.Assert(p.Items, qt.DeepEquals, []int{10, 11})
	})

	c.Run("empty input yields one empty page", func(c *qt.C) {
		p := listing.Paginate([]int{}, 4, 5)
		c.Assert(p.Page, qt.Equals, 1)
		c.Assert(p.TotalPages, qt.Equals, 1)
		c.Assert(p.Items, qt.HasLen, 0)
	})
}

func TestView_ClampsWhenFilterShrinksResults(t *testing.T) {
	c := qt.New(t)

	posts := make([]models.Post, 0, 12)
	for i := range 12 {
		status := models.StatusPublished
		if i%4 == 0 {
			status = models.StatusDraft
		}
		posts = append(posts, post(fmt.Sprintf("p%02d", i), fmt.Sprintf("Post %d", i), "Ana", status, i))
	}

	all := listing.View(posts, listing.Query{}, 3, 5)
	c.Assert(all.Page, qt.Equals, 3)
	c.Assert(all.TotalPages, qt.Equals, 3)

	drafts := listing.View(posts, listing.Query{Status: models.StatusDraft}, 3, 5)
	c.Assert(drafts.Total, qt.Equals, 3)
	c.Assert(drafts.TotalPages, qt.Equals, 1)
	c.Assert(drafts.Page, qt.Equals, 1)
	c.Assert(ids(drafts.Items), qt.DeepEquals, []string{"p08", "p04", "p00"})
}
