// Package listing implements the list view pipeline: active set, search and
// status filter, publish-date ordering, and clamped pagination.
package listing

import (
	"sort"
	"strings"

	"github.com/go-ports/blogadmin/internal/models"
)

// DefaultPageSize is the number of posts per page.
const DefaultPageSize = 5

// Query narrows the active set. Zero values match everything.
type Query struct {
	Search string        // case-insensitive substring of title or author
	Status models.Status // exact match when non-empty
}

// Page is a pagination envelope for list results. Page is 1-based; Total is
// the number of items matching the query before pagination.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// Active returns the posts that are not soft-deleted.
func Active(posts []models.Post) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out
}

// Deleted returns the soft-deleted posts.
func Deleted(posts []models.Post) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.IsDeleted {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether p satisfies q.
func (q Query) Match(p *models.Post) bool {
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Author), needle)
}

// Filter returns the active posts matching q, in input order.
func Filter(posts []models.Post, q Query) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if !posts[i].IsDeleted && q.Match(&posts[i]) {
			out = append(out, posts[i])
		}
	}
	return out
}

// SortByPublishDate orders posts newest first in place. Undated posts go
// after every dated one; ties keep their relative order.
func SortByPublishDate(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishDate, posts[j].PublishDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}

// TotalPages returns max(ceil(count/pageSize), 1).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := (count + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage pins page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices items to the requested page after clamping it.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := TotalPages(total, pageSize)
	page = ClampPage(page, totalPages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}

// View runs the full list pipeline: filter, sort, paginate.
func View(posts []models.Post, q Query, page, pageSize int) Page[models.Post] {
	filtered := Filter(posts, q)
	SortByPublishDate(filtered)
	return Paginate(filtered, page, pageSize)
}
