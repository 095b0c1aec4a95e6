// Package models defines the core data types for the blog store.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ValidStatuses lists the accepted status values.
var ValidStatuses = []Status{StatusDraft, StatusPublished}

// DefaultCategories is the category list offered when config does not override it.
var DefaultCategories = []string{"Technology", "Food", "Health", "Music", "Education", "Travel"}

var (
	// ErrRequiredField is returned when a required post field is blank.
	ErrRequiredField = errors.New("required field missing")
	// ErrInvalidStatus is returned for a status other than draft or published.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidCategory is returned for a category outside the configured list.
	ErrInvalidCategory = errors.New("invalid category")
)

// Mutation actions reported in Result.Action.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
	ActionDeleted   = "deleted"
	ActionRestored  = "restored"
	ActionDestroyed = "destroyed"
)

// Post is a single blog post as held in the store.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	Image       string     `json:"image,omitempty"` // inline data URL
	PublishDate *time.Time `json:"publishDate"`
	IsDeleted   bool       `json:"isDeleted"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// Clone returns a deep copy of p.
func (p Post) Clone() Post {
	if p.PublishDate != nil {
		t := *p.PublishDate
		p.PublishDate = &t
	}
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		p.DeletedAt = &t
	}
	return p
}

// Equal reports whether p and o hold the same values. Time fields are
// compared by instant, not by pointer.
func (p Post) Equal(o Post) bool {
	return p.ID == o.ID &&
		p.Title == o.Title &&
		p.Author == o.Author &&
		p.Description == o.Description &&
		p.Content == o.Content &&
		p.Category == o.Category &&
		p.Status == o.Status &&
		p.Image == o.Image &&
		p.IsDeleted == o.IsDeleted &&
		timeEqual(p.PublishDate, o.PublishDate) &&
		timeEqual(p.DeletedAt, o.DeletedAt)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// PostInput is the caller-supplied data for a new post.
type PostInput struct {
	Title       string
	Author      string
	Description string
	Content     string
	Category    string
	Status      Status // defaults to draft when empty
	Image       string // optional data URL
}

// PostPatch carries the fields to change on edit. Nil fields are left alone.
type PostPatch struct {
	Title       *string
	Author      *string
	Description *string
	Content     *string
	Category    *string
	Status      *Status
	Image       *string
}

// Empty reports whether the patch changes nothing.
func (p *PostPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Description == nil &&
		p.Content == nil && p.Category == nil && p.Status == nil && p.Image == nil
}

// Apply returns a copy of post with the patch fields written over it.
// Identity, publish date and deletion state are never touched.
func (p *PostPatch) Apply(post Post) Post {
	out := post.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Author != nil {
		out.Author = *p.Author
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	return out
}

// Result is returned from every store mutation.
type Result struct {
	Post   Post
	Action string
}

// Stats summarises the store for the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Deleted   int `json:"deleted"`
}

// NewPost builds a post from input, assigning a fresh ID and, when the
// post is created as published, the publish date.
func NewPost(in *PostInput, now time.Time) Post {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	p := Post{
		ID:          NewID(),
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Content:     in.Content,
		Category:    in.Category,
		Status:      status,
		Image:       in.Image,
	}
	if status == StatusPublished {
		t := now.UTC()
		p.PublishDate = &t
	}
	return p
}

// NewID returns a new random post identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseStatus validates s as a Status. The empty string is rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ValidStatuses, st) {
		return "", fmt.Errorf("%w: %q (want draft or published)", ErrInvalidStatus, s)
	}
	return st, nil
}

// Validate checks the required fields, status, and category of p.
// An empty categories list accepts any non-blank category.
func Validate(p *Post, categories []string) error {
	required := []struct {
		name, value string
	}{
		{"title", p.Title},
		{"author", p.Author},
		{"description", p.Description},
		{"content", p.Content},
		{"category", p.Category},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrRequiredField, f.name)
		}
	}
	if !slices.Contains(ValidStatuses, p.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}
	if len(categories) > 0 && !slices.Contains(categories, p.Category) {
		return fmt.Errorf("%w: %q (choose one of %s)", ErrInvalidCategory, p.Category, strings.Join(categories, ", "))
	}
	return nil
}
