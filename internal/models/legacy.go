package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// legacyPost mirrors the browser localStorage shape, where ids may be
// numeric and deletedAt is epoch milliseconds.
type legacyPost struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	Category    string          `json:"category"`
	Status      Status          `json:"status"`
	Image       *string         `json:"image"`
	PublishDate json.RawMessage `json:"publishDate"`
	IsDeleted   bool            `json:"isDeleted"`
	DeletedAt   json.RawMessage `json:"deletedAt"`
}

// DecodeLegacyPosts decodes a JSON array of posts in either the native
// shape or the browser export shape.
func DecodeLegacyPosts(data []byte) ([]Post, error) {
	var raw []legacyPost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("models.DecodeLegacyPosts: %w", err)
	}
	out := make([]Post, 0, len(raw))
	for i, lp := range raw {
		id, err := rawString(lp.ID)
		if err != nil || id == "" {
			return nil, fmt.Errorf("models.DecodeLegacyPosts: post %d: missing id", i)
		}
		published, err := rawTime(lp.PublishDate)
		if err != nil {
			return nil, fmt.Errorf("models.DecodeLegacyPosts: post %s publishDate: %w", id, err)
		}
		deleted, err := rawTime(lp.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("models.DecodeLegacyPosts: post %s deletedAt: %w", id, err)
		}
		status := StatusDraft
		if lp.Status != "" {
			if status, err = ParseStatus(string(lp.Status)); err != nil {
				return nil, fmt.Errorf("models.DecodeLegacyPosts: post %s: %w", id, err)
			}
		}
		p := Post{
			ID:          id,
			Title:       lp.Title,
			Author:      lp.Author,
			Description: lp.Description,
			Content:     lp.Content,
			Category:    lp.Category,
			Status:      status,
			PublishDate: published,
			IsDeleted:   lp.IsDeleted,
			DeletedAt:   deleted,
		}
		if lp.Image != nil {
			p.Image = *lp.Image
		}
		if !p.IsDeleted {
			p.DeletedAt = nil
		}
		out = append(out, p)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// rawString accepts a JSON string or number.
func rawString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// rawTime accepts null, epoch milliseconds, or an RFC 3339 string.
func rawTime(raw json.RawMessage) (*time.Time, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t := time.UnixMilli(ms).UTC()
			return &t, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		t = t.UTC()
		return &t, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return nil, err
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t, nil
}
