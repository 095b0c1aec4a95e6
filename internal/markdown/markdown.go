// Package markdown renders posts as Markdown for the detail view and for
// file export.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/blogadmin/internal/images"
	"github.com/go-ports/blogadmin/internal/models"
)

// DateLayout is the layout used for dates in rendered output.
const DateLayout = "2006-01-02"

// NotPublished is shown in place of a missing publish date.
const NotPublished = "Not published"

// RenderPost produces the detail view of a post. purgeAt is shown for
// deleted posts when non-nil.
func RenderPost(p *models.Post, purgeAt *time.Time) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(p.Title)
	sb.WriteString("\n\n**ID:** ")
	sb.WriteString(p.ID)
	sb.WriteString("\n**Author:** ")
	sb.WriteString(p.Author)
	sb.WriteString("\n**Category:** ")
	sb.WriteString(p.Category)
	sb.WriteString("\n**Status:** ")
	sb.WriteString(string(p.Status))
	sb.WriteString("\n**Published:** ")
	sb.WriteString(FormatDate(p.PublishDate))
	sb.WriteString("\n**Image:** ")
	sb.WriteString(describeImage(p.Image))
	if p.IsDeleted {
		sb.WriteString("\n**Deleted:** ")
		sb.WriteString(FormatDate(p.DeletedAt))
		if purgeAt != nil {
			sb.WriteString(" (purged after ")
			sb.WriteString(purgeAt.Local().Format(DateLayout))
			sb.WriteString(")")
		}
	}
	sb.WriteString("\n\n> ")
	sb.WriteString(strings.ReplaceAll(p.Description, "\n", "\n> "))
	sb.WriteString("\n\n")
	sb.WriteString(p.Content)
	sb.WriteString("\n")
	return sb.String()
}

// FormatDate formats t for display, or NotPublished when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return NotPublished
	}
	return t.Local().Format(DateLayout)
}

func describeImage(dataURL string) string {
	if dataURL == "" {
		return "none"
	}
	mime, data, err := images.Decode(dataURL)
	if err != nil {
		return "attached (unreadable)"
	}
	return fmt.Sprintf("attached (%s, %d bytes)", mime, len(data))
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// frontMatter is the YAML header written at the top of each exported file.
type frontMatter struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Category    string `yaml:"category"`
	Status      string `yaml:"status"`
	Description string `yaml:"description"`
	PublishDate string `yaml:"publish_date,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

// RenderExport produces the exported file body for p. imageFile is the
// relative name of the image written beside it, or "".
func RenderExport(p *models.Post, imageFile string) (string, error) {
	fm := frontMatter{
		ID:          p.ID,
		Title:       p.Title,
		Author:      p.Author,
		Category:    p.Category,
		Status:      string(p.Status),
		Description: p.Description,
		Image:       imageFile,
	}
	if p.PublishDate != nil {
		fm.PublishDate = p.PublishDate.UTC().Format(time.RFC3339)
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("markdown.RenderExport: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n# ")
	sb.WriteString(p.Title)
	sb.WriteString("\n\n")
	if imageFile != "" {
		sb.WriteString("![")
		sb.WriteString(p.Title)
		sb.WriteString("](")
		sb.WriteString(imageFile)
		sb.WriteString(")\n\n")
	}
	sb.WriteString(p.Content)
	sb.WriteString("\n")
	return sb.String(), nil
}

// Export writes each post to <dir>/<slug>.md, plus its decoded image when
// present. Colliding slugs get a numeric suffix. Returns the written
// Markdown paths in input order.
func Export(dir string, posts []models.Post) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("markdown.Export: %w", err)
	}

	used := make(map[string]int, len(posts))
	paths := make([]string, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		name := uniqueSlug(Slug(p.Title, p.ID), used)

		imageFile := ""
		if p.Image != "" {
			mime, data, err := images.Decode(p.Image)
			if err != nil {
				return paths, fmt.Errorf("markdown.Export: post %s: %w", p.ID, err)
			}
			imageFile = name + images.Extension(mime)
			if err := os.WriteFile(filepath.Join(dir, imageFile), data, 0o644); err != nil { // #nosec G306 -- exported images are public post content
				return paths, fmt.Errorf("markdown.Export: %w", err)
			}
		}

		body, err := RenderExport(p, imageFile)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, name+".md")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil { // #nosec G306 -- exported posts are public content
			return paths, fmt.Errorf("markdown.Export: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a file-name-safe slug from title, falling back to the
// first 8 characters of id.
func Slug(title, id string) string {
	s := strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		s = id
		if len(s) > 8 {
			s = s[:8]
		}
	}
	if s == "" {
		s = "post"
	}
	return s
}

func uniqueSlug(slug string, used map[string]int) string {
	name := slug
	for n := 2; used[name] > 0; n++ {
		name = fmt.Sprintf("%s-%d", slug, n)
	}
	used[name]++
	return name
}
