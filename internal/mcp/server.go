// Package mcp provides the stdio MCP server exposing blog tools for assistants.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/blogadmin/internal/buildinfo"
	"github.com/go-ports/blogadmin/internal/config"
	"github.com/go-ports/blogadmin/internal/listing"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

var validStatuses = []string{string(models.StatusDraft), string(models.StatusPublished)}

// listDescription and deleteDescription carry the page size and retention
// window from cfg.
func listDescription(cfg *config.BlogConfig) string {
	return fmt.Sprintf("List active (not deleted) blog posts, newest publish date first, %d per page. "+
		"Filter by a case-insensitive search over title or author, and by status.", cfg.Listing.PageSize)
}

const createDescription = `Create a blog post. Every text field is required. A post created as "published" gets today's publish date; drafts have none.`

func deleteDescription(cfg *config.BlogConfig) string {
	return fmt.Sprintf("Move a blog post to the trash. Trashed posts can be restored for %d days, "+
		"after which they are purged on the next load.", cfg.Retention.Days)
}

// NewServer creates and registers all blog tools on a new MCP server.
// It is kept separate from Serve so that tests can obtain a configured
// server without the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("blogadmin", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for the blog at home, blocking until
// stdin closes or ctx is cancelled.
func Serve(ctx context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	stdio := mcpserver.NewStdioServer(NewServer(svc))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools wires all blog tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("blog_list",
		mcp.WithDescription(listDescription(svc.Config)),
		mcp.WithString("search",
			mcp.Description("Matches title or author, case-insensitive."),
		),
		mcp.WithString("status",
			mcp.Description("Only posts with this status."),
			mcp.Enum(validStatuses...),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (default 1). Out-of-range pages are clamped."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(svc, req)
	})

	s.AddTool(mcp.NewTool("blog_view",
		mcp.WithDescription("Show one post, deleted or not, by ID or unique ID prefix."),
		mcp.WithString("id", mcp.Description("Post ID or prefix."), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleView(svc, req)
	})

	s.AddTool(mcp.NewTool("blog_stats",
		mcp.WithDescription("Dashboard counters: total, published and draft active posts, plus posts in the trash."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Stats())
	})

	categoryOpts := []mcp.PropertyOption{
		mcp.Description("Post category."),
		mcp.Required(),
	}
	if cats := svc.Categories(); len(cats) > 0 {
		categoryOpts = append(categoryOpts, mcp.Enum(cats...))
	}
	s.AddTool(mcp.NewTool("blog_create",
		mcp.WithDescription(createDescription),
		mcp.WithString("title", mcp.Description("Post title."), mcp.Required()),
		mcp.WithString("author", mcp.Description("Author name."), mcp.Required()),
		mcp.WithString("description", mcp.Description("Short summary shown in lists."), mcp.Required()),
		mcp.WithString("content", mcp.Description("Full post body."), mcp.Required()),
		mcp.WithString("category", categoryOpts...),
		mcp.WithString("status",
			mcp.Description("draft (default) or published."),
			mcp.Enum(validStatuses...),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreate(svc, req)
	})

	s.AddTool(mcp.NewTool("blog_delete",
		mcp.WithDescription(deleteDescription(svc.Config)),
		mcp.WithString("id", mcp.Description("Post ID or prefix."), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMutation(req, svc.Delete)
	})

	s.AddTool(mcp.NewTool("blog_restore",
		mcp.WithDescription("Restore a post from the trash."),
		mcp.WithString("id", mcp.Description("Post ID or prefix."), mcp.Required()),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMutation(req, svc.Restore)
	})

	s.AddTool(mcp.NewTool("blog_trash",
		mcp.WithDescription("List posts in the trash with the date each becomes eligible for purge."),
	), func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleTrash(svc)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleList(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status models.Status
	if raw := req.GetString("status", ""); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status = st
	}
	page := req.GetInt("page", 1)
	if page <= 0 {
		page = 1
	}

	result, err := svc.List(service.ListOptions{
		Search: req.GetString("search", ""),
		Status: status,
		Page:   page,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items := make([]map[string]any, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, summary(&result.Items[i]))
	}
	return jsonResult(listing.Page[map[string]any]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		Total:      result.Total,
	})
}

func handleView(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := svc.View(req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := summary(&p)
	out["description"] = p.Description
	out["content"] = p.Content
	out["isDeleted"] = p.IsDeleted
	if p.IsDeleted {
		out["deletedAt"] = formatTime(p.DeletedAt)
		if at := svc.PurgeAt(&p); !at.IsZero() {
			out["purgeAt"] = formatTime(&at)
		}
	}
	out["markdown"] = svc.Render(&p)
	return jsonResult(out)
}

func handleCreate(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.StatusDraft
	if raw := req.GetString("status", ""); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status = st
	}

	res, err := svc.Create(&models.PostInput{
		Title:       req.GetString("title", ""),
		Author:      req.GetString("author", ""),
		Description: req.GetString("description", ""),
		Content:     req.GetString("content", ""),
		Category:    req.GetString("category", ""),
		Status:      status,
	}, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"id":          res.Post.ID,
		"action":      res.Action,
		"status":      res.Post.Status,
		"publishDate": formatTime(res.Post.PublishDate),
	})
}

func handleMutation(req mcp.CallToolRequest, fn func(id string) (models.Result, error)) (*mcp.CallToolResult, error) {
	res, err := fn(req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"id":     res.Post.ID,
		"title":  res.Post.Title,
		"action": res.Action,
	})
}

func handleTrash(svc *service.Service) (*mcp.CallToolResult, error) {
	entries := svc.Trash()
	out := make([]map[string]any, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, map[string]any{
			"id":        e.Post.ID,
			"title":     e.Post.Title,
			"author":    e.Post.Author,
			"deletedAt": formatTime(e.Post.DeletedAt),
			"purgeAt":   formatTime(e.PurgeAt),
		})
	}
	return jsonResult(map[string]any{
		"total": len(out),
		"posts": out,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// summary is the list-row shape of a post. Image bytes are never returned.
func summary(p *models.Post) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"author":      p.Author,
		"category":    p.Category,
		"status":      p.Status,
		"publishDate": formatTime(p.PublishDate),
		"hasImage":    p.Image != "",
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// formatTime renders t as RFC 3339 UTC, or nil when absent so the JSON
// field is null.
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
