// Package createcmd implements the `blog create` command.
package createcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog create`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	title       string
	author      string
	description string
	content     string
	contentFile string
	category    string
	status      string
	image       string
}

// New creates the create command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new blog post",
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "Post title (required)")
	f.StringVar(&c.author, "author", "", "Author name (required)")
	f.StringVar(&c.description, "description", "", "Short summary (required)")
	f.StringVar(&c.content, "content", "", "Post body")
	f.StringVar(&c.contentFile, "content-file", "", "Path to a file containing the post body")
	f.StringVar(&c.category, "category", "", "Category (required)")
	f.StringVar(&c.status, "status", string(models.StatusDraft), "draft or published")
	f.StringVar(&c.image, "image", "", "Path to a JPG or PNG image, at most 1MB")

	_ = c.cmd.MarkFlagRequired("title")
	_ = c.cmd.MarkFlagRequired("author")
	_ = c.cmd.MarkFlagRequired("description")
	_ = c.cmd.MarkFlagRequired("category")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if c.content != "" && c.contentFile != "" {
		return fmt.Errorf("use either --content or --content-file, not both")
	}
	content := c.content
	if c.contentFile != "" {
		data, err := os.ReadFile(c.contentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file %q: %w", c.contentFile, err)
		}
		content = string(data)
	}

	status, err := models.ParseStatus(c.status)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Create(&models.PostInput{
		Title:       c.title,
		Author:      c.author,
		Description: c.description,
		Content:     content,
		Category:    c.category,
		Status:      status,
	}, c.image)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s (id: %s)\n", res.Post.Title, res.Post.ID)
	return nil
}
