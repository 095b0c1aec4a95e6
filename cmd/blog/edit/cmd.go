// Package editcmd implements the `blog edit` command.
package editcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog edit`.
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
	removeImage bool
}

// New creates the edit command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "edit <post-id>",
		Short: "Edit a post by ID or prefix; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.title, "title", "", "New title")
	f.StringVar(&c.author, "author", "", "New author")
	f.StringVar(&c.description, "description", "", "New summary")
	f.StringVar(&c.content, "content", "", "New body")
	f.StringVar(&c.contentFile, "content-file", "", "Path to a file containing the new body")
	f.StringVar(&c.category, "category", "", "New category")
	f.StringVar(&c.status, "status", "", "draft or published")
	f.StringVar(&c.image, "image", "", "Replace the image with this JPG or PNG file")
	f.BoolVar(&c.removeImage, "remove-image", false, "Remove the image")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	patch, err := c.patch(cmd)
	if err != nil {
		return err
	}

	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Edit(args[0], patch, service.EditImage{Path: c.image, Remove: c.removeImage})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Action == models.ActionUnchanged {
		fmt.Fprintf(out, "No changes to %s (id: %s)\n", res.Post.Title, res.Post.ID)
		return nil
	}
	fmt.Fprintf(out, "Updated: %s (id: %s)\n", res.Post.Title, res.Post.ID)
	return nil
}

// patch builds a PostPatch from the flags that were explicitly set.
func (c *Command) patch(cmd *cobra.Command) (*models.PostPatch, error) {
	f := cmd.Flags()
	p := &models.PostPatch{}
	if f.Changed("title") {
		p.Title = &c.title
	}
	if f.Changed("author") {
		p.Author = &c.author
	}
	if f.Changed("description") {
		p.Description = &c.description
	}
	if f.Changed("content") && f.Changed("content-file") {
		return nil, fmt.Errorf("use either --content or --content-file, not both")
	}
	if f.Changed("content") {
		p.Content = &c.content
	}
	if f.Changed("content-file") {
		data, err := os.ReadFile(c.contentFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read content file %q: %w", c.contentFile, err)
		}
		content := string(data)
		p.Content = &content
	}
	if f.Changed("category") {
		p.Category = &c.category
	}
	if f.Changed("status") {
		st, err := models.ParseStatus(c.status)
		if err != nil {
			return nil, err
		}
		p.Status = &st
	}
	return p, nil
}
