// Package listcmd implements the `blog list` command.
package listcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/markdown"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	search string
	status string
	page   int
	next   bool
	prev   bool
	json   bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List active posts, newest first, one page at a time",
		Long: "List active posts sorted by publish date, newest first; drafts without a date come last.\n" +
			"The current page is remembered between runs. Changing --search or --status starts again at page 1.",
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.search, "search", "", "Match title or author, case-insensitive")
	f.StringVar(&c.status, "status", "", "Only draft or published posts")
	f.IntVar(&c.page, "page", 0, "Show this page")
	f.BoolVar(&c.next, "next", false, "Show the next page")
	f.BoolVar(&c.prev, "prev", false, "Show the previous page")
	f.BoolVar(&c.json, "json", false, "Print the page as JSON")
	c.cmd.MarkFlagsMutuallyExclusive("page", "next", "prev")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	opts := service.ListOptions{Search: c.search, Page: c.page}
	if c.status != "" {
		st, err := models.ParseStatus(c.status)
		if err != nil {
			return err
		}
		opts.Status = st
	}
	switch {
	case c.next:
		opts.Delta = 1
	case c.prev:
		opts.Delta = -1
	}
	f := cmd.Flags()
	opts.ResetPage = f.Changed("search") || f.Changed("status")

	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return err
	}
	defer svc.Close()

	page, err := svc.List(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.json {
		return shared.WriteJSON(out, page)
	}
	if page.Total == 0 {
		fmt.Fprintln(out, "No posts found.")
		return nil
	}

	fmt.Fprintf(out, "\n Posts (page %d of %d, %d total) \n", page.Page, page.TotalPages, page.Total)
	offset := (page.Page - 1) * page.PageSize
	for i, p := range page.Items {
		fmt.Fprintf(out, "\n [%d] %s\n", offset+i+1, p.Title)
		fmt.Fprintf(out, "     %s | %s | %s | %s | %s\n",
			shared.ShortID(p.ID), p.Author, p.Category, p.Status, markdown.FormatDate(p.PublishDate))
		fmt.Fprintf(out, "     %s\n", p.Description)
	}
	return nil
}
