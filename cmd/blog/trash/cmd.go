// Package trashcmd implements the `blog trash` command.
package trashcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/markdown"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog trash`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	json bool
}

// New creates the trash command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "trash",
		Short: "List deleted posts that can still be restored",
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.json, "json", false, "Print the trash as JSON")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return err
	}
	defer svc.Close()

	entries := svc.Trash()
	out := cmd.OutOrStdout()
	if c.json {
		return shared.WriteJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "Trash is empty.")
		return nil
	}

	fmt.Fprintf(out, "\n Trash (%d posts) \n", len(entries))
	for i, e := range entries {
		purge := "kept until restored"
		if e.PurgeAt != nil {
			purge = "purged after " + markdown.FormatDate(e.PurgeAt)
		}
		fmt.Fprintf(out, "\n [%d] %s\n", i+1, e.Post.Title)
		fmt.Fprintf(out, "     %s | %s | deleted %s | %s\n",
			shared.ShortID(e.Post.ID), e.Post.Author, markdown.FormatDate(e.Post.DeletedAt), purge)
	}
	return nil
}
