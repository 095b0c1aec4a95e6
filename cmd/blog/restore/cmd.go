// Package restorecmd implements the `blog restore` command.
package restorecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog restore`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the restore command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "restore <post-id>",
		Short: "Restore a post from the trash by ID or prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Restore(args[0])
	if err != nil {
		return err
	}
	if res.Action == models.ActionRestored {
		fmt.Fprintf(cmd.OutOrStdout(), "Restored: %s\n", res.Post.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Not in trash: %s\n", res.Post.Title)
	}
	return nil
}
