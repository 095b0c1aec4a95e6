// Package deletecmd implements the `blog delete` command.
package deletecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/models"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog delete`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the delete command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Move a post to the trash by ID or prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Skip the confirmation prompt")
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

	p, err := svc.View(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if p.IsDeleted {
		fmt.Fprintf(out, "Already in trash: %s\n", p.Title)
		return nil
	}
	if !c.yes && !shared.Confirm(cmd, fmt.Sprintf("Move %q to trash?", p.Title)) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	res, err := svc.Delete(p.ID)
	if err != nil {
		return err
	}
	if res.Action == models.ActionDeleted {
		fmt.Fprintf(out, "Moved to trash: %s (restore within %d days)\n", res.Post.Title, svc.Config.Retention.Days)
	}
	return nil
}
