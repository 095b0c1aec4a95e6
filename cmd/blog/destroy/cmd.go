// Package destroycmd implements the `blog destroy` command.
package destroycmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog destroy`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the destroy command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "destroy <post-id>",
		Short: "Permanently delete a post by ID or prefix",
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
	if !c.yes && !shared.Confirm(cmd, fmt.Sprintf("Permanently delete %q? This cannot be undone.", p.Title)) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	res, err := svc.Destroy(p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Permanently deleted: %s\n", res.Post.Title)
	return nil
}
