// Package initcmd implements the `blog init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the blog home and storage",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.BlogHome)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "Blog initialized at %s\n", svc.BlogHome)
	return nil
}
