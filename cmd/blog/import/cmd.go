// Package importcmd implements the `blog import` command.
package importcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog import`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the import command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import posts from a JSON array (native or browser localStorage export)",
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

	added, skipped, err := svc.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d posts (%d skipped, already present)\n", added, skipped)
	return nil
}
