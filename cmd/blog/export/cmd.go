// Package exportcmd implements the `blog export` command.
package exportcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export <dir>",
		Short: "Write active posts as Markdown files with YAML front matter",
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

	paths, err := svc.Export(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d posts to %s\n", len(paths), args[0])
	return nil
}
