// Package mcpcmd implements the `blog mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	internalmcp "github.com/go-ports/blogadmin/internal/mcp"
)

// Command implements `blog mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the blog MCP server (stdio transport)",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	return internalmcp.Serve(cmd.Context(), c.ctx.BlogHome)
}
