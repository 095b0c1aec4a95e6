// Package statscmd implements the `blog stats` command.
package statscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/blogadmin/cmd/blog/shared"
	"github.com/go-ports/blogadmin/internal/service"
)

// Command implements `blog stats`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	json bool
}

// New creates the stats command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters",
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.json, "json", false, "Print the counters as JSON")
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

	st := svc.Stats()
	out := cmd.OutOrStdout()
	if c.json {
		return shared.WriteJSON(out, st)
	}
	fmt.Fprintf(out, "Total posts: %d\n", st.Total)
	fmt.Fprintf(out, "Published:   %d\n", st.Published)
	fmt.Fprintf(out, "Drafts:      %d\n", st.Draft)
	fmt.Fprintf(out, "In trash:    %d\n", st.Deleted)
	return nil
}
