// Package rootcmd wires the root cobra.Command for the blog CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/blogadmin/cmd/blog/config"
	createcmd "github.com/go-ports/blogadmin/cmd/blog/create"
	deletecmd "github.com/go-ports/blogadmin/cmd/blog/delete"
	destroycmd "github.com/go-ports/blogadmin/cmd/blog/destroy"
	editcmd "github.com/go-ports/blogadmin/cmd/blog/edit"
	exportcmd "github.com/go-ports/blogadmin/cmd/blog/export"
	importcmd "github.com/go-ports/blogadmin/cmd/blog/import"
	initcmd "github.com/go-ports/blogadmin/cmd/blog/init"
	listcmd "github.com/go-ports/blogadmin/cmd/blog/list"
	mcpcmd "github.com/go-ports/blogadmin/cmd/blog/mcp"
	restorecmd "github.com/go-ports/blogadmin/cmd/blog/restore"
	"github.com/go-ports/blogadmin/cmd/blog/shared"
	statscmd "github.com/go-ports/blogadmin/cmd/blog/stats"
	trashcmd "github.com/go-ports/blogadmin/cmd/blog/trash"
	versioncmd "github.com/go-ports/blogadmin/cmd/blog/version"
	viewcmd "github.com/go-ports/blogadmin/cmd/blog/view"
)

// New creates and returns the root cobra.Command for the blog CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "blog",
		Short:         "Blogadmin: manage blog posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return shared.SetupLogging(cmd.ErrOrStderr(), ctx.LogLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.BlogHome, "blog-home", "",
		"Override blog home directory (default: $BLOG_HOME env → persisted config → ~/.blogadmin)",
	)
	root.PersistentFlags().StringVar(
		&ctx.LogLevel, "log-level", "warn",
		"Log level: debug, info, warn, error",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		createcmd.New(ctx).Cmd(),
		editcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		viewcmd.New(ctx).Cmd(),
		deletecmd.New(ctx).Cmd(),
		trashcmd.New(ctx).Cmd(),
		restorecmd.New(ctx).Cmd(),
		destroycmd.New(ctx).Cmd(),
		statscmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		importcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
