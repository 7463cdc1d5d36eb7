package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/plume/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild on change and serve with live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noServer, _ := cmd.Flags().GetBool("no-server")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Options:  c.options(),
				NoServer: noServer,
			})
		},
	}
	cmd.Flags().Bool("no-server", false, "Rebuild on change without starting the dev server")
	return cmd
}
