// Package commands implements the CLI commands for plume.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/plume/internal/app"
	"go.trai.ch/plume/internal/build"
	"go.trai.ch/plume/internal/core/domain"
)

// CLI represents the command line interface for plume.
type CLI struct {
	app        Application
	rootCmd    *cobra.Command
	configPath string
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Run(ctx context.Context, kinds []string, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
	Watch(ctx context.Context, opts app.WatchOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "plume",
		Short:         "Front-end asset pipeline with live reload",
		Long:          "plume builds html, stylesheets, scripts, images and fonts into an output tree.\nRun without a command it builds, watches and serves like `plume watch`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), app.WatchOptions{Options: c.options()})
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", domain.ConfigFileName,
		"Path to the configuration file")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// options returns the shared options. The default config name is looked up
// in the working directory and may be absent.
func (c *CLI) options() app.Options {
	if !c.rootCmd.PersistentFlags().Changed("config") {
		return app.Options{}
	}
	return app.Options{ConfigPath: c.configPath}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
