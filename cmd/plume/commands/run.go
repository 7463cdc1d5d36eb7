package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/plume/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	names := make([]string, len(domain.AllKinds))
	for i, k := range domain.AllKinds {
		names[i] = k.String()
	}

	return &cobra.Command{
		Use:       "run [kinds...]",
		Short:     "Build the given asset kinds without cleaning",
		Long:      "Build the given asset kinds without cleaning. Kinds: " + strings.Join(names, ", ") + ".",
		Args:      cobra.ArbitraryArgs,
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.Run(cmd.Context(), args, c.options())
		},
	}
}
