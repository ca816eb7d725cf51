package commands

import (
	"github.com/spf13/cobra"

	"github.com/arnevik/readygate/cmd/readygate/handlers"
)

// Init returns the command generating a starter validation plan.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter validation plan",
		Long: `Generate a starter validation plan.

On an interactive terminal this walks through a short wizard; otherwise
a commented example plan is written as-is.

Examples:
  readygate init
  readygate init -o production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "readygate.yaml", "Where to write the plan")

	return cmd
}
