package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script> [args...]",
		Short: "Run a script in its environment",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd, args)
		},
	}
	// Flags after the script path pass through to the script.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (c *CLI) runScript(cmd *cobra.Command, args []string) error {
	return c.app.Run(cmd.Context(), args[0], args[1:], app.RunOptions{
		OutputMode: outputMode(cmd),
	})
}
