package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <script>",
		Short: "Rebuild the script's environment on every change",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args[0], app.RunOptions{
				OutputMode: outputMode(cmd),
			})
		},
	}
}
