package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <script>",
		Short: "Pin the script's dependencies to a lock file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Lock(cmd.Context(), args[0])
		},
	}
}
