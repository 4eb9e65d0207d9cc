package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := c.app.Config()
			out := cmd.OutOrStdout()

			// Keys mirror keep.yaml so the output can be pasted back into a
			// config file.
			_, _ = fmt.Fprintf(out, "cache_size: %d\n", cfg.TempCapacity)
			_, _ = fmt.Fprintf(out, "cache_lifetime: %s\n", cfg.TempLifetime)
			_, _ = fmt.Fprintf(out, "lock_timeout: %s\n", cfg.LockTimeout)
			_, _ = fmt.Fprintf(out, "index_url: %q\n", cfg.IndexURL)
			_, _ = fmt.Fprintf(out, "include_pip: %t\n", cfg.IncludePip)
			_, _ = fmt.Fprintf(out, "uv_path: %s\n", cfg.UvPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
			_, _ = fmt.Fprintf(out, "telemetry: %t\n", cfg.Telemetry)
		},
	}
}
