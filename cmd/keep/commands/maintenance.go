package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete an environment",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func (c *CLI) newGCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Evict expired environments and clean up leftovers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Prune(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Empty() {
				_, _ = fmt.Fprintln(out, "nothing to collect")
				return nil
			}
			if len(report.Expired) > 0 {
				_, _ = fmt.Fprintf(out, "expired: %s\n", strings.Join(report.Expired, ", "))
			}
			if len(report.Evicted) > 0 {
				_, _ = fmt.Fprintf(out, "evicted: %s\n", strings.Join(report.Evicted, ", "))
			}
			if len(report.Vanished) > 0 {
				_, _ = fmt.Fprintf(out, "vanished: %s\n", strings.Join(report.Vanished, ", "))
			}
			if len(report.Orphans) > 0 {
				_, _ = fmt.Fprintf(out, "orphans: %s\n", strings.Join(report.Orphans, ", "))
			}
			return nil
		},
	}
}

func (c *CLI) newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove every environment and reset the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				return fmt.Errorf("%w: purge removes every environment, pass --yes to confirm", ErrUsage)
			}

			removed, err := c.app.Purge(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d environment(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm removal of all environments")
	return cmd
}
