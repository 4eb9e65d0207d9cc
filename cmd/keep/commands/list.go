package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/ui/style"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "no environments")
				return nil
			}

			_, _ = fmt.Fprintln(out, renderEntryTable(entries))
			return nil
		},
	}
}

// renderEntryTable lays out the catalogue listing. Lipgloss drops the
// styling on non-terminals and under NO_COLOR, so the same render serves
// both cases.
func renderEntryTable(entries []*domain.Entry) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(style.Slate)
	faint := lipgloss.NewStyle().Faint(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faint).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("NAME", "POOL", "RUNTIME", "AGE", "LAST USED", "PATH")

	now := time.Now()
	for _, entry := range entries {
		t.Row(
			entry.Name,
			describePool(entry),
			entry.RuntimeVersion,
			formatAge(now.Sub(entry.CreatedAt)),
			formatAge(now.Sub(entry.LastUsedAt)),
			entry.Path,
		)
	}
	return t.Render()
}

// describePool names the partition, with the owning application for named
// environments.
func describePool(entry *domain.Entry) string {
	if entry.Pool == domain.PoolApplication {
		return fmt.Sprintf("app %s/%s@%s", entry.Owner, entry.AppName, entry.AppVersion)
	}
	return "temp"
}

func formatAge(since time.Duration) string {
	switch {
	case since < time.Minute:
		return "just now"
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(since.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(since.Hours()/24))
	}
}
