package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/keep/internal/ui/style"
)

type styles struct {
	title     lipgloss.Style
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	faint     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(style.Moss),
		running:   lipgloss.NewStyle().Foreground(style.Amber),
		completed: lipgloss.NewStyle().Foreground(style.Green),
		failed:    lipgloss.NewStyle().Foreground(style.Red),
		faint:     lipgloss.NewStyle().Foreground(style.Slate),
	}
}
