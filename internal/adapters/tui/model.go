// Package tui renders build progress as a compact interactive status line.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/keep/internal/ui/output"
	"go.trai.ch/keep/internal/ui/style"
)

const (
	// shortFingerprint is the displayed fingerprint length.
	shortFingerprint = 12

	// logTailLines is how many recent builder output lines stay visible
	// under the status line.
	logTailLines = 4
)

// Model is the Bubble Tea model for a single environment build. It shows the
// entry name, the current phase with a spinner and a short tail of builder
// output.
type Model struct {
	name        string
	fingerprint string
	phase       string
	startTime   time.Time

	done     bool
	err      error
	duration time.Duration

	logTail []string
	partial string

	spinner spinner.Model
	styles  styles
	width   int
}

// NewModel creates a new TUI model. The global lipgloss profile follows the
// detected terminal so NO_COLOR and dumb terminals degrade gracefully.
func NewModel() Model {
	lipgloss.SetColorProfile(output.Profile())

	st := defaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.running

	return Model{
		spinner: sp,
		styles:  st,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgBuildStart:
		m.name = msg.Name
		m.fingerprint = msg.Fingerprint
		if len(m.fingerprint) > shortFingerprint {
			m.fingerprint = m.fingerprint[:shortFingerprint]
		}
		m.startTime = msg.StartTime
		m.phase = ""
		m.done = false
		m.err = nil
		m.logTail = nil
		m.partial = ""
		return m, m.spinner.Tick

	case MsgBuildPhase:
		m.phase = msg.Phase
		return m, nil

	case MsgBuildLog:
		m.appendLog(msg.Data)
		return m, nil

	case MsgBuildComplete:
		m.done = true
		m.err = msg.Err
		m.duration = msg.EndTime.Sub(m.startTime)
		return m, nil
	}

	return m, nil
}

// appendLog folds raw builder output into the visible tail, keeping an
// incomplete trailing line for the next chunk.
func (m *Model) appendLog(data []byte) {
	text := m.partial + string(data)
	lines := strings.Split(text, "\n")
	m.partial = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		m.logTail = append(m.logTail, line)
	}
	if len(m.logTail) > logTailLines {
		m.logTail = m.logTail[len(m.logTail)-logTailLines:]
	}
}

// View renders the current build state.
func (m Model) View() string {
	if m.name == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.name))
	b.WriteString(" ")
	b.WriteString(m.styles.faint.Render(m.fingerprint))
	b.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(m.styles.failed.Render(fmt.Sprintf("%s failed after %v", style.Cross, m.duration)))
		b.WriteString("\n")
		for _, line := range m.logTail {
			b.WriteString("  " + m.styles.faint.Render(m.clamp(line)) + "\n")
		}
	case m.done:
		b.WriteString(m.styles.completed.Render(fmt.Sprintf("%s ready in %v", style.Check, m.duration)))
		b.WriteString("\n")
	default:
		phase := m.phase
		if phase == "" {
			phase = "starting"
		}
		b.WriteString(m.spinner.View() + " " + phase + "\n")
		for _, line := range m.logTail {
			b.WriteString("  " + m.styles.faint.Render(m.clamp(line)) + "\n")
		}
	}

	return b.String()
}

// clamp truncates a log line to the terminal width.
func (m Model) clamp(line string) string {
	if m.width <= 4 {
		return line
	}
	limit := m.width - 4
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	return string(runes[:limit])
}
