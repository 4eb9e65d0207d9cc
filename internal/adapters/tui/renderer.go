package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnBuildStart forwards the build start event to the TUI.
func (r *Renderer) OnBuildStart(name, fingerprint string, startTime time.Time) {
	r.program.Send(MsgBuildStart{
		Name:        name,
		Fingerprint: fingerprint,
		StartTime:   startTime,
	})
}

// OnBuildPhase forwards a phase transition to the TUI.
func (r *Renderer) OnBuildPhase(phase string) {
	r.program.Send(MsgBuildPhase{Phase: phase})
}

// OnBuildLog forwards builder output to the TUI.
func (r *Renderer) OnBuildLog(data []byte) {
	r.program.Send(MsgBuildLog{Data: data})
}

// OnBuildComplete forwards the build result to the TUI.
func (r *Renderer) OnBuildComplete(endTime time.Time, err error) {
	r.program.Send(MsgBuildComplete{EndTime: endTime, Err: err})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
