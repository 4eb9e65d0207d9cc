package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build progress output.
// It decouples the engine from presentation, allowing the same event stream
// to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for
	// shutdown. It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnBuildStart is called when an environment build begins.
	// name: the catalogue entry name the build is for
	// fingerprint: the primary matching key being built
	OnBuildStart(name, fingerprint string, startTime time.Time)

	// OnBuildPhase is called when the build advances to a named phase,
	// e.g. "create", "install", "freeze".
	OnBuildPhase(phase string)

	// OnBuildLog is called when the builder emits output.
	// data may contain partial lines or ANSI sequences.
	OnBuildLog(data []byte)

	// OnBuildComplete is called when the build finishes.
	OnBuildComplete(endTime time.Time, err error)
}
