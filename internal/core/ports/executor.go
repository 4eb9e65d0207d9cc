package ports

import (
	"context"
	"io"
)

// Command describes one external command invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Env holds extra KEY=VALUE entries layered over the inherited
	// environment. A PATH entry is prepended to the inherited PATH rather
	// than replacing it.
	Env []string

	// Hermetic restricts the inherited environment to a small allowlist, for
	// commands whose outcome should not depend on the caller's environment.
	Hermetic bool
}

// Executor runs external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Capture runs the command and returns its stdout. A non-zero exit wraps
	// domain.ErrExecutionFailed with the exit code and a stderr tail in the
	// error context.
	Capture(ctx context.Context, cmd Command) (string, error)

	// Stream runs the command wired to the given streams, for commands whose
	// output belongs to the user. The returned error carries the exit code
	// the same way Capture does.
	Stream(ctx context.Context, cmd Command, stdin io.Reader, stdout, stderr io.Writer) error
}
