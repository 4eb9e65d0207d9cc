// Package shell runs external commands for the builder and the script runner.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTailLimit bounds how much captured stderr travels in error metadata.
const stderrTailLimit = 2048

// allowListedEnvVars are the system environment variables a hermetic command
// may inherit. Everything else has to come through the command's own overlay
// so builds do not pick up stray caller state.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// Executor implements ports.Executor using os/exec.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Capture runs the command and returns its stdout. On a non-zero exit the
// error carries the exit code and a stderr tail as metadata.
func (e *Executor) Capture(ctx context.Context, cmd ports.Command) (string, error) {
	var stdout, stderr bytes.Buffer
	if err := run(ctx, cmd, nil, &stdout, &stderr); err != nil {
		return "", zerr.With(err, "stderr", tailOf(stderr.String()))
	}
	return stdout.String(), nil
}

// Stream runs the command wired to the given streams.
func (e *Executor) Stream(ctx context.Context, cmd ports.Command, stdin io.Reader, stdout, stderr io.Writer) error {
	return run(ctx, cmd, stdin, stdout, stderr)
}

func run(ctx context.Context, cmd ports.Command, stdin io.Reader, stdout, stderr io.Writer) error {
	//nolint:gosec // command names come from configuration and parsed specs
	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = resolveEnvironment(os.Environ(), cmd)
	execCmd.Stdin = stdin
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	err := execCmd.Run()
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrExecutionFailed.Error()), "command", cmd.Name)
	return zerr.With(wrapped, "exit_code", exitCode)
}

// resolveEnvironment builds the command environment. Hermetic commands start
// from the system allowlist, everything else inherits the full environment.
// The command's own entries are layered on top, with PATH prepended instead
// of replaced.
func resolveEnvironment(sysEnv []string, cmd ports.Command) []string {
	envMap := make(map[string]string, len(sysEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if cmd.Hermetic {
			if _, allowed := allowListedEnvVars[k]; !allowed {
				continue
			}
		}
		envMap[k] = v
	}

	for _, entry := range cmd.Env {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if base, exists := envMap["PATH"]; exists && base != "" {
				envMap[k] = v + string(os.PathListSeparator) + base
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// tailOf returns the end of s bounded by stderrTailLimit, trimmed of
// trailing whitespace.
func tailOf(s string) string {
	s = strings.TrimRight(s, "\n\r\t ")
	if len(s) > stderrTailLimit {
		return s[len(s)-stderrTailLimit:]
	}
	return s
}
