// Package uv materializes Python virtual environments with the uv binary.
package uv

import (
	"context"
	"os"
	"strings"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

// Build phases reported to the renderer.
const (
	PhaseCreate  = "create"
	PhaseInstall = "install"
	PhaseFreeze  = "freeze"
)

// Builder implements ports.Builder by shelling out to uv. Build commands run
// hermetically so the result does not depend on the caller's shell
// environment.
type Builder struct {
	executor ports.Executor
	renderer ports.Renderer

	uvPath     string
	indexURL   string
	includePip bool
}

// NewBuilder creates a Builder configured from cfg. The renderer receives
// phase transitions and the raw uv output.
func NewBuilder(executor ports.Executor, renderer ports.Renderer, cfg *domain.Config) *Builder {
	return &Builder{
		executor:   executor,
		renderer:   renderer,
		uvPath:     cfg.UvPath,
		indexURL:   cfg.IndexURL,
		includePip: cfg.IncludePip,
	}
}

// Build creates the virtual environment at req.TargetPath and installs the
// requested package set into it. A failed step removes the partial
// environment before returning.
func (b *Builder) Build(ctx context.Context, req ports.BuildRequest) (result *ports.BuildResult, err error) {
	defer func() {
		if err != nil {
			_ = os.RemoveAll(req.TargetPath)
		}
	}()

	if err := b.createEnvironment(ctx, req); err != nil {
		return nil, err
	}
	if err := b.installPackages(ctx, req); err != nil {
		return nil, err
	}
	return b.inspectEnvironment(ctx, req.TargetPath)
}

// ResolveLock pins a dependency set without creating an environment.
func (b *Builder) ResolveLock(ctx context.Context, runtimeConstraint string, dependencies []string) (string, error) {
	reqPath, cleanup, err := writeRequirementsFile(strings.Join(dependencies, "\n") + "\n")
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{"pip", "compile", "--no-header", "--no-annotate"}
	if runtimeConstraint != "" {
		args = append(args, "--python", runtimeConstraint)
	}
	if b.indexURL != "" {
		args = append(args, "--index-url", b.indexURL)
	}
	args = append(args, reqPath)

	contents, err := b.executor.Capture(ctx, ports.Command{
		Name:     b.uvPath,
		Args:     args,
		Hermetic: true,
	})
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve dependencies")
	}
	return contents, nil
}

func (b *Builder) createEnvironment(ctx context.Context, req ports.BuildRequest) error {
	b.renderer.OnBuildPhase(PhaseCreate)

	args := []string{"venv"}
	if req.RuntimeConstraint != "" {
		args = append(args, "--python", req.RuntimeConstraint)
	}
	if b.includePip {
		args = append(args, "--seed")
	}
	args = append(args, req.TargetPath)

	return b.runStep(ctx, PhaseCreate, args)
}

func (b *Builder) installPackages(ctx context.Context, req ports.BuildRequest) error {
	if req.LockContents == "" && len(req.Dependencies) == 0 {
		return nil
	}

	b.renderer.OnBuildPhase(PhaseInstall)

	args := []string{"pip", "install", "--python", domain.InterpreterPath(req.TargetPath)}
	if b.indexURL != "" {
		args = append(args, "--index-url", b.indexURL)
	}

	// Lock contents pin the exact package set and take precedence over the
	// loose dependency list.
	if req.LockContents != "" {
		reqPath, cleanup, err := writeRequirementsFile(req.LockContents)
		if err != nil {
			return err
		}
		defer cleanup()
		return b.runStep(ctx, PhaseInstall, append(args, "--requirement", reqPath))
	}

	return b.runStep(ctx, PhaseInstall, append(args, req.Dependencies...))
}

// inspectEnvironment reads the interpreter version and the installed package
// listing out of a finished environment.
func (b *Builder) inspectEnvironment(ctx context.Context, target string) (*ports.BuildResult, error) {
	b.renderer.OnBuildPhase(PhaseFreeze)

	interpreter := domain.InterpreterPath(target)

	version, err := b.executor.Capture(ctx, ports.Command{
		Name:     interpreter,
		Args:     []string{"--version"},
		Hermetic: true,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read interpreter version")
	}

	frozen, err := b.executor.Capture(ctx, ports.Command{
		Name:     b.uvPath,
		Args:     []string{"pip", "freeze", "--python", interpreter},
		Hermetic: true,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed packages")
	}

	return &ports.BuildResult{
		RuntimeVersion:   parseInterpreterVersion(version),
		InstalledModules: splitLines(frozen),
	}, nil
}

func (b *Builder) runStep(ctx context.Context, phase string, args []string) error {
	sink := &renderWriter{renderer: b.renderer}
	err := b.executor.Stream(ctx, ports.Command{
		Name:     b.uvPath,
		Args:     args,
		Hermetic: true,
	}, nil, sink, sink)
	if err != nil {
		return zerr.With(err, "phase", phase)
	}
	return nil
}

// renderWriter forwards command output to the renderer. The slice is copied
// because the renderer may hand it to another goroutine.
type renderWriter struct {
	renderer ports.Renderer
}

func (w *renderWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	w.renderer.OnBuildLog(buf)
	return len(p), nil
}

// writeRequirementsFile writes contents to a temporary requirements file and
// returns its path together with a cleanup function.
func writeRequirementsFile(contents string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "keep-requirements-*.txt")
	if err != nil {
		return "", nil, zerr.Wrap(err, "failed to create requirements file")
	}

	path = tmpFile.Name()
	cleanup = func() {
		_ = os.Remove(path)
	}

	if _, writeErr := tmpFile.WriteString(contents); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, zerr.Wrap(writeErr, "failed to write requirements file")
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, zerr.Wrap(closeErr, "failed to close requirements file")
	}

	return path, cleanup, nil
}

// parseInterpreterVersion extracts the bare version from "Python 3.12.4".
func parseInterpreterVersion(output string) string {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
