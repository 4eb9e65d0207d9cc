// Package app implements the application layer, orchestrating script
// execution against the environment catalogue.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/keep/internal/adapters/detector"
	"go.trai.ch/keep/internal/adapters/linear"
	"go.trai.ch/keep/internal/adapters/tui"
	"go.trai.ch/keep/internal/adapters/uv"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/catalogue"
)

// App coordinates spec reading, environment resolution and script execution.
type App struct {
	specReader ports.SpecReader
	lockStore  ports.LockStore
	store      ports.CatalogueStore
	locker     ports.Locker
	executor   ports.Executor
	watcher    ports.Watcher
	logger     ports.Logger
	tracer     ports.Tracer
	cfg        *domain.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	teaOptions []tea.ProgramOption
}

// Option configures an App.
type Option func(*App)

// WithTeaOptions sets additional Bubble Tea program options, used by tests to
// run the TUI headless.
func WithTeaOptions(opts ...tea.ProgramOption) Option {
	return func(a *App) {
		a.teaOptions = append(a.teaOptions, opts...)
	}
}

// WithStreams redirects the standard streams the app hands to scripts and
// renderers. Defaults to the process streams.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdin = stdin
		a.stdout = stdout
		a.stderr = stderr
	}
}

// New creates the application layer from its ports.
func New(
	specReader ports.SpecReader,
	lockStore ports.LockStore,
	store ports.CatalogueStore,
	locker ports.Locker,
	executor ports.Executor,
	watcher ports.Watcher,
	logger ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Config,
	opts ...Option,
) *App {
	a := &App{
		specReader: specReader,
		lockStore:  lockStore,
		store:      store,
		locker:     locker,
		executor:   executor,
		watcher:    watcher,
		logger:     logger,
		tracer:     tracer,
		cfg:        cfg,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunOptions carries per-invocation flags.
type RunOptions struct {
	// OutputMode overrides progress rendering: "auto", "tui", "linear" or "ci".
	OutputMode string
}

// Run resolves the script's environment and executes the script in it,
// passing scriptArgs through to the interpreter.
func (a *App) Run(ctx context.Context, scriptPath string, scriptArgs []string, opts RunOptions) error {
	res, err := a.Resolve(ctx, scriptPath, opts)
	if err != nil {
		return err
	}
	return a.execScript(ctx, res.Entry, scriptPath, scriptArgs)
}

// Resolve reads the script's metadata and returns a ready environment for it,
// building one if the catalogue has no match.
func (a *App) Resolve(ctx context.Context, scriptPath string, opts RunOptions) (*catalogue.Result, error) {
	spec, err := a.specReader.Read(scriptPath)
	if err != nil {
		return nil, err
	}

	spec, err = a.attachLock(scriptPath, spec)
	if err != nil {
		return nil, err
	}

	return a.resolveSpec(ctx, spec, opts)
}

// attachLock binds the script-adjacent lock file to the spec. A lock resolved
// from a different dependency block is stale and would pin the wrong package
// set, so it is ignored with a warning instead.
func (a *App) attachLock(scriptPath string, spec *domain.Spec) (*domain.Spec, error) {
	contents, lockFingerprint, err := a.lockStore.Read(scriptPath)
	if err != nil {
		return nil, err
	}
	if contents == "" {
		return spec, nil
	}
	if lockFingerprint != "" && lockFingerprint != spec.Fingerprint() {
		a.logger.Warn(fmt.Sprintf("%s is stale, run `keep lock` to refresh it", domain.ScriptLockPath(scriptPath)))
		return spec, nil
	}
	return spec.WithLock(contents), nil
}

// resolveSpec runs the catalogue lookup with a live progress renderer. The
// renderer and the engine run in separate goroutines; the engine routine owns
// stopping the renderer so a finished or failed build always releases the
// terminal.
func (a *App) resolveSpec(ctx context.Context, spec *domain.Spec, opts RunOptions) (*catalogue.Result, error) {
	renderer := a.newRenderer(ctx, opts)
	cat := a.newCatalogue(renderer)

	var res *catalogue.Result

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(a.stderr, "panic during environment resolution: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		var err error
		res, err = cat.FindOrCreate(gctx, spec)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// newRenderer picks the progress renderer for this invocation. Progress goes
// to stderr since stdout belongs to the script.
func (a *App) newRenderer(ctx context.Context, opts RunOptions) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	if mode == detector.ModeTUI {
		teaOpts := append([]tea.ProgramOption{
			tea.WithContext(ctx),
			tea.WithOutput(a.stderr),
		}, a.teaOptions...)
		return tui.NewRenderer(tui.NewModel(), teaOpts...)
	}
	return linear.NewRenderer(a.stderr)
}

func (a *App) newCatalogue(renderer ports.Renderer) *catalogue.Catalogue {
	builder := uv.NewBuilder(a.executor, renderer, a.cfg)
	return catalogue.NewCatalogue(a.store, a.locker, builder, renderer, a.logger, a.tracer, a.cfg, a.cfg.DataDir)
}

// quietCatalogue wires a linear renderer for operations that never build;
// an unstarted renderer drops events.
func (a *App) quietCatalogue() *catalogue.Catalogue {
	return a.newCatalogue(linear.NewRenderer(a.stderr))
}

// execScript runs the script with the environment's interpreter, with the
// environment's bin directory first on PATH and VIRTUAL_ENV set, matching
// what an activated environment looks like to child processes.
func (a *App) execScript(ctx context.Context, entry *domain.Entry, scriptPath string, args []string) error {
	interpreter := domain.InterpreterPath(entry.Path)
	if _, err := os.Stat(interpreter); err != nil {
		return zerr.With(domain.ErrInterpreterMissing, "path", interpreter)
	}

	cmd := ports.Command{
		Name: interpreter,
		Args: append([]string{scriptPath}, args...),
		Env: []string{
			"VIRTUAL_ENV=" + entry.Path,
			"PATH=" + domain.EnvBinPath(entry.Path),
		},
	}
	if err := a.executor.Stream(ctx, cmd, a.stdin, a.stdout, a.stderr); err != nil {
		return errors.Join(domain.ErrScriptFailed, err)
	}
	return nil
}

// Lock resolves the script's dependencies and writes the pinned package set
// next to the script.
func (a *App) Lock(ctx context.Context, scriptPath string) error {
	spec, err := a.specReader.Read(scriptPath)
	if err != nil {
		return err
	}

	builder := uv.NewBuilder(a.executor, linear.NewRenderer(a.stderr), a.cfg)
	contents, err := builder.ResolveLock(ctx, spec.RuntimeConstraint, spec.Dependencies)
	if err != nil {
		return err
	}

	if err := a.lockStore.Write(scriptPath, contents, spec.Fingerprint()); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("wrote %s", domain.ScriptLockPath(scriptPath)))
	return nil
}

// List returns all catalogue entries.
func (a *App) List(ctx context.Context) ([]*domain.Entry, error) {
	return a.quietCatalogue().List(ctx)
}

// Delete removes the named environment from the catalogue and from disk.
func (a *App) Delete(ctx context.Context, name string) error {
	return a.quietCatalogue().Delete(ctx, name)
}

// Prune evicts expired temporary environments and drops records whose
// directories vanished.
func (a *App) Prune(ctx context.Context) (*catalogue.PruneReport, error) {
	return a.quietCatalogue().Prune(ctx)
}

// Purge removes every environment and resets the catalogue.
func (a *App) Purge(ctx context.Context) (int, error) {
	return a.quietCatalogue().Purge(ctx)
}

// Config returns the resolved configuration.
func (a *App) Config() *domain.Config {
	return a.cfg
}

// Watch resolves the script's environment, then re-resolves on every change
// to the file until ctx is cancelled or the script disappears. Edits to the
// dependency block surface as fresh builds; unrelated edits reuse the
// existing environment.
func (a *App) Watch(ctx context.Context, scriptPath string, opts RunOptions) error {
	// The watch loop interleaves its own log lines with build progress, so
	// force the linear renderer.
	opts.OutputMode = "linear"

	if res, err := a.Resolve(ctx, scriptPath, opts); err != nil {
		a.logger.Error(err)
	} else {
		a.logger.Info(fmt.Sprintf("%s %s (%s)", res.Entry.Name, res.Entry.Path, res.Outcome))
	}

	if err := a.watcher.Start(ctx, scriptPath); err != nil {
		return errors.Join(domain.ErrWatchFailed, err)
	}
	stopOnCancel := context.AfterFunc(ctx, func() { _ = a.watcher.Stop() })
	defer stopOnCancel()
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info(fmt.Sprintf("watching %s", scriptPath))

	for event := range a.watcher.Events() {
		if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
			a.logger.Warn(fmt.Sprintf("%s is gone, stopping", scriptPath))
			return nil
		}

		res, err := a.Resolve(ctx, scriptPath, opts)
		if err != nil {
			a.logger.Error(err)
			continue
		}
		a.logger.Info(fmt.Sprintf("%s %s (%s)", res.Entry.Name, res.Entry.Path, res.Outcome))
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
