// Package main is the entry point for the keep script runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/cmd/keep/commands"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/core/domain"
	_ "go.trai.ch/keep/internal/wiring"
	"go.trai.ch/zerr"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...app.Option,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, commands.ErrUsage):
			_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
			return 2
		case errors.Is(err, domain.ErrScriptFailed):
			// The script already reported its own failure on stderr; pass
			// its exit code through without re-logging.
			if code := exitCode(err); code > 0 {
				return code
			}
			return 1
		default:
			components.Logger.Error(err)
			return 1
		}
	}
	return 0
}

// exitCode digs the script's exit status out of the error chain. errors.As
// would stop at the first match even when a deeper node carries the
// metadata, so the chain is walked manually.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if zr, ok := err.(*zerr.Error); ok {
		if code, ok := zr.Metadata()["exit_code"].(int); ok {
			return code
		}
	}
	switch chain := err.(type) {
	case interface{ Unwrap() error }:
		return exitCode(chain.Unwrap())
	case interface{ Unwrap() []error }:
		for _, sub := range chain.Unwrap() {
			if code := exitCode(sub); code > 0 {
				return code
			}
		}
	}
	return 0
}
