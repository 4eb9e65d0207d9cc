// Package commands implements the CLI commands for keep.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/build"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/engine/catalogue"
)

// ErrUsage marks command line mistakes so main can exit with a distinct
// code.
var ErrUsage = errors.New("invalid usage")

// CLI represents the command line interface for keep.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, scriptPath string, scriptArgs []string, opts app.RunOptions) error
	Lock(ctx context.Context, scriptPath string) error
	Watch(ctx context.Context, scriptPath string, opts app.RunOptions) error
	List(ctx context.Context) ([]*domain.Entry, error)
	Delete(ctx context.Context, name string) error
	Prune(ctx context.Context) (*catalogue.PruneReport, error)
	Purge(ctx context.Context) (int, error)
	Config() *domain.Config
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "keep [script] [args...]",
		Short:         "Run Python scripts in cached, isolated environments",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	rootCmd.PersistentFlags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")

	// Everything after the script path belongs to the script, not to keep.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	})

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	// A bare script path runs it, so `keep demo.py --flag` works without the
	// run subcommand.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return c.runScript(cmd, args)
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newGCCmd())
	rootCmd.AddCommand(c.newPurgeCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// exactArgs validates the positional count, reporting violations as usage
// errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", ErrUsage, err)
		}
		return nil
	}
}

// minimumArgs validates a lower bound on positionals, reporting violations
// as usage errors.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", ErrUsage, err)
		}
		return nil
	}
}

// outputMode resolves the rendering flags shared by run and watch.
func outputMode(cmd *cobra.Command) string {
	mode, _ := cmd.Flags().GetString("output-mode")
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		mode = "linear"
	}
	return mode
}
