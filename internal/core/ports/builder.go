// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
)

// BuildRequest describes one environment to materialize.
type BuildRequest struct {
	// TargetPath is the directory the environment is created at. The builder
	// owns the directory and removes partial state when the build fails.
	TargetPath string

	// RuntimeConstraint is the interpreter version range, e.g. ">=3.11".
	RuntimeConstraint string

	// Dependencies are requirement strings to install.
	Dependencies []string

	// LockContents, when non-empty, pins the exact package set; the builder
	// installs from it instead of resolving Dependencies.
	LockContents string
}

// BuildResult reports what the builder materialized.
type BuildResult struct {
	// RuntimeVersion is the interpreter version the builder selected.
	RuntimeVersion string

	// InstalledModules is the resolved package==version listing present in
	// the finished environment.
	InstalledModules []string
}

// Builder materializes isolated runtime environments on disk.
//
// A failed build must leave no environment at TargetPath; the catalogue
// records an entry only after Build returns success.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// Build creates the environment and installs its packages.
	Build(ctx context.Context, req BuildRequest) (*BuildResult, error)

	// ResolveLock resolves a dependency set to pinned lock contents without
	// building an environment.
	ResolveLock(ctx context.Context, runtimeConstraint string, dependencies []string) (string, error)
}
